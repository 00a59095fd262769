// Package server wires the portfolio pages and HTMX fragments into a gin
// engine.
package server

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/varunkk24/portfolio/internal/admin"
	"github.com/varunkk24/portfolio/internal/analytics"
	"github.com/varunkk24/portfolio/internal/contact"
	"github.com/varunkk24/portfolio/internal/content"
	"github.com/varunkk24/portfolio/internal/render"
)

type Config struct {
	Port      int
	StaticDir string
	ImagesDir string
	// Recipient receives contact links; the profile email when empty.
	Recipient string
}

// Deps are the optional collaborators. Nil fields disable the feature.
type Deps struct {
	Tracker *analytics.Tracker
	Mailer  *contact.Mailer
	Admin   *admin.Admin
}

type Server struct {
	cfg        Config
	store      *content.Store
	deps       Deps
	tmpl       *template.Template
	router     *gin.Engine
	httpServer *http.Server
}

func New(cfg Config, store *content.Store, deps Deps) (*Server, error) {
	tmpl, err := render.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if cfg.Recipient == "" {
		cfg.Recipient = store.Profile().Email
	}

	s := &Server{cfg: cfg, store: store, deps: deps, tmpl: tmpl}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(s.tmpl)

	if s.deps.Tracker != nil {
		r.Use(s.deps.Tracker.Middleware())
	}

	for prefix, dir := range map[string]string{"/static": s.cfg.StaticDir, "/images": s.cfg.ImagesDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err == nil {
			r.Static(prefix, dir)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", s.handleIndex)
	r.GET("/privacy", s.handlePrivacy)
	r.GET("/nav", s.handleNav)
	r.POST("/theme", s.handleTheme)
	r.POST("/skills/toggle", s.handleToggleSkill)
	r.POST("/contact", s.handleContact)
	r.GET("/api/content", s.handleContent)
	r.GET("/api/projects/:title", s.handleProject)

	if s.deps.Admin != nil {
		s.deps.Admin.RegisterRoutes(r)
	}
	return r
}

// Router exposes the engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("portfolio listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
