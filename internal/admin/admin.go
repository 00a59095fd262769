// Package admin serves the password-protected analytics dashboard.
package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/varunkk24/portfolio/internal/analytics"
)

const tokenCookie = "admin_token"

// visitorsPerPage is the page size of the visitor listing.
const visitorsPerPage = 50

// Credentials are the single admin login.
type Credentials struct {
	Username string
	Password string
}

type Admin struct {
	tracker *analytics.Tracker
	creds   Credentials
	token   string
}

// New issues a fresh session token, so logins do not survive a restart.
func New(tracker *analytics.Tracker, creds Credentials) *Admin {
	a := &Admin{tracker: tracker, creds: creds, token: generateToken()}
	log.Printf("Admin access available at: /admin/login")
	return a
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(b)
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// authMiddleware redirects to the login page unless the token cookie matches.
func (a *Admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(tokenCookie)
		if err != nil || !equal(token, a.token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RegisterRoutes mounts the login flow and the protected /admin group.
func (a *Admin) RegisterRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		// Both comparisons always run.
		userOK := equal(username, a.creds.Username)
		passOK := equal(password, a.creds.Password)
		if userOK && passOK {
			c.SetCookie(tokenCookie, a.token, 3600*24, "/admin", "", c.Request.TLS != nil, true)
			log.Printf("Admin login successful from %s", a.tracker.HashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		log.Printf("Failed admin login attempt from %s", a.tracker.HashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(tokenCookie, "", -1, "/admin", "", c.Request.TLS != nil, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(a.authMiddleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.tracker.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		messages, err := a.tracker.Messages(c.Request.Context(), 50)
		if err != nil {
			log.Printf("Error loading contact messages: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load messages"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats, "messages": messages})
	})

	g.GET("/visitors", func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		// One extra row tells whether a next page exists.
		visitors, err := a.tracker.Visitors(c.Request.Context(), visitorsPerPage+1, (page-1)*visitorsPerPage)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		next := 0
		if len(visitors) > visitorsPerPage {
			visitors = visitors[:visitorsPerPage]
			next = page + 1
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
			"page":     page,
			"prev":     page - 1,
			"next":     next,
		})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/api/messages", func(c *gin.Context) {
		messages, err := a.tracker.Messages(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, messages)
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", a.tracker.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := a.tracker.Cleanup(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})
}
