package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/varunkk24/portfolio/internal/analytics"
	"github.com/varunkk24/portfolio/internal/contact"
	"github.com/varunkk24/portfolio/internal/render"
	"github.com/varunkk24/portfolio/internal/viewstate"
)

// controller builds the per-request view state from the visitor's cookies.
func (s *Server) controller(c *gin.Context) *viewstate.Controller {
	return viewstate.New(newCookieStorage(c), s.store)
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// doNotTrack reports whether the visitor sent DNT: 1.
func doNotTrack(c *gin.Context) bool {
	return c.GetHeader("DNT") == "1"
}

func (s *Server) record(c *gin.Context, kind analytics.Kind, subject string) {
	if s.deps.Tracker == nil || doNotTrack(c) {
		return
	}
	if err := s.deps.Tracker.RecordInteraction(c.Request.Context(), kind, subject); err != nil {
		log.Printf("Error recording %s interaction: %v", kind, err)
	}
}

// formValue reads a posted field, falling back to the query string.
func formValue(c *gin.Context, key string) (string, bool) {
	if v, ok := c.GetPostForm(key); ok {
		return v, true
	}
	return c.GetQuery(key)
}

func formFloat(c *gin.Context, key string) float64 {
	raw, _ := formValue(c, key)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// useReportedTheme switches the controller to the theme the page is
// actually showing, which can differ from the cookie when another tab
// toggled it. Missing or unparsable values keep the stored theme.
func useReportedTheme(c *gin.Context, ctrl *viewstate.Controller) {
	raw, ok := formValue(c, "dark")
	if !ok {
		return
	}
	if dark, err := strconv.ParseBool(raw); err == nil {
		ctrl.SetTheme(dark)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	ctrl := s.controller(c)
	ctrl.Restore(c.QueryArray("expanded"))
	c.HTML(http.StatusOK, "index.html", render.Build(s.store, ctrl))
}

// handleNav re-renders the navigation for the client's current scroll
// offset and viewport height.
func (s *Server) handleNav(c *gin.Context) {
	ctrl := s.controller(c)
	useReportedTheme(c, ctrl)
	ctrl.OnScroll(formFloat(c, "offset"), formFloat(c, "viewport"))
	c.HTML(http.StatusOK, "nav", render.BuildNav(ctrl))
}

// handleTheme flips the theme and nothing else. HTMX clients get the nav
// fragment for their current scroll position plus a themeChanged event
// that sets the root dark class, so the skill grid is never re-rendered.
// Plain form posts carry the open categories, which survive the redirect.
func (s *Server) handleTheme(c *gin.Context) {
	ctrl := s.controller(c)
	useReportedTheme(c, ctrl)
	ctrl.Restore(c.PostFormArray("expanded"))
	dark := ctrl.ToggleTheme()

	subject := "light"
	if dark {
		subject = "dark"
	}
	s.record(c, analytics.KindTheme, subject)

	if isHTMX(c) {
		ctrl.OnScroll(formFloat(c, "offset"), formFloat(c, "viewport"))
		trigger, err := json.Marshal(gin.H{"themeChanged": gin.H{"dark": dark}})
		if err == nil {
			c.Header("HX-Trigger", string(trigger))
		}
		c.HTML(http.StatusOK, "nav", render.BuildNav(ctrl))
		return
	}
	c.Redirect(http.StatusSeeOther, homeURL(ctrl.ExpandedSkills(), ""))
}

// homeURL is the page address carrying an expanded set and an optional
// anchor.
func homeURL(expanded []string, anchor string) string {
	target := "/"
	if q := render.ExpandedQuery(expanded); q != "" {
		target += "?" + q
	}
	if anchor != "" {
		target += "#" + anchor
	}
	return target
}

// handleToggleSkill flips one category. The client posts the currently
// expanded names along with the one clicked; nothing is kept server-side.
func (s *Server) handleToggleSkill(c *gin.Context) {
	ctrl := s.controller(c)
	ctrl.Restore(c.PostFormArray("expanded"))

	name := c.PostForm("name")
	if ctrl.ToggleSkill(name) {
		s.record(c, analytics.KindSkill, name)
	}

	if isHTMX(c) {
		c.HTML(http.StatusOK, "expertise", render.BuildExpertise(s.store, ctrl))
		return
	}

	c.Redirect(http.StatusSeeOther, homeURL(ctrl.ExpandedSkills(), "expertise"))
}

// handleContact answers with a mailto link built from the form. When SMTP
// is configured the message is also relayed; relay failures only get logged.
// Submissions are stored for the dashboard unless the visitor sent DNT.
func (s *Server) handleContact(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBind(&sub); err != nil {
		c.HTML(http.StatusBadRequest, "contact-error", "Could not read the form.")
		return
	}
	if err := sub.Validate(); err != nil {
		c.HTML(http.StatusUnprocessableEntity, "contact-error", "Please fill in your name, email and message.")
		return
	}

	relayed := false
	if s.deps.Mailer != nil {
		if err := s.deps.Mailer.Send(sub); err != nil && !errors.Is(err, contact.ErrNotConfigured) {
			log.Printf("Error relaying contact message: %v", err)
		} else if err == nil {
			relayed = true
		}
	}

	if s.deps.Tracker != nil && !doNotTrack(c) {
		if _, err := s.deps.Tracker.RecordMessage(c.Request.Context(), sub.Name, sub.Email, sub.Message, relayed); err != nil {
			log.Printf("Error storing contact message: %v", err)
		}
	}

	link := contact.MailtoURL(s.cfg.Recipient, sub)
	if isHTMX(c) {
		c.Header("HX-Redirect", link)
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, link)
}

// handleContent exposes the content store as JSON.
func (s *Server) handleContent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profile":      s.store.Profile(),
		"expertise":    s.store.Expertise(),
		"education":    s.store.Education(),
		"experience":   s.store.Experience(),
		"projects":     s.store.Projects(),
		"certificates": s.store.Certificates(),
	})
}

// handleProject looks up one project by title.
func (s *Server) handleProject(c *gin.Context) {
	p, ok := s.store.Project(c.Param("title"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p, "visual": render.ProjectVisual(p.Title)})
}

func (s *Server) handlePrivacy(c *gin.Context) {
	page := gin.H{
		"Title":           "Privacy Policy",
		"Name":            s.store.Profile().Name,
		"Email":           s.store.Profile().Email,
		"Tracking":        s.deps.Tracker != nil,
		"RetentionMonths": 12,
		"RootClass":       "",
	}
	if s.controller(c).Dark() {
		page["RootClass"] = "dark"
	}
	c.HTML(http.StatusOK, "privacy.html", page)
}
