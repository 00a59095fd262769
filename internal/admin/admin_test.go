package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/varunkk24/portfolio/internal/analytics"
	"github.com/varunkk24/portfolio/internal/render"
)

func newTestRouter(t *testing.T) (*gin.Engine, *analytics.Tracker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := analytics.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	tracker := analytics.NewTracker(db, "salt").Synchronous()

	tmpl, err := render.Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	New(tracker, Credentials{Username: "admin", Password: "hunter2"}).RegisterRoutes(r)
	return r, tracker
}

func login(t *testing.T, r *gin.Engine, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {user}, "password": {pass}}
	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == tokenCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("expected admin token cookie")
	return nil
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	w := login(t, r, "admin", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Error("expected error message in login page")
	}
}

func TestDashboardRequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/dashboard", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("expected forged token to be rejected, got %d", w.Code)
	}
}

func TestLoginAndDashboard(t *testing.T) {
	r, tracker := newTestRouter(t)
	ctx := context.Background()
	if err := tracker.RecordVisit(ctx, "192.0.2.1", "test", "/"); err != nil {
		t.Fatal(err)
	}
	if err := tracker.RecordInteraction(ctx, analytics.KindSkill, "AI/ML"); err != nil {
		t.Fatal(err)
	}
	if _, err := tracker.RecordMessage(ctx, "Jane", "jane@x.com", "Hi", false); err != nil {
		t.Fatal(err)
	}

	w := login(t, r, "admin", "hunter2")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %d", w.Code)
	}
	cookie := sessionCookie(t, w)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Visitors: 1", "AI/ML: 1", "jane@x.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected dashboard to contain %q", want)
		}
	}

	req = httptest.NewRequest("GET", "/admin/api/stats", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var stats analytics.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.TotalVisitors != 1 || stats.Contacts != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/logout", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == tokenCookie && c.MaxAge >= 0 {
			t.Errorf("expected cookie to be expired, got MaxAge %d", c.MaxAge)
		}
	}
}

func TestPrivacyCleanup(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := sessionCookie(t, login(t, r, "admin", "hunter2"))

	req := httptest.NewRequest("POST", "/admin/privacy/cleanup", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestVisitorsListing(t *testing.T) {
	r, tracker := newTestRouter(t)
	ctx := context.Background()
	for i := 0; i < visitorsPerPage+1; i++ {
		if err := tracker.RecordVisit(ctx, "192.0.2.1", "test", "/"); err != nil {
			t.Fatal(err)
		}
	}
	cookie := sessionCookie(t, login(t, r, "admin", "hunter2"))

	get := func(path string) string {
		t.Helper()
		req := httptest.NewRequest("GET", path, nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		return w.Body.String()
	}

	first := get("/admin/visitors")
	if got := strings.Count(first, tracker.HashIP("192.0.2.1")); got != visitorsPerPage {
		t.Errorf("expected %d rows on the first page, got %d", visitorsPerPage, got)
	}
	if !strings.Contains(first, "/admin/visitors?page=2") {
		t.Error("expected a link to the next page")
	}

	second := get("/admin/visitors?page=2")
	if got := strings.Count(second, tracker.HashIP("192.0.2.1")); got != 1 {
		t.Errorf("expected 1 row on the second page, got %d", got)
	}
	if strings.Contains(second, "page=3") {
		t.Error("expected no link past the last page")
	}
	if !strings.Contains(second, "/admin/visitors?page=1") {
		t.Error("expected a link back to the first page")
	}
}

func TestVisitorsRequiresLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin/visitors", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}
}
