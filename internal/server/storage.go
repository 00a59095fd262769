package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// cookieMaxAge keeps the theme for a year.
const cookieMaxAge = 365 * 24 * 3600

// cookieStorage keeps view-state values in browser cookies, the server-side
// stand-in for the browser's local storage. Writes are visible to later
// reads in the same request.
type cookieStorage struct {
	c       *gin.Context
	written map[string]string
}

func newCookieStorage(c *gin.Context) *cookieStorage {
	return &cookieStorage{c: c, written: make(map[string]string)}
}

func (s *cookieStorage) Get(key string) (string, bool) {
	if v, ok := s.written[key]; ok {
		return v, true
	}
	v, err := s.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *cookieStorage) Set(key, value string) {
	s.written[key] = value
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, cookieMaxAge, "/", "", s.c.Request.TLS != nil, false)
}
