package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/iomreport/internal/config"
)

const (
	DefaultCookieName = "_iom_admin"
	ViewCookieName    = "_iom_view"
)

// Manager reads and writes the admin token and the selected view.
type Manager struct {
	cookieName string
	secure     bool
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cookieName: DefaultCookieName,
		secure:     cfg.AuthCookieSecure,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	return m.read(c, m.cookieName)
}

func (m *Manager) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	m.write(c, m.cookieName, token, maxAge)
}

func (m *Manager) Clear(c *gin.Context) {
	m.write(c, m.cookieName, "", -1)
}

// ReadView returns the selected screen; anything unknown reads as "view".
func (m *Manager) ReadView(c *gin.Context) string {
	view, _ := m.read(c, ViewCookieName)
	if view == "admin" {
		return view
	}
	return "view"
}

// SetView remembers the selected screen for the browser session.
func (m *Manager) SetView(c *gin.Context, view string) {
	m.write(c, ViewCookieName, view, 0)
}

func (m *Manager) read(c *gin.Context, name string) (string, bool) {
	value, err := c.Cookie(name)
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (m *Manager) write(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}
