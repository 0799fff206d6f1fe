package middleware

import (
	"net/http"

	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/infrastructure/config"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// Session is the signed cookie session of the current request
type Session struct {
	values  services.SessionValues
	manager *SessionManager
}

// UserID returns the logged in user, if any
func (s *Session) UserID() (uint, bool) {
	if s.values.UserID == nil {
		return 0, false
	}
	return *s.values.UserID, true
}

// AdminID returns the logged in admin, if any
func (s *Session) AdminID() (uint, bool) {
	if s.values.AdminID == nil || !s.values.IsAdmin {
		return 0, false
	}
	return *s.values.AdminID, true
}

// SetUser stores the user identity
func (s *Session) SetUser(id uint) {
	s.values.UserID = &id
}

// ClearUser removes the user identity
func (s *Session) ClearUser() {
	s.values.UserID = nil
}

// SetAdmin stores the admin identity
func (s *Session) SetAdmin(id uint) {
	s.values.AdminID = &id
	s.values.IsAdmin = true
}

// ClearAdmin removes the admin identity
func (s *Session) ClearAdmin() {
	s.values.AdminID = nil
	s.values.IsAdmin = false
}

// Save writes the session cookie. An empty session deletes the cookie.
func (s *Session) Save(c *gin.Context) error {
	if s.manager == nil {
		return nil
	}
	return s.manager.write(c, s.values)
}

// SessionManager reads and writes the session cookie
type SessionManager struct {
	service  services.InterfaceSessionService
	name     string
	sameSite http.SameSite
	secure   bool
}

// NewSessionManager creates a manager using the cookie settings of cfg
func NewSessionManager(service services.InterfaceSessionService, cfg *config.Config) *SessionManager {
	name := cfg.SessionCookieName
	if name == "" {
		name = "session"
	}
	return &SessionManager{
		service:  service,
		name:     name,
		sameSite: cfg.CookieSameSite(),
		secure:   cfg.CookieSecure(),
	}
}

// Middleware loads the session of every request. Invalid cookies give an empty session.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := &Session{manager: m}
		if raw, err := c.Cookie(m.name); err == nil && raw != "" {
			if values, err := m.service.Decode(raw); err == nil {
				session.values = *values
			} else {
				Logger.FromContext(c.Request.Context()).Debugf("ignoring session cookie: %v", err)
			}
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

func (m *SessionManager) write(c *gin.Context, values services.SessionValues) error {
	c.SetSameSite(m.sameSite)
	if values.Empty() {
		c.SetCookie(m.name, "", -1, "/", "", m.secure, true)
		return nil
	}

	token, err := m.service.Encode(values)
	if err != nil {
		return err
	}
	c.SetCookie(m.name, token, int(m.service.Lifetime().Seconds()), "/", "", m.secure, true)
	return nil
}

// GetSession returns the session of the request. Outside the session
// middleware it returns a detached empty session whose Save is a no-op.
func GetSession(c *gin.Context) *Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if session, ok := v.(*Session); ok {
			return session
		}
	}
	return &Session{manager: nil}
}
