package services

import (
	"errors"
	"fmt"
	"time"

	"disasterconnect-http-service/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
)

const sessionIssuer = "disasterconnect-http-service"

// ErrInvalidSession is returned for cookies that fail verification
var ErrInvalidSession = errors.New("invalid session")

// SessionValues is the content of the session cookie. The user and admin
// identities are independent and may both be present.
type SessionValues struct {
	UserID  *uint `json:"user_id,omitempty"`
	AdminID *uint `json:"admin_id,omitempty"`
	IsAdmin bool  `json:"is_admin,omitempty"`
}

// Empty reports whether no identity is stored
func (v SessionValues) Empty() bool {
	return v.UserID == nil && v.AdminID == nil && !v.IsAdmin
}

// SessionClaims are the JWT claims of the session cookie
type SessionClaims struct {
	SessionValues
	jwt.RegisteredClaims
}

// InterfaceSessionService signs and verifies session cookies
type InterfaceSessionService interface {
	Encode(values SessionValues) (string, error)
	Decode(token string) (*SessionValues, error)
	Lifetime() time.Duration
}

// SessionService signs sessions with HS256
type SessionService struct {
	secretKey []byte
	lifetime  time.Duration
}

// NewSessionService creates a session service from the configured secret
func NewSessionService(cfg *config.Config) InterfaceSessionService {
	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = config.DefaultSessionLifetime
	}
	return &SessionService{
		secretKey: []byte(cfg.SecretKey),
		lifetime:  lifetime,
	}
}

// Lifetime returns how long a session stays valid
func (s *SessionService) Lifetime() time.Duration {
	return s.lifetime
}

// Encode signs values into a token
func (s *SessionService) Encode(values SessionValues) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionValues: values,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Decode verifies token and returns its values
func (s *SessionService) Decode(tokenString string) (*SessionValues, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Issuer != sessionIssuer {
		return nil, ErrInvalidSession
	}
	return &claims.SessionValues, nil
}
