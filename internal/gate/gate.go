// Package gate implements the two-tier admin access scheme: an admin session
// opened with the URL fragment or admin password, and an advanced tier
// unlocked inside that session with a second password.
package gate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"mechanical-burger/internal/config"
	"mechanical-burger/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultAdvancedPassword is used when no advanced password is configured.
const DefaultAdvancedPassword = "admin123"

// ClientIDHeader identifies the browser a request comes from. Password
// overrides are scoped to it.
const ClientIDHeader = "X-Client-ID"

// Session is a server-side admin session.
type Session struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId,omitempty"`
	Advanced  bool      `json:"advanced"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims are carried in the signed session token.
type Claims struct {
	ClientID string `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

// Gate owns sessions and per-client password overrides.
type Gate struct {
	cfg    config.GateConfig
	secret []byte
	now    func() time.Time
	logger zerolog.Logger

	mu        sync.RWMutex
	sessions  map[string]*Session
	overrides map[string]*overrides
}

// New creates a gate from configuration.
func New(cfg config.GateConfig, logger zerolog.Logger) *Gate {
	return &Gate{
		cfg:       cfg,
		secret:    []byte(cfg.SessionSecret),
		now:       time.Now,
		logger:    logger.With().Str("component", "gate").Logger(),
		sessions:  make(map[string]*Session),
		overrides: make(map[string]*overrides),
	}
}

// EnterAdmin opens an admin session. A non-empty fragment is compared against
// the configured admin hash; otherwise password is compared against the
// client's admin override or the configured admin password.
func (g *Gate) EnterAdmin(clientID, fragment, password string) (string, Session, error) {
	ok := false
	if fragment != "" {
		ok = equal(g.cfg.AdminHash, fragment)
	} else if password != "" {
		ok = g.checkPassword(clientID, PasswordAdmin, password, g.cfg.AdminPassword)
	}
	if !ok {
		g.logger.Warn().Str("client_id", clientID).Msg("admin entry rejected")
		return "", Session{}, model.ErrInvalidCredentials
	}

	now := g.now()
	s := &Session{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		CreatedAt: now,
		ExpiresAt: now.Add(g.cfg.SessionTTL),
	}

	token, err := g.sign(s)
	if err != nil {
		return "", Session{}, err
	}

	g.mu.Lock()
	g.sessions[s.ID] = s
	g.mu.Unlock()

	g.logger.Info().Str("session_id", s.ID).Str("client_id", clientID).Msg("admin session opened")
	return token, *s, nil
}

// Authenticate resolves a session token to its live session.
func (g *Gate) Authenticate(token string) (Session, error) {
	if token == "" {
		return Session{}, model.ErrAdminLocked
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(g.now))
	if err != nil || !parsed.Valid {
		return Session{}, model.ErrAdminLocked
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.sessions[claims.ID]
	if !ok || g.now().After(s.ExpiresAt) {
		return Session{}, model.ErrAdminLocked
	}
	return *s, nil
}

// UnlockAdvanced opens the advanced tier of a session.
func (g *Gate) UnlockAdvanced(sessionID, password string) (Session, error) {
	g.mu.RLock()
	s, ok := g.sessions[sessionID]
	var clientID string
	if ok {
		clientID = s.ClientID
	}
	g.mu.RUnlock()
	if !ok {
		return Session{}, model.ErrAdminLocked
	}

	fallback := g.cfg.AdvancedPassword
	if fallback == "" {
		fallback = DefaultAdvancedPassword
	}
	if !g.checkPassword(clientID, PasswordAdvanced, password, fallback) {
		g.logger.Warn().Str("session_id", sessionID).Msg("advanced unlock rejected")
		return Session{}, model.ErrInvalidCredentials
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok = g.sessions[sessionID]
	if !ok {
		return Session{}, model.ErrAdminLocked
	}
	s.Advanced = true

	g.logger.Info().Str("session_id", sessionID).Msg("advanced tier unlocked")
	return *s, nil
}

// Relock closes the advanced tier but keeps the admin session.
func (g *Gate) Relock(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[sessionID]; ok {
		s.Advanced = false
	}
}

// End closes a session.
func (g *Gate) End(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, sessionID)
}

// Run evicts expired sessions every interval until ctx is done.
func (g *Gate) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.evict()
		}
	}
}

func (g *Gate) evict() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for id, s := range g.sessions {
		if now.After(s.ExpiresAt) {
			delete(g.sessions, id)
		}
	}
}

func (g *Gate) sign(s *Session) (string, error) {
	claims := Claims{
		ClientID: s.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func equal(expected, given string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}

type sessionKey struct{}

// WithSession stores the session in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	if !ok {
		return Session{}, errors.New("no admin session in context")
	}
	return s, nil
}
