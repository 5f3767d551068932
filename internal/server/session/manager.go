// Package session issues and resolves the opaque session ids carried in the
// session cookie.
package session

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/sessions"
	"github.com/janusipm/brandvigilante/internal/server/repositories/users"
	"github.com/janusipm/brandvigilante/internal/timex"
)

// idBytes random bytes are hex encoded into a 40-character session id.
const idBytes = 20

var cookieFormat = regexp.MustCompile(`^[A-Za-z0-9]{1,255}$`)

// Status classifies a resolved cookie.
type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticated
	StatusInvalid
)

// String returns the lowercase name used in logs.
func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusInvalid:
		return "invalid"
	default:
		return "unauthenticated"
	}
}

// Reason says why a cookie did not resolve to a user.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonMalformed    Reason = "malformed"
	ReasonNotFound     Reason = "not_found"
	ReasonExpired      Reason = "expired"
	ReasonStorageError Reason = "storage_error"
)

// Result is the outcome of resolving a cookie value. Callers clear the
// cookie only when Status is StatusInvalid.
type Result struct {
	Status  Status
	User    *models.PublicUser
	Session *models.Session
	Reason  Reason
	Err     error
}

// Config holds cookie attributes and the session lifetime.
type Config struct {
	CookieName string
	Domain     string
	Secure     bool
	SameSite   string
	TTL        time.Duration
}

// Cookie describes a Set-Cookie header independent of the HTTP framework.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time
	MaxAge   int
	HTTPOnly bool
	Secure   bool
	SameSite string
}

// Manager issues, resolves and revokes database-backed sessions.
type Manager struct {
	sessions sessions.Repository
	users    users.Repository
	cfg      Config
	clock    timex.Clock
	log      logging.Logger
}

// NewManager fills zero Config fields with defaults. A nil clock means wall
// time; a nil logger discards output.
func NewManager(sessionRepo sessions.Repository, userRepo users.Repository, cfg Config, clock timex.Clock, log logging.Logger) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	if cfg.SameSite == "" {
		cfg.SameSite = "Lax"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Manager{sessions: sessionRepo, users: userRepo, cfg: cfg, clock: clock, log: log}
}

// CookieName is the configured session cookie name.
func (m *Manager) CookieName() string { return m.cfg.CookieName }

// CreateSession stores a fresh session for userID and returns the cookie
// that carries it.
func (m *Manager) CreateSession(ctx context.Context, userID int64) (*models.Session, Cookie, error) {
	id, err := common.MakeRandHexString(idBytes)
	if err != nil {
		return nil, Cookie{}, err
	}
	expires := m.clock.Now().Add(m.cfg.TTL)

	s, err := m.sessions.Create(ctx, id, userID, expires)
	if err != nil {
		return nil, Cookie{}, err
	}
	m.log.Debug(ctx, "session created", "user_id", userID)
	return s, m.SessionCookie(s.ID, s.ActiveExpires), nil
}

// ValidateCookieFormat rejects empty and non-alphanumeric values before any
// storage lookup.
func (m *Manager) ValidateCookieFormat(raw string) bool {
	return cookieFormat.MatchString(raw)
}

// ResolveSession maps a cookie value to its user. An unknown or expired id
// is StatusInvalid; a storage failure is StatusUnauthenticated with
// ReasonStorageError so the cookie survives a transient outage.
func (m *Manager) ResolveSession(ctx context.Context, id string) Result {
	if !m.ValidateCookieFormat(id) {
		return Result{Status: StatusInvalid, Reason: ReasonMalformed}
	}

	s, err := m.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Result{Status: StatusInvalid, Reason: ReasonNotFound}
		}
		m.log.Error(ctx, "session lookup failed", "error", err)
		return Result{Status: StatusUnauthenticated, Reason: ReasonStorageError, Err: err}
	}

	if s.Expired(m.clock.Now()) {
		if err := m.sessions.Delete(ctx, s.ID); err != nil {
			m.log.Warn(ctx, "expired session cleanup failed", "error", err)
		}
		return Result{Status: StatusInvalid, Reason: ReasonExpired}
	}

	u, err := m.users.FindByID(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Result{Status: StatusInvalid, Reason: ReasonNotFound}
		}
		m.log.Error(ctx, "session user lookup failed", "error", err, "user_id", s.UserID)
		return Result{Status: StatusUnauthenticated, Reason: ReasonStorageError, Err: err}
	}

	return Result{Status: StatusAuthenticated, User: u.Public(), Session: s}
}

// InvalidateSession deletes the session row. The caller clears the cookie.
func (m *Manager) InvalidateSession(ctx context.Context, id string) error {
	return m.sessions.Delete(ctx, id)
}

// InvalidateUserSessions signs a user out everywhere.
func (m *Manager) InvalidateUserSessions(ctx context.Context, userID int64) error {
	n, err := m.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	m.log.Info(ctx, "user sessions invalidated", "user_id", userID, "count", n)
	return nil
}

// SessionCookie builds the HttpOnly cookie for session id, expiring with
// the session.
func (m *Manager) SessionCookie(id string, expires time.Time) Cookie {
	maxAge := int(expires.Sub(m.clock.Now()).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	return Cookie{
		Name:     m.cfg.CookieName,
		Value:    id,
		Path:     "/",
		Domain:   m.cfg.Domain,
		Expires:  expires,
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: m.cfg.SameSite,
	}
}

// BlankCookie clears the session cookie on the client.
func (m *Manager) BlankCookie() Cookie {
	return Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: m.cfg.SameSite,
	}
}

// Sweep removes every expired session row.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx, m.clock.Now())
}

// StartJanitor runs Sweep every interval until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := m.Sweep(ctx)
				if err != nil {
					if ctx.Err() == nil {
						m.log.Error(ctx, "session sweep failed", "error", err)
					}
					continue
				}
				if n > 0 {
					m.log.Info(ctx, "expired sessions removed", "count", n)
				}
			}
		}
	}()
	return done
}
