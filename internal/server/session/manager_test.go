package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repotest"
	"github.com/janusipm/brandvigilante/internal/timex"
)

type fixture struct {
	m        *Manager
	sessions *repotest.Sessions
	users    *repotest.Users
	clock    *timex.FixedClock
	user     *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sessions: repotest.NewSessions(),
		users:    repotest.NewUsers(),
		clock:    &timex.FixedClock{T: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)},
	}
	f.user = f.users.Seed(models.User{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Password: "$argon2id$...", Role: models.RoleAdmin, EmailVerified: true,
	})
	f.m = NewManager(f.sessions, f.users, Config{CookieName: "session", TTL: 30 * 24 * time.Hour, Secure: true}, f.clock, nil)
	return f
}

func TestCreateAndResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, cookie, err := f.m.CreateSession(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, s.ID, 40)
	assert.True(t, f.m.ValidateCookieFormat(s.ID))
	assert.Equal(t, f.clock.Now().Add(30*24*time.Hour), s.ActiveExpires)

	assert.Equal(t, "session", cookie.Name)
	assert.Equal(t, s.ID, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, "Lax", cookie.SameSite)
	assert.Equal(t, 30*24*60*60, cookie.MaxAge)

	res := f.m.ResolveSession(ctx, cookie.Value)
	require.Equal(t, StatusAuthenticated, res.Status)
	assert.Equal(t, &models.PublicUser{
		ID: f.user.ID, Email: "ada@example.com", Role: models.RoleAdmin,
		FirstName: "Ada", LastName: "Lovelace", EmailVerified: true,
	}, res.User)
}

func TestSessionIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s, _, err := f.m.CreateSession(context.Background(), f.user.ID)
		require.NoError(t, err)
		require.False(t, seen[s.ID])
		seen[s.ID] = true
	}
}

func TestResolve_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *fixture) string
		wantStatus Status
		wantReason Reason
	}{
		{
			name:       "malformed",
			setup:      func(*fixture) string { return "not-a-valid/id" },
			wantStatus: StatusInvalid,
			wantReason: ReasonMalformed,
		},
		{
			name:       "empty",
			setup:      func(*fixture) string { return "" },
			wantStatus: StatusInvalid,
			wantReason: ReasonMalformed,
		},
		{
			name:       "too long",
			setup:      func(*fixture) string { return strings.Repeat("a", 256) },
			wantStatus: StatusInvalid,
			wantReason: ReasonMalformed,
		},
		{
			name:       "unknown",
			setup:      func(*fixture) string { return "abc123" },
			wantStatus: StatusInvalid,
			wantReason: ReasonNotFound,
		},
		{
			name: "expired",
			setup: func(f *fixture) string {
				s, _, _ := f.m.CreateSession(context.Background(), f.user.ID)
				f.clock.Advance(30 * 24 * time.Hour)
				return s.ID
			},
			wantStatus: StatusInvalid,
			wantReason: ReasonExpired,
		},
		{
			name: "user deleted",
			setup: func(f *fixture) string {
				s, _, _ := f.m.CreateSession(context.Background(), f.user.ID)
				_ = f.users.Delete(context.Background(), f.user.ID)
				return s.ID
			},
			wantStatus: StatusInvalid,
			wantReason: ReasonNotFound,
		},
		{
			name: "storage down",
			setup: func(f *fixture) string {
				s, _, _ := f.m.CreateSession(context.Background(), f.user.ID)
				f.sessions.Err = errors.New("connection refused")
				return s.ID
			},
			wantStatus: StatusUnauthenticated,
			wantReason: ReasonStorageError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := tt.setup(f)

			res := f.m.ResolveSession(context.Background(), id)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Nil(t, res.User)
		})
	}
}

func TestResolve_ExpiredRowIsRemoved(t *testing.T) {
	f := newFixture(t)
	s, _, err := f.m.CreateSession(context.Background(), f.user.ID)
	require.NoError(t, err)

	f.clock.Advance(31 * 24 * time.Hour)
	f.m.ResolveSession(context.Background(), s.ID)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, _, err := f.m.CreateSession(ctx, f.user.ID)
	require.NoError(t, err)
	require.NoError(t, f.m.InvalidateSession(ctx, s.ID))

	res := f.m.ResolveSession(ctx, s.ID)
	assert.Equal(t, StatusInvalid, res.Status)

	_, _, _ = f.m.CreateSession(ctx, f.user.ID)
	_, _, _ = f.m.CreateSession(ctx, f.user.ID)
	require.NoError(t, f.m.InvalidateUserSessions(ctx, f.user.ID))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestBlankCookie(t *testing.T) {
	f := newFixture(t)
	c := f.m.BlankCookie()

	assert.Equal(t, "session", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.True(t, c.Expires.Before(f.clock.Now()))
}

func TestSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, _ = f.m.CreateSession(ctx, f.user.ID)
	f.clock.Advance(20 * 24 * time.Hour)
	_, _, _ = f.m.CreateSession(ctx, f.user.ID)
	f.clock.Advance(15 * 24 * time.Hour)

	n, err := f.m.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestDefaults(t *testing.T) {
	m := NewManager(repotest.NewSessions(), repotest.NewUsers(), Config{}, nil, nil)
	assert.Equal(t, "session", m.CookieName())
	assert.Equal(t, "Lax", m.SessionCookie("abc", time.Now().Add(time.Hour)).SameSite)
}
