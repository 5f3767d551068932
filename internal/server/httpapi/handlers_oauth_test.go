package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/server/auth"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/oauth"
)

const testSecret = "test-secret-key"

// beginGoogle runs phase one and returns the state, the verifier and the
// cookies the browser would carry to the callback.
func beginGoogle(t *testing.T, ta *testApp) (string, string, []*http.Cookie) {
	t.Helper()
	resp := ta.do(t, httptest.NewRequest(http.MethodGet, "/login/google", nil))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "https://accounts.example.com/auth"))

	stateCookie := responseCookie(resp, oauthStateCookie)
	verifierCookie := responseCookie(resp, oauthVerifierCookie)
	require.NotNil(t, stateCookie)
	require.NotNil(t, verifierCookie)
	assert.True(t, stateCookie.HttpOnly)
	assert.Equal(t, 600, stateCookie.MaxAge)

	state, err := auth.ParseTransient(stateCookie.Value, oauthStateCookie, []byte(testSecret))
	require.NoError(t, err)
	verifier, err := auth.ParseTransient(verifierCookie.Value, oauthVerifierCookie, []byte(testSecret))
	require.NoError(t, err)

	return state, verifier, []*http.Cookie{
		{Name: oauthStateCookie, Value: stateCookie.Value},
		{Name: oauthVerifierCookie, Value: verifierCookie.Value},
	}
}

func callback(code, state string) *http.Request {
	q := url.Values{}
	if code != "" {
		q.Set("code", code)
	}
	if state != "" {
		q.Set("state", state)
	}
	return httptest.NewRequest(http.MethodGet, "/login/google/callback?"+q.Encode(), nil)
}

func TestGoogleCallback_CreatesUserAndSession(t *testing.T) {
	ta := newTestApp(t)
	ta.provider.user = &oauth.GoogleUser{
		Sub: "g-1", Email: "new@example.com", EmailVerified: true, GivenName: "New", FamilyName: "Person",
	}
	state, verifier, cookies := beginGoogle(t, ta)

	resp := ta.do(t, callback("auth-code", state), cookies...)

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Equal(t, verifier, ta.provider.gotVerifier)
	require.NotNil(t, responseCookie(resp, "session"))
	for _, name := range []string{oauthStateCookie, oauthVerifierCookie} {
		c := responseCookie(resp, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value, name)
	}

	u, err := ta.repos.UsersRepo.FindByGoogleID(context.Background(), "g-1")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Empty(t, u.Password)
	assert.Equal(t, models.RoleUser, u.Role)
}

func TestGoogleCallback_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(ta *testApp, state string, cookies []*http.Cookie) (*http.Request, []*http.Cookie)
		code  oauth.ErrorCode
	}{
		{
			name: "state differs by one character",
			setup: func(_ *testApp, state string, cookies []*http.Cookie) (*http.Request, []*http.Cookie) {
				last := state[len(state)-1]
				swapped := byte('A')
				if last == 'A' {
					swapped = 'B'
				}
				return callback("c", state[:len(state)-1]+string(swapped)), cookies
			},
			code: oauth.CodeInvalidState,
		},
		{
			name: "missing code",
			setup: func(_ *testApp, state string, cookies []*http.Cookie) (*http.Request, []*http.Cookie) {
				return callback("", state), cookies
			},
			code: oauth.CodeMissingParams,
		},
		{
			name: "no cookies",
			setup: func(_ *testApp, state string, _ []*http.Cookie) (*http.Request, []*http.Cookie) {
				return callback("c", state), nil
			},
			code: oauth.CodeMissingParams,
		},
		{
			name: "cookie signed with another key",
			setup: func(_ *testApp, state string, cookies []*http.Cookie) (*http.Request, []*http.Cookie) {
				forged, _ := auth.SignTransient(oauthStateCookie, state, []byte("other"), time.Minute)
				return callback("c", state), []*http.Cookie{{Name: oauthStateCookie, Value: forged}, cookies[1]}
			},
			code: oauth.CodeMissingParams,
		},
		{
			name: "exchange fails",
			setup: func(ta *testApp, state string, cookies []*http.Cookie) (*http.Request, []*http.Cookie) {
				ta.provider.exchangeErr = errors.New("bad code")
				return callback("c", state), cookies
			},
			code: oauth.CodeGoogleAPIError,
		},
		{
			name: "session store down",
			setup: func(ta *testApp, state string, cookies []*http.Cookie) (*http.Request, []*http.Cookie) {
				ta.repos.SessionsRepo.Err = errors.New("db down")
				return callback("c", state), cookies
			},
			code: oauth.CodeSessionCreationFailed,
		},
		{
			name: "unverified google email matches a password account",
			setup: func(ta *testApp, state string, cookies []*http.Cookie) (*http.Request, []*http.Cookie) {
				ta.seedUser(t, "x@example.com", models.RoleUser)
				ta.provider.user = &oauth.GoogleUser{Sub: "g-2", Email: "x@example.com"}
				return callback("c", state), cookies
			},
			code: oauth.CodeEmailNotVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			ta.provider.user = &oauth.GoogleUser{Sub: "g-2", Email: "x@example.com", EmailVerified: true}
			state, _, cookies := beginGoogle(t, ta)

			req, sent := tt.setup(ta, state, cookies)
			resp := ta.do(t, req, sent...)

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/sign-in?error="+string(tt.code), resp.Header.Get("Location"))
			assert.Nil(t, responseCookie(resp, "session"))
		})
	}
}
