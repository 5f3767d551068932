package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/janusipm/brandvigilante/internal/cryptox"
	"github.com/janusipm/brandvigilante/internal/server/config"
	"github.com/janusipm/brandvigilante/internal/server/mailer/mailertest"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/oauth"
	"github.com/janusipm/brandvigilante/internal/server/ratelimit"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repotest"
	"github.com/janusipm/brandvigilante/internal/server/services"
	"github.com/janusipm/brandvigilante/internal/server/session"
	"github.com/janusipm/brandvigilante/internal/timex"
)

const (
	testAppURL   = "https://app.example.com"
	testPassword = "Sup3rSecret!"
)

var cheapParams = cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type fakeProvider struct {
	user        *oauth.GoogleUser
	exchangeErr error
	gotVerifier string
}

func (p *fakeProvider) AuthCodeURL(state, verifier string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(_ context.Context, _ string, verifier string) (*oauth2.Token, error) {
	p.gotVerifier = verifier
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return &oauth2.Token{AccessToken: "access"}, nil
}

func (p *fakeProvider) UserInfo(context.Context, *oauth2.Token) (*oauth.GoogleUser, error) {
	if p.user == nil {
		return nil, errors.New("no user")
	}
	return p.user, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type testApp struct {
	app      *fiber.App
	repos    *repotest.Manager
	mail     *mailertest.Recorder
	clock    *timex.FixedClock
	sessions *session.Manager
	provider *fakeProvider
	pinger   *fakePinger
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ta := &testApp{
		repos:    repotest.NewManager(),
		mail:     &mailertest.Recorder{},
		clock:    &timex.FixedClock{T: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		provider: &fakeProvider{},
		pinger:   &fakePinger{},
	}
	cfg := &config.Config{AppURL: testAppURL, SecretKey: "test-secret-key"}
	ta.sessions = session.NewManager(ta.repos.SessionsRepo, ta.repos.UsersRepo, session.Config{}, ta.clock, nil)
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), 15*time.Minute, 5, ta.clock)

	activity := services.NewActivityService(nil, ta.repos, nil)
	admin := services.NewAdminService(nil, ta.repos, ta.clock, activity, nil)
	verification := services.NewVerificationService(nil, ta.repos, ta.mail, limiter, testAppURL, ta.clock, nil)
	txdb := repotest.TxDB(t)

	h := NewHandler(Deps{
		Config:        cfg,
		DB:            ta.pinger,
		Sessions:      ta.sessions,
		OAuth:         oauth.NewBridge(ta.provider, ta.repos.UsersRepo, nil),
		Auth:          services.NewAuthService(txdb, ta.repos, ta.sessions, limiter, verification, nil),
		Verification:  verification,
		PasswordReset: services.NewPasswordResetService(txdb, ta.repos, ta.mail, ta.sessions, testAppURL, ta.clock, nil),
		Admin:         admin,
		Brands:        services.NewBrandService(nil, ta.repos, activity, admin),
		Terms:         services.NewTermService(nil, ta.repos, activity, admin),
		Marketplaces:  services.NewMarketplaceService(nil, ta.repos, activity, admin),
		Leads:         services.NewLeadService(nil, ta.repos, ta.mail, "admin@example.com", nil),
		Activity:      activity,
	})
	ta.app = NewApp(h)
	return ta
}

func (ta *testApp) seedUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := cryptox.HashPasswordWith(testPassword, cheapParams)
	require.NoError(t, err)
	return ta.repos.UsersRepo.Seed(models.User{
		FirstName:     "Test",
		LastName:      "User",
		Email:         email,
		Password:      hash,
		Role:          role,
		EmailVerified: true,
	})
}

// login opens a session directly and returns its cookie.
func (ta *testApp) login(t *testing.T, u *models.User) *http.Cookie {
	t.Helper()
	s, _, err := ta.sessions.CreateSession(context.Background(), u.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: ta.sessions.CookieName(), Value: s.ID}
}

// do sends req, first fetching a CSRF token for unsafe requests outside
// /api that do not carry one.
func (ta *testApp) do(t *testing.T, req *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	if needsCSRF(req) {
		cookie, token := ta.csrfToken(t)
		req.Header.Set(csrfHeader, token)
		cookies = append(cookies, cookie)
	}
	return ta.send(t, req, cookies...)
}

// send is do without the CSRF token.
func (ta *testApp) send(t *testing.T, req *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func needsCSRF(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}
	return !strings.HasPrefix(req.URL.Path, "/api") && req.Header.Get(csrfHeader) == ""
}

// csrfToken loads a page and returns the issued token cookie and value.
func (ta *testApp) csrfToken(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	resp := ta.send(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	cookie := responseCookie(resp, csrfCookieName)
	require.NotNil(t, cookie, "csrf cookie not issued")
	token := resp.Header.Get(csrfHeader)
	require.Equal(t, cookie.Value, token)
	return &http.Cookie{Name: cookie.Name, Value: cookie.Value}, token
}

func jsonRequest(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func responseCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
