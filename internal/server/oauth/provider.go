// Package oauth implements the Google sign-in round trip: an authorization
// redirect with PKCE, then a callback that resolves the Google identity to a
// local user.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// GoogleUserInfoURL is the OpenID userinfo endpoint.
const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleUser is the subset of the OpenID userinfo response we use.
type GoogleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Provider is the OAuth client the Bridge drives. GoogleProvider is the
// production one; tests substitute a fake.
type Provider interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUser, error)
}

// GoogleProvider talks to Google with golang.org/x/oauth2.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// GoogleOption customises a GoogleProvider, mostly for tests.
type GoogleOption func(*GoogleProvider)

// WithEndpoint overrides the authorization and token endpoints.
func WithEndpoint(e oauth2.Endpoint) GoogleOption {
	return func(p *GoogleProvider) { p.cfg.Endpoint = e }
}

// WithUserInfoURL overrides GoogleUserInfoURL.
func WithUserInfoURL(u string) GoogleOption {
	return func(p *GoogleProvider) { p.userInfoURL = u }
}

// NewGoogleProvider requests the openid, email and profile scopes.
func NewGoogleProvider(clientID, clientSecret, redirectURL string, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userInfoURL: GoogleUserInfoURL,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// AuthCodeURL builds the consent URL with an S256 PKCE challenge.
func (p *GoogleProvider) AuthCodeURL(state, verifier string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades the authorization code for a token, sending the PKCE
// verifier.
func (p *GoogleProvider) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	return p.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}

// UserInfo fetches the userinfo document with token.
func (p *GoogleProvider) UserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo: unexpected status %d: %s", resp.StatusCode, body)
	}

	var u GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}
	return &u, nil
}
