package oauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/oauth2"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/users"
)

// ErrorCode is appended to the sign-in redirect when the flow fails.
type ErrorCode string

const (
	CodeNone                  ErrorCode = ""
	CodeMissingParams         ErrorCode = "missing_params"
	CodeInvalidState          ErrorCode = "invalid_state"
	CodeGoogleAPIError        ErrorCode = "google_api_error"
	CodeUserCreationFailed    ErrorCode = "user_creation_failed"
	CodeSessionCreationFailed ErrorCode = "session_creation_failed"
	CodeFlowFailed            ErrorCode = "oauth_flow_failed"
	// CodeEmailNotVerified refuses to link an existing account to a Google
	// identity whose email Google has not verified.
	CodeEmailNotVerified ErrorCode = "email_not_verified"
)

// AuthRequest is what phase one hands to the browser: the values to park in
// cookies and where to send the user.
type AuthRequest struct {
	State    string
	Verifier string
	URL      string
}

// CallbackInput gathers the query parameters and cookie values of phase two.
type CallbackInput struct {
	Code        string
	State       string
	StoredState string
	Verifier    string
}

// Bridge runs the two phases of Google sign-in against the users table.
type Bridge struct {
	provider Provider
	users    users.Repository
	log      logging.Logger
}

// NewBridge returns a Bridge; a nil logger discards output.
func NewBridge(provider Provider, userRepo users.Repository, log logging.Logger) *Bridge {
	if log == nil {
		log = logging.Nop{}
	}
	return &Bridge{provider: provider, users: userRepo, log: log}
}

// Begin generates a fresh state and PKCE verifier.
func (b *Bridge) Begin() *AuthRequest {
	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()
	return &AuthRequest{State: state, Verifier: verifier, URL: b.provider.AuthCodeURL(state, verifier)}
}

// Complete validates the callback, exchanges the code and resolves the
// Google identity: by subject first, then by email (linking the account and
// marking it verified), otherwise a new verified user with no password.
func (b *Bridge) Complete(ctx context.Context, in CallbackInput) (*models.User, ErrorCode) {
	if in.Code == "" || in.State == "" || in.StoredState == "" || in.Verifier == "" {
		return nil, CodeMissingParams
	}
	if subtle.ConstantTimeCompare([]byte(in.State), []byte(in.StoredState)) != 1 {
		b.log.Warn(ctx, "oauth state mismatch")
		return nil, CodeInvalidState
	}

	token, err := b.provider.Exchange(ctx, in.Code, in.Verifier)
	if err != nil {
		b.log.Error(ctx, "oauth code exchange failed", "error", err)
		return nil, CodeGoogleAPIError
	}
	info, err := b.provider.UserInfo(ctx, token)
	if err != nil {
		b.log.Error(ctx, "google userinfo failed", "error", err)
		return nil, CodeGoogleAPIError
	}
	if info.Sub == "" || info.Email == "" {
		b.log.Error(ctx, "google userinfo incomplete", "sub", info.Sub)
		return nil, CodeGoogleAPIError
	}

	u, err := b.users.FindByGoogleID(ctx, info.Sub)
	if err == nil {
		return u, CodeNone
	}
	if !errors.Is(err, common.ErrorNotFound) {
		b.log.Error(ctx, "google user lookup failed", "error", err)
		return nil, CodeFlowFailed
	}

	existing, err := b.users.FindByEmail(ctx, info.Email)
	switch {
	case err == nil:
		if !info.EmailVerified {
			b.log.Warn(ctx, "refusing to link unverified google email", "user_id", existing.ID)
			return nil, CodeEmailNotVerified
		}
		linked, err := b.users.LinkGoogle(ctx, existing.ID, info.Sub)
		if err != nil {
			b.log.Error(ctx, "google account link failed", "error", err, "user_id", existing.ID)
			return nil, CodeFlowFailed
		}
		b.log.Info(ctx, "google account linked", "user_id", linked.ID)
		return linked, CodeNone
	case !errors.Is(err, common.ErrorNotFound):
		b.log.Error(ctx, "user email lookup failed", "error", err)
		return nil, CodeFlowFailed
	}

	first, last := splitName(info)
	sub := info.Sub
	created, err := b.users.Create(ctx, &models.User{
		FirstName:     first,
		LastName:      last,
		Email:         info.Email,
		Role:          models.RoleUser,
		EmailVerified: true,
		GoogleUserID:  &sub,
	})
	if err != nil {
		b.log.Error(ctx, "google user creation failed", "error", err)
		return nil, CodeUserCreationFailed
	}
	b.log.Info(ctx, "user created from google", "user_id", created.ID)
	return created, CodeNone
}

func splitName(info *GoogleUser) (string, string) {
	if info.GivenName != "" || info.FamilyName != "" {
		return info.GivenName, info.FamilyName
	}
	name := strings.TrimSpace(info.Name)
	if name == "" {
		return "", ""
	}
	first, last, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}
