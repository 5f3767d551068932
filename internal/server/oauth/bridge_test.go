package oauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repotest"
)

type fakeProvider struct {
	info        *GoogleUser
	exchangeErr error
	infoErr     error

	gotCode     string
	gotVerifier string
}

func (f *fakeProvider) AuthCodeURL(state, verifier string) string {
	return "https://accounts.example/auth?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code, verifier string) (*oauth2.Token, error) {
	f.gotCode, f.gotVerifier = code, verifier
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "at"}, nil
}

func (f *fakeProvider) UserInfo(context.Context, *oauth2.Token) (*GoogleUser, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func validInput() CallbackInput {
	return CallbackInput{Code: "c0de", State: "st", StoredState: "st", Verifier: "ver"}
}

func TestBridge_Begin(t *testing.T) {
	b := NewBridge(&fakeProvider{}, repotest.NewUsers(), nil)

	r1 := b.Begin()
	r2 := b.Begin()

	assert.NotEmpty(t, r1.State)
	assert.NotEmpty(t, r1.Verifier)
	assert.NotEqual(t, r1.State, r1.Verifier)
	assert.NotEqual(t, r1.State, r2.State)
	assert.Contains(t, r1.URL, "state="+r1.State)
}

func TestBridge_Complete_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CallbackInput)
		prov   *fakeProvider
		want   ErrorCode
	}{
		{"missing code", func(in *CallbackInput) { in.Code = "" }, &fakeProvider{}, CodeMissingParams},
		{"missing stored state", func(in *CallbackInput) { in.StoredState = "" }, &fakeProvider{}, CodeMissingParams},
		{"missing verifier", func(in *CallbackInput) { in.Verifier = "" }, &fakeProvider{}, CodeMissingParams},
		{"state mismatch", func(in *CallbackInput) { in.State = "other" }, &fakeProvider{}, CodeInvalidState},
		{"exchange fails", nil, &fakeProvider{exchangeErr: errors.New("boom")}, CodeGoogleAPIError},
		{"userinfo fails", nil, &fakeProvider{infoErr: errors.New("boom")}, CodeGoogleAPIError},
		{"userinfo without sub", nil, &fakeProvider{info: &GoogleUser{Email: "a@b.c"}}, CodeGoogleAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			b := NewBridge(tt.prov, repotest.NewUsers(), nil)

			u, code := b.Complete(context.Background(), in)
			assert.Nil(t, u)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestBridge_Complete_ExistingGoogleUser(t *testing.T) {
	users := repotest.NewUsers()
	sub := "g-123"
	seeded := users.Seed(models.User{Email: "ann@example.com", GoogleUserID: &sub, EmailVerified: true})

	prov := &fakeProvider{info: &GoogleUser{Sub: sub, Email: "changed@example.com", EmailVerified: true}}
	b := NewBridge(prov, users, nil)

	u, code := b.Complete(context.Background(), validInput())
	require.Equal(t, CodeNone, code)
	assert.Equal(t, seeded.ID, u.ID)
	assert.Equal(t, "c0de", prov.gotCode)
	assert.Equal(t, "ver", prov.gotVerifier)
}

func TestBridge_Complete_LinksByEmail(t *testing.T) {
	users := repotest.NewUsers()
	seeded := users.Seed(models.User{Email: "bob@example.com", Password: "hash"})

	prov := &fakeProvider{info: &GoogleUser{Sub: "g-9", Email: "bob@example.com", EmailVerified: true}}
	b := NewBridge(prov, users, nil)

	u, code := b.Complete(context.Background(), validInput())
	require.Equal(t, CodeNone, code)
	assert.Equal(t, seeded.ID, u.ID)
	assert.True(t, u.EmailVerified)
	require.NotNil(t, u.GoogleUserID)
	assert.Equal(t, "g-9", *u.GoogleUserID)

	again, err := users.FindByGoogleID(context.Background(), "g-9")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, again.ID)
}

func TestBridge_Complete_RefusesUnverifiedLink(t *testing.T) {
	users := repotest.NewUsers()
	users.Seed(models.User{Email: "bob@example.com", Password: "hash"})

	prov := &fakeProvider{info: &GoogleUser{Sub: "g-9", Email: "bob@example.com"}}
	u, code := NewBridge(prov, users, nil).Complete(context.Background(), validInput())

	assert.Nil(t, u)
	assert.Equal(t, CodeEmailNotVerified, code)
	assert.Equal(t, ErrorCode("email_not_verified"), code)

	stored, err := users.FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.GoogleUserID)
	assert.False(t, stored.EmailVerified)
}

func TestBridge_Complete_CreatesUser(t *testing.T) {
	users := repotest.NewUsers()
	prov := &fakeProvider{info: &GoogleUser{Sub: "g-new", Email: "new@example.com", Name: "Cara De Luca", EmailVerified: true}}

	u, code := NewBridge(prov, users, nil).Complete(context.Background(), validInput())
	require.Equal(t, CodeNone, code)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "Cara", u.FirstName)
	assert.Equal(t, "De Luca", u.LastName)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, u.EmailVerified)
	assert.Empty(t, u.Password)
}

func TestBridge_Complete_StorageFailures(t *testing.T) {
	users := repotest.NewUsers()
	users.Err = errors.New("db down")
	prov := &fakeProvider{info: &GoogleUser{Sub: "g", Email: "x@example.com", EmailVerified: true}}

	_, code := NewBridge(prov, users, nil).Complete(context.Background(), validInput())
	assert.Equal(t, CodeFlowFailed, code)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          GoogleUser
		first, last string
	}{
		{GoogleUser{GivenName: "Ann", FamilyName: "Lee", Name: "ignored"}, "Ann", "Lee"},
		{GoogleUser{Name: "Solo"}, "Solo", ""},
		{GoogleUser{Name: "  Jo  Ann Smith "}, "Jo", "Ann Smith"},
		{GoogleUser{}, "", ""},
	}
	for _, tt := range tests {
		first, last := splitName(&tt.in)
		assert.Equal(t, tt.first, first)
		assert.Equal(t, tt.last, last)
	}
}
