package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/cryptox"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/session"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

const resetPassword = "N3w-Passw0rd"

func TestPasswordReset_FullFlow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "dave@example.com", strongPassword, models.RoleUser, true)
	old, _, err := e.sessions.CreateSession(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, e.reset.Request(ctx, &validation.ForgotPasswordInput{Email: "DAVE@example.com"}))

	token := e.repos.ResetTokensRepo.TokenFor(u.ID)
	require.NotEmpty(t, token)
	sent := e.mail.To("dave@example.com")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTML, testAppURL+"/reset-password?token="+token)

	userID, err := e.reset.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	require.NoError(t, e.reset.Reset(ctx, &validation.ResetPasswordInput{
		Token: token, Password: resetPassword, ConfirmPassword: resetPassword,
	}))

	stored, _ := e.repos.UsersRepo.FindByID(ctx, u.ID)
	assert.True(t, cryptox.VerifyPassword(stored.Password, resetPassword))
	assert.Equal(t, session.StatusInvalid, e.sessions.ResolveSession(ctx, old.ID).Status)

	_, err = e.reset.Validate(ctx, token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, _, err = e.auth.SignIn(ctx, "ip", &validation.SignInInput{Email: "dave@example.com", Password: resetPassword})
	assert.NoError(t, err)
}

func TestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.reset.Request(context.Background(), &validation.ForgotPasswordInput{Email: "ghost@example.com"}))
	assert.Empty(t, e.mail.Sent())
}

func TestPasswordReset_MailFailure(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "dave@example.com", strongPassword, models.RoleUser, true)
	e.mail.Err = errors.New("smtp down")

	err := e.reset.Request(context.Background(), &validation.ForgotPasswordInput{Email: "dave@example.com"})
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Equal(t, MsgResetMailFailed, err.Error())
}

func TestPasswordReset_ExpiredToken(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "dave@example.com", strongPassword, models.RoleUser, true)
	require.NoError(t, e.reset.Request(ctx, &validation.ForgotPasswordInput{Email: "dave@example.com"}))
	token := e.repos.ResetTokensRepo.TokenFor(u.ID)

	e.clock.Advance(common.PasswordResetTokenTTL + 1)
	err := e.reset.Reset(ctx, &validation.ResetPasswordInput{Token: token, Password: resetPassword, ConfirmPassword: resetPassword})
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.Equal(t, MsgInvalidResetToken, err.Error())
}

func TestPasswordReset_SecondRequestReplacesToken(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "dave@example.com", strongPassword, models.RoleUser, true)

	require.NoError(t, e.reset.Request(ctx, &validation.ForgotPasswordInput{Email: "dave@example.com"}))
	first := e.repos.ResetTokensRepo.TokenFor(u.ID)
	require.NoError(t, e.reset.Request(ctx, &validation.ForgotPasswordInput{Email: "dave@example.com"}))
	second := e.repos.ResetTokensRepo.TokenFor(u.ID)

	assert.NotEqual(t, first, second)
	_, err := e.reset.Validate(ctx, first)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPasswordReset_PolicyErrors(t *testing.T) {
	e := newTestEnv(t)

	err := e.reset.Reset(context.Background(), &validation.ResetPasswordInput{
		Token: "abc", Password: "Passw0rd", ConfirmPassword: "Passw0rd!",
	})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"Password must contain at least one special character"}, verrs["password"])
	assert.Equal(t, []string{"Passwords don't match"}, verrs["confirmPassword"])
}

func TestPasswordReset_TokenIsSpentOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "dave@example.com", strongPassword, models.RoleUser, true)
	require.NoError(t, e.reset.Request(ctx, &validation.ForgotPasswordInput{Email: "dave@example.com"}))
	token := e.repos.ResetTokensRepo.TokenFor(u.ID)

	in := &validation.ResetPasswordInput{Token: token, Password: resetPassword, ConfirmPassword: resetPassword}
	require.NoError(t, e.reset.Reset(ctx, in))

	in = &validation.ResetPasswordInput{Token: token, Password: "An0ther-Pass", ConfirmPassword: "An0ther-Pass"}
	err := e.reset.Reset(ctx, in)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	stored, _ := e.repos.UsersRepo.FindByID(ctx, u.ID)
	assert.True(t, cryptox.VerifyPassword(stored.Password, resetPassword))
}

func TestPasswordReset_TokenDeleteFailureRollsBack(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "dave@example.com", strongPassword, models.RoleUser, true)
	old, _, err := e.sessions.CreateSession(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, e.reset.Request(ctx, &validation.ForgotPasswordInput{Email: "dave@example.com"}))
	token := e.repos.ResetTokensRepo.TokenFor(u.ID)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := NewPasswordResetService(db, e.repos, e.mail, e.sessions, testAppURL, e.clock, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	e.repos.ResetTokensRepo.DeleteErr = errors.New("lock timeout")

	err = svc.Reset(ctx, &validation.ResetPasswordInput{Token: token, Password: resetPassword, ConfirmPassword: resetPassword})
	assert.ErrorContains(t, err, "error consuming reset token")
	require.NoError(t, mock.ExpectationsWereMet())

	// the failed reset leaves existing sessions alone
	assert.Equal(t, session.StatusAuthenticated, e.sessions.ResolveSession(ctx, old.ID).Status)
}
