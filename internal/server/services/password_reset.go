package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/mailer"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/session"
	"github.com/janusipm/brandvigilante/internal/server/validation"
	"github.com/janusipm/brandvigilante/internal/timex"
)

const (
	MsgInvalidResetToken = "Invalid or expired reset token. Please request a new password reset link."
	MsgResetMailFailed   = "Failed to send password reset email"
)

// PasswordResetService runs the forgot-password flow.
type PasswordResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Mailer
	sessions    *session.Manager
	appURL      string
	clock       timex.Clock
	log         logging.Logger
}

// NewPasswordResetService wires the service. sessions may be nil, in
// which case a reset leaves existing sessions alone.
func NewPasswordResetService(db *sql.DB, m repomanager.RepositoryManager, mail mailer.Mailer,
	sessions *session.Manager, appURL string, clock timex.Clock, log logging.Logger) *PasswordResetService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &PasswordResetService{
		db:          db,
		repomanager: m,
		mailer:      mail,
		sessions:    sessions,
		appURL:      strings.TrimRight(appURL, "/"),
		clock:       clock,
		log:         log,
	}
}

// Request emails a reset link when the address belongs to a user. Unknown
// addresses succeed silently so the response does not reveal accounts.
func (s *PasswordResetService) Request(ctx context.Context, in *validation.ForgotPasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	u, err := s.repomanager.Users(s.db).FindByEmail(ctx, in.Email)
	if errors.Is(err, common.ErrorNotFound) {
		s.log.Info(ctx, "password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error looking up user: %w", err)
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return fmt.Errorf("error generating token: %w", err)
	}
	expires := s.clock.Now().Add(common.PasswordResetTokenTTL)
	if err := s.repomanager.ResetTokens(s.db).Upsert(ctx, u.ID, token, expires); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	msg, err := mailer.PasswordResetEmail(u.Email, s.appURL+"/reset-password?token="+url.QueryEscape(token))
	if err != nil {
		return fmt.Errorf("error rendering reset email: %w", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error(ctx, "password reset email failed", "error", err, "user_id", u.ID)
		return common.Public(common.ErrorInternal, MsgResetMailFailed)
	}
	s.log.Info(ctx, "password reset email sent", "user_id", u.ID)
	return nil
}

// Validate returns the user id bound to a live token.
func (s *PasswordResetService) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, common.Public(common.ErrInvalidToken, MsgInvalidResetToken)
	}
	userID, err := s.repomanager.ResetTokens(s.db).FindValid(ctx, token, s.clock.Now())
	if errors.Is(err, common.ErrorNotFound) {
		return 0, common.Public(common.ErrInvalidToken, MsgInvalidResetToken)
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Reset sets a new password and consumes the token in one transaction, then
// signs the user out everywhere. The token row is locked for the duration,
// so a token can be spent only once.
func (s *PasswordResetService) Reset(ctx context.Context, in *validation.ResetPasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if _, err := s.Validate(ctx, in.Token); err != nil {
		return err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	var userID int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repomanager.ResetTokens(tx)
		id, err := tokens.FindValidForUpdate(ctx, in.Token, s.clock.Now())
		if errors.Is(err, common.ErrorNotFound) {
			return common.Public(common.ErrInvalidToken, MsgInvalidResetToken)
		}
		if err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, id, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if err := tokens.Delete(ctx, in.Token); err != nil {
			return fmt.Errorf("error consuming reset token: %w", err)
		}
		userID = id
		return nil
	})
	if err != nil {
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.InvalidateUserSessions(ctx, userID); err != nil {
			s.log.Warn(ctx, "sessions not revoked after reset", "error", err, "user_id", userID)
		}
	}
	s.log.Info(ctx, "password reset", "user_id", userID)
	return nil
}
