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
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/ratelimit"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/timex"
)

// ErrMailDelivery wraps mailer failures so callers can decide whether an
// undelivered email is fatal.
var ErrMailDelivery = errors.New("email delivery failed")

// MaxVerificationResends is how many resends a user gets before further
// requests are refused with ResendMaxAttempts.
const MaxVerificationResends = 3

// VerifyOutcome is the result of consuming a verification token.
type VerifyOutcome string

const (
	VerifyInvalid         VerifyOutcome = "invalid"
	VerifyExpired         VerifyOutcome = "expired"
	VerifyUserNotFound    VerifyOutcome = "user_not_found"
	VerifyAlreadyVerified VerifyOutcome = "already_verified"
	VerifyVerified        VerifyOutcome = "verified"
)

// ResendOutcome values double as the status/error query values of the
// verify-email page.
type ResendOutcome string

const (
	ResendSent            ResendOutcome = "email-sent"
	ResendAlreadyVerified ResendOutcome = "already-verified"
	ResendTooManyAttempts ResendOutcome = "too-many-attempts"
	ResendMaxAttempts     ResendOutcome = "max-attempts"
	ResendSendFailed      ResendOutcome = "send-failed"
)

// VerificationService issues and consumes email verification tokens.
type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Mailer
	limiter     *ratelimit.Limiter
	appURL      string
	clock       timex.Clock
	log         logging.Logger
}

// NewVerificationService wires the service. appURL prefixes emailed links.
func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, mail mailer.Mailer,
	limiter *ratelimit.Limiter, appURL string, clock timex.Clock, log logging.Logger) *VerificationService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &VerificationService{
		db:          db,
		repomanager: m,
		mailer:      mail,
		limiter:     limiter,
		appURL:      strings.TrimRight(appURL, "/"),
		clock:       clock,
		log:         log,
	}
}

func (s *VerificationService) link(token string) string {
	return s.appURL + "/verify-email?token=" + url.QueryEscape(token)
}

// Issue stores a fresh token for u and emails the link. Mail failures are
// wrapped in ErrMailDelivery.
func (s *VerificationService) Issue(ctx context.Context, u *models.User) error {
	token, err := s.createToken(ctx, s.db, u.ID)
	if err != nil {
		return err
	}
	return s.sendLink(ctx, u, token)
}

// createToken stores a fresh token through db, which may be a transaction.
func (s *VerificationService) createToken(ctx context.Context, db dbx.DBTX, userID int64) (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	expires := s.clock.Now().Add(common.VerificationTokenTTL)
	if _, err := s.repomanager.VerificationTokens(db).Create(ctx, userID, token, expires); err != nil {
		return "", fmt.Errorf("error storing verification token: %w", err)
	}
	return token, nil
}

func (s *VerificationService) sendLink(ctx context.Context, u *models.User, token string) error {
	msg, err := mailer.VerificationEmail(u.Email, u.FirstName, s.link(token))
	if err != nil {
		return fmt.Errorf("error rendering verification email: %w", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// Verify consumes a token. Only storage failures are returned as errors;
// every other result is an outcome.
func (s *VerificationService) Verify(ctx context.Context, token string) (VerifyOutcome, error) {
	if token == "" {
		return VerifyInvalid, nil
	}

	tokens := s.repomanager.VerificationTokens(s.db)
	vt, err := tokens.FindByToken(ctx, token)
	if errors.Is(err, common.ErrorNotFound) {
		return VerifyInvalid, nil
	}
	if err != nil {
		return "", err
	}

	if vt.Expired(s.clock.Now()) {
		if err := tokens.Delete(ctx, token); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "expired verification token not deleted", "error", err)
		}
		return VerifyExpired, nil
	}

	users := s.repomanager.Users(s.db)
	u, err := users.FindByID(ctx, vt.UserID)
	if errors.Is(err, common.ErrorNotFound) {
		return VerifyUserNotFound, nil
	}
	if err != nil {
		return "", err
	}
	if u.EmailVerified {
		return VerifyAlreadyVerified, nil
	}

	verified := true
	if _, err := users.Update(ctx, u.ID, models.UserUpdate{EmailVerified: &verified}); err != nil {
		return "", fmt.Errorf("error marking email verified: %w", err)
	}
	if err := tokens.DeleteByUserID(ctx, u.ID); err != nil {
		s.log.Warn(ctx, "verification tokens not cleaned up", "error", err, "user_id", u.ID)
	}
	s.log.Info(ctx, "email verified", "user_id", u.ID)
	return VerifyVerified, nil
}

// Resend issues a new verification email for userID, subject to the
// per-user rate limit and the lifetime attempt cap.
func (s *VerificationService) Resend(ctx context.Context, userID int64) (ResendOutcome, error) {
	u, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.EmailVerified {
		return ResendAlreadyVerified, nil
	}

	allowed, err := s.limiter.Allow(ctx, fmt.Sprintf("verify_%d", userID))
	if err != nil {
		s.log.Error(ctx, "rate limiter unavailable", "error", err)
		allowed = true
	}
	if !allowed {
		return ResendTooManyAttempts, nil
	}

	// The attempt is counted before sending, so failed deliveries count too.
	// A user without tokens has nothing to bump; the first token is counted
	// once it exists.
	tokens := s.repomanager.VerificationTokens(s.db)
	attempts, err := tokens.IncrementAttempts(ctx, userID)
	noTokens := errors.Is(err, common.ErrorNotFound)
	if err != nil && !noTokens {
		return "", fmt.Errorf("error counting verification attempt: %w", err)
	}
	if attempts > MaxVerificationResends {
		return ResendMaxAttempts, nil
	}

	if err := s.Issue(ctx, u); err != nil {
		if errors.Is(err, ErrMailDelivery) {
			s.log.Error(ctx, "verification resend failed", "error", err, "user_id", userID)
			return ResendSendFailed, nil
		}
		return "", err
	}
	if noTokens {
		if _, err := tokens.IncrementAttempts(ctx, userID); err != nil {
			return "", fmt.Errorf("error counting verification attempt: %w", err)
		}
	}
	return ResendSent, nil
}
