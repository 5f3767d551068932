// Package verificationtokens stores email-verification tokens and the
// per-user resend attempt counter.
package verificationtokens

import (
	"context"
	"time"

	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64, token string, expires time.Time) (*models.VerificationToken, error)
	FindByToken(ctx context.Context, token string) (*models.VerificationToken, error)
	FindLatestByUserID(ctx context.Context, userID int64) (*models.VerificationToken, error)
	Attempts(ctx context.Context, userID int64) (int, error)
	IncrementAttempts(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}
