// Package resettokens stores password-reset tokens, at most one per user.
package resettokens

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, userID int64, token string, expires time.Time) error
	FindValid(ctx context.Context, token string, now time.Time) (int64, error)
	// FindValidForUpdate is FindValid that also locks the row until the
	// surrounding transaction ends.
	FindValidForUpdate(ctx context.Context, token string, now time.Time) (int64, error)
	Delete(ctx context.Context, token string) error
}
