package models

import "time"

type PasswordResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t *PasswordResetToken) ScanTargets() []any {
	return []any{&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt}
}

// VerificationToken carries an attempt counter shared by all of a user's
// rows; it caps how many times a verification email can be re-sent.
type VerificationToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Attempts  int
	CreatedAt time.Time
}

func (t *VerificationToken) ScanTargets() []any {
	return []any{&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Attempts, &t.CreatedAt}
}

func (t *VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
