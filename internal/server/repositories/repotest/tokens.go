package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Sessions struct {
	mu   sync.Mutex
	rows map[string]models.Session

	Err error
}

func NewSessions() *Sessions {
	return &Sessions{rows: make(map[string]models.Session)}
}

func (r *Sessions) Create(_ context.Context, id string, userID int64, expires time.Time) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if _, ok := r.rows[id]; ok {
		return nil, common.ErrorAlreadyExists
	}
	s := models.Session{ID: id, UserID: userID, ActiveExpires: expires, CreatedAt: time.Now()}
	r.rows[id] = s
	return &s, nil
}

func (r *Sessions) FindByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (r *Sessions) FindByUserID(_ context.Context, userID int64) ([]*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*models.Session, 0)
	for _, s := range r.rows {
		if s.UserID == userID {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *Sessions) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.rows, id)
	return nil
}

func (r *Sessions) DeleteByUserID(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for id, s := range r.rows {
		if s.UserID == userID {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *Sessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for id, s := range r.rows {
		if s.Expired(now) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type ResetTokens struct {
	mu   sync.Mutex
	rows map[int64]models.PasswordResetToken

	Err error
	// DeleteErr fails Delete only.
	DeleteErr error
}

func NewResetTokens() *ResetTokens {
	return &ResetTokens{rows: make(map[int64]models.PasswordResetToken)}
}

func (r *ResetTokens) Upsert(_ context.Context, userID int64, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.rows[userID] = models.PasswordResetToken{UserID: userID, Token: token, ExpiresAt: expires, CreatedAt: time.Now()}
	return nil
}

func (r *ResetTokens) FindValid(_ context.Context, token string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	for _, t := range r.rows {
		if t.Token == token && t.ExpiresAt.After(now) {
			return t.UserID, nil
		}
	}
	return 0, common.ErrorNotFound
}

func (r *ResetTokens) FindValidForUpdate(ctx context.Context, token string, now time.Time) (int64, error) {
	return r.FindValid(ctx, token, now)
}

func (r *ResetTokens) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	for userID, t := range r.rows {
		if t.Token == token {
			delete(r.rows, userID)
		}
	}
	return nil
}

// TokenFor returns the live token of userID, or "" when there is none.
func (r *ResetTokens) TokenFor(userID int64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[userID].Token
}

type VerificationTokens struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.VerificationToken

	Err error
}

func NewVerificationTokens() *VerificationTokens {
	return &VerificationTokens{}
}

func (r *VerificationTokens) Create(_ context.Context, userID int64, token string, expires time.Time) (*models.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.nextID++
	t := models.VerificationToken{
		ID: r.nextID, UserID: userID, Token: token, ExpiresAt: expires,
		Attempts: r.attemptsLocked(userID), CreatedAt: time.Now(),
	}
	r.rows = append(r.rows, t)
	return &t, nil
}

func (r *VerificationTokens) FindByToken(_ context.Context, token string) (*models.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, t := range r.rows {
		if t.Token == token {
			t := t
			return &t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *VerificationTokens) FindLatestByUserID(_ context.Context, userID int64) (*models.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			t := r.rows[i]
			return &t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *VerificationTokens) Attempts(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return r.attemptsLocked(userID), nil
}

func (r *VerificationTokens) IncrementAttempts(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	next := r.attemptsLocked(userID) + 1
	found := false
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].Attempts = next
			found = true
		}
	}
	if !found {
		return 0, common.ErrorNotFound
	}
	return next, nil
}

func (r *VerificationTokens) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	kept := r.rows[:0]
	for _, t := range r.rows {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	r.rows = kept
	return nil
}

func (r *VerificationTokens) DeleteByUserID(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	kept := r.rows[:0]
	for _, t := range r.rows {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	r.rows = kept
	return nil
}

// SetExpiry rewrites the expiry of token, for tests of expired links.
func (r *VerificationTokens) SetExpiry(token string, expires time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].Token == token {
			r.rows[i].ExpiresAt = expires
		}
	}
}

func (r *VerificationTokens) attemptsLocked(userID int64) int {
	max := 0
	for _, t := range r.rows {
		if t.UserID == userID && t.Attempts > max {
			max = t.Attempts
		}
	}
	return max
}
