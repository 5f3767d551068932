package models

import "time"

// Session binds an opaque id (the cookie value) to a user until ActiveExpires.
type Session struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	ActiveExpires time.Time `json:"active_expires"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Session) ScanTargets() []any {
	return []any{&s.ID, &s.UserID, &s.ActiveExpires, &s.CreatedAt}
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ActiveExpires)
}
