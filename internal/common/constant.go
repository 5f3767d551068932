package common

import "time"

// Cookie names used by the OAuth round-trip.
const (
	GoogleStateCookieName    = "google_oauth_state"
	GoogleVerifierCookieName = "google_code_verifier"
)

// Token lifetimes shared by services and repositories.
const (
	PasswordResetTokenTTL = 24 * time.Hour
	VerificationTokenTTL  = 7 * 24 * time.Hour
	OAuthTransientTTL     = 10 * time.Minute
)
