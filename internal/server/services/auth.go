// Package services contains server-side business logic. AuthService covers
// sign-up, sign-in, sign-out and the account settings of a signed-in user.
package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/cryptox"
	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/ratelimit"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/session"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgTooManyLogins      = "Too many login attempts. Please try again later."
	MsgEmailRegistered    = "Email already registered"
	MsgEmailTaken         = "Email is already taken"
	MsgWrongPassword      = "Current password is incorrect"
)

// hashPassword is replaced in tests with a cheaper parameter set.
var hashPassword = cryptox.HashPassword

// dummyHash is verified against when the email is unknown, so a miss costs
// the same as a wrong password.
var (
	dummyOnce sync.Once
	dummyHash string
)

func unknownUserHash() string {
	dummyOnce.Do(func() {
		h, err := hashPassword(hex.EncodeToString(common.GenerateRandByteArray(16)))
		if err == nil {
			dummyHash = h
		}
	})
	return dummyHash
}

// AuthService owns credentials and sessions for end users.
type AuthService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	sessions     *session.Manager
	limiter      *ratelimit.Limiter
	verification *VerificationService
	log          logging.Logger
}

// NewAuthService wires the service; a nil logger discards output.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, sessions *session.Manager,
	limiter *ratelimit.Limiter, verification *VerificationService, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &AuthService{
		db:           db,
		repomanager:  m,
		sessions:     sessions,
		limiter:      limiter,
		verification: verification,
		log:          log,
	}
}

// SignUp registers an unverified user together with a verification token,
// then emails the link and opens a session. The email goes out only after
// both rows are committed; a failed email is logged, not returned.
func (s *AuthService) SignUp(ctx context.Context, in *validation.SignUpInput) (*models.User, session.Cookie, error) {
	if err := validation.Struct(in); err != nil {
		return nil, session.Cookie{}, err
	}

	if _, err := s.repomanager.Users(s.db).FindByEmail(ctx, in.Email); err == nil {
		return nil, session.Cookie{}, common.Public(common.ErrorAlreadyExists, MsgEmailRegistered)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, session.Cookie{}, fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, session.Cookie{}, fmt.Errorf("error hashing password: %w", err)
	}

	var (
		user  *models.User
		token string
	)
	phone := in.Phone
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Password:  hash,
			Phone:     &phone,
			Role:      models.RoleUser,
		})
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.Public(common.ErrorAlreadyExists, MsgEmailRegistered)
		}
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		token, err = s.verification.createToken(ctx, tx, created.ID)
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, session.Cookie{}, err
	}

	if err := s.verification.sendLink(ctx, user, token); err != nil {
		s.log.Error(ctx, "verification email not sent", "error", err, "user_id", user.ID)
	}

	_, cookie, err := s.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, session.Cookie{}, fmt.Errorf("error creating session: %w", err)
	}
	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, cookie, nil
}

// SignIn checks credentials, throttled per client key (the remote IP).
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, clientKey string, in *validation.SignInInput) (*models.User, session.Cookie, error) {
	if err := validation.Struct(in); err != nil {
		return nil, session.Cookie{}, err
	}

	key := "login_" + clientKey
	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.log.Error(ctx, "rate limiter unavailable", "error", err)
		allowed = true
	}
	if !allowed {
		return nil, session.Cookie{}, common.Public(common.ErrTooManyAttempts, MsgTooManyLogins)
	}

	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword(unknownUserHash(), in.Password)
			return nil, session.Cookie{}, common.Public(common.ErrInvalidCredentials, MsgInvalidCredentials)
		}
		return nil, session.Cookie{}, fmt.Errorf("error looking up user: %w", err)
	}
	if !cryptox.VerifyPassword(user.Password, in.Password) {
		return nil, session.Cookie{}, common.Public(common.ErrInvalidCredentials, MsgInvalidCredentials)
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.Warn(ctx, "rate limiter reset failed", "error", err)
	}

	_, cookie, err := s.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, session.Cookie{}, fmt.Errorf("error creating session: %w", err)
	}
	s.log.Info(ctx, "user signed in", "user_id", user.ID)
	return user, cookie, nil
}

// SignOut deletes the session row. A missing row is not an error.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" || !s.sessions.ValidateCookieFormat(sessionID) {
		return nil
	}
	err := s.sessions.InvalidateSession(ctx, sessionID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return nil
}

// CurrentUser reloads userID from storage.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByID(ctx, userID)
}

// UpdateProfile changes name, email and phone. The new email must not
// belong to another account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in *validation.ProfileInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	other, err := repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && other.ID != userID:
		return nil, common.Public(common.ErrorAlreadyExists, MsgEmailTaken)
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	u, err := repo.Update(ctx, userID, models.UserUpdate{
		FirstName: &in.FirstName,
		LastName:  &in.LastName,
		Email:     &in.Email,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, common.Public(common.ErrorAlreadyExists, MsgEmailTaken)
	}
	return u, err
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, in *validation.ChangePasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !cryptox.VerifyPassword(user.Password, in.CurrentPassword) {
		return validation.Field("current_password", MsgWrongPassword)
	}

	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}
