package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/cache"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/validation"
	"github.com/janusipm/brandvigilante/internal/timex"
)

const (
	StatsTTL          = time.Minute
	MsgCannotDeleteMe = "Cannot delete your own account"
	statsCacheKey     = "admin_stats"
)

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	Brands       int64 `json:"brands"`
	Users        int64 `json:"users"`
	Terms        int64 `json:"terms"`
	Marketplaces int64 `json:"marketplaces"`
}

// AdminService covers user administration and the dashboard counters.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	stats       *cache.Cache[DashboardStats]
	activity    *ActivityService
	log         logging.Logger
}

// NewAdminService wires the service. clock drives the stats cache expiry.
func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, clock timex.Clock, activity *ActivityService, log logging.Logger) *AdminService {
	if log == nil {
		log = logging.Nop{}
	}
	return &AdminService{
		db:          db,
		repomanager: m,
		stats:       cache.New[DashboardStats](StatsTTL, clock),
		activity:    activity,
		log:         log,
	}
}

// StatsCache exposes the cache so the caller can run its janitor.
func (s *AdminService) StatsCache() *cache.Cache[DashboardStats] { return s.stats }

// Stats returns the dashboard counters. When a count fails the zero value is
// returned (and not cached) so the page still renders.
func (s *AdminService) Stats(ctx context.Context) DashboardStats {
	st, err := s.stats.GetOrLoad(ctx, statsCacheKey, s.loadStats)
	if err != nil {
		s.log.Error(ctx, "error loading admin dashboard stats", "error", err)
		return DashboardStats{}
	}
	return st
}

func (s *AdminService) loadStats(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Brands, err = s.repomanager.Brands(s.db).CountActive(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.Users, err = s.repomanager.Users(s.db).Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.Terms, err = s.repomanager.Terms(s.db).Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.Marketplaces, err = s.repomanager.Marketplaces(s.db).Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return st, nil
}

// InvalidateStats drops the cached counters after a mutation.
func (s *AdminService) InvalidateStats() { s.stats.Delete(statsCacheKey) }

// ListUsers returns one page of users matching filter.
func (s *AdminService) ListUsers(ctx context.Context, filter models.UserFilter) (*models.Page[models.User], error) {
	return s.repomanager.Users(s.db).List(ctx, filter)
}

// GetUser returns common.ErrorNotFound for unknown ids.
func (s *AdminService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByID(ctx, id)
}

// CreateUser adds an account on behalf of an admin. The address is trusted,
// so the user starts verified.
func (s *AdminService) CreateUser(ctx context.Context, actorID int64, in *validation.NewUserInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	phone := in.Phone
	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Password:      hash,
		Phone:         &phone,
		Role:          in.Role,
		EmailVerified: true,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, common.Public(common.ErrorAlreadyExists, MsgEmailRegistered)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.InvalidateStats()
	s.activity.Record(ctx, actorID, models.EntityUser, u.ID, ActionCreated, "role=%s", u.Role)
	return u, nil
}

// DeleteUser removes a user other than the actor and records it.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return common.Public(common.ErrorValidation, MsgCannotDeleteMe)
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateStats()
	s.activity.Record(ctx, actorID, models.EntityUser, id, ActionDeleted, "")
	return nil
}
