package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// BrandService manages brands and their user and marketplace links. Every
// mutation is written to the activity log.
type BrandService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	activity    *ActivityService
	admin       *AdminService
}

// NewBrandService wires the service. Writes are recorded through activity
// and refresh the counters held by admin.
func NewBrandService(db *sql.DB, m repomanager.RepositoryManager, activity *ActivityService, admin *AdminService) *BrandService {
	return &BrandService{db: db, repomanager: m, activity: activity, admin: admin}
}

func (s *BrandService) List(ctx context.Context) ([]*models.Brand, error) {
	return s.repomanager.Brands(s.db).FindAll(ctx)
}

func (s *BrandService) Get(ctx context.Context, id int64) (*models.Brand, error) {
	return s.repomanager.Brands(s.db).FindByID(ctx, id)
}

// ForUser returns the brands a user has been assigned to.
func (s *BrandService) ForUser(ctx context.Context, userID int64) ([]*models.Brand, error) {
	return s.repomanager.Brands(s.db).FindByUserID(ctx, userID)
}

// Create validates in and stores a new brand.
func (s *BrandService) Create(ctx context.Context, actorID int64, in *validation.BrandInput) (*models.Brand, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	b, err := s.repomanager.Brands(s.db).Create(ctx, in.Brand())
	if err != nil {
		return nil, fmt.Errorf("error creating brand: %w", err)
	}
	s.changed(ctx, actorID, b.ID, ActionCreated, "name=%s", b.Name)
	return b, nil
}

// Update applies in to brand id.
func (s *BrandService) Update(ctx context.Context, actorID, id int64, in *validation.BrandInput) (*models.Brand, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Brands(s.db)
	current, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b := in.Brand()
	b.ID = id
	if in.Status == "" {
		b.Status = current.Status
	}
	updated, err := repo.Update(ctx, b)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, actorID, id, ActionUpdated, "name=%s status=%s", updated.Name, updated.Status)
	return updated, nil
}

// Delete removes brand id and records it.
func (s *BrandService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repomanager.Brands(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, actorID, id, ActionDeleted, "")
	return nil
}

func (s *BrandService) Users(ctx context.Context, brandID int64) ([]*models.User, error) {
	if _, err := s.Get(ctx, brandID); err != nil {
		return nil, err
	}
	return s.repomanager.Brands(s.db).ListUsers(ctx, brandID)
}

func (s *BrandService) AddUsers(ctx context.Context, actorID, brandID int64, in *validation.BrandUsersInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := s.repomanager.Brands(s.db).AddUsers(ctx, brandID, in.UserIDs); err != nil {
		return err
	}
	s.changed(ctx, actorID, brandID, ActionUsersAdded, "user_ids=%v", in.UserIDs)
	return nil
}

func (s *BrandService) RemoveUsers(ctx context.Context, actorID, brandID int64, in *validation.BrandUsersInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := s.repomanager.Brands(s.db).RemoveUsers(ctx, brandID, in.UserIDs); err != nil {
		return err
	}
	s.changed(ctx, actorID, brandID, ActionUsersRemoved, "user_ids=%v", in.UserIDs)
	return nil
}

func (s *BrandService) Marketplaces(ctx context.Context, brandID int64) ([]*models.BrandMarketplace, error) {
	if _, err := s.Get(ctx, brandID); err != nil {
		return nil, err
	}
	return s.repomanager.Brands(s.db).ListMarketplaces(ctx, brandID)
}

func (s *BrandService) AddMarketplaces(ctx context.Context, actorID, brandID int64, in *validation.BrandMarketplacesInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := s.repomanager.Brands(s.db).AddMarketplaces(ctx, brandID, in.MarketplaceIDs); err != nil {
		return err
	}
	s.changed(ctx, actorID, brandID, ActionMarketplacesAdded, "marketplace_ids=%v", in.MarketplaceIDs)
	return nil
}

func (s *BrandService) RemoveMarketplaces(ctx context.Context, actorID, brandID int64, in *validation.BrandMarketplacesInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := s.repomanager.Brands(s.db).RemoveMarketplaces(ctx, brandID, in.MarketplaceIDs); err != nil {
		return err
	}
	s.changed(ctx, actorID, brandID, ActionMarketplacesRemoved, "marketplace_ids=%v", in.MarketplaceIDs)
	return nil
}

func (s *BrandService) SetMarketplaceStatus(ctx context.Context, actorID, brandID, marketplaceID int64, in *validation.StatusInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := s.repomanager.Brands(s.db).SetMarketplaceStatus(ctx, brandID, marketplaceID, in.Status); err != nil {
		return err
	}
	s.changed(ctx, actorID, brandID, ActionStatusChanged, "marketplace_id=%d status=%s", marketplaceID, in.Status)
	return nil
}

func (s *BrandService) changed(ctx context.Context, actorID, brandID int64, action, format string, args ...any) {
	s.admin.InvalidateStats()
	s.activity.Record(ctx, actorID, models.EntityBrand, brandID, action, format, args...)
}
