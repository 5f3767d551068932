package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// MarketplaceService manages the marketplaces listings are found on.
type MarketplaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	activity    *ActivityService
	admin       *AdminService
}

// NewMarketplaceService wires the service like NewBrandService.
func NewMarketplaceService(db *sql.DB, m repomanager.RepositoryManager, activity *ActivityService, admin *AdminService) *MarketplaceService {
	return &MarketplaceService{db: db, repomanager: m, activity: activity, admin: admin}
}

func (s *MarketplaceService) List(ctx context.Context) ([]*models.Marketplace, error) {
	return s.repomanager.Marketplaces(s.db).FindAll(ctx)
}

func (s *MarketplaceService) Get(ctx context.Context, id int64) (*models.Marketplace, error) {
	return s.repomanager.Marketplaces(s.db).FindByID(ctx, id)
}

func (s *MarketplaceService) Create(ctx context.Context, actorID int64, in *validation.MarketplaceInput) (*models.Marketplace, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	m, err := s.repomanager.Marketplaces(s.db).Create(ctx, in.Marketplace())
	if err != nil {
		return nil, fmt.Errorf("error creating marketplace: %w", err)
	}
	s.changed(ctx, actorID, m.ID, ActionCreated, "%s/%s", m.PlatformName, m.CountryCode)
	return m, nil
}

func (s *MarketplaceService) Update(ctx context.Context, actorID, id int64, in *validation.MarketplaceInput) (*models.Marketplace, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	m := in.Marketplace()
	m.ID = id
	updated, err := s.repomanager.Marketplaces(s.db).Update(ctx, m)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, actorID, id, ActionUpdated, "%s/%s", updated.PlatformName, updated.CountryCode)
	return updated, nil
}

func (s *MarketplaceService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repomanager.Marketplaces(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, actorID, id, ActionDeleted, "")
	return nil
}

func (s *MarketplaceService) changed(ctx context.Context, actorID, id int64, action, format string, args ...any) {
	s.admin.InvalidateStats()
	s.activity.Record(ctx, actorID, models.EntityMarketplace, id, action, format, args...)
}
