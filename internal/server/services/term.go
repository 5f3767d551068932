package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// MsgDuplicateTerm is returned when a brand already has the term.
const MsgDuplicateTerm = "This term already exists for the selected brand"

// TermService manages the trademark terms monitored for each brand.
type TermService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	activity    *ActivityService
	admin       *AdminService
}

// NewTermService wires the service like NewBrandService.
func NewTermService(db *sql.DB, m repomanager.RepositoryManager, activity *ActivityService, admin *AdminService) *TermService {
	return &TermService{db: db, repomanager: m, activity: activity, admin: admin}
}

func (s *TermService) List(ctx context.Context) ([]*models.TrademarkTerm, error) {
	return s.repomanager.Terms(s.db).FindAll(ctx)
}

// ForBrand lists the terms of one brand.
func (s *TermService) ForBrand(ctx context.Context, brandID int64) ([]*models.TrademarkTerm, error) {
	return s.repomanager.Terms(s.db).FindByBrandID(ctx, brandID)
}

func (s *TermService) Get(ctx context.Context, id int64) (*models.TrademarkTerm, error) {
	return s.repomanager.Terms(s.db).FindByID(ctx, id)
}

// Create adds a term after checking the brand exists and does not own the
// term already.
func (s *TermService) Create(ctx context.Context, actorID int64, in *validation.TermInput) (*models.TrademarkTerm, error) {
	if err := s.check(ctx, in, 0); err != nil {
		return nil, err
	}
	t, err := s.repomanager.Terms(s.db).Create(ctx, in.BrandID, in.Term)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, validation.Field("term", MsgDuplicateTerm)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating term: %w", err)
	}
	s.changed(ctx, actorID, t.ID, ActionCreated, "brand_id=%d term=%s", t.BrandID, t.Term)
	return t, nil
}

func (s *TermService) Update(ctx context.Context, actorID, id int64, in *validation.TermInput) (*models.TrademarkTerm, error) {
	if err := s.check(ctx, in, id); err != nil {
		return nil, err
	}
	t, err := s.repomanager.Terms(s.db).Update(ctx, id, in.BrandID, in.Term)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, validation.Field("term", MsgDuplicateTerm)
	}
	if err != nil {
		return nil, err
	}
	s.changed(ctx, actorID, id, ActionUpdated, "brand_id=%d term=%s", t.BrandID, t.Term)
	return t, nil
}

func (s *TermService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repomanager.Terms(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, actorID, id, ActionDeleted, "")
	return nil
}

func (s *TermService) check(ctx context.Context, in *validation.TermInput, excludeID int64) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if _, err := s.repomanager.Brands(s.db).FindByID(ctx, in.BrandID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return validation.Field("brand_id", "Selected brand does not exist")
		}
		return err
	}
	exists, err := s.repomanager.Terms(s.db).Exists(ctx, in.BrandID, in.Term, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return validation.Field("term", MsgDuplicateTerm)
	}
	return nil
}

func (s *TermService) changed(ctx context.Context, actorID, termID int64, action, format string, args ...any) {
	s.admin.InvalidateStats()
	s.activity.Record(ctx, actorID, models.EntityTerm, termID, action, format, args...)
}
