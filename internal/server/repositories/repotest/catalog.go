package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

type brandLink struct{ brandID, otherID int64 }

// Brands keeps brands with their user and marketplace links. Terms are
// attached from the Terms repository created alongside it.
type Brands struct {
	mu           sync.Mutex
	nextID       int64
	rows         map[int64]models.Brand
	users        map[brandLink]struct{}
	marketplaces map[brandLink]models.Status
	terms        *Terms

	Err error
}

func NewBrands() *Brands {
	return &Brands{
		rows:         make(map[int64]models.Brand),
		users:        make(map[brandLink]struct{}),
		marketplaces: make(map[brandLink]models.Status),
	}
}

func (r *Brands) withTerms(b models.Brand) *models.Brand {
	b.TrademarkTerms = []*models.TrademarkTerm{}
	if r.terms != nil {
		b.TrademarkTerms, _ = r.terms.FindByBrandID(context.Background(), b.ID)
	}
	return &b
}

func (r *Brands) sorted(keep func(models.Brand) bool) []*models.Brand {
	out := make([]*models.Brand, 0, len(r.rows))
	for _, b := range r.rows {
		if keep(b) {
			out = append(out, r.withTerms(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Brands) FindAll(context.Context) ([]*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(func(models.Brand) bool { return true }), nil
}

func (r *Brands) FindByID(_ context.Context, id int64) (*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.withTerms(b), nil
}

func (r *Brands) FindByUserID(_ context.Context, userID int64) ([]*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(func(b models.Brand) bool {
		_, ok := r.users[brandLink{b.ID, userID}]
		return ok
	}), nil
}

func (r *Brands) Create(_ context.Context, b *models.Brand) (*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.nextID++
	row := *b
	row.ID = r.nextID
	if row.Status == "" {
		row.Status = models.StatusActive
	}
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	row.TrademarkTerms = nil
	r.rows[row.ID] = row
	return r.withTerms(row), nil
}

func (r *Brands) Update(_ context.Context, b *models.Brand) (*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	old, ok := r.rows[b.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	row := *b
	row.CreatedAt = old.CreatedAt
	row.UpdatedAt = time.Now()
	row.TrademarkTerms = nil
	r.rows[row.ID] = row
	return r.withTerms(row), nil
}

func (r *Brands) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Brands) CountActive(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, b := range r.rows {
		if b.Status == models.StatusActive {
			n++
		}
	}
	return n, nil
}

func (r *Brands) AddUsers(_ context.Context, brandID int64, userIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, id := range userIDs {
		r.users[brandLink{brandID, id}] = struct{}{}
	}
	return nil
}

func (r *Brands) RemoveUsers(_ context.Context, brandID int64, userIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, id := range userIDs {
		delete(r.users, brandLink{brandID, id})
	}
	return nil
}

// ListUsers returns stub users carrying only the linked ids.
func (r *Brands) ListUsers(_ context.Context, brandID int64) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*models.User, 0)
	for link := range r.users {
		if link.brandID == brandID {
			out = append(out, &models.User{ID: link.otherID})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Brands) AddMarketplaces(_ context.Context, brandID int64, marketplaceIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, id := range marketplaceIDs {
		if _, ok := r.marketplaces[brandLink{brandID, id}]; !ok {
			r.marketplaces[brandLink{brandID, id}] = models.StatusActive
		}
	}
	return nil
}

func (r *Brands) RemoveMarketplaces(_ context.Context, brandID int64, marketplaceIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, id := range marketplaceIDs {
		delete(r.marketplaces, brandLink{brandID, id})
	}
	return nil
}

func (r *Brands) ListMarketplaces(_ context.Context, brandID int64) ([]*models.BrandMarketplace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*models.BrandMarketplace, 0)
	for link, status := range r.marketplaces {
		if link.brandID == brandID {
			out = append(out, &models.BrandMarketplace{Marketplace: models.Marketplace{ID: link.otherID}, LinkStatus: status})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Brands) SetMarketplaceStatus(_ context.Context, brandID, marketplaceID int64, status models.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	key := brandLink{brandID, marketplaceID}
	if _, ok := r.marketplaces[key]; !ok {
		return common.ErrorNotFound
	}
	r.marketplaces[key] = status
	return nil
}

type Terms struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.TrademarkTerm
	brands *Brands

	Err error
}

// NewTerms links the repository to brands for brand names and for
// attaching terms to brands.
func NewTerms(brands *Brands) *Terms {
	t := &Terms{rows: make(map[int64]models.TrademarkTerm), brands: brands}
	if brands != nil {
		brands.terms = t
	}
	return t
}

// brandName reads brands.rows without taking the brands lock, since
// Brands calls into Terms while holding it.
func (r *Terms) brandName(id int64) string {
	if r.brands == nil {
		return ""
	}
	if b, ok := r.brands.rows[id]; ok {
		return b.Name
	}
	return ""
}

func (r *Terms) sorted(keep func(models.TrademarkTerm) bool) []*models.TrademarkTerm {
	out := make([]*models.TrademarkTerm, 0)
	for _, t := range r.rows {
		if keep(t) {
			t := t
			t.BrandName = r.brandName(t.BrandID)
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BrandName != out[j].BrandName {
			return out[i].BrandName < out[j].BrandName
		}
		return out[i].Term < out[j].Term
	})
	return out
}

func (r *Terms) FindAll(context.Context) ([]*models.TrademarkTerm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(func(models.TrademarkTerm) bool { return true }), nil
}

func (r *Terms) FindByID(_ context.Context, id int64) (*models.TrademarkTerm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.BrandName = r.brandName(t.BrandID)
	return &t, nil
}

func (r *Terms) FindByBrandID(_ context.Context, brandID int64) ([]*models.TrademarkTerm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(func(t models.TrademarkTerm) bool { return t.BrandID == brandID }), nil
}

func (r *Terms) Create(_ context.Context, brandID int64, term string) (*models.TrademarkTerm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, t := range r.rows {
		if t.BrandID == brandID && t.Term == term {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.nextID++
	now := time.Now()
	t := models.TrademarkTerm{ID: r.nextID, BrandID: brandID, Term: term, CreatedAt: now, UpdatedAt: now}
	r.rows[t.ID] = t
	t.BrandName = r.brandName(brandID)
	return &t, nil
}

func (r *Terms) Update(_ context.Context, id, brandID int64, term string) (*models.TrademarkTerm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.BrandID, t.Term, t.UpdatedAt = brandID, term, time.Now()
	r.rows[id] = t
	t.BrandName = r.brandName(brandID)
	return &t, nil
}

func (r *Terms) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Terms) Exists(_ context.Context, brandID int64, term string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	for _, t := range r.rows {
		if t.BrandID == brandID && t.Term == term && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Terms) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.rows)), nil
}

type Marketplaces struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Marketplace

	Err error
}

func NewMarketplaces() *Marketplaces {
	return &Marketplaces{rows: make(map[int64]models.Marketplace)}
}

func (r *Marketplaces) FindAll(context.Context) ([]*models.Marketplace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*models.Marketplace, 0, len(r.rows))
	for _, m := range r.rows {
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Marketplaces) FindByID(_ context.Context, id int64) (*models.Marketplace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	m, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &m, nil
}

func (r *Marketplaces) Create(_ context.Context, m *models.Marketplace) (*models.Marketplace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.nextID++
	row := *m
	row.ID = r.nextID
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	r.rows[row.ID] = row
	return &row, nil
}

func (r *Marketplaces) Update(_ context.Context, m *models.Marketplace) (*models.Marketplace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	old, ok := r.rows[m.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	row := *m
	row.CreatedAt = old.CreatedAt
	row.UpdatedAt = time.Now()
	r.rows[row.ID] = row
	return &row, nil
}

func (r *Marketplaces) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *Marketplaces) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.rows)), nil
}

type ActivityLogs struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.ActivityLog

	Err error
}

func NewActivityLogs() *ActivityLogs {
	return &ActivityLogs{}
}

func (r *ActivityLogs) Create(_ context.Context, entry *models.ActivityLog) (*models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.nextID++
	row := *entry
	row.ID = r.nextID
	row.CreatedAt = time.Now()
	r.rows = append(r.rows, row)
	return &row, nil
}

func (r *ActivityLogs) filter(keep func(models.ActivityLog) bool, limit int) []*models.ActivityLog {
	out := make([]*models.ActivityLog, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		if keep(r.rows[i]) {
			row := r.rows[i]
			out = append(out, &row)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func (r *ActivityLogs) FindByEntity(_ context.Context, entityType models.EntityType, entityID int64) ([]*models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filter(func(a models.ActivityLog) bool {
		return a.EntityType == entityType && a.EntityID == entityID
	}, 0), nil
}

func (r *ActivityLogs) FindByUserID(_ context.Context, userID int64) ([]*models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filter(func(a models.ActivityLog) bool {
		return a.UserID != nil && *a.UserID == userID
	}, 0), nil
}

func (r *ActivityLogs) FindRecent(_ context.Context, limit int) ([]*models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if limit <= 0 {
		limit = 50
	}
	return r.filter(func(models.ActivityLog) bool { return true }, limit), nil
}

// All returns every entry, oldest first.
func (r *ActivityLogs) All() []models.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ActivityLog(nil), r.rows...)
}
