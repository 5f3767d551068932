package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

type Users struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.User

	// Err, when set, is returned by every method.
	Err error
}

func NewUsers() *Users {
	return &Users{rows: make(map[int64]models.User)}
}

// Seed stores u as-is (assigning an id when zero) and returns the copy.
func (r *Users) Seed(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.rows[u.ID] = u
	return &u
}

func (r *Users) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.rows {
		if strings.ToLower(u.Email) == email {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *Users) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.rows {
		if u.GoogleUserID != nil && *u.GoogleUserID == googleID {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *Users) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if _, err := r.FindByEmail(ctx, user.Email); err == nil {
		return nil, common.ErrorAlreadyExists
	}
	return r.Seed(*user), nil
}

func (r *Users) Update(_ context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		for otherID, other := range r.rows {
			if otherID != id && other.Email == email {
				return nil, common.ErrorAlreadyExists
			}
		}
		u.Email = email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.EmailVerified != nil {
		u.EmailVerified = *upd.EmailVerified
	}
	if upd.GoogleUserID != nil {
		u.GoogleUserID = upd.GoogleUserID
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	u.UpdatedAt = time.Now()
	r.rows[id] = u
	return &u, nil
}

func (r *Users) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.Update(ctx, id, models.UserUpdate{Password: &hash})
	return err
}

func (r *Users) LinkGoogle(ctx context.Context, id int64, googleID string) (*models.User, error) {
	verified := true
	return r.Update(ctx, id, models.UserUpdate{GoogleUserID: &googleID, EmailVerified: &verified})
}

func (r *Users) Delete(_ context.Context, id int64) error {
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

func (r *Users) List(_ context.Context, filter models.UserFilter) (*models.Page[models.User], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	page, perPage, offset := models.NormalizePage(filter.Page, filter.PerPage)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	all := make([]*models.User, 0, len(r.rows))
	for _, u := range r.rows {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName+" "+u.Email), search) {
			continue
		}
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	end := offset + perPage
	if offset > len(all) {
		offset = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	return models.NewPage(all[offset:end], total, page, perPage), nil
}

func (r *Users) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.rows)), nil
}
