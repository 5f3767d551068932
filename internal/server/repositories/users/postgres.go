package users

import (
	"context"
	"strconv"
	"strings"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/dbx"
	"github.com/janusipm/brandvigilante/internal/server/models"
)

const columns = `id, first_name, last_name, email, password, phone, role, email_verified, google_user_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + columns + ` FROM users WHERE id = $1`
	return dbx.QueryOne[models.User](ctx, r.db, query, id)
}

// FindByEmail matches case-insensitively; emails are stored lowercased but
// older rows may not be.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + columns + ` FROM users WHERE lower(email) = $1`
	return dbx.QueryOne[models.User](ctx, r.db, query, normalizeEmail(email))
}

func (r *PostgresRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := `SELECT ` + columns + ` FROM users WHERE google_user_id = $1`
	return dbx.QueryOne[models.User](ctx, r.db, query, googleID)
}

// Create inserts the user and returns the stored row. A duplicate email
// yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (first_name, last_name, email, password, phone, role, email_verified, google_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING ` + columns

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	created, err := dbx.QueryOne[models.User](ctx, r.db, query,
		user.FirstName, user.LastName, normalizeEmail(user.Email), user.Password,
		user.Phone, role, user.EmailVerified, user.GoogleUserID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// Update applies the non-nil fields of upd. An empty update returns the
// current row unchanged.
func (r *PostgresRepository) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		add("email", normalizeEmail(*upd.Email))
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if upd.EmailVerified != nil {
		add("email_verified", *upd.EmailVerified)
	}
	if upd.GoogleUserID != nil {
		add("google_user_id", *upd.GoogleUserID)
	}
	if upd.Password != nil {
		add("password", *upd.Password)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + `, updated_at = now()
		 WHERE id = $` + strconv.Itoa(len(args)) + `
		 RETURNING ` + columns

	updated, err := dbx.QueryOne[models.User](ctx, r.db, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return updated, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	query := `UPDATE users SET password = $1, updated_at = now() WHERE id = $2`
	return dbx.ExecOne(ctx, r.db, query, hash, id)
}

// LinkGoogle attaches a Google subject to an existing account and marks its
// email verified, since Google has vouched for it.
func (r *PostgresRepository) LinkGoogle(ctx context.Context, id int64, googleID string) (*models.User, error) {
	verified := true
	return r.Update(ctx, id, models.UserUpdate{GoogleUserID: &googleID, EmailVerified: &verified})
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM users WHERE id = $1`, id)
}

// List returns users newest first, optionally filtered by a search term over
// names and email and by role.
func (r *PostgresRepository) List(ctx context.Context, filter models.UserFilter) (*models.Page[models.User], error) {
	page, perPage, offset := models.NormalizePage(filter.Page, filter.PerPage)

	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := "$" + strconv.Itoa(len(args))
		where = append(where, "(first_name ILIKE "+n+" OR last_name ILIKE "+n+" OR email ILIKE "+n+")")
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, "role = $"+strconv.Itoa(len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	total, err := dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM users`+clause, args...)
	if err != nil {
		return nil, err
	}

	listArgs := append(append([]any{}, args...), perPage, offset)
	query := `SELECT ` + columns + ` FROM users` + clause +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	items, err := dbx.QueryAll[models.User](ctx, r.db, query, listArgs...)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, total, page, perPage), nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	return dbx.Count(ctx, r.db, `SELECT COUNT(*) FROM users`)
}

// --- helpers below ---

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
