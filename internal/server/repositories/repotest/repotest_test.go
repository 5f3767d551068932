package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
)

var _ repomanager.RepositoryManager = (*Manager)(nil)

func TestUsers_EmailUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	r := NewUsers()

	_, err := r.Create(ctx, &models.User{Email: "A@B.com"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.User{Email: "a@b.COM"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	u, err := r.FindByEmail(ctx, " a@b.com ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
}

func TestVerificationTokens_SharedAttempts(t *testing.T) {
	ctx := context.Background()
	r := NewVerificationTokens()
	exp := time.Now().Add(time.Hour)

	_, err := r.IncrementAttempts(ctx, 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, _ = r.Create(ctx, 1, "t1", exp)
	n, err := r.IncrementAttempts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tok, _ := r.Create(ctx, 1, "t2", exp)
	assert.Equal(t, 1, tok.Attempts)
	n, _ = r.IncrementAttempts(ctx, 1)
	assert.Equal(t, 2, n)
}

func TestBrandsAttachTerms(t *testing.T) {
	ctx := context.Background()
	m := NewManager()

	b, err := m.BrandsRepo.Create(ctx, &models.Brand{Name: "Acme"})
	require.NoError(t, err)
	_, err = m.TermsRepo.Create(ctx, b.ID, "ACME")
	require.NoError(t, err)

	got, err := m.BrandsRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.TrademarkTerms, 1)
	assert.Equal(t, "Acme", got.TrademarkTerms[0].BrandName)
}
