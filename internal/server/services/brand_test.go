package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

func TestBrand_CRUD(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	b, err := e.brands.Create(ctx, 1, &validation.BrandInput{Name: " Acme ", DisplayName: strPtr("ACME"), URL: strPtr("https://acme.example")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, models.StatusActive, b.Status)

	_, err = e.brands.Update(ctx, 1, b.ID, &validation.BrandInput{Name: "Acme", DisplayName: strPtr("ACME"), Status: models.StatusInactive})
	require.NoError(t, err)

	// an empty status keeps the stored one
	updated, err := e.brands.Update(ctx, 1, b.ID, &validation.BrandInput{Name: "Acme Corp", DisplayName: strPtr("ACME")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, models.StatusInactive, updated.Status)

	_, err = e.brands.Update(ctx, 1, 999, &validation.BrandInput{Name: "x", DisplayName: strPtr("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, e.brands.Delete(ctx, 1, b.ID))
	_, err = e.brands.Get(ctx, b.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	logs, err := e.activity.ForEntity(ctx, models.EntityBrand, b.ID)
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.ElementsMatch(t, []string{ActionCreated, ActionUpdated, ActionUpdated, ActionDeleted}, actions)
}

func TestBrand_CreateValidation(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.brands.Create(context.Background(), 1, &validation.BrandInput{Name: "", URL: strPtr("not a url")})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"Brand name is required"}, verrs["name"])
	assert.Contains(t, verrs, "display_name")
	assert.Equal(t, []string{"URL must be a valid URL"}, verrs["url"])
}

func TestBrand_UserLinks(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b, err := e.brands.Create(ctx, 1, &validation.BrandInput{Name: "Acme", DisplayName: strPtr("ACME")})
	require.NoError(t, err)

	require.NoError(t, e.brands.AddUsers(ctx, 1, b.ID, &validation.BrandUsersInput{UserIDs: []int64{3, 2, 3}}))
	users, err := e.brands.Users(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[0].ID)

	require.NoError(t, e.brands.RemoveUsers(ctx, 1, b.ID, &validation.BrandUsersInput{UserIDs: []int64{2}}))
	users, _ = e.brands.Users(ctx, b.ID)
	require.Len(t, users, 1)

	err = e.brands.AddUsers(ctx, 1, b.ID, &validation.BrandUsersInput{})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"Invalid user IDs"}, verrs["userIds"])

	_, err = e.brands.Users(ctx, 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestBrand_MarketplaceLinks(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b, err := e.brands.Create(ctx, 1, &validation.BrandInput{Name: "Acme", DisplayName: strPtr("ACME")})
	require.NoError(t, err)

	require.NoError(t, e.brands.AddMarketplaces(ctx, 1, b.ID, &validation.BrandMarketplacesInput{MarketplaceIDs: []int64{7}}))
	require.NoError(t, e.brands.SetMarketplaceStatus(ctx, 1, b.ID, 7, &validation.StatusInput{Status: models.StatusInactive}))

	links, err := e.brands.Marketplaces(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, models.StatusInactive, links[0].LinkStatus)

	err = e.brands.SetMarketplaceStatus(ctx, 1, b.ID, 8, &validation.StatusInput{Status: models.StatusActive})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = e.brands.SetMarketplaceStatus(ctx, 1, b.ID, 7, &validation.StatusInput{Status: "paused"})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))

	require.NoError(t, e.brands.RemoveMarketplaces(ctx, 1, b.ID, &validation.BrandMarketplacesInput{MarketplaceIDs: []int64{7}}))
	links, _ = e.brands.Marketplaces(ctx, b.ID)
	assert.Empty(t, links)
}

func TestBrand_ForUser(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a, _ := e.brands.Create(ctx, 1, &validation.BrandInput{Name: "Acme", DisplayName: strPtr("ACME")})
	_, _ = e.brands.Create(ctx, 1, &validation.BrandInput{Name: "Other", DisplayName: strPtr("Other")})
	require.NoError(t, e.brands.AddUsers(ctx, 1, a.ID, &validation.BrandUsersInput{UserIDs: []int64{5}}))

	list, err := e.brands.ForUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Name)
}
