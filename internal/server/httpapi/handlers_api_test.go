package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/services"
)

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestBrandsAPI_CRUD(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, ta.seedUser(t, "admin@example.com", models.RoleAdmin))

	resp := ta.do(t, jsonRequest(http.MethodPost, "/api/brands", map[string]string{
		"name": "Acme", "display_name": "ACME", "url": "https://acme.example",
	}), admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	id := int64(created["id"].(float64))
	assert.Equal(t, "active", created["status"])
	path := fmt.Sprintf("/api/brands/%d", id)

	resp = ta.do(t, jsonRequest(http.MethodPut, path, map[string]string{"name": "Acme Corp", "display_name": "ACME"}), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme Corp", decodeBody(t, resp)["name"])

	resp = ta.do(t, jsonRequest(http.MethodGet, path, nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.do(t, jsonRequest(http.MethodDelete, path, nil), admin)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ta.do(t, jsonRequest(http.MethodGet, path, nil), admin)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, decodeBody(t, resp)["code"])
}

func TestBrandsAPI_Validation(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, ta.seedUser(t, "admin@example.com", models.RoleAdmin))

	resp := ta.do(t, jsonRequest(http.MethodPost, "/api/brands", map[string]string{"url": "nope"}), admin)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := decodeBody(t, resp)["fields"].(map[string]any)
	assert.Equal(t, []any{"Brand name is required"}, fields["name"])

	resp = ta.do(t, jsonRequest(http.MethodGet, "/api/brands/abc", nil), admin)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID", decodeBody(t, resp)["error"])

	resp = ta.do(t, jsonRequest(http.MethodPost, "/api/brands/1/users", map[string]any{"userIds": []int64{}}), admin)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user IDs", decodeBody(t, resp)["error"])
}

func TestBrandsAPI_UsersSeeOnlyLinkedBrands(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, ta.seedUser(t, "admin@example.com", models.RoleAdmin))
	member := ta.seedUser(t, "member@example.com", models.RoleUser)

	var ids []int64
	for _, name := range []string{"Acme", "Globex"} {
		resp := ta.do(t, jsonRequest(http.MethodPost, "/api/brands", map[string]string{"name": name, "display_name": name}), admin)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		ids = append(ids, int64(decodeBody(t, resp)["id"].(float64)))
	}

	resp := ta.do(t, jsonRequest(http.MethodPost, fmt.Sprintf("/api/brands/%d/users", ids[1]),
		map[string]any{"userIds": []int64{member.ID}}), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.do(t, jsonRequest(http.MethodGet, "/api/brands", nil), admin)
	assert.Len(t, decodeList(t, resp), 2)

	resp = ta.do(t, jsonRequest(http.MethodGet, "/api/brands", nil), ta.login(t, member))
	brands := decodeList(t, resp)
	require.Len(t, brands, 1)
	assert.Equal(t, "Globex", brands[0]["name"])
}

func TestTermsAPI_DuplicateIsRejected(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, ta.seedUser(t, "admin@example.com", models.RoleAdmin))

	resp := ta.do(t, jsonRequest(http.MethodPost, "/api/brands", map[string]string{"name": "Acme", "display_name": "Acme"}), admin)
	brandID := int64(decodeBody(t, resp)["id"].(float64))

	term := map[string]any{"brand_id": brandID, "term": "ACME"}
	resp = ta.do(t, jsonRequest(http.MethodPost, "/api/terms", term), admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ta.do(t, jsonRequest(http.MethodPost, "/api/terms", term), admin)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.MsgDuplicateTerm, decodeBody(t, resp)["error"])

	resp = ta.do(t, jsonRequest(http.MethodGet, fmt.Sprintf("/api/terms?brand_id=%d", brandID), nil), admin)
	assert.Len(t, decodeList(t, resp), 1)
}

func TestMarketplacesAPI(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, ta.seedUser(t, "admin@example.com", models.RoleAdmin))
	user := ta.login(t, ta.seedUser(t, "user@example.com", models.RoleUser))

	resp := ta.do(t, jsonRequest(http.MethodPost, "/api/marketplaces", map[string]string{
		"platform_name": "Amazon", "country_code": "us", "currency_code": "usd",
	}), admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "US", decodeBody(t, resp)["country_code"])

	resp = ta.do(t, jsonRequest(http.MethodGet, "/api/marketplaces", nil), user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 1)
}

func TestDeleteUser_RefusesSelf(t *testing.T) {
	ta := newTestApp(t)
	adminUser := ta.seedUser(t, "admin@example.com", models.RoleAdmin)
	admin := ta.login(t, adminUser)
	other := ta.seedUser(t, "other@example.com", models.RoleUser)

	resp := ta.do(t, jsonRequest(http.MethodDelete, fmt.Sprintf("/api/users/%d", adminUser.ID), nil), admin)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.MsgCannotDeleteMe, decodeBody(t, resp)["error"])

	resp = ta.do(t, jsonRequest(http.MethodDelete, fmt.Sprintf("/api/users/%d", other.ID), nil), admin)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdminPages(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.login(t, ta.seedUser(t, "admin@example.com", models.RoleAdmin))

	resp := ta.do(t, jsonRequest(http.MethodPost, "/admin/users", map[string]string{
		"first_name": "New", "last_name": "Admin", "email": "new@example.com",
		"password": "password1", "phone": "5550102030", "role": "admin",
	}), admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ta.do(t, httptest.NewRequest(http.MethodGet, "/admin", nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody(t, resp)["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["users"])

	resp = ta.do(t, httptest.NewRequest(http.MethodGet, "/admin/users?role=admin", nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeBody(t, resp)["users"].(map[string]any)
	assert.Equal(t, float64(2), page["total"])
}

func TestLeadsAPI_IsPublic(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, jsonRequest(http.MethodPost, "/api/leads", map[string]string{
		"firstName": "Lee", "lastName": "Dee", "email": "lead@example.com", "company": "Initech",
	}))

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, services.MsgLeadThanks, decodeBody(t, resp)["message"])
	assert.Len(t, ta.mail.To("admin@example.com"), 1)
}
