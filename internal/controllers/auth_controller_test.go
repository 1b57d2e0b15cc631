package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chama_fund/internal/models"
)

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)
	admin, _ := env.seedAdmin(t)

	w := env.do(t, http.MethodPost, "/auth/admin/login", "", map[string]any{
		"email":    admin.Email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, admin.Email, user["email"])
	assert.NotContains(t, w.Body.String(), testPassword)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	admin, _ := env.seedAdmin(t)

	w := env.do(t, http.MethodPost, "/auth/admin/login", "", map[string]any{
		"email":    admin.Email,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLoginRejectsAreaAdminCredential(t *testing.T) {
	env := newTestEnv(t)
	areaAdmin, _ := env.seedUser(t, "Collector", "collector@example.com", models.RoleAreaAdmin)

	// Right password, wrong portal: same 401 as a bad credential.
	w := env.do(t, http.MethodPost, "/auth/admin/login", "", map[string]any{
		"email":    areaAdmin.Email,
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/auth/area-admin/login", "", map[string]any{
		"email":    areaAdmin.Email,
		"password": testPassword,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/admin/login", "", map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/auth/admin/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/auth/admin/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeForbiddenForAreaAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "Collector", "collector@example.com", models.RoleAreaAdmin)

	w := env.do(t, http.MethodGet, "/auth/admin/me", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	admin, token := env.seedAdmin(t)

	w := env.do(t, http.MethodPut, "/auth/admin/me", token, map[string]any{
		"name":  "Renamed Admin",
		"phone": "0712345678",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved models.User
	require.NoError(t, env.db.First(&saved, admin.ID).Error)
	assert.Equal(t, "Renamed Admin", saved.Name)
	assert.Equal(t, "0712345678", saved.Phone)
}

func TestUpdateMeRejectsEmptyUpdate(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)

	w := env.do(t, http.MethodPut, "/auth/admin/me", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
