package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chama_fund/internal/models"
)

func TestCreateArea(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)

	w := env.do(t, http.MethodPost, "/areas", token, map[string]any{"name": "North"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var count int64
	env.db.Model(&models.Area{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateAreaNameUniqueCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)
	env.seedArea(t, "NORTH")

	w := env.do(t, http.MethodPost, "/areas", token, map[string]any{"name": "north"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateAreaWithBoundary(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)

	boundary := `{"type":"Polygon","coordinates":[[[36.8,-1.3],[36.9,-1.3],[36.9,-1.2],[36.8,-1.3]]]}`
	w := env.do(t, http.MethodPost, "/areas", token, map[string]any{
		"name":     "Westlands",
		"boundary": boundary,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	list := env.do(t, http.MethodGet, "/areas", token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Polygon")
}

func TestCreateAreaRejectsBadBoundary(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)

	w := env.do(t, http.MethodPost, "/areas", token, map[string]any{
		"name":     "Broken",
		"boundary": "{not geojson",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAreaPartial(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)
	area := env.seedArea(t, "Old Name")

	w := env.do(t, http.MethodPut, itemPath("/areas", area.ID), token, map[string]any{"name": "New Name"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved models.Area
	require.NoError(t, env.db.First(&saved, area.ID).Error)
	assert.Equal(t, "New Name", saved.Name)

	w = env.do(t, http.MethodPut, itemPath("/areas", area.ID), token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAreaBlockedByMember(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)
	area := env.seedArea(t, "North")
	env.seedMember(t, "Jane", area.ID, nil)

	w := env.do(t, http.MethodDelete, itemPath("/areas", area.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// nothing deleted
	var count int64
	env.db.Model(&models.Area{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteAreaBlockedByAssignment(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)
	area := env.seedArea(t, "North")

	collector, _ := env.seedUser(t, "Collector", "collector@example.com", models.RoleAreaAdmin)
	require.NoError(t, env.db.Model(&collector).Association("Areas").Append(&area))

	w := env.do(t, http.MethodDelete, itemPath("/areas", area.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteAreaWithoutDependents(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)
	area := env.seedArea(t, "Empty")

	w := env.do(t, http.MethodDelete, itemPath("/areas", area.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.Area{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDeleteAreaFreesName(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedAdmin(t)

	w := env.do(t, http.MethodPost, "/areas", token, map[string]any{"name": "North"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decodeBody(t, w)["area"].(map[string]any)["ID"].(float64))

	w = env.do(t, http.MethodDelete, itemPath("/areas", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the deleted row must not reserve the name
	w = env.do(t, http.MethodPost, "/areas", token, map[string]any{"name": "North"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAreaRoutesForbiddenForAreaAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "Collector", "collector@example.com", models.RoleAreaAdmin)

	w := env.do(t, http.MethodGet, "/areas", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// a wrong-role write must not reach the store
	w = env.do(t, http.MethodPost, "/areas", token, map[string]any{"name": "Rogue"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	var count int64
	env.db.Model(&models.Area{}).Count(&count)
	assert.EqualValues(t, 0, count)

	area := env.seedArea(t, "North")
	w = env.do(t, http.MethodDelete, itemPath("/areas", area.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	env.db.Model(&models.Area{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
