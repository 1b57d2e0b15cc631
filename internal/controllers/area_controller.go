package controllers

import (
	"encoding/binary"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/apperr"
	"chama_fund/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// AreaController manages the geographic partitions. Admin only.
type AreaController struct {
	db *gorm.DB
}

func NewAreaController(db *gorm.DB) *AreaController {
	return &AreaController{db: db}
}

// AreaResponse mirrors models.Area with the boundary as a GeoJSON string and
// the dependent-member count the dashboard shows per area.
type AreaResponse struct {
	ID          uint           `json:"ID"`
	CreatedAt   time.Time      `json:"CreatedAt"`
	UpdatedAt   time.Time      `json:"UpdatedAt"`
	DeletedAt   gorm.DeletedAt `json:"DeletedAt,omitempty"`
	Name        string         `json:"name"`
	Boundary    string         `json:"boundary,omitempty"`
	MemberCount int64          `json:"member_count"`
}

func toAreaResponse(area models.Area, memberCount int64) AreaResponse {
	boundary, _ := boundaryToGeoJSON(area.Boundary)
	return AreaResponse{
		ID:          area.ID,
		CreatedAt:   area.CreatedAt,
		UpdatedAt:   area.UpdatedAt,
		DeletedAt:   area.DeletedAt,
		Name:        area.Name,
		Boundary:    boundary,
		MemberCount: memberCount,
	}
}

// parseBoundary parses a GeoJSON string into WKB bytes for storage.
func parseBoundary(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// boundaryToGeoJSON converts stored WKB bytes back into a GeoJSON string.
func boundaryToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// List returns all areas with their member counts, fetched in one grouped
// query rather than per area.
func (ctl *AreaController) List(c *gin.Context) {
	var areas []models.Area
	if err := ctl.db.Order("name").Find(&areas).Error; err != nil {
		writeError(c, err)
		return
	}

	type areaCount struct {
		AreaID uint
		Total  int64
	}
	var counts []areaCount
	if err := ctl.db.Model(&models.Member{}).
		Select("area_id, COUNT(*) AS total").
		Group("area_id").
		Scan(&counts).Error; err != nil {
		writeError(c, err)
		return
	}
	byArea := make(map[uint]int64, len(counts))
	for _, ac := range counts {
		byArea[ac.AreaID] = ac.Total
	}

	out := make([]AreaResponse, 0, len(areas))
	for _, area := range areas {
		out = append(out, toAreaResponse(area, byArea[area.ID]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type createAreaInput struct {
	Name     string `json:"name" binding:"required"`
	Boundary string `json:"boundary"`
}

// Create adds a new area. Names are unique regardless of casing.
func (ctl *AreaController) Create(c *gin.Context) {
	var input createAreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, apperr.E(apperr.Validation, "invalid request body: "+err.Error()))
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		writeError(c, apperr.E(apperr.Validation, "name must not be empty"))
		return
	}

	if err := ctl.ensureNameAvailable(name, 0); err != nil {
		writeError(c, err)
		return
	}

	boundary, err := parseBoundary(input.Boundary)
	if err != nil {
		writeError(c, apperr.E(apperr.Validation, "invalid boundary geometry: "+err.Error()))
		return
	}

	area := models.Area{Name: name, Boundary: boundary}
	if err := ctl.db.Create(&area).Error; err != nil {
		writeError(c, storeErr(err, "", "area name already in use"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"area": toAreaResponse(area, 0)})
}

type updateAreaInput struct {
	Name     *string `json:"name"`
	Boundary *string `json:"boundary"`
}

// Update applies a partial update to an area.
func (ctl *AreaController) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var area models.Area
	if err := ctl.db.First(&area, id).Error; err != nil {
		writeError(c, storeErr(err, "area not found", ""))
		return
	}

	var input updateAreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, apperr.E(apperr.Validation, "invalid request body: "+err.Error()))
		return
	}

	changed := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			writeError(c, apperr.E(apperr.Validation, "name must not be empty"))
			return
		}
		if err := ctl.ensureNameAvailable(name, area.ID); err != nil {
			writeError(c, err)
			return
		}
		area.Name = name
		changed = true
	}
	if input.Boundary != nil {
		boundary, err := parseBoundary(*input.Boundary)
		if err != nil {
			writeError(c, apperr.E(apperr.Validation, "invalid boundary geometry: "+err.Error()))
			return
		}
		area.Boundary = boundary
		changed = true
	}
	if !changed {
		writeError(c, apperr.E(apperr.Validation, "no fields to update"))
		return
	}

	if err := ctl.db.Save(&area).Error; err != nil {
		writeError(c, storeErr(err, "", "area name already in use"))
		return
	}

	var memberCount int64
	if err := ctl.db.Model(&models.Member{}).Where("area_id = ?", area.ID).Count(&memberCount).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"area": toAreaResponse(area, memberCount)})
}

// Delete removes an area unless members or area-admin assignments still
// reference it. Nothing is cascaded; the caller must move dependents first.
func (ctl *AreaController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var area models.Area
	if err := ctl.db.First(&area, id).Error; err != nil {
		writeError(c, storeErr(err, "area not found", ""))
		return
	}

	var memberCount int64
	if err := ctl.db.Model(&models.Member{}).Where("area_id = ?", area.ID).Count(&memberCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if memberCount > 0 {
		writeError(c, apperr.E(apperr.Conflict, "area still has members; reassign or delete them first"))
		return
	}

	var assignmentCount int64
	if err := ctl.db.Table("area_assignments").Where("area_id = ?", area.ID).Count(&assignmentCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if assignmentCount > 0 {
		writeError(c, apperr.E(apperr.Conflict, "area is still assigned to area admins; unassign them first"))
		return
	}

	if err := ctl.db.Delete(&area).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "area deleted"})
}

// ensureNameAvailable is the case-insensitive uniqueness pre-check; the
// LOWER(name) index catches the race it cannot.
func (ctl *AreaController) ensureNameAvailable(name string, excludeID uint) error {
	query := ctl.db.Model(&models.Area{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.E(apperr.Conflict, "area name already in use")
	}
	return nil
}
