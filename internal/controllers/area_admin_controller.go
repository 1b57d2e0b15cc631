package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chama_fund/internal/apperr"
	"chama_fund/internal/models"
)

// AreaAdminController manages the area-admin user accounts. Admin only.
type AreaAdminController struct {
	db *gorm.DB
}

func NewAreaAdminController(db *gorm.DB) *AreaAdminController {
	return &AreaAdminController{db: db}
}

// List returns all area admins with their assigned areas and the number of
// members assigned to each, counted with one grouped query.
func (ctl *AreaAdminController) List(c *gin.Context) {
	var admins []models.User
	if err := ctl.db.Where("role = ?", models.RoleAreaAdmin).
		Preload("Areas").
		Order("name").
		Find(&admins).Error; err != nil {
		writeError(c, err)
		return
	}

	type adminCount struct {
		AssignedAreaAdminID uint
		Total               int64
	}
	var counts []adminCount
	if err := ctl.db.Model(&models.Member{}).
		Select("assigned_area_admin_id, COUNT(*) AS total").
		Where("assigned_area_admin_id IS NOT NULL").
		Group("assigned_area_admin_id").
		Scan(&counts).Error; err != nil {
		writeError(c, err)
		return
	}
	byAdmin := make(map[uint]int64, len(counts))
	for _, ac := range counts {
		byAdmin[ac.AssignedAreaAdminID] = ac.Total
	}

	out := make([]gin.H, 0, len(admins))
	for _, admin := range admins {
		out = append(out, gin.H{
			"user":         admin,
			"member_count": byAdmin[admin.ID],
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type createAreaAdminInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	AreaIDs  []uint `json:"area_ids"`
}

// Create registers a new area-admin account, optionally assigning areas.
func (ctl *AreaAdminController) Create(c *gin.Context) {
	var input createAreaAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, apperr.E(apperr.Validation, "invalid request body: "+err.Error()))
		return
	}
	email := strings.TrimSpace(input.Email)

	var count int64
	if err := ctl.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		writeError(c, err)
		return
	}
	if count > 0 {
		writeError(c, apperr.E(apperr.Conflict, "email already in use"))
		return
	}

	areas, err := ctl.resolveAreas(input.AreaIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	admin := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: string(hash),
		Phone:    strings.TrimSpace(input.Phone),
		Role:     models.RoleAreaAdmin,
		Areas:    areas,
	}
	if err := ctl.db.Create(&admin).Error; err != nil {
		writeError(c, storeErr(err, "", "email already in use"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": admin})
}

type updateAreaAdminInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	AreaIDs  *[]uint `json:"area_ids"`
}

// Update applies a partial update to an area-admin account. Sending area_ids
// replaces the full assignment set.
func (ctl *AreaAdminController) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var admin models.User
	if err := ctl.db.Where("id = ? AND role = ?", id, models.RoleAreaAdmin).First(&admin).Error; err != nil {
		writeError(c, storeErr(err, "area admin not found", ""))
		return
	}

	var input updateAreaAdminInput
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
		admin.Name = name
		changed = true
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			writeError(c, apperr.E(apperr.Validation, "email must not be empty"))
			return
		}
		var count int64
		if err := ctl.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, admin.ID).
			Count(&count).Error; err != nil {
			writeError(c, err)
			return
		}
		if count > 0 {
			writeError(c, apperr.E(apperr.Conflict, "email already in use"))
			return
		}
		admin.Email = email
		changed = true
	}
	if input.Phone != nil {
		admin.Phone = strings.TrimSpace(*input.Phone)
		changed = true
	}
	if input.Password != nil {
		if *input.Password == "" {
			writeError(c, apperr.E(apperr.Validation, "password must not be empty"))
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(c, err)
			return
		}
		admin.Password = string(hash)
		changed = true
	}

	var newAreas []models.Area
	if input.AreaIDs != nil {
		newAreas, err = ctl.resolveAreas(*input.AreaIDs)
		if err != nil {
			writeError(c, err)
			return
		}
		changed = true
	}
	if !changed {
		writeError(c, apperr.E(apperr.Validation, "no fields to update"))
		return
	}

	tx := ctl.db.Begin()
	if tx.Error != nil {
		writeError(c, tx.Error)
		return
	}
	if err := tx.Save(&admin).Error; err != nil {
		tx.Rollback()
		writeError(c, storeErr(err, "", "email already in use"))
		return
	}
	if input.AreaIDs != nil {
		if err := tx.Model(&admin).Association("Areas").Replace(newAreas); err != nil {
			tx.Rollback()
			writeError(c, err)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		writeError(c, err)
		return
	}

	if err := ctl.db.Preload("Areas").First(&admin, admin.ID).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": admin})
}

// Delete removes an area-admin account. Blocked while members are assigned
// to them or payments carry them as recorder; nothing is cascaded.
func (ctl *AreaAdminController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var admin models.User
	if err := ctl.db.Where("id = ? AND role = ?", id, models.RoleAreaAdmin).First(&admin).Error; err != nil {
		writeError(c, storeErr(err, "area admin not found", ""))
		return
	}

	var memberCount int64
	if err := ctl.db.Model(&models.Member{}).
		Where("assigned_area_admin_id = ?", admin.ID).
		Count(&memberCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if memberCount > 0 {
		writeError(c, apperr.E(apperr.Conflict, "area admin still has assigned members; reassign them first"))
		return
	}

	var paymentCount int64
	if err := ctl.db.Model(&models.Payment{}).
		Where("recorded_by_id = ?", admin.ID).
		Count(&paymentCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if paymentCount > 0 {
		writeError(c, apperr.E(apperr.Conflict, "area admin has recorded payments and cannot be deleted"))
		return
	}

	tx := ctl.db.Begin()
	if tx.Error != nil {
		writeError(c, tx.Error)
		return
	}
	if err := tx.Model(&admin).Association("Areas").Clear(); err != nil {
		tx.Rollback()
		writeError(c, err)
		return
	}
	if err := tx.Delete(&admin).Error; err != nil {
		tx.Rollback()
		writeError(c, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "area admin deleted"})
}

// resolveAreas loads the given area ids, failing when any of them does not
// exist.
func (ctl *AreaAdminController) resolveAreas(ids []uint) ([]models.Area, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var areas []models.Area
	if err := ctl.db.Where("id IN ?", ids).Find(&areas).Error; err != nil {
		return nil, err
	}
	if len(areas) != len(ids) {
		return nil, apperr.E(apperr.Validation, "one or more area_ids do not exist")
	}
	return areas, nil
}
