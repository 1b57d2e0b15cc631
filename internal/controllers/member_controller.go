package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/apperr"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

// MemberController manages fund members. Reads are role-scoped: an area
// admin only ever sees the members assigned to them. Mutations are admin
// only (enforced at the route).
type MemberController struct {
	db *gorm.DB
}

func NewMemberController(db *gorm.DB) *MemberController {
	return &MemberController{db: db}
}

// MemberResponse adds the paid-this-month flag the dashboard renders next to
// each member.
type MemberResponse struct {
	models.Member
	IsCurrentMonthPaid bool `json:"is_current_month_paid"`
}

// List returns members visible to the caller, annotated with whether the
// current month's payment exists. The annotation comes from one batched
// payment query across the fetched set, not a query per member.
func (ctl *MemberController) List(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	query := ctl.db.Preload("Area").Preload("AssignedAreaAdmin")
	switch ident.Role {
	case models.RoleAdmin:
		// no filter
	case models.RoleAreaAdmin:
		query = query.Where("assigned_area_admin_id = ?", ident.UserID)
	default:
		writeError(c, apperr.E(apperr.Authorization, "role is not allowed to list members"))
		return
	}

	if raw := c.Query("area_id"); raw != "" {
		areaID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(c, apperr.E(apperr.Validation, "invalid area_id filter"))
			return
		}
		query = query.Where("area_id = ?", uint(areaID))
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var members []models.Member
	if err := query.Order("name").Find(&members).Error; err != nil {
		writeError(c, err)
		return
	}

	paid, err := ctl.currentMonthPaid(members)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, MemberResponse{Member: m, IsCurrentMonthPaid: paid[m.ID]})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// Get returns one member. For an area admin the lookup is keyed on both id
// and ownership, so an unassigned member and a nonexistent one are
// indistinguishable.
func (ctl *MemberController) Get(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	query := ctl.db.Preload("Area").Preload("AssignedAreaAdmin")
	var member models.Member
	if ident.Role == models.RoleAreaAdmin {
		err := query.Where("id = ? AND assigned_area_admin_id = ?", id, ident.UserID).
			First(&member).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, apperr.E(apperr.Authorization, "member is not assigned to you"))
				return
			}
			writeError(c, err)
			return
		}
	} else {
		if err := query.First(&member, id).Error; err != nil {
			writeError(c, storeErr(err, "member not found", ""))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

type createMemberInput struct {
	Name                string   `json:"name" binding:"required"`
	Phone               string   `json:"phone"`
	Address             string   `json:"address"`
	MonthlyAmount       *float64 `json:"monthly_amount" binding:"required"`
	AreaID              uint     `json:"area_id" binding:"required"`
	AssignedAreaAdminID *uint    `json:"assigned_area_admin_id"`
}

// Create registers a new member after checking both foreign keys resolve.
func (ctl *MemberController) Create(c *gin.Context) {
	var input createMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, apperr.E(apperr.Validation, "invalid request body: "+err.Error()))
		return
	}
	if *input.MonthlyAmount < 0 {
		writeError(c, apperr.E(apperr.Validation, "monthly_amount must not be negative"))
		return
	}

	if err := ctl.checkArea(input.AreaID); err != nil {
		writeError(c, err)
		return
	}
	if err := ctl.checkAssignee(input.AssignedAreaAdminID); err != nil {
		writeError(c, err)
		return
	}

	member := models.Member{
		Name:                strings.TrimSpace(input.Name),
		Phone:               strings.TrimSpace(input.Phone),
		Address:             strings.TrimSpace(input.Address),
		MonthlyAmount:       *input.MonthlyAmount,
		AreaID:              input.AreaID,
		AssignedAreaAdminID: input.AssignedAreaAdminID,
	}
	if err := ctl.db.Create(&member).Error; err != nil {
		writeError(c, storeErr(err, "", "member conflicts with an existing row"))
		return
	}

	if err := ctl.db.Preload("Area").Preload("AssignedAreaAdmin").First(&member, member.ID).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

type updateMemberInput struct {
	Name                *string  `json:"name"`
	Phone               *string  `json:"phone"`
	Address             *string  `json:"address"`
	MonthlyAmount       *float64 `json:"monthly_amount"`
	AreaID              *uint    `json:"area_id"`
	AssignedAreaAdminID *uint    `json:"assigned_area_admin_id"`
	ClearAssignment     bool     `json:"clear_assignment"`
}

// Update applies a partial update. clear_assignment removes the area-admin
// link, since a JSON null and an absent field are indistinguishable after
// binding.
func (ctl *MemberController) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var member models.Member
	if err := ctl.db.First(&member, id).Error; err != nil {
		writeError(c, storeErr(err, "member not found", ""))
		return
	}

	var input updateMemberInput
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
		member.Name = name
		changed = true
	}
	if input.Phone != nil {
		member.Phone = strings.TrimSpace(*input.Phone)
		changed = true
	}
	if input.Address != nil {
		member.Address = strings.TrimSpace(*input.Address)
		changed = true
	}
	if input.MonthlyAmount != nil {
		if *input.MonthlyAmount < 0 {
			writeError(c, apperr.E(apperr.Validation, "monthly_amount must not be negative"))
			return
		}
		member.MonthlyAmount = *input.MonthlyAmount
		changed = true
	}
	if input.AreaID != nil {
		if err := ctl.checkArea(*input.AreaID); err != nil {
			writeError(c, err)
			return
		}
		member.AreaID = *input.AreaID
		changed = true
	}
	if input.ClearAssignment {
		member.AssignedAreaAdminID = nil
		changed = true
	} else if input.AssignedAreaAdminID != nil {
		if err := ctl.checkAssignee(input.AssignedAreaAdminID); err != nil {
			writeError(c, err)
			return
		}
		member.AssignedAreaAdminID = input.AssignedAreaAdminID
		changed = true
	}
	if !changed {
		writeError(c, apperr.E(apperr.Validation, "no fields to update"))
		return
	}

	if err := ctl.db.Save(&member).Error; err != nil {
		writeError(c, err)
		return
	}

	if err := ctl.db.Preload("Area").Preload("AssignedAreaAdmin").First(&member, member.ID).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// Delete removes a member unless payments reference them.
func (ctl *MemberController) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}

	var member models.Member
	if err := ctl.db.First(&member, id).Error; err != nil {
		writeError(c, storeErr(err, "member not found", ""))
		return
	}

	var paymentCount int64
	if err := ctl.db.Model(&models.Payment{}).Where("member_id = ?", member.ID).Count(&paymentCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if paymentCount > 0 {
		writeError(c, apperr.E(apperr.Conflict, "member has recorded payments and cannot be deleted"))
		return
	}

	if err := ctl.db.Delete(&member).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member deleted"})
}

// currentMonthPaid returns the set of member ids with a payment for the
// current period, via a single IN query over the fetched members.
func (ctl *MemberController) currentMonthPaid(members []models.Member) (map[uint]bool, error) {
	paid := make(map[uint]bool, len(members))
	if len(members) == 0 {
		return paid, nil
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	now := time.Now()
	var paidIDs []uint
	if err := ctl.db.Model(&models.Payment{}).
		Where("member_id IN ? AND payment_month = ? AND payment_year = ?", ids, int(now.Month()), now.Year()).
		Pluck("member_id", &paidIDs).Error; err != nil {
		return nil, err
	}
	for _, id := range paidIDs {
		paid[id] = true
	}
	return paid, nil
}

func (ctl *MemberController) checkArea(areaID uint) error {
	var count int64
	if err := ctl.db.Model(&models.Area{}).Where("id = ?", areaID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.E(apperr.Validation, "area does not exist")
	}
	return nil
}

func (ctl *MemberController) checkAssignee(userID *uint) error {
	if userID == nil {
		return nil
	}
	var count int64
	if err := ctl.db.Model(&models.User{}).
		Where("id = ? AND role = ?", *userID, models.RoleAreaAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.E(apperr.Validation, "assigned_area_admin_id does not reference an area admin")
	}
	return nil
}
