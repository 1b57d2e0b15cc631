package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/models"
)

// ReportController serves the admin dashboard's summary figures.
type ReportController struct {
	db *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{db: db}
}

// Summary returns fund-wide totals for the current month: member and area
// counts, the amount collected, and how many members have or haven't paid.
func (ctl *ReportController) Summary(c *gin.Context) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	var memberCount, areaCount, areaAdminCount, paidCount int64
	var collected float64

	if err := ctl.db.Model(&models.Member{}).Count(&memberCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if err := ctl.db.Model(&models.Area{}).Count(&areaCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if err := ctl.db.Model(&models.User{}).
		Where("role = ?", models.RoleAreaAdmin).
		Count(&areaAdminCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if err := ctl.db.Model(&models.Payment{}).
		Where("payment_month = ? AND payment_year = ?", month, year).
		Count(&paidCount).Error; err != nil {
		writeError(c, err)
		return
	}
	if err := ctl.db.Model(&models.Payment{}).
		Where("payment_month = ? AND payment_year = ?", month, year).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&collected).Error; err != nil {
		writeError(c, err)
		return
	}

	unpaidCount := memberCount - paidCount
	if unpaidCount < 0 {
		unpaidCount = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"month":               month,
			"year":                year,
			"member_count":        memberCount,
			"area_count":          areaCount,
			"area_admin_count":    areaAdminCount,
			"collected_amount":    collected,
			"paid_member_count":   paidCount,
			"unpaid_member_count": unpaidCount,
		},
	})
}
