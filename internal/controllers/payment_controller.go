package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"chama_fund/internal/apperr"
	"chama_fund/internal/auth"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

// PaymentController records and manages monthly contributions. The
// area-admin path is ownership-checked against the member's assignment; the
// admin path accepts any member. Updates and deletes are open to the admin
// or the original recorder only.
type PaymentController struct {
	db *gorm.DB
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{db: db}
}

type recordPaymentInput struct {
	MemberID      uint     `json:"member_id" binding:"required"`
	AmountPaid    *float64 `json:"amount_paid" binding:"required"`
	PaymentMethod string   `json:"payment_method" binding:"required"`
	PaymentMonth  int      `json:"payment_month" binding:"required"`
	PaymentYear   int      `json:"payment_year" binding:"required"`
	PaymentDate   *string  `json:"payment_date"`
}

func (in *recordPaymentInput) validate() (method string, date time.Time, err error) {
	if *in.AmountPaid <= 0 {
		return "", time.Time{}, apperr.E(apperr.Validation, "amount_paid must be positive")
	}
	method, err = models.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return "", time.Time{}, apperr.E(apperr.Validation, err.Error())
	}
	if in.PaymentMonth < 1 || in.PaymentMonth > 12 {
		return "", time.Time{}, apperr.E(apperr.Validation, "payment_month must be between 1 and 12")
	}
	if in.PaymentYear < 2000 || in.PaymentYear > 2100 {
		return "", time.Time{}, apperr.E(apperr.Validation, "payment_year must be between 2000 and 2100")
	}
	date = time.Now()
	if in.PaymentDate != nil && *in.PaymentDate != "" {
		date, err = time.Parse(time.RFC3339, *in.PaymentDate)
		if err != nil {
			return "", time.Time{}, apperr.E(apperr.Validation, "payment_date must be RFC3339")
		}
	}
	return method, date, nil
}

// Create records a payment for a member assigned to the calling area admin.
// The ownership lookup keys on both member id and assignment, so a wrong
// owner and a missing member produce the same 403.
func (ctl *PaymentController) Create(c *gin.Context) {
	ctl.record(c, middleware.CurrentIdentity(c), false)
}

// CreateByAdmin records a payment for any existing member on the admin's
// own identity.
func (ctl *PaymentController) CreateByAdmin(c *gin.Context) {
	ctl.record(c, middleware.CurrentIdentity(c), true)
}

func (ctl *PaymentController) record(c *gin.Context, ident auth.Identity, adminPath bool) {
	var input recordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, apperr.E(apperr.Validation, "invalid request body: "+err.Error()))
		return
	}
	method, date, err := input.validate()
	if err != nil {
		writeError(c, err)
		return
	}

	var member models.Member
	if adminPath {
		if err := ctl.db.First(&member, input.MemberID).Error; err != nil {
			writeError(c, storeErr(err, "member not found", ""))
			return
		}
	} else {
		err := ctl.db.Where("id = ? AND assigned_area_admin_id = ?", input.MemberID, ident.UserID).
			First(&member).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(c, apperr.E(apperr.Authorization, "member is not assigned to you"))
				return
			}
			writeError(c, err)
			return
		}
	}

	// Courtesy pre-check; the composite unique index settles any race.
	if err := ctl.ensurePeriodFree(member.ID, input.PaymentMonth, input.PaymentYear, 0); err != nil {
		writeError(c, err)
		return
	}

	payment := models.Payment{
		ReceiptNo:     uuid.NewString(),
		MemberID:      member.ID,
		AmountPaid:    *input.AmountPaid,
		PaymentMethod: method,
		PaymentMonth:  input.PaymentMonth,
		PaymentYear:   input.PaymentYear,
		PaymentDate:   date,
		RecordedByID:  ident.UserID,
	}
	if err := ctl.db.Create(&payment).Error; err != nil {
		writeError(c, storeErr(err, "", "payment already recorded for this member and period"))
		return
	}

	if err := ctl.db.Preload("Member").First(&payment, payment.ID).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// ListMine returns the calling area admin's own recorded payments.
func (ctl *PaymentController) ListMine(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	query, err := applyPaymentFilters(c, ctl.db.Preload("Member").Where("recorded_by_id = ?", ident.UserID))
	if err != nil {
		writeError(c, err)
		return
	}

	var payments []models.Payment
	if err := query.Order("payment_year DESC, payment_month DESC").Find(&payments).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// List returns payments matching the admin's filters.
func (ctl *PaymentController) List(c *gin.Context) {
	query, err := applyPaymentFilters(c, ctl.db.Preload("Member"))
	if err != nil {
		writeError(c, err)
		return
	}
	if raw := c.Query("member_id"); raw != "" {
		memberID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(c, apperr.E(apperr.Validation, "invalid member_id filter"))
			return
		}
		query = query.Where("member_id = ?", uint(memberID))
	}
	if raw := c.Query("area_id"); raw != "" {
		areaID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(c, apperr.E(apperr.Validation, "invalid area_id filter"))
			return
		}
		query = query.Joins("JOIN members ON members.id = payments.member_id").
			Where("members.area_id = ?", uint(areaID))
	}

	var payments []models.Payment
	if err := query.Order("payment_year DESC, payment_month DESC").Find(&payments).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// ListAll returns every payment without filters.
func (ctl *PaymentController) ListAll(c *gin.Context) {
	var payments []models.Payment
	if err := ctl.db.Preload("Member").
		Order("payment_year DESC, payment_month DESC").
		Find(&payments).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

type updatePaymentInput struct {
	AmountPaid    *float64 `json:"amount_paid"`
	PaymentMethod *string  `json:"payment_method"`
	PaymentMonth  *int     `json:"payment_month"`
	PaymentYear   *int     `json:"payment_year"`
	PaymentDate   *string  `json:"payment_date"`
}

// Update applies a partial update to a payment. Moving it to another period
// re-runs the duplicate check for that period.
func (ctl *PaymentController) Update(c *gin.Context) {
	payment, err := ctl.loadOwned(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var input updatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, apperr.E(apperr.Validation, "invalid request body: "+err.Error()))
		return
	}

	changed := false
	if input.AmountPaid != nil {
		if *input.AmountPaid <= 0 {
			writeError(c, apperr.E(apperr.Validation, "amount_paid must be positive"))
			return
		}
		payment.AmountPaid = *input.AmountPaid
		changed = true
	}
	if input.PaymentMethod != nil {
		method, err := models.ParsePaymentMethod(*input.PaymentMethod)
		if err != nil {
			writeError(c, apperr.E(apperr.Validation, err.Error()))
			return
		}
		payment.PaymentMethod = method
		changed = true
	}
	if input.PaymentMonth != nil {
		if *input.PaymentMonth < 1 || *input.PaymentMonth > 12 {
			writeError(c, apperr.E(apperr.Validation, "payment_month must be between 1 and 12"))
			return
		}
		payment.PaymentMonth = *input.PaymentMonth
		changed = true
	}
	if input.PaymentYear != nil {
		if *input.PaymentYear < 2000 || *input.PaymentYear > 2100 {
			writeError(c, apperr.E(apperr.Validation, "payment_year must be between 2000 and 2100"))
			return
		}
		payment.PaymentYear = *input.PaymentYear
		changed = true
	}
	if input.PaymentDate != nil {
		date, err := time.Parse(time.RFC3339, *input.PaymentDate)
		if err != nil {
			writeError(c, apperr.E(apperr.Validation, "payment_date must be RFC3339"))
			return
		}
		payment.PaymentDate = date
		changed = true
	}
	if !changed {
		writeError(c, apperr.E(apperr.Validation, "no fields to update"))
		return
	}

	if input.PaymentMonth != nil || input.PaymentYear != nil {
		if err := ctl.ensurePeriodFree(payment.MemberID, payment.PaymentMonth, payment.PaymentYear, payment.ID); err != nil {
			writeError(c, err)
			return
		}
	}

	if err := ctl.db.Save(&payment).Error; err != nil {
		writeError(c, storeErr(err, "", "payment already recorded for this member and period"))
		return
	}

	if err := ctl.db.Preload("Member").First(&payment, payment.ID).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// Delete removes a payment. Hard delete, so the period can be re-recorded.
func (ctl *PaymentController) Delete(c *gin.Context) {
	payment, err := ctl.loadOwned(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := ctl.db.Unscoped().Delete(&payment).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment deleted"})
}

// loadOwned fetches the payment and enforces the mutation rule: the admin or
// the original recorder, nobody else.
func (ctl *PaymentController) loadOwned(c *gin.Context) (models.Payment, error) {
	ident := middleware.CurrentIdentity(c)

	id, err := pathID(c, "paymentId")
	if err != nil {
		return models.Payment{}, err
	}

	var payment models.Payment
	if err := ctl.db.First(&payment, id).Error; err != nil {
		return models.Payment{}, storeErr(err, "payment not found", "")
	}

	if ident.Role != models.RoleAdmin && payment.RecordedByID != ident.UserID {
		return models.Payment{}, apperr.E(apperr.Authorization, "only the admin or the original recorder may modify this payment")
	}
	return payment, nil
}

func (ctl *PaymentController) ensurePeriodFree(memberID uint, month, year int, excludeID uint) error {
	query := ctl.db.Model(&models.Payment{}).
		Where("member_id = ? AND payment_month = ? AND payment_year = ?", memberID, month, year)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.E(apperr.Conflict, "payment already recorded for this member and period")
	}
	return nil
}

func applyPaymentFilters(c *gin.Context, query *gorm.DB) (*gorm.DB, error) {
	if raw := c.Query("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return nil, apperr.E(apperr.Validation, "invalid month filter")
		}
		query = query.Where("payment_month = ?", month)
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apperr.E(apperr.Validation, "invalid year filter")
		}
		query = query.Where("payment_year = ?", year)
	}
	return query, nil
}
