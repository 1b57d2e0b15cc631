package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Payment method values stored on a payment row.
const (
	PaymentCash   = "Cash"
	PaymentOnline = "Online"
)

// ParsePaymentMethod normalizes a client-supplied method string.
func ParsePaymentMethod(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cash":
		return PaymentCash, nil
	case "online":
		return PaymentOnline, nil
	default:
		return "", fmt.Errorf("invalid payment method %q", raw)
	}
}

// Payment records one member's contribution for one month. The composite
// unique index on (member, month, year) is the final arbiter of the
// one-payment-per-period invariant; the application-level existence check is
// only a courtesy pre-check and can race.
type Payment struct {
	gorm.Model
	ReceiptNo string `json:"receipt_no" gorm:"uniqueIndex"`

	MemberID uint   `json:"member_id" gorm:"uniqueIndex:idx_payments_member_period"`
	Member   Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`

	AmountPaid    float64   `json:"amount_paid"`
	PaymentMethod string    `json:"payment_method" gorm:"type:varchar(16)"`
	PaymentMonth  int       `json:"payment_month" gorm:"uniqueIndex:idx_payments_member_period"`
	PaymentYear   int       `json:"payment_year" gorm:"uniqueIndex:idx_payments_member_period"`
	PaymentDate   time.Time `json:"payment_date"`

	RecordedByID uint `json:"recorded_by_id" gorm:"index"`
	RecordedBy   User `json:"-" gorm:"foreignKey:RecordedByID"`
}
