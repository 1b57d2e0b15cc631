package models

import "gorm.io/gorm"

// Member is a fund contributor. AssignedAreaAdminID, when set, must point at
// a User with role area_admin; it is the ownership key for scoped reads and
// for the area-admin payment-recording path.
type Member struct {
	gorm.Model
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	MonthlyAmount float64 `json:"monthly_amount"`

	AreaID uint `json:"area_id" gorm:"index"`
	Area   Area `json:"area,omitempty" gorm:"foreignKey:AreaID"`

	AssignedAreaAdminID *uint `json:"assigned_area_admin_id" gorm:"index"`
	AssignedAreaAdmin   *User `json:"assigned_area_admin,omitempty" gorm:"foreignKey:AssignedAreaAdminID"`
}
