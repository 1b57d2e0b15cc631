package models

import "gorm.io/gorm"

// User is a system principal: either the admin or an area admin.
// Area admins are linked to the areas they collect for through the
// area_assignments join table and own the members/payments that
// reference them.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"index"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role" gorm:"type:varchar(32);index"`

	Areas []Area `json:"areas,omitempty" gorm:"many2many:area_assignments;"`
}
