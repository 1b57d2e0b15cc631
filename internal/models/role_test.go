package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":      RoleAdmin,
		"Admin":      RoleAdmin,
		" ADMIN ":    RoleAdmin,
		"area_admin": RoleAreaAdmin,
		"AreaAdmin":  RoleAreaAdmin,
		"areaAdmin":  RoleAreaAdmin,
		"area-admin": RoleAreaAdmin,
	}
	for raw, want := range cases {
		got, err := ParseRole(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "root", "member", "adminn"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"cash", "Cash", " CASH "} {
		got, err := ParsePaymentMethod(raw)
		assert.NoError(t, err)
		assert.Equal(t, PaymentCash, got)
	}

	got, err := ParsePaymentMethod("online")
	assert.NoError(t, err)
	assert.Equal(t, PaymentOnline, got)

	_, err = ParsePaymentMethod("mpesa")
	assert.Error(t, err)
}
