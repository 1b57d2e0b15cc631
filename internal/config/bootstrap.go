package config

import (
	"os"

	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chama_fund/internal/models"
)

// SeedAdmin creates the initial admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin row exists yet. The password is hashed before
// it touches the database; after first boot the env credentials are only used
// through the normal login flow.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logrus.Warn("no admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are unset; skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     getEnv("ADMIN_NAME", "Administrator"),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithField("email", email).Info("seeded initial admin account")
	return nil
}
