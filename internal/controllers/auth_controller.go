package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chama_fund/internal/apperr"
	"chama_fund/internal/auth"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

// AuthController serves both login portals and the admin's own profile.
type AuthController struct {
	db     *gorm.DB
	tokens *auth.TokenManager
}

func NewAuthController(db *gorm.DB, tokens *auth.TokenManager) *AuthController {
	return &AuthController{db: db, tokens: tokens}
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin issues a token for an admin credential match.
func (ac *AuthController) AdminLogin(c *gin.Context) {
	ac.login(c, models.RoleAdmin)
}

// AreaAdminLogin issues a token for an area-admin credential match.
func (ac *AuthController) AreaAdminLogin(c *gin.Context) {
	ac.login(c, models.RoleAreaAdmin)
}

// login checks a credential against the users of one role. A wrong portal,
// an unknown email and a wrong password all produce the same 401 so the
// response does not reveal which part failed.
func (ac *AuthController) login(c *gin.Context, role models.Role) {
	var body loginInput
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apperr.E(apperr.Validation, "email and password are required"))
		return
	}

	var user models.User
	err := ac.db.Where("email = ? AND role = ?", strings.TrimSpace(body.Email), role).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, apperr.E(apperr.Authentication, "invalid credentials"))
			return
		}
		writeError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		writeError(c, apperr.E(apperr.Authentication, "invalid credentials"))
		return
	}

	token, err := ac.tokens.Generate(user.ID, user.Role)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the authenticated admin's own profile.
func (ac *AuthController) Me(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	var user models.User
	if err := ac.db.First(&user, ident.UserID).Error; err != nil {
		writeError(c, storeErr(err, "user not found", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

// UpdateMe applies a partial update to the caller's own profile.
func (ac *AuthController) UpdateMe(c *gin.Context) {
	ident := middleware.CurrentIdentity(c)

	var user models.User
	if err := ac.db.First(&user, ident.UserID).Error; err != nil {
		writeError(c, storeErr(err, "user not found", ""))
		return
	}

	var input updateProfileInput
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
		user.Name = name
		changed = true
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
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
		user.Password = string(hash)
		changed = true
	}
	if !changed {
		writeError(c, apperr.E(apperr.Validation, "no fields to update"))
		return
	}

	if err := ac.db.Save(&user).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
