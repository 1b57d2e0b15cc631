package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chama_fund/internal/apperr"
	"chama_fund/internal/models"
)

// ErrMissingSecret is returned when JWT_SECRET is not configured. The server
// refuses to start rather than falling back to a baked-in secret.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// Identity is the {id, role} pair resolved from a verified token.
type Identity struct {
	UserID uint
	Role   models.Role
}

// TokenManager issues and verifies the HS256 bearer tokens used by both
// login portals. There is no refresh or revocation; expiry forces
// re-authentication.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// NewTokenManagerFromEnv reads JWT_SECRET and the optional JWT_TTL_HOURS.
func NewTokenManagerFromEnv() (*TokenManager, error) {
	ttl := 24 * time.Hour
	if raw := os.Getenv("JWT_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid JWT_TTL_HOURS %q", raw)
		}
		ttl = time.Duration(hours) * time.Hour
	}
	return NewTokenManager(os.Getenv("JWT_SECRET"), ttl)
}

func (tm *TokenManager) Generate(userID uint, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(tm.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify checks signature and expiry and resolves the embedded identity.
// Any failure surfaces as an authentication error.
func (tm *TokenManager) Verify(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Identity{}, apperr.Wrap(apperr.Authentication, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.E(apperr.Authentication, "invalid token claims")
	}

	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return Identity{}, apperr.E(apperr.Authentication, "token is missing user_id")
	}
	rawRole, ok := claims["role"].(string)
	if !ok {
		return Identity{}, apperr.E(apperr.Authentication, "token is missing role")
	}
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return Identity{}, apperr.E(apperr.Authentication, "token carries an unknown role")
	}

	return Identity{UserID: uint(rawID), Role: role}, nil
}
