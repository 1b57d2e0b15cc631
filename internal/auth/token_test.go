package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chama_fund/internal/apperr"
	"chama_fund/internal/models"
)

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := tm.Generate(42, models.RoleAreaAdmin)
	require.NoError(t, err)

	ident, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), ident.UserID)
	assert.Equal(t, models.RoleAreaAdmin, ident.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := tm.Generate(1, models.RoleAdmin)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, err := NewTokenManager("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Generate(1, models.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = tm.Verify("not-a-token")
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
}
