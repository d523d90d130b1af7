package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/models"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func staffClaims(issuer string, expires time.Time) models.JWTClaims {
	return models.JWTClaims{
		UserID: "u-1",
		Role:   models.RoleStaff,
		Email:  "staff@fpt.edu.vn",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestValidateTokenAcceptsPortalToken(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "portal"})
	token := signToken(t, "s3cret", staffClaims("portal", time.Now().Add(time.Hour)))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, claims.Role)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "portal"})

	cases := map[string]string{
		"wrong secret":  signToken(t, "other", staffClaims("portal", time.Now().Add(time.Hour))),
		"wrong issuer":  signToken(t, "s3cret", staffClaims("elsewhere", time.Now().Add(time.Hour))),
		"expired":       signToken(t, "s3cret", staffClaims("portal", time.Now().Add(-time.Hour))),
		"garbage token": "not-a-jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
		})
	}
}
