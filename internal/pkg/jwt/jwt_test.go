//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"parkpass/internal/domain/user"
	"parkpass/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	t.Run("round trip keeps subject email and role", func(t *testing.T) {
		svc := jwt.NewService("secret", "parkpass-idp", time.Hour)

		token, err := svc.GenerateToken("uid-123", "driver@example.com", user.RoleOperator)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "uid-123", claims.Subject)
		assert.Equal(t, "driver@example.com", claims.Email)
		assert.Equal(t, "operator", claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		svc := jwt.NewService("secret", "", -time.Minute)
		token, err := svc.GenerateToken("uid-123", "", user.RoleViewer)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("secret", "", time.Hour).GenerateToken("uid-123", "", user.RoleViewer)
		require.NoError(t, err)

		_, err = jwt.NewService("other", "", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		token, err := jwt.NewService("secret", "someone-else", time.Hour).GenerateToken("uid-123", "", user.RoleViewer)
		require.NoError(t, err)

		_, err = jwt.NewService("secret", "parkpass-idp", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		raw := gojwt.NewWithClaims(gojwt.SigningMethodHS256, jwt.Claims{
			Role: "viewer",
			RegisteredClaims: gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, err := raw.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = jwt.NewService("secret", "", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("none algorithm rejected", func(t *testing.T) {
		raw := gojwt.NewWithClaims(gojwt.SigningMethodNone, jwt.Claims{
			Role:             "admin",
			RegisteredClaims: gojwt.RegisteredClaims{Subject: "attacker"},
		})
		token, err := raw.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = jwt.NewService("secret", "", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
