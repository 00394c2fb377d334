//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"parkpass/internal/domain/user"
	"parkpass/internal/pkg/config"
	"parkpass/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

// GenerateToken issues a token the way the identity provider would.
func (h *JWTHelper) GenerateToken(t *testing.T, subject, email string, role user.Role) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, duration)
	token, err := service.GenerateToken(subject, email, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, subject string, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, -time.Minute)
	token, err := service.GenerateToken(subject, "", role)
	require.NoError(t, err)
	return token
}

func MustIdentity(t *testing.T, subject, email string, role user.Role) *user.Identity {
	t.Helper()
	id, err := user.NewIdentity(subject, email, role)
	require.NoError(t, err)
	return id
}
