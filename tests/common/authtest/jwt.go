//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) ResellerToken(t *testing.T, accountID string) string {
	t.Helper()
	return h.generate(t, accountID, jwt.RoleReseller, time.Hour)
}

func (h *JWTHelper) CustomerToken(t *testing.T, accountID string) string {
	t.Helper()
	return h.generate(t, accountID, jwt.RoleCustomer, time.Hour)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, accountID string) string {
	t.Helper()
	token := h.generate(t, accountID, jwt.RoleReseller, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	return token
}

func (h *JWTHelper) generate(t *testing.T, accountID, role string, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret).GenerateToken(accountID, role, ttl)
	require.NoError(t, err)
	return token
}
