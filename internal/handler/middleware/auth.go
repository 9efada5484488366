package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"diamond-topup/internal/handler/httperr"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"
	"diamond-topup/internal/pkg/secret"
	"diamond-topup/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ctxAccountIDKey = "account_id"
	ctxResellerKey  = "reseller"

	SessionHeader   = "X-Session-ID"
	ReconcileHeader = "X-Reconcile-Secret"
)

var errReconcileForbidden = errs.New("reconcile secret rejected")

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
	reconcileHash  string
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator, cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
		reconcileHash:  cfg.Sweep.SecretHash,
	}
}

// OptionalAuth identifies resellers. Anonymous buyers and invalid tokens
// continue at the retail tier.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Debug("任意認証でトークンの検証に失敗しました", "error", err.Error())
			c.Next()
			return
		}

		c.Set(ctxAccountIDKey, session.AccountID)
		c.Set(ctxResellerKey, session.Reseller)
		c.Set("jwt_claims", map[string]any{
			"account_id": session.AccountID,
			"reseller":   session.Reseller,
		})
		c.Next()
	}
}

// RequireReconcileSecret guards the manual sweep trigger.
func (m *AuthMiddleware) RequireReconcileSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(ReconcileHeader)
		if err := secret.Compare(m.reconcileHash, provided); err != nil {
			slog.Warn("照合トリガーを拒否しました", "client_ip", c.ClientIP())
			httperr.AbortWithError(c, http.StatusForbidden, errs.Mark(err, errReconcileForbidden), "Forbidden", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// GetResellerID returns the reseller account id, or "" for retail buyers.
func GetResellerID(c *gin.Context) string {
	reseller, ok := c.Get(ctxResellerKey)
	if !ok {
		return ""
	}
	if isReseller, _ := reseller.(bool); !isReseller {
		return ""
	}
	accountID, _ := c.Get(ctxAccountIDKey)
	id, _ := accountID.(string)
	return id
}

func GetSessionID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}
