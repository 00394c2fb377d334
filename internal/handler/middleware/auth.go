package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"parkpass/internal/domain/user"
	"parkpass/internal/handler/httperr"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxIdentityKey = "identity"
	// Browsers cannot set headers on a WebSocket handshake.
	wsTokenQueryParam = "access_token"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "Access token required", nil)
			return
		}

		identity, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.Mark(err, errs.ErrUnauthenticated), "Invalid or expired token", nil)
			return
		}

		c.Set(ctxIdentityKey, identity)
		c.Next()
	}
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("role check without identity"), "Internal server error", nil)
			return
		}

		if !identity.Role().AtLeast(minRole) {
			httperr.AbortWithError(c, http.StatusForbidden, errs.Newf("role %s below %s", identity.Role(), minRole), "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

func GetIdentity(c *gin.Context) (*user.Identity, bool) {
	v, exists := c.Get(ctxIdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*user.Identity)
	return identity, ok && identity != nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query(wsTokenQueryParam)
	}
	return ""
}
