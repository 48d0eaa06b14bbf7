package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/auth"
	"portfolio/internal/database"
)

const identityKey = "identity"

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// UserLookup is satisfied by *auth.UserStore.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*database.User, error)
}

// BearerToken 解析 "Authorization: Bearer <token>"，格式不符返回空串。
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware 校验访问令牌，并以数据库中的用户为准注入身份。
// 用户被删除后旧令牌立即失效；管理员权限也以库内记录为准。
func AuthMiddleware(verifier TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.ID)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			LoggerFromContext(c).Error("load token user failed",
				slog.Uint64("user_id", uint64(claims.ID)),
				slog.Any("error", err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
			return
		}

		c.Set(identityKey, auth.Identity{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin})
		c.Next()
	}
}

// RequireAdmin 必须挂在 AuthMiddleware 之后。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFromContext(c)
		if !ok || !id.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// IdentityFromContext 取出 AuthMiddleware 注入的身份。
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := value.(auth.Identity)
	return id, ok
}
