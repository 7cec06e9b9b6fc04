package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/makpal80/avtoray/internal/dto"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys for user info
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// AuthRequired validates the Bearer token and attaches the caller's identity to
// both the gin context and the request context seen by services.
func AuthRequired(authn Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing Authorization header"))
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("empty token"))
			return
		}

		claims, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		c.Set(CtxUserID, claims.UserID.String())
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), claims.UserID, claims.IsAdmin))
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("admin access required"))
			return
		}
		c.Next()
	}
}

// ExtractBearerToken извлекает токен из заголовка Authorization, устойчиво к лишним символам
// Примеры допустимых значений:
// - "Bearer abc.def.ghi"
// - "Bearer \"abc.def.ghi\""
// - "Bearer abc.def.ghi, extra"
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	// обрезать всё после первой запятой
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return strings.Trim(t, " \"'"), true
}
