package middleware

import (
	"net/http"
	"strings"

	"github.com/expohall/backend/internal/infrastructure/auth"
	"github.com/expohall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminEmailKey is the gin context key the authenticated admin email is
// stored under
const AdminEmailKey = "admin_email"

// AdminAuth guards admin routes with a bearer JWT plus an allowlist check on
// the token's email claim. Clients get generic messages; the distinction
// between a bad token and a revoked admin lives in the logs.
func AdminAuth(jwtService *auth.JWTService, allowlist auth.AdminAllowlist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			logger.Warn("rejected admin token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid or expired token"))
			return
		}

		allowed, err := allowlist.IsAllowed(c.Request.Context(), claims.Email)
		if err != nil {
			logger.Error("admin allowlist lookup failed",
				zap.String("email", claims.Email),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred"))
			return
		}
		if !allowed {
			logger.Warn("rejected non-allowlisted admin",
				zap.String("email", claims.Email),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Access denied"))
			return
		}

		c.Set(AdminEmailKey, claims.Email)
		c.Next()
	}
}

// GetAdminEmail returns the authenticated admin email set by AdminAuth
func GetAdminEmail(c *gin.Context) string {
	return c.GetString(AdminEmailKey)
}
