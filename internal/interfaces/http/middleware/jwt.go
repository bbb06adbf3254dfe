package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AdminAuth guards the admin-only surfaces. It requires a bearer token
// with the admin role and stores the claims on the context.
func AdminAuth(jwtService *auth.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Missing or malformed authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := jwtService.ValidateAdmin(tokenString)
		if err != nil {
			if logger != nil {
				logger.Debug("admin token rejected",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
			}
			if err == auth.ErrNotAdmin {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "FORBIDDEN",
						"message": "Admin role required",
					},
				})
				return
			}
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
