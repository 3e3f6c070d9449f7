package middleware

import (
	"net/http"

	"go-hrpay/internal/shared/apperror"
	"go-hrpay/internal/shared/contextutil"
	"go-hrpay/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const RoleSuperAdmin = "super_admin"

// ExtractUserID runs after AuthMiddleware and republishes the authenticated
// ids on the request context.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "User is not authenticated", nil)
			c.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeInvalidUserID, "Invalid user_id format", nil)
			c.Abort()
			return
		}

		c.Set("user_id_validated", userIDStr)

		ctx := contextutil.WithUserID(c.Request.Context(), userIDStr)
		ctx = contextutil.WithCompanyID(ctx, c.GetString("company_id"))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ScopedCompanyID is the caller's company, or empty for super admins who read
// across all companies.
func ScopedCompanyID(c *gin.Context) string {
	if c.GetString("role") == RoleSuperAdmin {
		return ""
	}
	return c.GetString("company_id")
}
