package middleware

import (
	"go-hrpay/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// ContextLogger runs after authentication. It echoes or mints X-Request-ID
// and stores the caller's ids plus a logger tagged with them on the request
// context.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(HeaderRequestID, rid)
		c.Set("request_id", rid)

		info := contextutil.RequestInfo{
			RequestID:  rid,
			UserID:     c.GetString("user_id_validated"),
			EmployeeID: c.GetString("employee_id"),
			CompanyID:  c.GetString("company_id"),
		}

		ctx := contextutil.WithRequestInfo(c.Request.Context(), info)
		ctx = contextutil.WithLogger(ctx, logger.With(info.Fields()...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
