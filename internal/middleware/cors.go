package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows every origin when allowedOrigins is empty. Credentials are only
// allowed with an explicit origin list.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	cfg.AddAllowHeaders("Authorization", "Idempotency-Key", HeaderRequestID)
	cfg.AddExposeHeaders(HeaderRequestID, "Idempotent-Replayed")
	return cors.New(cfg)
}
