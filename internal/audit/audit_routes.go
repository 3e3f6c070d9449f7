package audit

import (
	"go-hrpay/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	logs := r.Group("/audit-logs")
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.GetAll)
		logs.GET("/:entity_type/:entity_id", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.GetEntityHistory)
	}
}
