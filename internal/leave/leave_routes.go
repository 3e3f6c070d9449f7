package leave

import (
	"go-hrpay/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /leaves and /leave-balances on a group that already
// runs AuthMiddleware. approvalLimit, when set, runs before approve and reject.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	approvalLimit gin.HandlerFunc,
) {
	decide := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "leave", "approve")}
	if approvalLimit != nil {
		decide = append(decide, approvalLimit)
	}

	leaves := r.Group("/leaves")
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/pending-count", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetPendingCount)
		leaves.GET("/stats", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetStats)
		leaves.GET("/employee/:employee_id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByEmployee)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Create)
		leaves.POST("/:id/approve", append(decide, handler.Approve)...)
		leaves.POST("/:id/reject", append(decide, handler.Reject)...)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Cancel)
	}

	balances := r.Group("/leave-balances")
	{
		balances.GET("/:employee_id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetBalances)
	}
}
