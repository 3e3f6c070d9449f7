package expense

import (
	"go-hrpay/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	approvalLimit gin.HandlerFunc,
) {
	decide := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "expense", "approve")}
	if approvalLimit != nil {
		decide = append(decide, approvalLimit)
	}

	expenses := r.Group("/expenses")
	{
		expenses.GET("", middleware.RBACAuthorize(rbacService, "expense", "read"), handler.GetAll)
		expenses.GET("/pending-count", middleware.RBACAuthorize(rbacService, "expense", "read"), handler.GetPendingCount)
		expenses.GET("/:id", middleware.RBACAuthorize(rbacService, "expense", "read"), handler.GetById)
		expenses.POST("", middleware.RBACAuthorize(rbacService, "expense", "create"), handler.Create)
		expenses.POST("/:id/approve", append(decide, handler.Approve)...)
		expenses.POST("/:id/reject", append(decide, handler.Reject)...)
		expenses.POST("/:id/pay", middleware.RBACAuthorize(rbacService, "expense", "pay"), handler.MarkPaid)
	}
}
