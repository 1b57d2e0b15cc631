package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/auth"
	"chama_fund/internal/controllers"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

func PaymentRoutes(r *gin.Engine, db *gorm.DB, tm *auth.TokenManager) {
	ctl := controllers.NewPaymentController(db)

	adminOnly := middleware.RequireRoles(tm, models.RoleAdmin)
	areaAdminOnly := middleware.RequireRoles(tm, models.RoleAreaAdmin)
	// Updates and deletes pass the gate with either role; the controller
	// enforces admin-or-recorder ownership.
	anyRole := middleware.RequireRoles(tm, models.RoleAdmin, models.RoleAreaAdmin)

	payments := r.Group("/payments")
	{
		payments.POST("", areaAdminOnly, ctl.Create)
		payments.POST("/by-admin", adminOnly, ctl.CreateByAdmin)
		payments.GET("/my-area", areaAdminOnly, ctl.ListMine)
		payments.GET("", adminOnly, ctl.List)
		payments.GET("/all", adminOnly, ctl.ListAll)
		payments.PUT("/:paymentId", anyRole, ctl.Update)
		payments.DELETE("/:paymentId", anyRole, ctl.Delete)
	}
}
