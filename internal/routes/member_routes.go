package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/auth"
	"chama_fund/internal/controllers"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

func MemberRoutes(r *gin.Engine, db *gorm.DB, tm *auth.TokenManager) {
	ctl := controllers.NewMemberController(db)

	adminOnly := middleware.RequireRoles(tm, models.RoleAdmin)
	anyRole := middleware.RequireRoles(tm, models.RoleAdmin, models.RoleAreaAdmin)

	members := r.Group("/members")
	{
		members.GET("", anyRole, ctl.List)
		members.GET("/:id", anyRole, ctl.Get)
		members.POST("", adminOnly, ctl.Create)
		members.PUT("/:id", adminOnly, ctl.Update)
		members.DELETE("/:id", adminOnly, ctl.Delete)
	}
}
