package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/auth"
	"chama_fund/internal/controllers"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

func AreaAdminRoutes(r *gin.Engine, db *gorm.DB, tm *auth.TokenManager) {
	ctl := controllers.NewAreaAdminController(db)

	admins := r.Group("/area-admins")
	admins.Use(middleware.RequireRoles(tm, models.RoleAdmin))
	{
		admins.GET("", ctl.List)
		admins.POST("", ctl.Create)
		admins.PUT("/:id", ctl.Update)
		admins.DELETE("/:id", ctl.Delete)
	}
}
