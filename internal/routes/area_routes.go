package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/auth"
	"chama_fund/internal/controllers"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

func AreaRoutes(r *gin.Engine, db *gorm.DB, tm *auth.TokenManager) {
	ctl := controllers.NewAreaController(db)

	areas := r.Group("/areas")
	areas.Use(middleware.RequireRoles(tm, models.RoleAdmin))
	{
		areas.GET("", ctl.List)
		areas.POST("", ctl.Create)
		areas.PUT("/:id", ctl.Update)
		areas.DELETE("/:id", ctl.Delete)
	}
}
