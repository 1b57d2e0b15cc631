package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/auth"
	"chama_fund/internal/controllers"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

func AuthRoutes(r *gin.Engine, db *gorm.DB, tm *auth.TokenManager) {
	ctl := controllers.NewAuthController(db, tm)

	group := r.Group("/auth")
	{
		group.POST("/admin/login", ctl.AdminLogin)
		group.POST("/area-admin/login", ctl.AreaAdminLogin)

		me := group.Group("/admin/me")
		me.Use(middleware.RequireRoles(tm, models.RoleAdmin))
		{
			me.GET("", ctl.Me)
			me.PUT("", ctl.UpdateMe)
		}
	}
}
