package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/auth"
	"chama_fund/internal/controllers"
	"chama_fund/internal/middleware"
	"chama_fund/internal/models"
)

func ReportRoutes(r *gin.Engine, db *gorm.DB, tm *auth.TokenManager) {
	ctl := controllers.NewReportController(db)

	reports := r.Group("/reports")
	reports.Use(middleware.RequireRoles(tm, models.RoleAdmin))
	{
		reports.GET("/summary", ctl.Summary)
	}
}
