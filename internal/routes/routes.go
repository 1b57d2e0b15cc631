package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chama_fund/internal/auth"
	"chama_fund/internal/middleware"
)

// SetupRouter wires every route group against the injected store handle and
// token manager.
func SetupRouter(db *gorm.DB, tm *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())
	r.Use(middleware.CORS())

	AuthRoutes(r, db, tm)
	AreaRoutes(r, db, tm)
	AreaAdminRoutes(r, db, tm)
	MemberRoutes(r, db, tm)
	PaymentRoutes(r, db, tm)
	ReportRoutes(r, db, tm)

	return r
}
