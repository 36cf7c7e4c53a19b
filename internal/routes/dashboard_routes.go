package routes

import (
	"vibe-planner/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterDashboardRoutes registers the planner page.
func RegisterDashboardRoutes(rg *gin.RouterGroup) {
	rg.GET("/", handlers.ShowDashboardPage)
}
