package routes

import (
	"vibe-planner/internal/middleware"
	"vibe-planner/web"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every route of the application.
func SetupRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(web.Templates())

	// Public: sign-in flow and health.
	RegisterAuthRoutes(r)

	// Drafting a schedule works without a session.
	optional := r.Group("/")
	optional.Use(middleware.OptionalAuthMiddleware())
	{
		RegisterDashboardRoutes(optional)
		RegisterDraftRoutes(optional)
	}

	// Reading and writing the calendar needs a session.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
