package routes

import (
	"vibe-planner/internal/handlers"
	"vibe-planner/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public routes that need no session.
func RegisterAuthRoutes(r *gin.Engine) {
	r.GET("/healthz", handlers.HealthHandler)

	auth := r.Group("/auth")
	{
		auth.GET("/login", handlers.LoginHandler)
		auth.GET("/callback", handlers.OAuthCallbackHandler)
	}

	// The session is read only to drop its cached state.
	r.GET("/logout", middleware.OptionalAuthMiddleware(), handlers.LogoutHandler)
}
