package routes

import (
	"vibe-planner/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterDraftRoutes registers the API routes that only compute and never
// touch the calendar.
func RegisterDraftRoutes(rg *gin.RouterGroup) {
	api := rg.Group("/api")
	{
		api.POST("/schedule", handlers.GenerateScheduleHandler)
		api.POST("/calendar/preview", handlers.PreviewActionsHandler)
	}
}

// RegisterAPIRoutes registers the calendar API. All of it needs a session.
func RegisterAPIRoutes(rg *gin.RouterGroup) {
	api := rg.Group("/api")
	{
		api.GET("/events", handlers.GetEventsHandler)
		api.GET("/calendars", handlers.ListCalendarsHandler)

		calendar := api.Group("/calendar")
		{
			calendar.GET("/events", handlers.GetDayEventsHandler)
			calendar.POST("/execute", handlers.ExecuteActionsHandler)
			calendar.POST("/save", handlers.SaveEventsHandler)
		}
	}
}
