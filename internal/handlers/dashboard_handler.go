package handlers

import (
	"net/http"

	"vibe-planner/config"
	"vibe-planner/internal/gcal"
	"vibe-planner/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ShowDashboardPage renders the planner page. Anonymous visitors see the
// sign-in prompt and can still draft a schedule.
func ShowDashboardPage(c *gin.Context) {
	calendarName := gcal.DefaultCalendarName
	if config.Cfg != nil && config.Cfg.Calendar.Name != "" {
		calendarName = config.Cfg.Calendar.Name
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"SignedIn":     middleware.SessionID(c) != "",
		"CalendarName": calendarName,
		"TimeZone":     config.Location().String(),
	})
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
