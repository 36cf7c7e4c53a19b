package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"vibe-planner/config"
	"vibe-planner/internal/planner"
	"vibe-planner/models"

	"github.com/gin-gonic/gin"
)

type scheduleRequest struct {
	Tasks          string                  `json:"tasks"`
	TaskList       []models.Task           `json:"taskList"`
	Date           string                  `json:"date"`
	ExistingEvents []models.ScheduledEvent `json:"existingEvents"`
}

// GenerateScheduleHandler asks the model for a schedule. Signed-in users get an
// incremental action plan when they pass their existing events.
func GenerateScheduleHandler(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tasks := strings.TrimSpace(req.Tasks)
	if tasks == "" && len(req.TaskList) > 0 {
		tasks = models.FormatTasks(req.TaskList)
	}

	if schedulePlanner == nil {
		slog.Error("Schedule planner is not initialized")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	resp, err := schedulePlanner.Plan(c.Request.Context(), planner.Request{
		Tasks:          tasks,
		Date:           req.Date,
		ExistingEvents: req.ExistingEvents,
	})
	if err != nil {
		status, message := scheduleError(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Scheduling error", "error", err)
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func scheduleError(err error) (int, string) {
	var upErr *planner.UpstreamError
	switch {
	case errors.Is(err, planner.ErrNoTasks):
		return http.StatusBadRequest, "No tasks provided"
	case errors.Is(err, planner.ErrMissingAPIKey):
		return http.StatusInternalServerError, missingKeyMessage()
	case errors.Is(err, planner.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.As(err, &upErr):
		return http.StatusBadGateway, upErr.Error()
	case errors.Is(err, planner.ErrUnparseableResponse):
		return http.StatusInternalServerError, "Failed to parse AI response"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func missingKeyMessage() string {
	if config.Cfg != nil && config.Cfg.LLM.Provider == config.ProviderGemini {
		return "Missing Gemini API Key"
	}
	return "Missing OpenRouter API Key"
}
