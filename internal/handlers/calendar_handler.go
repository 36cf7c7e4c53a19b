package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vibe-planner/config"
	"vibe-planner/internal/gcal"
	"vibe-planner/internal/reconcile"
	"vibe-planner/models"

	"github.com/gin-gonic/gin"
)

// eventStore builds the session's store and writes the error response when it cannot.
func eventStore(c *gin.Context) (EventStore, bool) {
	store, err := newEventStore(c)
	if err != nil {
		if errors.Is(err, gcal.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return nil, false
		}
		slog.Error("Failed to create calendar client", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return store, true
}

func dayBounds(day time.Time) (string, string) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano)
}

// GetEventsHandler lists events between the start and end query bounds,
// defaulting to today.
func GetEventsHandler(c *gin.Context) {
	start, end := dayBounds(time.Now().In(config.Location()))
	if s := c.Query("start"); s != "" {
		start = s
	}
	if e := c.Query("end"); e != "" {
		end = e
	}

	store, ok := eventStore(c)
	if !ok {
		return
	}

	events, err := store.List(c.Request.Context(), start, end)
	if err != nil {
		slog.Error("Error fetching events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": nonNilEvents(events)})
}

// GetDayEventsHandler lists the events of one day given as ?date=.
func GetDayEventsHandler(c *gin.Context) {
	loc := config.Location()
	day := time.Now().In(loc)
	if raw := c.Query("date"); raw != "" {
		t, _, _, err := models.ParseEventTime(raw, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		day = t.In(loc)
	}
	start, end := dayBounds(day)

	store, ok := eventStore(c)
	if !ok {
		return
	}

	events, err := store.List(c.Request.Context(), start, end)
	if err != nil {
		slog.Error("Error fetching day events", "error", err, "date", start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": nonNilEvents(events)})
}

type previewRequest struct {
	Events  []models.ScheduledEvent `json:"events"`
	Actions []models.CalendarAction `json:"actions"`
}

// PreviewActionsHandler shows what the event list would look like after the
// actions. Nothing is written.
func PreviewActionsHandler(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": nonNilEvents(reconcile.Preview(req.Events, req.Actions))})
}

type executeRequest struct {
	Actions []models.CalendarAction `json:"actions"`
}

// ExecuteActionsHandler applies the actions to the calendar in order. It
// answers 200 even when some actions fail; results carry each outcome.
func ExecuteActionsHandler(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Actions == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid actions"})
		return
	}

	store, ok := eventStore(c)
	if !ok {
		return
	}

	results := reconcile.Apply(c.Request.Context(), store, req.Actions, config.Location())
	summary := reconcile.Summarize(results)
	slog.Info("Executed calendar actions",
		"created", summary.Created, "updated", summary.Updated,
		"deleted", summary.Deleted, "failed", summary.Failed)

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results, "summary": summary})
}

type saveRequest struct {
	Events []models.ScheduledEvent `json:"events"`
}

// SaveEventsHandler writes a full generated schedule into the application calendar.
func SaveEventsHandler(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Events == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid events"})
		return
	}

	store, ok := eventStore(c)
	if !ok {
		return
	}

	count := 0
	for _, evt := range req.Events {
		_, err := store.Create(c.Request.Context(), models.ScheduledEvent{
			Title:       evt.Title,
			Description: evt.Description,
			StartTime:   evt.StartTime,
			EndTime:     evt.EndTime,
		})
		if err != nil {
			slog.Error("Failed to save event", "error", err, "title", evt.Title, "saved", count)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "count": count})
			return
		}
		count++
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// ListCalendarsHandler returns the user's calendar list.
func ListCalendarsHandler(c *gin.Context) {
	store, ok := eventStore(c)
	if !ok {
		return
	}

	calendars, err := store.ListCalendars(c.Request.Context())
	if err != nil {
		slog.Error("Error listing calendars", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if calendars == nil {
		calendars = []models.CalendarInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"calendars": calendars})
}

func nonNilEvents(events []models.ScheduledEvent) []models.ScheduledEvent {
	if events == nil {
		return []models.ScheduledEvent{}
	}
	return events
}
