package handlers

import (
	"context"

	"vibe-planner/config"
	"vibe-planner/internal/cache"
	"vibe-planner/internal/gcal"
	"vibe-planner/internal/middleware"
	"vibe-planner/internal/planner"
	"vibe-planner/internal/reconcile"
	"vibe-planner/models"

	"github.com/gin-gonic/gin"
)

// SchedulePlanner turns tasks into a schedule.
type SchedulePlanner interface {
	Plan(ctx context.Context, req planner.Request) (models.ScheduleResponse, error)
}

// EventStore is the calendar a signed-in user reads and writes.
type EventStore interface {
	reconcile.Store
	List(ctx context.Context, start, end string) ([]models.ScheduledEvent, error)
	ListCalendars(ctx context.Context) ([]models.CalendarInfo, error)
}

// EventStoreFactory builds the event store for the current request's session.
type EventStoreFactory func(c *gin.Context) (EventStore, error)

var (
	schedulePlanner SchedulePlanner
	newEventStore   EventStoreFactory = googleEventStore
)

// Init wires the handler dependencies. A nil factory keeps the Google Calendar store.
func Init(p SchedulePlanner, f EventStoreFactory) {
	schedulePlanner = p
	if f != nil {
		newEventStore = f
	}
}

func googleEventStore(c *gin.Context) (EventStore, error) {
	opts := gcal.Options{
		Location:  config.Location(),
		Cache:     cache.New(config.RDB),
		SessionID: middleware.SessionID(c),
	}
	if config.Cfg != nil {
		opts.CalendarName = config.Cfg.Calendar.Name
	}
	return gcal.NewAccessor(c.Request.Context(), middleware.AccessToken(c), opts)
}
