package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vibe-planner/models"
)

// Store is the authoritative event store actions are applied to.
type Store interface {
	Create(ctx context.Context, event models.ScheduledEvent) (models.ScheduledEvent, error)
	Update(ctx context.Context, calendarID, eventID string, patch models.EventPatch) (models.ScheduledEvent, error)
	Delete(ctx context.Context, calendarID, eventID string) error
}

// Apply executes actions one at a time in the given order. A failing action is
// recorded as a failed result and the remaining actions are still attempted,
// so the returned slice always has one entry per action. loc is the zone of
// times sent without an offset.
func Apply(ctx context.Context, store Store, actions []models.CalendarAction, loc *time.Location) []models.ActionResult {
	results := make([]models.ActionResult, 0, len(actions))
	for i, action := range actions {
		res, err := applyOne(ctx, store, action, loc)
		if err != nil {
			slog.Error("Failed to execute calendar action", "index", i, "type", action.Type, "event_id", action.EventID, "error", err)
			failed := action
			results = append(results, models.ActionResult{
				Status: models.StatusFailed,
				Error:  err.Error(),
				Action: &failed,
			})
			continue
		}
		results = append(results, res)
	}
	return results
}

func applyOne(ctx context.Context, store Store, a models.CalendarAction, loc *time.Location) (models.ActionResult, error) {
	if err := Validate(a, loc); err != nil {
		return models.ActionResult{}, err
	}

	calendarID := a.CalendarID
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	switch a.Type {
	case models.ActionCreate:
		created, err := store.Create(ctx, models.ScheduledEvent{
			Title:       a.Event.TitleOr(DefaultTitle),
			Description: a.Event.DescriptionOrEmpty(),
			StartTime:   a.Event.StartOrEmpty(),
			EndTime:     a.Event.EndOrEmpty(),
		})
		if err != nil {
			return models.ActionResult{}, fmt.Errorf("create %q: %w", a.Event.TitleOr(DefaultTitle), err)
		}
		return models.ActionResult{Status: models.StatusCreated, ID: created.ID, Title: created.Title}, nil

	case models.ActionUpdate:
		if _, err := store.Update(ctx, calendarID, a.EventID, *a.Event); err != nil {
			return models.ActionResult{}, fmt.Errorf("update %s: %w", a.EventID, err)
		}
		return models.ActionResult{Status: models.StatusUpdated, ID: a.EventID}, nil

	case models.ActionDelete:
		if err := store.Delete(ctx, calendarID, a.EventID); err != nil {
			return models.ActionResult{}, fmt.Errorf("delete %s: %w", a.EventID, err)
		}
		return models.ActionResult{Status: models.StatusDeleted, ID: a.EventID}, nil
	}

	// Validate already rejected unknown types.
	return models.ActionResult{}, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
}

// Summary counts results by outcome.
type Summary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

func Summarize(results []models.ActionResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case models.StatusCreated:
			s.Created++
		case models.StatusUpdated:
			s.Updated++
		case models.StatusDeleted:
			s.Deleted++
		case models.StatusFailed:
			s.Failed++
		}
	}
	return s
}
