// Package reconcile turns model-proposed calendar actions into a local preview
// and applies them against the calendar provider.
package reconcile

import (
	"strings"

	"github.com/google/uuid"

	"vibe-planner/models"
)

const (
	// TempIDPrefix marks events that exist only in a preview. Google event ids
	// are base32hex and never contain '-'.
	TempIDPrefix = "temp-"

	DefaultCalendarID = "primary"
	DefaultTitle      = "New Event"
)

// NewTempID returns a fresh id in the preview-only namespace.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was issued by NewTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Preview returns base with actions applied in order. base is never modified.
// Only the action's shape is checked (see CheckShape); time strings are carried
// as given. Update and delete of unknown ids are no-ops.
func Preview(base []models.ScheduledEvent, actions []models.CalendarAction) []models.ScheduledEvent {
	if len(actions) == 0 {
		return base
	}

	events := make([]models.ScheduledEvent, len(base), len(base)+len(actions))
	copy(events, base)

	for _, a := range actions {
		if CheckShape(a) != nil {
			continue
		}
		switch a.Type {
		case models.ActionCreate:
			events = append(events, models.ScheduledEvent{
				ID:          NewTempID(),
				Title:       a.Event.TitleOr(DefaultTitle),
				Description: a.Event.DescriptionOrEmpty(),
				StartTime:   a.Event.StartOrEmpty(),
				EndTime:     a.Event.EndOrEmpty(),
				CalendarID:  DefaultCalendarID,
			})
		case models.ActionUpdate:
			for i := range events {
				if events[i].ID == a.EventID {
					events[i] = a.Event.MergeInto(events[i])
				}
			}
		case models.ActionDelete:
			kept := events[:0]
			for _, e := range events {
				if e.ID != a.EventID {
					kept = append(kept, e)
				}
			}
			events = kept
		}
	}

	return events
}
