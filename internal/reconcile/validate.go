package reconcile

import (
	"errors"
	"fmt"
	"time"

	"vibe-planner/models"
)

// ErrInvalidAction marks an action whose shape cannot be reconciled.
var ErrInvalidAction = errors.New("invalid action")

// CheckShape reports whether an action can be applied at all: a known type,
// an event for create and an eventId for update and delete. Times are not read.
func CheckShape(a models.CalendarAction) error {
	switch a.Type {
	case models.ActionCreate:
		if a.Event == nil {
			return fmt.Errorf("%w: create requires an event", ErrInvalidAction)
		}
	case models.ActionUpdate:
		if a.EventID == "" {
			return fmt.Errorf("%w: update requires eventId", ErrInvalidAction)
		}
	case models.ActionDelete:
		if a.EventID == "" {
			return fmt.Errorf("%w: delete requires eventId", ErrInvalidAction)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}
	return nil
}

// Validate is the full gate in front of the calendar: CheckShape plus start
// and end for create, a non-empty patch for update, and parseable, ordered
// times. Times without an offset are read in loc (UTC when nil), the zone
// they are later sent to Google with.
func Validate(a models.CalendarAction, loc *time.Location) error {
	if err := CheckShape(a); err != nil {
		return err
	}
	switch a.Type {
	case models.ActionCreate:
		if a.Event.StartOrEmpty() == "" || a.Event.EndOrEmpty() == "" {
			return fmt.Errorf("%w: create requires startTime and endTime", ErrInvalidAction)
		}
	case models.ActionUpdate:
		if a.Event.IsEmpty() {
			return fmt.Errorf("%w: update for %s changes nothing", ErrInvalidAction, a.EventID)
		}
	case models.ActionDelete:
		return nil
	}
	return validateTimes(a.Event, loc)
}

func validateTimes(p *models.EventPatch, loc *time.Location) error {
	var start, end time.Time
	if s := p.StartOrEmpty(); s != "" {
		t, _, _, err := models.ParseEventTime(s, loc)
		if err != nil {
			return fmt.Errorf("%w: startTime: %v", ErrInvalidAction, err)
		}
		start = t
	}
	if s := p.EndOrEmpty(); s != "" {
		t, _, _, err := models.ParseEventTime(s, loc)
		if err != nil {
			return fmt.Errorf("%w: endTime: %v", ErrInvalidAction, err)
		}
		end = t
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return fmt.Errorf("%w: startTime %s is after endTime %s", ErrInvalidAction, p.StartOrEmpty(), p.EndOrEmpty())
	}
	return nil
}

// Partition splits actions into the ones that pass Validate and the rejected rest,
// keeping input order in both.
func Partition(actions []models.CalendarAction, loc *time.Location) ([]models.CalendarAction, []models.RejectedAction) {
	var valid []models.CalendarAction
	var rejected []models.RejectedAction
	for i, a := range actions {
		if err := Validate(a, loc); err != nil {
			rejected = append(rejected, models.RejectedAction{Index: i, Reason: err.Error(), Action: a})
			continue
		}
		valid = append(valid, a)
	}
	return valid, rejected
}
