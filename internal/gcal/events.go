package gcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"vibe-planner/models"
)

type listedEvent struct {
	event      *calendar.Event
	calendarID string
}

// List returns the events between start and end (RFC 3339) from the primary
// calendar and the application calendar, ordered by start. A calendar that
// fails to load is logged and skipped.
func (a *Accessor) List(ctx context.Context, start, end string) ([]models.ScheduledEvent, error) {
	calendarIDs := []string{PrimaryCalendarID}
	if appID, err := a.findAppCalendar(ctx); err != nil {
		slog.Error("Error listing calendars", "error", err)
	} else if appID != "" && appID != PrimaryCalendarID {
		calendarIDs = append(calendarIDs, appID)
	}

	perCalendar := make([][]listedEvent, len(calendarIDs))
	var wg sync.WaitGroup
	for i, calID := range calendarIDs {
		wg.Add(1)
		go func(i int, calID string) {
			defer wg.Done()
			items, err := a.fetchEvents(ctx, calID, start, end)
			if err != nil {
				slog.Error("Error fetching events", "calendar_id", calID, "error", err)
				return
			}
			for _, item := range items {
				perCalendar[i] = append(perCalendar[i], listedEvent{event: item, calendarID: calID})
			}
		}(i, calID)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []listedEvent
	for _, evs := range perCalendar {
		merged = append(merged, evs...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return a.effectiveStart(merged[i].event).Before(a.effectiveStart(merged[j].event))
	})

	events := make([]models.ScheduledEvent, 0, len(merged))
	for _, le := range merged {
		events = append(events, toScheduledEvent(le.event, le.calendarID))
	}
	return events, nil
}

func (a *Accessor) fetchEvents(ctx context.Context, calendarID, start, end string) ([]*calendar.Event, error) {
	var items []*calendar.Event
	err := a.svc.Events.List(calendarID).
		TimeMin(start).
		TimeMax(end).
		SingleEvents(true).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			items = append(items, page.Items...)
			return nil
		})
	return items, err
}

// effectiveStart orders timed events by their instant and all-day events by their date.
func (a *Accessor) effectiveStart(e *calendar.Event) time.Time {
	if e.Start == nil {
		return time.Time{}
	}
	raw := e.Start.DateTime
	if raw == "" {
		raw = e.Start.Date
	}
	t, _, _, err := models.ParseEventTime(raw, a.opts.Location)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Create inserts event into the application calendar, creating that calendar if needed.
func (a *Accessor) Create(ctx context.Context, event models.ScheduledEvent) (models.ScheduledEvent, error) {
	calID, err := a.ensureAppCalendar(ctx)
	if err != nil {
		return models.ScheduledEvent{}, err
	}

	body := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start:       a.eventDateTime(event.StartTime),
		End:         a.eventDateTime(event.EndTime),
	}
	created, err := a.svc.Events.Insert(calID, body).Context(ctx).Do()
	if key := a.cacheKey(); isNotFound(err) && key != "" {
		// The cached calendar was deleted on Google's side.
		slog.Warn("Cached application calendar is gone, resolving again", "calendar_id", calID)
		a.opts.Cache.Del(ctx, key)
		if calID, err = a.ensureAppCalendar(ctx); err != nil {
			return models.ScheduledEvent{}, err
		}
		created, err = a.svc.Events.Insert(calID, body).Context(ctx).Do()
	}
	if err != nil {
		return models.ScheduledEvent{}, fmt.Errorf("insert event: %w", err)
	}
	return toScheduledEvent(created, calID), nil
}

// Update patches only the fields present in patch.
func (a *Accessor) Update(ctx context.Context, calendarID, eventID string, patch models.EventPatch) (models.ScheduledEvent, error) {
	body := &calendar.Event{}
	if patch.Title != nil {
		body.Summary = *patch.Title
		body.ForceSendFields = append(body.ForceSendFields, "Summary")
	}
	if patch.Description != nil {
		body.Description = *patch.Description
		body.ForceSendFields = append(body.ForceSendFields, "Description")
	}
	if patch.StartTime != nil {
		body.Start = a.eventDateTime(*patch.StartTime)
	}
	if patch.EndTime != nil {
		body.End = a.eventDateTime(*patch.EndTime)
	}

	updated, err := a.svc.Events.Patch(calendarID, eventID, body).Context(ctx).Do()
	if err != nil {
		return models.ScheduledEvent{}, fmt.Errorf("patch event: %w", err)
	}
	return toScheduledEvent(updated, calendarID), nil
}

// Delete removes an event.
func (a *Accessor) Delete(ctx context.Context, calendarID, eventID string) error {
	if err := a.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// eventDateTime maps our time strings onto Google's start/end shape: dates
// become all-day, zone-less date-times get the configured zone.
func (a *Accessor) eventDateTime(s string) *calendar.EventDateTime {
	_, hasZone, allDay, err := models.ParseEventTime(s, a.opts.Location)
	switch {
	case err != nil:
		// Let Google reject it with a proper error.
		return &calendar.EventDateTime{DateTime: s}
	case allDay:
		return &calendar.EventDateTime{Date: s}
	case !hasZone:
		return &calendar.EventDateTime{DateTime: s, TimeZone: a.opts.Location.String()}
	default:
		return &calendar.EventDateTime{DateTime: s}
	}
}

func isNotFound(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusNotFound
}

func toScheduledEvent(e *calendar.Event, calendarID string) models.ScheduledEvent {
	title := e.Summary
	if title == "" {
		title = untitledEvent
	}
	out := models.ScheduledEvent{
		ID:          e.Id,
		Title:       title,
		Description: e.Description,
		CalendarID:  calendarID,
	}
	if e.Start != nil {
		out.StartTime = firstNonEmpty(e.Start.DateTime, e.Start.Date)
	}
	if e.End != nil {
		out.EndTime = firstNonEmpty(e.End.DateTime, e.End.Date)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
