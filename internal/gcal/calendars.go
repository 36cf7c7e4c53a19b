package gcal

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/calendar/v3"

	"vibe-planner/models"
)

// ListCalendars returns every calendar in the user's calendar list.
func (a *Accessor) ListCalendars(ctx context.Context) ([]models.CalendarInfo, error) {
	var out []models.CalendarInfo
	err := a.svc.CalendarList.List().Pages(ctx, func(page *calendar.CalendarList) error {
		for _, item := range page.Items {
			out = append(out, models.CalendarInfo{ID: item.Id, Summary: item.Summary, Primary: item.Primary})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	return out, nil
}

// findAppCalendar returns the id of the application calendar, or "" if the
// user does not have one yet.
func (a *Accessor) findAppCalendar(ctx context.Context) (string, error) {
	key := a.cacheKey()
	if key != "" {
		if id, ok := a.opts.Cache.Get(ctx, key); ok {
			return id, nil
		}
	}

	calendars, err := a.ListCalendars(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range calendars {
		if c.Summary == a.opts.CalendarName && c.ID != "" {
			if key != "" {
				a.opts.Cache.Set(ctx, key, c.ID, appCalendarTTL)
			}
			return c.ID, nil
		}
	}
	return "", nil
}

// ensureAppCalendar returns the application calendar id, creating the calendar on first use.
func (a *Accessor) ensureAppCalendar(ctx context.Context) (string, error) {
	id, err := a.findAppCalendar(ctx)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	created, err := a.svc.Calendars.Insert(&calendar.Calendar{
		Summary:     a.opts.CalendarName,
		Description: "Calendar for " + a.opts.CalendarName + " planning",
		TimeZone:    a.opts.Location.String(),
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create calendar %q: %w", a.opts.CalendarName, err)
	}
	if created.Id == "" {
		return "", fmt.Errorf("could not create calendar %q", a.opts.CalendarName)
	}
	slog.Info("Created application calendar", "calendar_id", created.Id, "name", a.opts.CalendarName)

	if key := a.cacheKey(); key != "" {
		a.opts.Cache.Set(ctx, key, created.Id, appCalendarTTL)
	}
	return created.Id, nil
}
