// Package gcal is the event store backed by Google Calendar. It reads from the
// user's primary calendar and the application calendar, and writes new events
// into the application calendar.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	PrimaryCalendarID   = "primary"
	DefaultCalendarName = "Vibe App"
	untitledEvent       = "(No Title)"
	appCalendarTTL      = 24 * time.Hour
)

// ErrNotAuthenticated is returned when no access token is available.
var ErrNotAuthenticated = errors.New("not authenticated")

// Cache stores the application calendar id between requests.
// *cache.Cache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}

// Options configures an Accessor.
type Options struct {
	CalendarName string         // summary of the application calendar
	Location     *time.Location // zone for times sent without an offset
	Cache        Cache          // optional
	SessionID    string         // scopes cache keys to one session
}

// Accessor reads and writes events for one authenticated user.
type Accessor struct {
	svc  *calendar.Service
	opts Options
}

// NewAccessor builds an Accessor that calls Google with the given OAuth access token.
func NewAccessor(ctx context.Context, accessToken string, opts Options) (*Accessor, error) {
	if accessToken == "" {
		return nil, ErrNotAuthenticated
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return NewAccessorWithService(svc, opts), nil
}

// NewAccessorWithService wraps an existing calendar service.
func NewAccessorWithService(svc *calendar.Service, opts Options) *Accessor {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CalendarName == "" {
		opts.CalendarName = DefaultCalendarName
	}
	return &Accessor{svc: svc, opts: opts}
}

// AppCalendarKey is the cache key holding the application calendar id for a session.
func AppCalendarKey(sessionID string) string {
	return fmt.Sprintf("calendar:%s:app_id", sessionID)
}

func (a *Accessor) cacheKey() string {
	if a.opts.Cache == nil || a.opts.SessionID == "" {
		return ""
	}
	return AppCalendarKey(a.opts.SessionID)
}
