// vibe-planner/models/calendar.go

package models

// ScheduledEvent is a calendar event as the planner and the dashboard see it.
// ID and CalendarID come from Google; events created only in a preview carry a temp- id.
type ScheduledEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"startTime"` // ISO-8601
	EndTime     string `json:"endTime"`   // ISO-8601
	CalendarID  string `json:"calendarId,omitempty"`
}

// EventPatch is a partial ScheduledEvent. Nil fields are "not provided".
type EventPatch struct {
	ID          *string `json:"id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	CalendarID  *string `json:"calendarId,omitempty"`
}

// IsEmpty reports whether the patch carries no mergeable field.
func (p *EventPatch) IsEmpty() bool {
	return p == nil || (p.Title == nil && p.Description == nil && p.StartTime == nil && p.EndTime == nil)
}

// MergeInto returns e with every field present in the patch overriding it.
// Identity fields (ID, CalendarID) are never overridden.
func (p *EventPatch) MergeInto(e ScheduledEvent) ScheduledEvent {
	if p == nil {
		return e
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	return e
}

// Value helpers for optional fields.
func (p *EventPatch) TitleOr(def string) string {
	if p == nil || p.Title == nil || *p.Title == "" {
		return def
	}
	return *p.Title
}

func (p *EventPatch) StartOrEmpty() string {
	if p == nil || p.StartTime == nil {
		return ""
	}
	return *p.StartTime
}

func (p *EventPatch) EndOrEmpty() string {
	if p == nil || p.EndTime == nil {
		return ""
	}
	return *p.EndTime
}

func (p *EventPatch) DescriptionOrEmpty() string {
	if p == nil || p.Description == nil {
		return ""
	}
	return *p.Description
}

// CalendarInfo describes one calendar from the user's calendar list.
type CalendarInfo struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Primary bool   `json:"primary,omitempty"`
}
