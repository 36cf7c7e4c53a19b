// vibe-planner/models/schedule.go

package models

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Task is one user-entered item to schedule. Never stored server-side.
type Task struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DurationMinutes int      `json:"duration"`
	Priority        Priority `json:"priority"`
}

// FormatTasks renders structured tasks as the free-text list the planner
// expects, one task per line.
func FormatTasks(tasks []Task) string {
	var b strings.Builder
	for _, t := range tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(title)
		var details []string
		if t.DurationMinutes > 0 {
			details = append(details, fmt.Sprintf("%dmin", t.DurationMinutes))
		}
		if t.Priority != "" {
			details = append(details, string(t.Priority)+" priority")
		}
		if len(details) > 0 {
			b.WriteString(" (" + strings.Join(details, ", ") + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// CalendarAction is one proposed mutation against the calendar.
type CalendarAction struct {
	Type       ActionType  `json:"type"`
	Event      *EventPatch `json:"event,omitempty"`      // create/update
	EventID    string      `json:"eventId,omitempty"`    // update/delete
	CalendarID string      `json:"calendarId,omitempty"` // update/delete
}

type ActionStatus string

const (
	StatusCreated ActionStatus = "created"
	StatusUpdated ActionStatus = "updated"
	StatusDeleted ActionStatus = "deleted"
	StatusFailed  ActionStatus = "failed"
)

// ActionResult is the outcome of applying one CalendarAction.
type ActionResult struct {
	Status ActionStatus    `json:"status"`
	ID     string          `json:"id,omitempty"`
	Title  string          `json:"title,omitempty"`
	Error  string          `json:"error,omitempty"`
	Action *CalendarAction `json:"action,omitempty"`
}

// RejectedAction is a model-proposed action that did not pass validation.
type RejectedAction struct {
	Index  int            `json:"index"`
	Reason string         `json:"reason"`
	Action CalendarAction `json:"action"`
}

// ScheduleResponse is what the model may return: a full event list, an
// incremental action list, or neither.
type ScheduleResponse struct {
	Events   []ScheduledEvent `json:"events,omitempty"`
	Actions  []CalendarAction `json:"actions,omitempty"`
	Rejected []RejectedAction `json:"rejected,omitempty"`
	Error    string           `json:"error,omitempty"`
}
