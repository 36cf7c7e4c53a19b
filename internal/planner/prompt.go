package planner

import (
	"fmt"
	"strings"
)

// BuildPrompt creates the scheduling instruction for the model. With existing
// events it asks for an incremental action plan, otherwise for a full event list.
func BuildPrompt(req Request) string {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = "today"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert scheduler. I have the following tasks to do today (%s):\n", date)
	b.WriteString(strings.TrimSpace(req.Tasks))
	b.WriteString("\n\nPlease schedule them into a coherent plan, assuming an 8-hour workday starting at 9:00 AM.\n")
	b.WriteString("All times must use the format YYYY-MM-DDTHH:mm:ss.\n\n")

	if len(req.ExistingEvents) == 0 {
		b.WriteString(`Return the result as a JSON object with a key "events" containing an array of objects with the following structure:
{
  "events": [
    {
      "id": "unique_id",
      "title": "Task Name",
      "startTime": "YYYY-MM-DDTHH:mm:ss",
      "endTime": "YYYY-MM-DDTHH:mm:ss"
    }
  ]
}
Do not include any other text.
`)
		return b.String()
	}

	b.WriteString("My calendar already contains these events:\n")
	for _, e := range req.ExistingEvents {
		calID := e.CalendarID
		if calID == "" {
			calID = "primary"
		}
		fmt.Fprintf(&b, "- id: %s | calendarId: %s | title: %s | start: %s | end: %s\n", e.ID, calID, e.Title, e.StartTime, e.EndTime)
	}
	b.WriteString(`
Work around these events. Move or shorten them only if a task cannot fit otherwise, and remove them only if they conflict with a task that must happen.
Return the result as a JSON object with a key "actions" containing the changes to make:
{
  "actions": [
    { "type": "create", "event": { "title": "Task Name", "startTime": "YYYY-MM-DDTHH:mm:ss", "endTime": "YYYY-MM-DDTHH:mm:ss" } },
    { "type": "update", "eventId": "existing id", "calendarId": "existing calendarId", "event": { "startTime": "YYYY-MM-DDTHH:mm:ss", "endTime": "YYYY-MM-DDTHH:mm:ss" } },
    { "type": "delete", "eventId": "existing id", "calendarId": "existing calendarId" }
  ]
}
For "update", include only the fields that change. Use ids and calendarIds exactly as listed above.
Do not include any other text.
`)
	return b.String()
}
