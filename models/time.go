package models

import (
	"fmt"
	"time"
)

// DateLayout is the layout of all-day event dates.
const DateLayout = "2006-01-02"

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseEventTime parses the time formats events are exchanged in: RFC 3339,
// zone-less local date-time (interpreted in loc) and all-day dates.
// hasZone is false when the input carried no offset.
func ParseEventTime(s string, loc *time.Location) (t time.Time, hasZone bool, allDay bool, err error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true, false, nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, false, nil
		}
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, false, true, nil
	}
	return time.Time{}, false, false, fmt.Errorf("unrecognized time %q", s)
}
