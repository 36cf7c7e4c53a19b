package reconcile

import (
	"reflect"
	"strings"
	"testing"

	"vibe-planner/models"
)

func ptr(s string) *string { return &s }

func baseEvents() []models.ScheduledEvent {
	return []models.ScheduledEvent{
		{ID: "1", Title: "X", StartTime: "2025-03-10T09:00:00Z", EndTime: "2025-03-10T10:00:00Z", CalendarID: "primary"},
		{ID: "2", Title: "Y", StartTime: "2025-03-10T11:00:00Z", EndTime: "2025-03-10T12:00:00Z", CalendarID: "app"},
	}
}

func TestPreviewNoActionsIsIdentity(t *testing.T) {
	events := baseEvents()
	got := Preview(events, nil)
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("Preview(events, nil) = %+v, want %+v", got, events)
	}
	got = Preview(events, []models.CalendarAction{})
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("Preview(events, []) = %+v, want %+v", got, events)
	}
}

func TestPreviewCreateAppends(t *testing.T) {
	events := baseEvents()
	actions := []models.CalendarAction{{
		Type: models.ActionCreate,
		Event: &models.EventPatch{
			Title:     ptr("Gym"),
			StartTime: ptr("2025-03-10T13:00:00Z"),
			EndTime:   ptr("2025-03-10T14:00:00Z"),
		},
	}}

	got := Preview(events, actions)
	if len(got) != len(events)+1 {
		t.Fatalf("len = %d, want %d", len(got), len(events)+1)
	}
	created := got[len(got)-1]
	if created.Title != "Gym" || created.StartTime != "2025-03-10T13:00:00Z" || created.EndTime != "2025-03-10T14:00:00Z" {
		t.Errorf("created event = %+v", created)
	}
	if created.CalendarID != DefaultCalendarID {
		t.Errorf("CalendarID = %q, want %q", created.CalendarID, DefaultCalendarID)
	}
	if !IsTempID(created.ID) {
		t.Errorf("ID %q is not in the temp namespace", created.ID)
	}
	for _, e := range events {
		if e.ID == created.ID {
			t.Errorf("temp id %q collides with existing event", created.ID)
		}
	}
}

func TestPreviewCreateDefaultTitle(t *testing.T) {
	got := Preview(nil, []models.CalendarAction{{
		Type:  models.ActionCreate,
		Event: &models.EventPatch{StartTime: ptr("2025-03-10T13:00:00"), EndTime: ptr("2025-03-10T14:00:00")},
	}})
	if len(got) != 1 || got[0].Title != DefaultTitle {
		t.Fatalf("got %+v, want one event titled %q", got, DefaultTitle)
	}
}

func TestPreviewCreateIDsAreDistinct(t *testing.T) {
	create := models.CalendarAction{
		Type:  models.ActionCreate,
		Event: &models.EventPatch{StartTime: ptr("2025-03-10T13:00:00Z"), EndTime: ptr("2025-03-10T14:00:00Z")},
	}
	got := Preview(nil, []models.CalendarAction{create, create})
	if got[0].ID == got[1].ID {
		t.Fatalf("two creates share id %q", got[0].ID)
	}
}

func TestPreviewUpdateMergesFields(t *testing.T) {
	events := []models.ScheduledEvent{{ID: "1", Title: "X", StartTime: "T1", EndTime: "T2"}}
	actions := []models.CalendarAction{{
		Type:    models.ActionUpdate,
		EventID: "1",
		Event:   &models.EventPatch{EndTime: ptr("T3")},
	}}

	got := Preview(events, actions)
	want := []models.ScheduledEvent{{ID: "1", Title: "X", StartTime: "T1", EndTime: "T3"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPreviewUpdateKeepsIdentity(t *testing.T) {
	events := baseEvents()
	got := Preview(events, []models.CalendarAction{{
		Type:    models.ActionUpdate,
		EventID: "2",
		Event:   &models.EventPatch{ID: ptr("999"), CalendarID: ptr("other"), Title: ptr("Renamed")},
	}})
	if got[1].ID != "2" || got[1].CalendarID != "app" || got[1].Title != "Renamed" {
		t.Fatalf("got %+v", got[1])
	}
}

func TestPreviewUpdateMissingIDIsNoop(t *testing.T) {
	events := baseEvents()
	got := Preview(events, []models.CalendarAction{{
		Type:    models.ActionUpdate,
		EventID: "nonexistent",
		Event:   &models.EventPatch{Title: ptr("Z")},
	}})
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("got %+v, want %+v", got, events)
	}
}

func TestPreviewDelete(t *testing.T) {
	events := baseEvents()

	got := Preview(events, []models.CalendarAction{{Type: models.ActionDelete, EventID: "1"}})
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("got %+v, want only event 2", got)
	}

	got = Preview(events, []models.CalendarAction{{Type: models.ActionDelete, EventID: "missing"}})
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("delete of missing id changed events: %+v", got)
	}
}

func TestPreviewDoesNotMutateBase(t *testing.T) {
	events := baseEvents()
	snapshot := baseEvents()

	Preview(events, []models.CalendarAction{
		{Type: models.ActionDelete, EventID: "1"},
		{Type: models.ActionUpdate, EventID: "2", Event: &models.EventPatch{Title: ptr("changed")}},
		{Type: models.ActionCreate, Event: &models.EventPatch{StartTime: ptr("2025-03-10T13:00:00Z"), EndTime: ptr("2025-03-10T14:00:00Z")}},
	})

	if !reflect.DeepEqual(events, snapshot) {
		t.Fatalf("base mutated: %+v", events)
	}
}

func TestPreviewAppliesInOrder(t *testing.T) {
	events := baseEvents()
	got := Preview(events, []models.CalendarAction{
		{Type: models.ActionDelete, EventID: "1"},
		{Type: models.ActionUpdate, EventID: "1", Event: &models.EventPatch{Title: ptr("too late")}},
	})
	for _, e := range got {
		if e.ID == "1" {
			t.Fatalf("event 1 survived: %+v", got)
		}
	}
}

func TestPreviewCreateWithoutTimes(t *testing.T) {
	got := Preview(nil, []models.CalendarAction{
		{Type: models.ActionCreate, Event: &models.EventPatch{Title: ptr("Gym")}},
	})
	if len(got) != 1 {
		t.Fatalf("got %+v, want one event", got)
	}
	if got[0].Title != "Gym" || !IsTempID(got[0].ID) || got[0].StartTime != "" || got[0].EndTime != "" {
		t.Fatalf("created = %+v", got[0])
	}
}

func TestPreviewSkipsInvalidActions(t *testing.T) {
	events := baseEvents()
	got := Preview(events, []models.CalendarAction{
		{Type: "move", EventID: "1"},
		{Type: models.ActionCreate},
		{Type: models.ActionDelete},
	})
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("got %+v, want %+v", got, events)
	}
}

func TestNewTempID(t *testing.T) {
	id := NewTempID()
	if !strings.HasPrefix(id, TempIDPrefix) {
		t.Fatalf("NewTempID() = %q", id)
	}
	if IsTempID("abc123") {
		t.Fatal("provider id treated as temp")
	}
}
