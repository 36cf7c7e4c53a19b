package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"vibe-planner/models"
)

// fakeGoogle is a minimal Calendar v3 backend.
type fakeGoogle struct {
	mu             sync.Mutex
	calendars      []map[string]any
	events         map[string][]map[string]any
	failCalendar   string
	goneCalendar   string
	createdCal     int
	inserted       map[string][]calendar.Event
	patched        []map[string]any
	deleted        []string
	listCallsByCal map[string]int
}

func newFakeGoogle() *fakeGoogle {
	return &fakeGoogle{
		calendars: []map[string]any{
			{"id": "me@example.com", "summary": "me@example.com", "primary": true},
		},
		events:         map[string][]map[string]any{},
		inserted:       map[string][]calendar.Event{},
		listCallsByCal: map[string]int{},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeGoogle) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, map[string]any{"items": f.calendars})
	})
	mux.HandleFunc("POST /calendars", func(w http.ResponseWriter, r *http.Request) {
		var body calendar.Calendar
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.createdCal++
		f.calendars = append(f.calendars, map[string]any{"id": "new-cal", "summary": body.Summary})
		writeJSON(w, map[string]any{"id": "new-cal", "summary": body.Summary})
	})
	mux.HandleFunc("GET /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		cal := r.PathValue("cal")
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listCallsByCal[cal]++
		if cal == f.failCalendar {
			http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"items": f.events[cal]})
	})
	mux.HandleFunc("POST /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		var body calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		cal := r.PathValue("cal")
		if cal == f.goneCalendar {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
			return
		}
		f.inserted[cal] = append(f.inserted[cal], body)
		body.Id = "created1"
		writeJSON(w, body)
	})
	mux.HandleFunc("PATCH /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.patched = append(f.patched, body)
		body["id"] = r.PathValue("id")
		writeJSON(w, body)
	})
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deleted = append(f.deleted, r.PathValue("cal")+"/"+r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// mapCache is an in-memory Cache.
type mapCache map[string]string

func (m mapCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapCache) Set(_ context.Context, key, value string, _ time.Duration) { m[key] = value }

func (m mapCache) Del(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(m, k)
	}
}

func newTestAccessor(t *testing.T, f *fakeGoogle) *Accessor {
	t.Helper()
	return newTestAccessorWithOptions(t, f, Options{CalendarName: "Vibe App", Location: time.UTC})
}

func newTestAccessorWithOptions(t *testing.T, f *fakeGoogle, opts Options) *Accessor {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("calendar.NewService: %v", err)
	}
	return NewAccessorWithService(svc, opts)
}

func TestNewAccessorRequiresToken(t *testing.T) {
	if _, err := NewAccessor(context.Background(), "", Options{}); err != ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestListMergesAndSorts(t *testing.T) {
	f := newFakeGoogle()
	f.calendars = append(f.calendars, map[string]any{"id": "app-cal", "summary": "Vibe App"})
	f.events["primary"] = []map[string]any{
		{"id": "late", "summary": "Standup", "start": map[string]any{"dateTime": "2025-03-10T15:00:00Z"}, "end": map[string]any{"dateTime": "2025-03-10T15:15:00Z"}},
		{"id": "allday", "summary": "", "start": map[string]any{"date": "2025-03-10"}, "end": map[string]any{"date": "2025-03-11"}},
	}
	f.events["app-cal"] = []map[string]any{
		{"id": "mid", "summary": "Write report", "start": map[string]any{"dateTime": "2025-03-10T10:00:00+01:00"}, "end": map[string]any{"dateTime": "2025-03-10T12:00:00+01:00"}},
	}

	a := newTestAccessor(t, f)
	got, err := a.List(context.Background(), "2025-03-10T00:00:00Z", "2025-03-10T23:59:59Z")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	wantIDs := []string{"allday", "mid", "late"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d events: %+v", len(got), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
	if got[0].Title != untitledEvent || got[0].StartTime != "2025-03-10" {
		t.Errorf("all-day event = %+v", got[0])
	}
	if got[1].CalendarID != "app-cal" || got[2].CalendarID != "primary" {
		t.Errorf("calendar ids = %q, %q", got[1].CalendarID, got[2].CalendarID)
	}
}

func TestListWithoutAppCalendar(t *testing.T) {
	f := newFakeGoogle()
	f.events["primary"] = []map[string]any{
		{"id": "a", "summary": "A", "start": map[string]any{"dateTime": "2025-03-10T09:00:00Z"}, "end": map[string]any{"dateTime": "2025-03-10T10:00:00Z"}},
	}

	a := newTestAccessor(t, f)
	got, err := a.List(context.Background(), "2025-03-10T00:00:00Z", "2025-03-10T23:59:59Z")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("got %+v", got)
	}
	if f.createdCal != 0 {
		t.Error("List must not create the application calendar")
	}
}

func TestListSkipsFailingCalendar(t *testing.T) {
	f := newFakeGoogle()
	f.calendars = append(f.calendars, map[string]any{"id": "app-cal", "summary": "Vibe App"})
	f.failCalendar = "app-cal"
	f.events["primary"] = []map[string]any{
		{"id": "a", "summary": "A", "start": map[string]any{"dateTime": "2025-03-10T09:00:00Z"}, "end": map[string]any{"dateTime": "2025-03-10T10:00:00Z"}},
	}

	a := newTestAccessor(t, f)
	got, err := a.List(context.Background(), "2025-03-10T00:00:00Z", "2025-03-10T23:59:59Z")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("got %+v", got)
	}
	if f.listCallsByCal["app-cal"] == 0 {
		t.Error("app calendar was never queried")
	}
}

func TestCreateLazilyCreatesAppCalendar(t *testing.T) {
	f := newFakeGoogle()
	a := newTestAccessor(t, f)

	created, err := a.Create(context.Background(), models.ScheduledEvent{
		Title:     "Gym",
		StartTime: "2025-03-10T17:00:00",
		EndTime:   "2025-03-10T18:00:00",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if f.createdCal != 1 {
		t.Fatalf("created %d calendars, want 1", f.createdCal)
	}
	if created.ID != "created1" || created.CalendarID != "new-cal" || created.Title != "Gym" {
		t.Errorf("created = %+v", created)
	}

	body := f.inserted["new-cal"]
	if len(body) != 1 {
		t.Fatalf("inserted = %+v", f.inserted)
	}
	if body[0].Start.TimeZone != "UTC" || body[0].Start.DateTime != "2025-03-10T17:00:00" {
		t.Errorf("start = %+v", body[0].Start)
	}

	// Second create reuses the calendar.
	if _, err := a.Create(context.Background(), models.ScheduledEvent{Title: "B", StartTime: "2025-03-11", EndTime: "2025-03-12"}); err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if f.createdCal != 1 {
		t.Errorf("created %d calendars after second create, want 1", f.createdCal)
	}
	if got := f.inserted["new-cal"][1].Start; got.Date != "2025-03-11" || got.DateTime != "" {
		t.Errorf("all-day start = %+v", got)
	}
}

func TestCreateRecoversFromStaleCachedCalendar(t *testing.T) {
	f := newFakeGoogle()
	f.calendars = append(f.calendars, map[string]any{"id": "app-cal", "summary": "Vibe App"})
	f.goneCalendar = "gone-cal"
	c := mapCache{AppCalendarKey("s1"): "gone-cal"}
	a := newTestAccessorWithOptions(t, f, Options{CalendarName: "Vibe App", Cache: c, SessionID: "s1"})

	created, err := a.Create(context.Background(), models.ScheduledEvent{
		Title: "Gym", StartTime: "2025-03-10T17:00:00Z", EndTime: "2025-03-10T18:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.CalendarID != "app-cal" || len(f.inserted["app-cal"]) != 1 {
		t.Fatalf("created = %+v, inserted = %+v", created, f.inserted)
	}
	if c[AppCalendarKey("s1")] != "app-cal" {
		t.Errorf("cached id = %q, want app-cal", c[AppCalendarKey("s1")])
	}
	if f.createdCal != 0 {
		t.Errorf("created %d calendars, want 0", f.createdCal)
	}
}

func TestCreateNotFoundWithoutCache(t *testing.T) {
	f := newFakeGoogle()
	f.calendars = append(f.calendars, map[string]any{"id": "gone-cal", "summary": "Vibe App"})
	f.goneCalendar = "gone-cal"
	a := newTestAccessor(t, f)

	if _, err := a.Create(context.Background(), models.ScheduledEvent{Title: "Gym", StartTime: "2025-03-10", EndTime: "2025-03-11"}); !isNotFound(err) {
		t.Fatalf("err = %v, want a 404", err)
	}
	if len(f.inserted["gone-cal"]) != 0 {
		t.Errorf("inserted = %+v", f.inserted)
	}
}

func TestUpdateSendsOnlyPresentFields(t *testing.T) {
	f := newFakeGoogle()
	a := newTestAccessor(t, f)

	title := "Renamed"
	updated, err := a.Update(context.Background(), "primary", "e1", models.EventPatch{Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != "e1" || updated.Title != "Renamed" {
		t.Errorf("updated = %+v", updated)
	}
	if len(f.patched) != 1 {
		t.Fatalf("patched = %+v", f.patched)
	}
	body := f.patched[0]
	if body["summary"] != "Renamed" {
		t.Errorf("summary = %v", body["summary"])
	}
	for _, k := range []string{"start", "end", "description"} {
		if _, ok := body[k]; ok {
			t.Errorf("patch body unexpectedly contains %q: %v", k, body)
		}
	}
}

func TestDelete(t *testing.T) {
	f := newFakeGoogle()
	a := newTestAccessor(t, f)

	if err := a.Delete(context.Background(), "primary", "e1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(f.deleted) != 1 || f.deleted[0] != "primary/e1" {
		t.Fatalf("deleted = %v", f.deleted)
	}
}

func TestListCalendars(t *testing.T) {
	f := newFakeGoogle()
	f.calendars = append(f.calendars, map[string]any{"id": "app-cal", "summary": "Vibe App"})
	a := newTestAccessor(t, f)

	got, err := a.ListCalendars(context.Background())
	if err != nil {
		t.Fatalf("ListCalendars() error = %v", err)
	}
	if len(got) != 2 || !got[0].Primary || got[1].ID != "app-cal" {
		t.Fatalf("got %+v", got)
	}
}

func TestAppCalendarKey(t *testing.T) {
	if got := AppCalendarKey("abc"); got != "calendar:abc:app_id" {
		t.Fatalf("AppCalendarKey() = %q", got)
	}
}
