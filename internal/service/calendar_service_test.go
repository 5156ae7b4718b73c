package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/calendar"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/db/dbtest"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

func TestCalendarEventLifecycleMirrorsProvider(t *testing.T) {
	database := dbtest.Open(t)
	provider := &stubProvider{nextID: "g-1"}
	svc := NewCalendarService(database, provider, "primary", "holidays", time.UTC, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCalendarEventInput{
		Title:     "Exams",
		EventType: models.EventExam,
		StartDate: day(2025, time.June, 2),
		EndDate:   day(2025, time.June, 6),
		AllDay:    true,
		Color:     "5",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Synced || created.GoogleEventID == nil || *created.GoogleEventID != "g-1" {
		t.Fatalf("expected mirrored event, got %+v", created)
	}
	if len(provider.created) != 1 || provider.created[0].ColorID != "5" || !provider.created[0].AllDay {
		t.Fatalf("unexpected provider payload %+v", provider.created)
	}

	var stored models.AcademicCalendar
	database.First(&stored, "id = ?", created.ID)
	if !stored.Synced || stored.GoogleEventID == nil {
		t.Fatalf("sync state not persisted: %+v", stored)
	}

	updated, err := svc.Update(ctx, created.ID, UpdateCalendarEventInput{Title: ptr("Final exams")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Final exams" {
		t.Fatalf("unexpected title %q", updated.Title)
	}
	if got, ok := provider.updated["g-1"]; !ok || got.Summary != "Final exams" {
		t.Fatalf("provider copy not updated: %+v", provider.updated)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(provider.deleted) != 1 || provider.deleted[0] != "g-1" {
		t.Fatalf("provider copy not deleted: %v", provider.deleted)
	}
	if err := svc.Delete(ctx, created.ID); apperror.GetCode(err) != apperror.CodeNotFound || err.Error() != "Event not found" {
		t.Fatalf("expected Event not found, got %v", err)
	}
}

func TestCalendarWithoutProviderStaysUnsynced(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewCalendarService(database, nil, "primary", "holidays", time.UTC, nil)

	created, err := svc.Create(context.Background(), CreateCalendarEventInput{
		Title:     "Staff meeting",
		StartDate: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Synced || created.GoogleEventID != nil || created.EventType != models.EventGeneric {
		t.Fatalf("unexpected event %+v", created)
	}
}

func TestCalendarCreateKeepsExplicitInactiveStatus(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewCalendarService(database, nil, "primary", "holidays", time.UTC, nil)

	created, err := svc.Create(context.Background(), CreateCalendarEventInput{
		Title:     "Draft",
		Status:    ptr(0),
		StartDate: day(2025, time.June, 2),
		EndDate:   day(2025, time.June, 2),
		AllDay:    true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var stored models.AcademicCalendar
	if err := database.First(&stored, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if created.Status != 0 || stored.Status != 0 {
		t.Fatalf("expected status 0, got dto %d stored %d", created.Status, stored.Status)
	}
}

func TestCalendarValidation(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewCalendarService(database, nil, "primary", "holidays", time.UTC, nil)
	ctx := context.Background()

	cases := map[string]CreateCalendarEventInput{
		"no title":      {StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 1)},
		"bad type":      {Title: "X", EventType: "PARTY", StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 1)},
		"missing dates": {Title: "X"},
		"reversed":      {Title: "X", StartDate: day(2025, 1, 2), EndDate: day(2025, 1, 1)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(ctx, input); apperror.GetCode(err) != apperror.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCalendarListByMonth(t *testing.T) {
	database := dbtest.Open(t)
	provider := &stubProvider{holidays: []calendar.Event{{Summary: "Portugal Day", Start: day(2025, time.June, 10), End: day(2025, time.June, 10), AllDay: true}}}
	svc := NewCalendarService(database, provider, "primary", "holidays", time.UTC, nil)
	ctx := context.Background()

	for _, input := range []CreateCalendarEventInput{
		{Title: "Spans into June", StartDate: day(2025, time.May, 30), EndDate: day(2025, time.June, 2)},
		{Title: "June", StartDate: day(2025, time.June, 15), EndDate: day(2025, time.June, 15)},
		{Title: "July", StartDate: day(2025, time.July, 1), EndDate: day(2025, time.July, 1)},
	} {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	june, err := svc.List(ctx, CalendarQuery{Year: 2025, Month: 6})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(june.Events) != 2 || june.Events[0].Title != "Spans into June" {
		t.Fatalf("unexpected june events %+v", june.Events)
	}
	if len(june.Holidays) != 1 || june.Holidays[0].Summary != "Portugal Day" {
		t.Fatalf("unexpected holidays %+v", june.Holidays)
	}

	all, err := svc.List(ctx, CalendarQuery{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all.Events) != 3 {
		t.Fatalf("expected every event, got %d", len(all.Events))
	}

	if _, err := svc.List(ctx, CalendarQuery{Year: 2025, Month: 14}); apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	provider.listErr = errors.New("provider down")
	degraded, err := svc.List(ctx, CalendarQuery{Year: 2025, Month: 6})
	if err != nil {
		t.Fatalf("holiday lookup failure must not fail the listing: %v", err)
	}
	if len(degraded.Events) != 2 || len(degraded.Holidays) != 0 {
		t.Fatalf("unexpected degraded listing %+v", degraded)
	}
}
