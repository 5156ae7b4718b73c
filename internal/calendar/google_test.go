package calendar

import (
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

func TestAllDayRoundTripKeepsInclusiveEnd(t *testing.T) {
	start := time.Date(2025, time.December, 24, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC)

	converted := toGoogle(Event{Summary: "Christmas", Start: start, End: end, AllDay: true})
	if converted.Start.Date != "2025-12-24" {
		t.Fatalf("unexpected start date %q", converted.Start.Date)
	}
	if converted.End.Date != "2025-12-27" {
		t.Fatalf("expected exclusive end 2025-12-27, got %q", converted.End.Date)
	}

	back := fromGoogle(converted)
	if !back.AllDay {
		t.Fatalf("expected all-day event")
	}
	if !back.End.Equal(end) {
		t.Fatalf("expected end %s, got %s", end, back.End)
	}
}

func TestFromGoogleTimedEvent(t *testing.T) {
	event := fromGoogle(&gcal.Event{
		Id:      "abc",
		Summary: "Seminar",
		Start:   &gcal.EventDateTime{DateTime: "2025-03-10T09:00:00+01:00"},
		End:     &gcal.EventDateTime{DateTime: "2025-03-10T11:00:00+01:00"},
	})

	if event.AllDay {
		t.Fatalf("timed event reported as all-day")
	}
	if event.ID != "abc" {
		t.Fatalf("unexpected id %q", event.ID)
	}
	want := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	if !event.Start.Equal(want) {
		t.Fatalf("expected start %s, got %s", want, event.Start)
	}
}
