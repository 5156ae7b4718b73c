// Package calendar talks to the external calendar provider used to mirror
// academic calendar entries and to look up public holidays.
package calendar

import (
	"context"
	"time"
)

// Event is the provider-neutral shape of a calendar entry. Start and End are
// whole days when AllDay is set.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	ColorID     string    `json:"color_id,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day"`
}

type Provider interface {
	CreateEvent(ctx context.Context, calendarID string, event Event) (Event, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, event Event) (Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	// ListEvents returns single events ordered by start time. Zero bounds are ignored.
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)
}

// Noop is used when no provider credentials are configured. Mutations return
// an event without an ID, which callers treat as "not mirrored".
type Noop struct{}

func (Noop) CreateEvent(ctx context.Context, calendarID string, event Event) (Event, error) {
	return Event{}, nil
}

func (Noop) UpdateEvent(ctx context.Context, calendarID, eventID string, event Event) (Event, error) {
	return Event{}, nil
}

func (Noop) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return nil
}

func (Noop) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	return []Event{}, nil
}
