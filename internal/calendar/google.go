package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/config"
)

const dateLayout = "2006-01-02"

type Google struct {
	service *gcal.Service
}

// NewGoogle builds a client authorised with the configured OAuth refresh token.
func NewGoogle(ctx context.Context, cfg config.GoogleConfig) (*Google, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.CallbackURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarScope},
	}
	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := gcal.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Google{service: service}, nil
}

func (g *Google) CreateEvent(ctx context.Context, calendarID string, event Event) (Event, error) {
	created, err := g.service.Events.Insert(calendarID, toGoogle(event)).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("insert calendar event: %w", err)
	}
	return fromGoogle(created), nil
}

func (g *Google) UpdateEvent(ctx context.Context, calendarID, eventID string, event Event) (Event, error) {
	updated, err := g.service.Events.Update(calendarID, eventID, toGoogle(event)).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("update calendar event: %w", err)
	}
	return fromGoogle(updated), nil
}

func (g *Google) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := g.service.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

func (g *Google) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	call := g.service.Events.List(calendarID).SingleEvents(true).OrderBy("startTime").Context(ctx)
	if !timeMin.IsZero() {
		call = call.TimeMin(timeMin.Format(time.RFC3339))
	}
	if !timeMax.IsZero() {
		call = call.TimeMax(timeMax.Format(time.RFC3339))
	}

	events := []Event{}
	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			events = append(events, fromGoogle(item))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return events, nil
}

func toGoogle(event Event) *gcal.Event {
	out := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		ColorId:     event.ColorID,
	}
	if event.AllDay {
		// Google treats the end date of all-day events as exclusive.
		out.Start = &gcal.EventDateTime{Date: event.Start.Format(dateLayout)}
		out.End = &gcal.EventDateTime{Date: event.End.AddDate(0, 0, 1).Format(dateLayout)}
	} else {
		out.Start = &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)}
		out.End = &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)}
	}
	return out
}

func fromGoogle(event *gcal.Event) Event {
	out := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		ColorID:     event.ColorId,
	}
	if event.Start != nil && event.Start.Date != "" {
		out.AllDay = true
	}
	out.Start = parseEventTime(event.Start, false)
	out.End = parseEventTime(event.End, out.AllDay)
	return out
}

func parseEventTime(value *gcal.EventDateTime, exclusiveEnd bool) time.Time {
	if value == nil {
		return time.Time{}
	}
	if value.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, value.DateTime)
		if err == nil {
			return parsed.UTC()
		}
	}
	if value.Date != "" {
		parsed, err := time.Parse(dateLayout, value.Date)
		if err == nil {
			if exclusiveEnd {
				return parsed.AddDate(0, 0, -1)
			}
			return parsed
		}
	}
	return time.Time{}
}
