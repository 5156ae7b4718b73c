package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/calendar"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

const eventNotFound = "Event not found"

// CalendarService keeps academic calendar entries and mirrors them to the
// provider's calendar. Provider failures are logged and leave the entry unsynced.
type CalendarService struct {
	db                *gorm.DB
	provider          calendar.Provider
	calendarID        string
	holidayCalendarID string
	location          *time.Location
	logger            *log.Logger
	now               func() time.Time
}

func NewCalendarService(db *gorm.DB, provider calendar.Provider, calendarID, holidayCalendarID string, location *time.Location, logger *log.Logger) *CalendarService {
	if provider == nil {
		provider = calendar.Noop{}
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CalendarService{
		db:                db,
		provider:          provider,
		calendarID:        calendarID,
		holidayCalendarID: holidayCalendarID,
		location:          location,
		logger:            logger,
		now:               time.Now,
	}
}

func (s *CalendarService) Create(ctx context.Context, input CreateCalendarEventInput) (CalendarEventDTO, error) {
	title, err := normalizeRequiredString(input.Title, "title")
	if err != nil {
		return CalendarEventDTO{}, err
	}
	eventType := input.EventType
	if eventType == "" {
		eventType = models.EventGeneric
	}
	if !eventType.Valid() {
		return CalendarEventDTO{}, apperror.New(apperror.CodeValidation, "event_type is not supported")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return CalendarEventDTO{}, apperror.New(apperror.CodeValidation, "start_date and end_date are required")
	}
	if input.EndDate.Before(input.StartDate) {
		return CalendarEventDTO{}, apperror.New(apperror.CodeValidation, "end_date must not be before start_date")
	}

	status := 1
	if input.Status != nil {
		status = *input.Status
	}
	entry := models.AcademicCalendar{
		Status:      status,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		EventType:   eventType,
		StartDate:   input.StartDate.UTC(),
		EndDate:     input.EndDate.UTC(),
		AllDay:      input.AllDay,
		Location:    strings.TrimSpace(input.Location),
		Organizer:   strings.TrimSpace(input.Organizer),
		Color:       strings.TrimSpace(input.Color),
	}

	db := s.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&entry).Error; err != nil {
		return CalendarEventDTO{}, mapDatabaseError(err)
	}

	s.mirror(ctx, db, &entry)
	return toCalendarEventDTO(entry), nil
}

func (s *CalendarService) List(ctx context.Context, query CalendarQuery) (CalendarListing, error) {
	events := s.db.WithContext(ctx).Model(&models.AcademicCalendar{})

	var from, to time.Time
	if query.Month != 0 {
		year := query.Year
		if year == 0 {
			year = s.now().In(s.location).Year()
		}
		if err := validMonth(year, query.Month); err != nil {
			return CalendarListing{}, err
		}
		from, to = monthRange(year, time.Month(query.Month))
		events = events.Where("start_date < ? AND end_date >= ?", to, from)
	}

	var entries []models.AcademicCalendar
	if err := events.Order("start_date ASC").Find(&entries).Error; err != nil {
		return CalendarListing{}, fmt.Errorf("list calendar events: %w", err)
	}

	listing := CalendarListing{
		Events:   make([]CalendarEventDTO, 0, len(entries)),
		Holidays: []calendar.Event{},
	}
	for _, entry := range entries {
		listing.Events = append(listing.Events, toCalendarEventDTO(entry))
	}

	holidays, err := s.provider.ListEvents(ctx, s.holidayCalendarID, from, to)
	if err != nil {
		s.logger.Printf("list public holidays: %v", err)
		return listing, nil
	}
	if holidays != nil {
		listing.Holidays = holidays
	}
	return listing, nil
}

func (s *CalendarService) Update(ctx context.Context, id string, input UpdateCalendarEventInput) (CalendarEventDTO, error) {
	db := s.db.WithContext(ctx)

	var entry models.AcademicCalendar
	if err := db.First(&entry, "id = ?", id).Error; err != nil {
		return CalendarEventDTO{}, notFoundAs(err, eventNotFound, "load calendar event")
	}

	if input.Status != nil {
		entry.Status = *input.Status
	}
	if input.Title != nil {
		title, err := normalizeRequiredString(*input.Title, "title")
		if err != nil {
			return CalendarEventDTO{}, err
		}
		entry.Title = title
	}
	if input.Description != nil {
		entry.Description = strings.TrimSpace(*input.Description)
	}
	if input.EventType != nil {
		if !input.EventType.Valid() {
			return CalendarEventDTO{}, apperror.New(apperror.CodeValidation, "event_type is not supported")
		}
		entry.EventType = *input.EventType
	}
	if input.StartDate != nil {
		entry.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		entry.EndDate = input.EndDate.UTC()
	}
	if entry.EndDate.Before(entry.StartDate) {
		return CalendarEventDTO{}, apperror.New(apperror.CodeValidation, "end_date must not be before start_date")
	}
	if input.AllDay != nil {
		entry.AllDay = *input.AllDay
	}
	if input.Location != nil {
		entry.Location = strings.TrimSpace(*input.Location)
	}
	if input.Organizer != nil {
		entry.Organizer = strings.TrimSpace(*input.Organizer)
	}
	if input.Color != nil {
		entry.Color = strings.TrimSpace(*input.Color)
	}

	if err := db.Omit(clause.Associations).Save(&entry).Error; err != nil {
		return CalendarEventDTO{}, mapDatabaseError(err)
	}

	s.mirror(ctx, db, &entry)
	return toCalendarEventDTO(entry), nil
}

func (s *CalendarService) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)

	var entry models.AcademicCalendar
	if err := db.First(&entry, "id = ?", id).Error; err != nil {
		return notFoundAs(err, eventNotFound, "load calendar event")
	}

	if entry.GoogleEventID != nil {
		if err := s.provider.DeleteEvent(ctx, s.calendarID, *entry.GoogleEventID); err != nil {
			s.logger.Printf("delete provider event %s: %v", *entry.GoogleEventID, err)
		}
	}
	if err := db.Delete(&entry).Error; err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

// mirror pushes the entry to the provider and records the link.
func (s *CalendarService) mirror(ctx context.Context, db *gorm.DB, entry *models.AcademicCalendar) {
	event := toProviderEvent(*entry)

	var (
		remote calendar.Event
		err    error
	)
	if entry.GoogleEventID != nil {
		remote, err = s.provider.UpdateEvent(ctx, s.calendarID, *entry.GoogleEventID, event)
	} else {
		remote, err = s.provider.CreateEvent(ctx, s.calendarID, event)
	}

	if err != nil {
		s.logger.Printf("mirror calendar event %s: %v", entry.ID, err)
		if !entry.Synced {
			return
		}
		entry.Synced = false
	} else {
		if remote.ID == "" {
			return
		}
		remoteID := remote.ID
		entry.GoogleEventID = &remoteID
		entry.Synced = true
	}

	if err := db.Model(&models.AcademicCalendar{}).Where("id = ?", entry.ID).Updates(map[string]any{
		"google_event_id": entry.GoogleEventID,
		"synced":          entry.Synced,
	}).Error; err != nil {
		s.logger.Printf("record calendar sync for %s: %v", entry.ID, err)
	}
}

func toProviderEvent(entry models.AcademicCalendar) calendar.Event {
	event := calendar.Event{
		Summary:     entry.Title,
		Description: entry.Description,
		Location:    entry.Location,
		Start:       entry.StartDate,
		End:         entry.EndDate,
		AllDay:      entry.AllDay,
	}
	// The provider only accepts its own palette indices.
	if _, err := strconv.Atoi(entry.Color); err == nil {
		event.ColorID = entry.Color
	}
	if entry.AllDay {
		event.Start = dayOf(entry.StartDate)
		event.End = dayOf(entry.EndDate)
	}
	return event
}

func toCalendarEventDTO(entry models.AcademicCalendar) CalendarEventDTO {
	return CalendarEventDTO{
		ID:            entry.ID,
		Status:        entry.Status,
		Title:         entry.Title,
		Description:   entry.Description,
		EventType:     entry.EventType,
		StartDate:     entry.StartDate,
		EndDate:       entry.EndDate,
		AllDay:        entry.AllDay,
		Location:      entry.Location,
		Organizer:     entry.Organizer,
		Color:         entry.Color,
		GoogleEventID: entry.GoogleEventID,
		Synced:        entry.Synced,
	}
}
