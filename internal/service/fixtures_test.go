package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/calendar"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

var joinedLongAgo = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func seedEmployee(t *testing.T, database *gorm.DB, firstName string, rate float64) models.User {
	t.Helper()

	user := models.User{
		FirstName:    firstName,
		LastName:     "Tester",
		Name:         firstName + " Tester",
		Username:     strings.ToLower(firstName),
		Email:        strings.ToLower(firstName) + "@example.com",
		Type:         models.UserTypeEmployee,
		EmployeeRole: "Carpenter",
		HourlyRate:   rate,
	}
	user.CreatedAt = joinedLongAgo
	if err := database.Omit("Attendances", "Assignments").Create(&user).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return user
}

func seedProject(t *testing.T, database *gorm.DB, name string) models.Project {
	t.Helper()

	project := models.Project{Name: name, Priority: models.PriorityMedium, Status: models.ProjectStatusActive}
	if err := database.Omit("Assignees").Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func clockAt(date time.Time, hour, minute int) *time.Time {
	value := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
	return &value
}

func loadUser(t *testing.T, database *gorm.DB, id string) models.User {
	t.Helper()

	var user models.User
	if err := database.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user
}

func loadAssignee(t *testing.T, database *gorm.DB, projectID, userID string) models.ProjectAssignee {
	t.Helper()

	var assignee models.ProjectAssignee
	if err := database.First(&assignee, "project_id = ? AND user_id = ?", projectID, userID).Error; err != nil {
		t.Fatalf("load assignee: %v", err)
	}
	return assignee
}

type stubProvider struct {
	holidays []calendar.Event
	listErr  error
	created  []calendar.Event
	updated  map[string]calendar.Event
	deleted  []string
	nextID   string
}

func (p *stubProvider) CreateEvent(ctx context.Context, calendarID string, event calendar.Event) (calendar.Event, error) {
	p.created = append(p.created, event)
	event.ID = p.nextID
	return event, nil
}

func (p *stubProvider) UpdateEvent(ctx context.Context, calendarID, eventID string, event calendar.Event) (calendar.Event, error) {
	if p.updated == nil {
		p.updated = make(map[string]calendar.Event)
	}
	p.updated[eventID] = event
	event.ID = eventID
	return event, nil
}

func (p *stubProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	p.deleted = append(p.deleted, eventID)
	return nil
}

func (p *stubProvider) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.holidays, nil
}

type recordedEmit struct {
	receiverID *string
	event      string
	payload    any
}

type recordingEmitter struct {
	events []recordedEmit
}

func (e *recordingEmitter) Emit(receiverID *string, event string, payload any) {
	e.events = append(e.events, recordedEmit{receiverID: receiverID, event: event, payload: payload})
}

func ptr[T any](value T) *T {
	return &value
}
