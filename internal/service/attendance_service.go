package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/calendar"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

const (
	duplicatePresentMessage = "Attendance already marked as PRESENT for this user and date."
	duplicateDayMessage     = "Attendance already recorded for this user and date."
)

type AttendanceService struct {
	db                *gorm.DB
	provider          calendar.Provider
	holidayCalendarID string
	location          *time.Location
	now               func() time.Time
}

func NewAttendanceService(db *gorm.DB, provider calendar.Provider, holidayCalendarID string, location *time.Location) *AttendanceService {
	if provider == nil {
		provider = calendar.Noop{}
	}
	if location == nil {
		location = time.UTC
	}
	return &AttendanceService{
		db:                db,
		provider:          provider,
		holidayCalendarID: holidayCalendarID,
		location:          location,
		now:               time.Now,
	}
}

func (s *AttendanceService) Create(ctx context.Context, input CreateAttendanceInput) (AttendanceDTO, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return AttendanceDTO{}, apperror.New(apperror.CodeValidation, "user_id is required")
	}
	if input.Date.IsZero() {
		return AttendanceDTO{}, apperror.New(apperror.CodeValidation, "date is required")
	}
	status := input.Status
	if status == "" {
		status = models.AttendancePresent
	}
	if !status.Valid() {
		return AttendanceDTO{}, apperror.New(apperror.CodeValidation, "attendance_status must be PRESENT or ABSENT")
	}

	row := models.Attendance{
		UserID:           input.UserID,
		ProjectID:        emptyToNil(input.ProjectID),
		Date:             dayOf(input.Date),
		StartTime:        utcPtr(input.StartTime),
		LunchStart:       utcPtr(input.LunchStart),
		LunchEnd:         utcPtr(input.LunchEnd),
		EndTime:          utcPtr(input.EndTime),
		AttendanceStatus: status,
		Notes:            strings.TrimSpace(input.Notes),
		Address:          strings.TrimSpace(input.Address),
	}
	if err := validLunch(row); err != nil {
		return AttendanceDTO{}, err
	}
	row.Hours = attendanceHours(row, input.Hours)

	db := s.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureReferences(tx, row.UserID, row.ProjectID); err != nil {
			return err
		}

		existing, err := attendanceOnDay(tx, row.UserID, row.Date, "")
		if err != nil {
			return err
		}

		switch {
		case status == models.AttendancePresent && existing.present != nil:
			return apperror.New(apperror.CodeConflict, duplicatePresentMessage)
		case status == models.AttendancePresent && existing.absent != nil:
			previous := *existing.absent
			row.ID = previous.ID
			row.CreatedAt = previous.CreatedAt
			if err := tx.Omit(clause.Associations).Save(&row).Error; err != nil {
				return mapDatabaseError(err)
			}
			return recomputeAfterAttendance(tx, previous, row)
		case status == models.AttendanceAbsent && (existing.present != nil || existing.absent != nil):
			return apperror.New(apperror.CodeConflict, duplicateDayMessage)
		}

		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return mapDatabaseError(err)
		}
		return recomputeAfterAttendance(tx, row)
	})
	if err != nil {
		return AttendanceDTO{}, err
	}

	return s.Get(ctx, row.ID)
}

func (s *AttendanceService) List(ctx context.Context, filter AttendanceFilter) ([]AttendanceDTO, Meta, error) {
	page := filter.Pagination.normalize()
	query := s.db.WithContext(ctx).Model(&models.Attendance{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Date != nil {
		start := dayOf(*filter.Date)
		query = query.Where("date >= ? AND date < ?", start, start.AddDate(0, 0, 1))
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, Meta{}, apperror.New(apperror.CodeValidation, "attendance_status must be PRESENT or ABSENT")
		}
		query = query.Where("attendance_status = ?", filter.Status)
	}
	query = containsInsensitive(query, filter.Search, "notes")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("count attendance: %w", err)
	}

	var rows []models.Attendance
	if err := paginate(query, page).
		Preload("User").
		Preload("Project").
		Order("date DESC").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("list attendance: %w", err)
	}

	result := make([]AttendanceDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, toAttendanceDTO(row))
	}
	return result, NewMeta(total, page), nil
}

// Grid lays out a page of employees against every day of the month.
func (s *AttendanceService) Grid(ctx context.Context, query GridQuery) ([]GridRow, Meta, error) {
	if err := validMonth(query.Year, query.Month); err != nil {
		return nil, Meta{}, err
	}
	page := query.Pagination.normalize()
	db := s.db.WithContext(ctx)

	employees := db.Model(&models.User{}).Where("type = ?", models.UserTypeEmployee)
	employees = containsInsensitive(employees, query.Search, "first_name", "last_name", "name", "email")

	var total int64
	if err := employees.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("count employees: %w", err)
	}

	var users []models.User
	if err := paginate(employees, page).Order("first_name ASC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("list employees: %w", err)
	}

	month := time.Month(query.Month)
	start, end := monthRange(query.Year, month)
	byUser := make(map[string]map[string]models.Attendance, len(users))
	if len(users) > 0 {
		ids := make([]string, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.ID)
		}

		var rows []models.Attendance
		if err := db.Where("user_id IN ? AND date >= ? AND date < ?", ids, start, end).Find(&rows).Error; err != nil {
			return nil, Meta{}, fmt.Errorf("load month attendance: %w", err)
		}
		for _, row := range rows {
			days := byUser[row.UserID]
			if days == nil {
				days = make(map[string]models.Attendance)
				byUser[row.UserID] = days
			}
			key := row.Date.UTC().Format(dateLayout)
			if current, ok := days[key]; ok && current.AttendanceStatus == models.AttendancePresent {
				continue
			}
			days[key] = row
		}
	}

	calendarDays := monthDays(query.Year, month)
	result := make([]GridRow, 0, len(users))
	for _, user := range users {
		cells := make(map[string]*GridCell, len(calendarDays))
		for _, day := range calendarDays {
			key := day.Format(dateLayout)
			row, ok := byUser[user.ID][key]
			if !ok {
				cells[key] = nil
				continue
			}
			cells[key] = &GridCell{ID: row.ID, Hours: row.Hours, Status: row.AttendanceStatus}
		}
		result = append(result, GridRow{User: toUserSummary(user), Days: cells})
	}

	return result, NewMeta(total, page), nil
}

// EmployeeMonth renders one line per day of the month for a single employee.
func (s *AttendanceService) EmployeeMonth(ctx context.Context, userID string, year, month int) ([]DayRecord, error) {
	if err := validMonth(year, month); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	if err := db.Select("id").First(&models.User{}, "id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "User", "load user")
	}

	start, end := monthRange(year, time.Month(month))
	var rows []models.Attendance
	if err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load month attendance: %w", err)
	}

	byDay := make(map[string]models.Attendance, len(rows))
	for _, row := range rows {
		key := row.Date.UTC().Format(dateLayout)
		if current, ok := byDay[key]; ok && current.AttendanceStatus == models.AttendancePresent {
			continue
		}
		byDay[key] = row
	}

	days := monthDays(year, time.Month(month))
	records := make([]DayRecord, 0, len(days))
	for _, day := range days {
		key := day.Format(dateLayout)
		row, ok := byDay[key]
		if !ok {
			records = append(records, DayRecord{
				Date:      key,
				StartTime: noTime,
				Lunch:     noTime,
				EndTime:   noTime,
				Total:     "No Record",
			})
			continue
		}

		id := row.ID
		records = append(records, DayRecord{
			ID:        &id,
			Date:      key,
			StartTime: clock(row.StartTime, s.location),
			Lunch:     lunchSpan(row.LunchStart, row.LunchEnd, s.location),
			EndTime:   clock(row.EndTime, s.location),
			Total:     fmt.Sprintf("%.1f hrs", row.Hours),
		})
	}
	return records, nil
}

func (s *AttendanceService) Get(ctx context.Context, id string) (AttendanceDTO, error) {
	var row models.Attendance
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		First(&row, "id = ?", id).Error; err != nil {
		return AttendanceDTO{}, notFoundOr(err, "Attendance", "get attendance")
	}
	return toAttendanceDTO(row), nil
}

func (s *AttendanceService) Update(ctx context.Context, id string, input UpdateAttendanceInput) (AttendanceDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Attendance
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "Attendance", "load attendance")
		}
		previous := row

		if input.Status != nil {
			if !input.Status.Valid() {
				return apperror.New(apperror.CodeValidation, "attendance_status must be PRESENT or ABSENT")
			}
			row.AttendanceStatus = *input.Status
		}
		if input.Date != nil {
			row.Date = dayOf(*input.Date)
		}
		if input.ProjectID != nil {
			row.ProjectID = emptyToNil(input.ProjectID)
		}

		timesChanged := false
		for _, change := range []struct {
			update TimeUpdate
			target **time.Time
		}{
			{input.StartTime, &row.StartTime},
			{input.LunchStart, &row.LunchStart},
			{input.LunchEnd, &row.LunchEnd},
			{input.EndTime, &row.EndTime},
		} {
			if change.update.Set {
				*change.target = utcPtr(change.update.Value)
				timesChanged = true
			}
		}
		if err := validLunch(row); err != nil {
			return err
		}
		if input.Notes != nil {
			row.Notes = strings.TrimSpace(*input.Notes)
		}
		if input.Address != nil {
			row.Address = strings.TrimSpace(*input.Address)
		}

		if timesChanged || input.Hours != nil || input.Status != nil {
			hours := input.Hours
			if hours == nil && !timesChanged {
				current := row.Hours
				hours = &current
			}
			row.Hours = attendanceHours(row, hours)
		}

		if err := ensureReferences(tx, row.UserID, row.ProjectID); err != nil {
			return err
		}

		// A PRESENT row replaces an absence on its day; any other overlap is a conflict.
		affected := []models.Attendance{previous, row}
		if input.Status != nil || input.Date != nil {
			existing, err := attendanceOnDay(tx, row.UserID, row.Date, row.ID)
			if err != nil {
				return err
			}
			switch {
			case row.AttendanceStatus == models.AttendancePresent && existing.present != nil:
				return apperror.New(apperror.CodeConflict, duplicatePresentMessage)
			case row.AttendanceStatus == models.AttendancePresent && existing.absent != nil:
				if err := tx.Delete(existing.absent).Error; err != nil {
					return fmt.Errorf("delete replaced absence: %w", err)
				}
				affected = append(affected, *existing.absent)
			case row.AttendanceStatus == models.AttendanceAbsent && (existing.present != nil || existing.absent != nil):
				return apperror.New(apperror.CodeConflict, duplicateDayMessage)
			}
		}

		if err := tx.Omit(clause.Associations).Save(&row).Error; err != nil {
			return mapDatabaseError(err)
		}
		return recomputeAfterAttendance(tx, affected...)
	})
	if err != nil {
		return AttendanceDTO{}, err
	}

	return s.Get(ctx, id)
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Attendance
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "Attendance", "load attendance")
		}
		if err := tx.Delete(&row).Error; err != nil {
			return fmt.Errorf("delete attendance: %w", err)
		}
		return recomputeAfterAttendance(tx, row)
	})
}

// attendanceHours derives worked hours. Start and end times win over an
// explicit value; absences never carry hours.
func attendanceHours(row models.Attendance, explicit *float64) float64 {
	if row.AttendanceStatus == models.AttendanceAbsent {
		return 0
	}
	if row.StartTime != nil && row.EndTime != nil {
		worked := row.EndTime.Sub(*row.StartTime)
		if row.LunchStart != nil && row.LunchEnd != nil {
			worked -= row.LunchEnd.Sub(*row.LunchStart)
		}
		if worked < 0 {
			return 0
		}
		return round2(worked.Hours())
	}
	if explicit != nil && *explicit > 0 {
		return round2(*explicit)
	}
	return 0
}

func validLunch(row models.Attendance) error {
	if row.LunchStart != nil && row.LunchEnd != nil && !row.LunchEnd.After(*row.LunchStart) {
		return apperror.New(apperror.CodeValidation, "lunch_end must be after lunch_start")
	}
	return nil
}

type dayRows struct {
	present *models.Attendance
	absent  *models.Attendance
}

// attendanceOnDay returns the live rows of a user on one day, ignoring excludeID.
func attendanceOnDay(tx *gorm.DB, userID string, day time.Time, excludeID string) (dayRows, error) {
	query := tx.Where("user_id = ? AND date >= ? AND date < ?", userID, day, day.AddDate(0, 0, 1))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var rows []models.Attendance
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return dayRows{}, fmt.Errorf("load day attendance: %w", err)
	}

	var found dayRows
	for i := range rows {
		switch rows[i].AttendanceStatus {
		case models.AttendancePresent:
			if found.present == nil {
				found.present = &rows[i]
			}
		case models.AttendanceAbsent:
			if found.absent == nil {
				found.absent = &rows[i]
			}
		}
	}
	return found, nil
}

func ensureReferences(tx *gorm.DB, userID string, projectID *string) error {
	if err := tx.Select("id").First(&models.User{}, "id = ?", userID).Error; err != nil {
		return notFoundOr(err, "User", "load user")
	}
	if projectID == nil {
		return nil
	}
	if err := tx.Select("id").First(&models.Project{}, "id = ?", *projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Project")
		}
		return fmt.Errorf("load project: %w", err)
	}
	return nil
}

const noTime = "----"

func clock(value *time.Time, location *time.Location) string {
	if value == nil {
		return noTime
	}
	return value.In(location).Format("15:04")
}

func lunchSpan(start, end *time.Time, location *time.Location) string {
	if start == nil || end == nil {
		return noTime
	}
	return start.In(location).Format("15") + "-" + end.In(location).Format("15")
}

func utcPtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func emptyToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:           user.ID,
		Name:         displayName(user),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Avatar:       user.Avatar,
		EmployeeRole: user.EmployeeRole,
	}
}

func displayName(user models.User) string {
	if user.Name != "" {
		return user.Name
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func toAttendanceDTO(row models.Attendance) AttendanceDTO {
	dto := AttendanceDTO{
		ID:               row.ID,
		UserID:           row.UserID,
		ProjectID:        row.ProjectID,
		Date:             row.Date.UTC().Format(dateLayout),
		StartTime:        row.StartTime,
		LunchStart:       row.LunchStart,
		LunchEnd:         row.LunchEnd,
		EndTime:          row.EndTime,
		Hours:            row.Hours,
		AttendanceStatus: row.AttendanceStatus,
		Notes:            row.Notes,
		Address:          row.Address,
		CreatedAt:        row.CreatedAt,
	}
	if row.User.ID != "" {
		summary := toUserSummary(row.User)
		dto.User = &summary
	}
	if row.Project != nil && row.Project.ID != "" {
		dto.Project = &ProjectRef{ID: row.Project.ID, Name: row.Project.Name}
	}
	return dto
}
