package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

const backfillBatchSize = 200

// BackfillAbsences inserts ABSENT rows for every employee missing attendance
// on a working day of the month. Running it twice inserts nothing new.
func (s *AttendanceService) BackfillAbsences(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	if err := validMonth(input.Year, input.Month); err != nil {
		return BackfillResult{}, err
	}

	cutoff := dayOf(input.Through)
	if input.Through.IsZero() {
		cutoff = dayOf(s.now().In(s.location))
	}

	month := time.Month(input.Month)
	start, end := monthRange(input.Year, month)
	db := s.db.WithContext(ctx)

	offDays, err := s.offDays(ctx, db, start, end)
	if err != nil {
		return BackfillResult{}, err
	}

	var result BackfillResult
	workingDays := make([]time.Time, 0, 31)
	for _, day := range monthDays(input.Year, month) {
		if day.After(cutoff) || day.Weekday() == time.Sunday || offDays.has(day) {
			result.Skipped++
			continue
		}
		workingDays = append(workingDays, day)
	}
	if len(workingDays) == 0 {
		return result, nil
	}

	var employees []models.User
	if err := db.Select("id", "created_at").Where("type = ?", models.UserTypeEmployee).Find(&employees).Error; err != nil {
		return BackfillResult{}, fmt.Errorf("list employees: %w", err)
	}
	if len(employees) == 0 {
		return result, nil
	}

	leave, err := approvedLeave(db, start, end)
	if err != nil {
		return BackfillResult{}, err
	}

	var existing []models.Attendance
	if err := db.Select("user_id", "date").
		Where("date >= ? AND date < ?", start, end).
		Find(&existing).Error; err != nil {
		return BackfillResult{}, fmt.Errorf("load month attendance: %w", err)
	}
	recorded := make(map[string]bool, len(existing))
	for _, row := range existing {
		recorded[row.UserID+"|"+row.Date.UTC().Format(dateLayout)] = true
	}

	absences := make([]models.Attendance, 0)
	for _, employee := range employees {
		joined := dayOf(employee.CreatedAt.In(s.location))
		for _, day := range workingDays {
			key := day.Format(dateLayout)
			if day.Before(joined) || recorded[employee.ID+"|"+key] || leave[employee.ID].has(day) {
				continue
			}
			absences = append(absences, models.Attendance{
				UserID:           employee.ID,
				Date:             day,
				Hours:            0,
				AttendanceStatus: models.AttendanceAbsent,
			})
		}
	}
	if len(absences) == 0 {
		return result, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).CreateInBatches(&absences, backfillBatchSize).Error
	})
	if err != nil {
		return BackfillResult{}, fmt.Errorf("insert absences: %w", mapDatabaseError(err))
	}

	result.Created = len(absences)
	return result, nil
}

// offDays collects the days in [start, end) declared as holidays or off days,
// locally or by the provider's public holiday calendar. Local entries are read
// as calendar days in the application time zone.
func (s *AttendanceService) offDays(ctx context.Context, db *gorm.DB, start, end time.Time) (daySet, error) {
	days := daySet{}

	// One day of slack on each side covers entries stored with a zone offset.
	var entries []models.AcademicCalendar
	if err := db.Select("start_date", "end_date").
		Where("event_type IN ?", []models.CalendarEventType{models.EventHoliday, models.EventOffDay}).
		Where("start_date < ? AND end_date >= ?", end.AddDate(0, 0, 1), start.AddDate(0, 0, -1)).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load calendar off days: %w", err)
	}
	for _, entry := range entries {
		days.addRange(entry.StartDate.In(s.location), entry.EndDate.In(s.location))
	}

	holidays, err := s.provider.ListEvents(ctx, s.holidayCalendarID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list public holidays: %w", err)
	}
	for _, holiday := range holidays {
		last := holiday.End
		if last.Before(holiday.Start) {
			last = holiday.Start
		}
		days.addRange(holiday.Start, last)
	}
	return days, nil
}

func approvedLeave(db *gorm.DB, start, end time.Time) (map[string]daySet, error) {
	var holidays []models.EmployeeHoliday
	if err := db.Select("user_id", "start_date", "end_date").
		Where("status = ?", models.HolidayApproved).
		Where("start_date < ? AND end_date >= ?", end, start).
		Find(&holidays).Error; err != nil {
		return nil, fmt.Errorf("load approved leave: %w", err)
	}

	leave := make(map[string]daySet)
	for _, holiday := range holidays {
		days := leave[holiday.UserID]
		if days == nil {
			days = daySet{}
			leave[holiday.UserID] = days
		}
		days.addRange(holiday.StartDate, holiday.EndDate)
	}
	return leave, nil
}
