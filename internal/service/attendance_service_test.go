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

func TestAttendanceHours(t *testing.T) {
	date := day(2025, time.March, 3)
	cases := []struct {
		name     string
		row      models.Attendance
		explicit *float64
		want     float64
	}{
		{
			name: "lunch subtracted",
			row: models.Attendance{
				AttendanceStatus: models.AttendancePresent,
				StartTime:        clockAt(date, 8, 0),
				LunchStart:       clockAt(date, 12, 0),
				LunchEnd:         clockAt(date, 12, 30),
				EndTime:          clockAt(date, 17, 0),
			},
			want: 8.5,
		},
		{
			name: "times win over explicit",
			row: models.Attendance{
				AttendanceStatus: models.AttendancePresent,
				StartTime:        clockAt(date, 9, 0),
				EndTime:          clockAt(date, 13, 0),
			},
			explicit: ptr(10.0),
			want:     4,
		},
		{
			name: "negative floored",
			row: models.Attendance{
				AttendanceStatus: models.AttendancePresent,
				StartTime:        clockAt(date, 9, 0),
				LunchStart:       clockAt(date, 8, 0),
				LunchEnd:         clockAt(date, 12, 0),
				EndTime:          clockAt(date, 10, 0),
			},
			want: 0,
		},
		{
			name:     "explicit without times",
			row:      models.Attendance{AttendanceStatus: models.AttendancePresent},
			explicit: ptr(6.25),
			want:     6.25,
		},
		{
			name:     "absent has no hours",
			row:      models.Attendance{AttendanceStatus: models.AttendanceAbsent},
			explicit: ptr(8.0),
			want:     0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := attendanceHours(tc.row, tc.explicit); got != tc.want {
				t.Fatalf("expected %v hours, got %v", tc.want, got)
			}
		})
	}
}

func TestCreateAttendanceRejectsSecondPresent(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Ana", 10)
	ctx := context.Background()

	input := CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 3), Hours: ptr(8.0)}
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(ctx, input)
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != duplicatePresentMessage {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCreateAttendanceUpgradesAbsence(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Bruno", 12)
	ctx := context.Background()
	date := day(2025, time.March, 4)

	absent, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: date, Status: models.AttendanceAbsent})
	if err != nil {
		t.Fatalf("create absence: %v", err)
	}

	present, err := svc.Create(ctx, CreateAttendanceInput{
		UserID:    user.ID,
		Date:      date,
		StartTime: clockAt(date, 8, 0),
		EndTime:   clockAt(date, 16, 0),
	})
	if err != nil {
		t.Fatalf("create presence: %v", err)
	}
	if present.ID != absent.ID {
		t.Fatalf("expected absence %s upgraded in place, got new row %s", absent.ID, present.ID)
	}
	if present.AttendanceStatus != models.AttendancePresent || present.Hours != 8 {
		t.Fatalf("unexpected upgraded row %+v", present)
	}

	var count int64
	database.Model(&models.Attendance{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single row, got %d", count)
	}
	if got := loadUser(t, database, user.ID); got.RecordedHours != 8 || got.Earning != 96 {
		t.Fatalf("unexpected user totals %v / %v", got.RecordedHours, got.Earning)
	}
}

func TestAttendanceKeepsAssigneeTotals(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Carla", 20)
	first := seedProject(t, database, "Warehouse")
	second := seedProject(t, database, "Office")
	ctx := context.Background()

	monday, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, ProjectID: &first.ID, Date: day(2025, time.March, 3), Hours: ptr(8.0)})
	if err != nil {
		t.Fatalf("create monday: %v", err)
	}
	if _, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, ProjectID: &first.ID, Date: day(2025, time.March, 4), Hours: ptr(4.5)}); err != nil {
		t.Fatalf("create tuesday: %v", err)
	}

	assignee := loadAssignee(t, database, first.ID, user.ID)
	if assignee.TotalHours != 12.5 || assignee.TotalCost != 250 {
		t.Fatalf("unexpected totals %v / %v", assignee.TotalHours, assignee.TotalCost)
	}

	if _, err := svc.Update(ctx, monday.ID, UpdateAttendanceInput{ProjectID: &second.ID}); err != nil {
		t.Fatalf("move attendance: %v", err)
	}
	if got := loadAssignee(t, database, first.ID, user.ID); got.TotalHours != 4.5 || got.TotalCost != 90 {
		t.Fatalf("old project totals not reduced: %v / %v", got.TotalHours, got.TotalCost)
	}
	if got := loadAssignee(t, database, second.ID, user.ID); got.TotalHours != 8 || got.TotalCost != 160 {
		t.Fatalf("new project totals wrong: %v / %v", got.TotalHours, got.TotalCost)
	}

	if err := svc.Delete(ctx, monday.ID); err != nil {
		t.Fatalf("delete attendance: %v", err)
	}
	if got := loadAssignee(t, database, second.ID, user.ID); got.TotalHours != 0 || got.TotalCost != 0 {
		t.Fatalf("totals not cleared after delete: %v / %v", got.TotalHours, got.TotalCost)
	}
	if got := loadUser(t, database, user.ID); got.RecordedHours != 4.5 || got.Earning != 90 {
		t.Fatalf("unexpected user totals %v / %v", got.RecordedHours, got.Earning)
	}
}

func TestUpdateAttendanceRechecksPresentPerDay(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Diana", 10)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 3), Hours: ptr(8.0)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 4), Hours: ptr(8.0)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, other.ID, UpdateAttendanceInput{Date: ptr(day(2025, time.March, 3))})
	if apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateAttendanceOntoAbsentDayReplacesAbsence(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Filipa", 10)
	ctx := context.Background()

	absent, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 3), Status: models.AttendanceAbsent})
	if err != nil {
		t.Fatalf("create absence: %v", err)
	}
	worked, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 4), Hours: ptr(8.0)})
	if err != nil {
		t.Fatalf("create presence: %v", err)
	}

	if _, err := svc.Update(ctx, worked.ID, UpdateAttendanceInput{Date: ptr(day(2025, time.March, 3))}); err != nil {
		t.Fatalf("move presence: %v", err)
	}

	var rows []models.Attendance
	if err := database.Where("user_id = ? AND date >= ? AND date < ?", user.ID, day(2025, time.March, 3), day(2025, time.March, 4)).Find(&rows).Error; err != nil {
		t.Fatalf("load day: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != worked.ID || rows[0].AttendanceStatus != models.AttendancePresent {
		t.Fatalf("expected a single PRESENT row, got %+v", rows)
	}
	if _, err := svc.Get(ctx, absent.ID); apperror.GetCode(err) != apperror.CodeNotFound {
		t.Fatalf("expected replaced absence to be gone, got %v", err)
	}
	if got := loadUser(t, database, user.ID); got.RecordedHours != 8 {
		t.Fatalf("unexpected recorded hours %v", got.RecordedHours)
	}
}

func TestUpdateAttendanceToAbsentRejectsOccupiedDay(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Gil", 10)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 3), Hours: ptr(8.0)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 4), Status: models.AttendanceAbsent})
	if err != nil {
		t.Fatalf("create absence: %v", err)
	}

	_, err = svc.Update(ctx, other.ID, UpdateAttendanceInput{Date: ptr(day(2025, time.March, 3))})
	if apperror.GetCode(err) != apperror.CodeConflict || err.Error() != duplicateDayMessage {
		t.Fatalf("expected day conflict, got %v", err)
	}

	var count int64
	database.Model(&models.Attendance{}).Where("user_id = ? AND date >= ? AND date < ?", user.ID, day(2025, time.March, 3), day(2025, time.March, 4)).Count(&count)
	if count != 1 {
		t.Fatalf("expected one row on the 3rd, got %d", count)
	}
}

func TestUpdateAttendanceClearsLunch(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Hugo", 10)
	ctx := context.Background()

	row, err := svc.Create(ctx, CreateAttendanceInput{
		UserID:     user.ID,
		Date:       day(2025, time.March, 3),
		StartTime:  ptr(time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)),
		LunchStart: ptr(time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)),
		LunchEnd:   ptr(time.Date(2025, time.March, 3, 13, 0, 0, 0, time.UTC)),
		EndTime:    ptr(time.Date(2025, time.March, 3, 17, 0, 0, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Hours != 8 {
		t.Fatalf("expected 8 hours, got %v", row.Hours)
	}

	updated, err := svc.Update(ctx, row.ID, UpdateAttendanceInput{
		LunchStart: TimeUpdate{Set: true},
		LunchEnd:   TimeUpdate{Set: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.LunchStart != nil || updated.LunchEnd != nil || updated.StartTime == nil {
		t.Fatalf("unexpected times %+v", updated)
	}
	if updated.Hours != 9 {
		t.Fatalf("expected 9 hours without lunch, got %v", updated.Hours)
	}

	moved, err := svc.Update(ctx, row.ID, UpdateAttendanceInput{EndTime: SetTime(time.Date(2025, time.March, 3, 16, 0, 0, 0, time.UTC))})
	if err != nil {
		t.Fatalf("update end: %v", err)
	}
	if moved.Hours != 8 || moved.LunchStart != nil {
		t.Fatalf("unexpected row after end change %+v", moved)
	}
}

func TestAttendanceRejectsInvertedLunch(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Ines", 10)
	ctx := context.Background()

	at := func(hour int) time.Time { return time.Date(2025, time.March, 3, hour, 0, 0, 0, time.UTC) }
	_, err := svc.Create(ctx, CreateAttendanceInput{
		UserID:     user.ID,
		Date:       day(2025, time.March, 3),
		StartTime:  ptr(at(8)),
		LunchStart: ptr(at(13)),
		LunchEnd:   ptr(at(12)),
		EndTime:    ptr(at(17)),
	})
	if apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("expected validation error on create, got %v", err)
	}

	row, err := svc.Create(ctx, CreateAttendanceInput{
		UserID:     user.ID,
		Date:       day(2025, time.March, 3),
		StartTime:  ptr(at(8)),
		LunchStart: ptr(at(12)),
		LunchEnd:   ptr(at(13)),
		EndTime:    ptr(at(17)),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Update(ctx, row.ID, UpdateAttendanceInput{LunchEnd: SetTime(at(11))})
	if apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("expected validation error on update, got %v", err)
	}
	if got, _ := svc.Get(ctx, row.ID); got.Hours != 8 {
		t.Fatalf("rejected update changed hours to %v", got.Hours)
	}
}

func TestAttendanceNotFound(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)

	if _, err := svc.Get(context.Background(), "missing"); apperror.GetCode(err) != apperror.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err := svc.Create(context.Background(), CreateAttendanceInput{UserID: "missing", Date: day(2025, time.March, 3)})
	if apperror.GetCode(err) != apperror.CodeNotFound {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}

func TestAttendanceListFiltersAndPaginates(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Elsa", 10)
	ctx := context.Background()

	for d := 3; d <= 7; d++ {
		if _, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, d), Hours: ptr(8.0), Notes: "site work"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, meta, err := svc.List(ctx, AttendanceFilter{UserID: user.ID, Search: "SITE", Pagination: Pagination{Page: 2, Limit: 2}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if meta.Total != 5 || meta.TotalPages != 3 || meta.Page != 2 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if len(rows) != 2 || rows[0].Date != "2025-03-05" {
		t.Fatalf("unexpected page %+v", rows)
	}
	if rows[0].User == nil || rows[0].User.ID != user.ID {
		t.Fatalf("expected user summary on rows")
	}

	byDate, _, err := svc.List(ctx, AttendanceFilter{Date: ptr(day(2025, time.March, 7))})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(byDate) != 1 {
		t.Fatalf("expected one row for the date, got %d", len(byDate))
	}
}

func TestGridCoversEveryDayOfMonth(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Fabio", 10)
	seedEmployee(t, database, "Gil", 10)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2024, time.February, 29), Hours: ptr(7.0)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, meta, err := svc.Grid(ctx, GridQuery{Year: 2024, Month: 2})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if meta.Total != 2 || len(rows) != 2 {
		t.Fatalf("expected two employees, got %d (meta %+v)", len(rows), meta)
	}
	if rows[0].User.ID != user.ID {
		t.Fatalf("expected rows ordered by first name")
	}
	for _, row := range rows {
		if len(row.Days) != 29 {
			t.Fatalf("expected 29 days, got %d", len(row.Days))
		}
	}
	cell := rows[0].Days["2024-02-29"]
	if cell == nil || cell.Hours != 7 || cell.Status != models.AttendancePresent {
		t.Fatalf("unexpected leap day cell %+v", cell)
	}
	if rows[0].Days["2024-02-28"] != nil {
		t.Fatalf("expected empty cell for a day without attendance")
	}

	if _, _, err := svc.Grid(ctx, GridQuery{Year: 2024, Month: 13}); apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEmployeeMonthFormatsDays(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	user := seedEmployee(t, database, "Helena", 10)
	ctx := context.Background()
	date := day(2025, time.April, 2)

	if _, err := svc.Create(ctx, CreateAttendanceInput{
		UserID:     user.ID,
		Date:       date,
		StartTime:  clockAt(date, 8, 0),
		LunchStart: clockAt(date, 12, 0),
		LunchEnd:   clockAt(date, 13, 0),
		EndTime:    clockAt(date, 17, 0),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	records, err := svc.EmployeeMonth(ctx, user.ID, 2025, 4)
	if err != nil {
		t.Fatalf("employee month: %v", err)
	}
	if len(records) != 30 {
		t.Fatalf("expected 30 days, got %d", len(records))
	}

	worked := records[1]
	if worked.ID == nil || worked.StartTime != "08:00" || worked.Lunch != "12-13" || worked.EndTime != "17:00" || worked.Total != "8.0 hrs" {
		t.Fatalf("unexpected worked day %+v", worked)
	}
	empty := records[0]
	if empty.ID != nil || empty.StartTime != "----" || empty.Total != "No Record" {
		t.Fatalf("unexpected empty day %+v", empty)
	}

	if _, err := svc.EmployeeMonth(ctx, "missing", 2025, 4); apperror.GetCode(err) != apperror.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBackfillSkipsNonWorkingDays(t *testing.T) {
	database := dbtest.Open(t)
	provider := &stubProvider{holidays: []calendar.Event{{
		Summary: "Carnival",
		Start:   day(2025, time.March, 4),
		End:     day(2025, time.March, 4),
		AllDay:  true,
	}}}
	svc := NewAttendanceService(database, provider, "holidays", time.UTC)
	user := seedEmployee(t, database, "Ivo", 10)
	ctx := context.Background()

	offDay := models.AcademicCalendar{
		Title:     "Inventory",
		EventType: models.EventOffDay,
		StartDate: day(2025, time.March, 10),
		EndDate:   day(2025, time.March, 11),
		AllDay:    true,
	}
	if err := database.Create(&offDay).Error; err != nil {
		t.Fatalf("seed off day: %v", err)
	}
	if _, err := svc.Create(ctx, CreateAttendanceInput{UserID: user.ID, Date: day(2025, time.March, 5), Hours: ptr(8.0)}); err != nil {
		t.Fatalf("seed presence: %v", err)
	}

	input := BackfillInput{Year: 2025, Month: 3, Through: day(2025, time.March, 31)}
	result, err := svc.BackfillAbsences(ctx, input)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	// 31 days minus five Sundays, two off days, one public holiday and the worked day.
	if result.Created != 22 || result.Skipped != 8 {
		t.Fatalf("unexpected result %+v", result)
	}

	var absences []models.Attendance
	database.Where("attendance_status = ?", models.AttendanceAbsent).Find(&absences)
	for _, row := range absences {
		if row.Date.Weekday() == time.Sunday {
			t.Fatalf("absence written on a Sunday: %s", row.Date)
		}
		switch row.Date.Format(dateLayout) {
		case "2025-03-04", "2025-03-10", "2025-03-11", "2025-03-05":
			t.Fatalf("absence written on excluded day %s", row.Date)
		}
		if row.Hours != 0 {
			t.Fatalf("absence carries hours: %v", row.Hours)
		}
	}

	again, err := svc.BackfillAbsences(ctx, input)
	if err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	if again.Created != 0 {
		t.Fatalf("expected idempotent run, created %d", again.Created)
	}
}

func TestBackfillRespectsLeaveJoinDateAndCutoff(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	onLeave := seedEmployee(t, database, "Joana", 10)
	newcomer := seedEmployee(t, database, "Kiko", 10)
	ctx := context.Background()

	if err := database.Model(&newcomer).Update("created_at", time.Date(2025, time.March, 4, 15, 0, 0, 0, time.UTC)).Error; err != nil {
		t.Fatalf("move join date: %v", err)
	}
	leave := models.EmployeeHoliday{
		UserID:    onLeave.ID,
		StartDate: day(2025, time.March, 3),
		EndDate:   day(2025, time.March, 4),
		Status:    models.HolidayApproved,
	}
	if err := database.Omit("User").Create(&leave).Error; err != nil {
		t.Fatalf("seed leave: %v", err)
	}

	result, err := svc.BackfillAbsences(ctx, BackfillInput{Year: 2025, Month: 3, Through: day(2025, time.March, 5)})
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	// Working days through the 5th: 1, 3, 4, 5.
	if result.Skipped != 27 {
		t.Fatalf("expected 27 skipped days, got %d", result.Skipped)
	}

	count := func(userID string) int64 {
		var n int64
		database.Model(&models.Attendance{}).Where("user_id = ?", userID).Count(&n)
		return n
	}
	if got := count(onLeave.ID); got != 2 {
		t.Fatalf("expected absences on the 1st and 5th only, got %d", got)
	}
	if got := count(newcomer.ID); got != 2 {
		t.Fatalf("expected absences from join day on, got %d", got)
	}
	if result.Created != 4 {
		t.Fatalf("expected 4 created, got %d", result.Created)
	}
}

func TestBackfillAbortsWhenHolidayLookupFails(t *testing.T) {
	database := dbtest.Open(t)
	provider := &stubProvider{listErr: errors.New("provider down")}
	svc := NewAttendanceService(database, provider, "holidays", time.UTC)
	seedEmployee(t, database, "Luis", 10)

	if _, err := svc.BackfillAbsences(context.Background(), BackfillInput{Year: 2025, Month: 3, Through: day(2025, time.March, 31)}); err == nil {
		t.Fatalf("expected error")
	}

	var count int64
	database.Model(&models.Attendance{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows, got %d", count)
	}
}

func TestBackfillDefaultsCutoffToToday(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewAttendanceService(database, nil, "", time.UTC)
	svc.now = func() time.Time { return time.Date(2025, time.March, 3, 22, 0, 0, 0, time.UTC) }
	seedEmployee(t, database, "Marta", 10)

	result, err := svc.BackfillAbsences(context.Background(), BackfillInput{Year: 2025, Month: 3})
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("expected the 1st and 3rd, got %d", result.Created)
	}
}

func TestBackfillReadsAllDayEntriesInLocalZone(t *testing.T) {
	database := dbtest.Open(t)
	lisbon := time.FixedZone("WEST", 3600)
	svc := NewAttendanceService(database, nil, "", lisbon)
	user := seedEmployee(t, database, "Nuno", 10)
	ctx := context.Background()

	// Midnight in the local zone is the previous evening in UTC.
	holiday := models.AcademicCalendar{
		Title:     "Founders day",
		EventType: models.EventHoliday,
		StartDate: time.Date(2025, time.June, 10, 0, 0, 0, 0, lisbon),
		EndDate:   time.Date(2025, time.June, 10, 0, 0, 0, 0, lisbon),
		AllDay:    true,
	}
	if err := database.Create(&holiday).Error; err != nil {
		t.Fatalf("seed holiday: %v", err)
	}

	result, err := svc.BackfillAbsences(ctx, BackfillInput{Year: 2025, Month: 6, Through: day(2025, time.June, 11)})
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	// Working days through the 11th: 2-7 and 9-11, minus the holiday on the 10th.
	if result.Created != 8 {
		t.Fatalf("expected 8 absences, got %d", result.Created)
	}

	var rows []models.Attendance
	database.Where("user_id = ?", user.ID).Find(&rows)
	for _, row := range rows {
		if row.Date.UTC().Format(dateLayout) == "2025-06-10" {
			t.Fatalf("absence written on the holiday")
		}
	}
}
