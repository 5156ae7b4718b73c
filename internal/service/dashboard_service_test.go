package service

import (
	"context"
	"testing"
	"time"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/db/dbtest"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

func TestDashboardSummary(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewDashboardService(database)
	attendances := NewAttendanceService(database, nil, "", time.UTC)
	ana := seedEmployee(t, database, "Ana", 10)
	rui := seedEmployee(t, database, "Rui", 20)
	seedProject(t, database, "Live")
	idle := seedProject(t, database, "Idle")
	database.Model(&idle).Update("status", 2)
	ctx := context.Background()

	for _, input := range []CreateAttendanceInput{
		{UserID: ana.ID, Date: day(2025, time.March, 3), Hours: ptr(8.0)},
		{UserID: rui.ID, Date: day(2025, time.March, 3), Hours: ptr(2.5)},
	} {
		if _, err := attendances.Create(ctx, input); err != nil {
			t.Fatalf("create attendance: %v", err)
		}
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := DashboardSummary{TotalEmployee: 2, TotalHours: 10.5, LaborCost: 130, ActiveProject: 1}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}
}

func TestRoleDistribution(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewDashboardService(database)
	seedEmployee(t, database, "Ana", 10)
	seedEmployee(t, database, "Rui", 10)
	painter := seedEmployee(t, database, "Eva", 10)
	database.Model(&painter).Update("employee_role", "Painter")

	distribution, err := svc.RoleDistribution(context.Background())
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if distribution.Total != 3 || len(distribution.Roles) != 2 {
		t.Fatalf("unexpected distribution %+v", distribution)
	}
	if top := distribution.Roles[0]; top.Role != "Carpenter" || top.Count != 2 || top.Percent != 67 {
		t.Fatalf("unexpected top role %+v", top)
	}
	if distribution.Roles[1].Percent != 33 {
		t.Fatalf("unexpected painter share %+v", distribution.Roles[1])
	}
}

func TestAttendanceReport(t *testing.T) {
	database := dbtest.Open(t)
	svc := NewDashboardService(database)
	attendances := NewAttendanceService(database, nil, "", time.UTC)
	ana := seedEmployee(t, database, "Ana", 10)
	rui := seedEmployee(t, database, "Rui", 10)
	ctx := context.Background()

	for _, input := range []CreateAttendanceInput{
		{UserID: ana.ID, Date: day(2025, time.March, 3), Hours: ptr(8.0)},
		{UserID: rui.ID, Date: day(2025, time.March, 3), Status: models.AttendanceAbsent},
		{UserID: ana.ID, Date: day(2025, time.March, 5), Hours: ptr(8.0)},
	} {
		if _, err := attendances.Create(ctx, input); err != nil {
			t.Fatalf("create attendance: %v", err)
		}
	}

	report, err := svc.AttendanceReport(ctx, day(2025, time.March, 3), day(2025, time.March, 5))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Dates) != 3 || report.Dates[0] != "2025-03-03" || report.Dates[2] != "2025-03-05" {
		t.Fatalf("unexpected dates %v", report.Dates)
	}
	if report.Present[0] != 1 || report.Absent[0] != 1 || report.Present[1] != 0 || report.Present[2] != 1 {
		t.Fatalf("unexpected counts %v / %v", report.Present, report.Absent)
	}

	for name, bounds := range map[string][2]time.Time{
		"missing":  {{}, day(2025, 3, 5)},
		"reversed": {day(2025, 3, 5), day(2025, 3, 1)},
		"too long": {day(2024, 1, 1), day(2025, 6, 1)},
	} {
		_, err := svc.AttendanceReport(ctx, bounds[0], bounds[1])
		if apperror.GetCode(err) != apperror.CodeValidation || err.Error() != invalidReportRange {
			t.Fatalf("%s: expected range error, got %v", name, err)
		}
	}
}
