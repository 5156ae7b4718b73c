package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

const (
	invalidReportRange = "Invalid or missing start/end date."
	maxReportDays      = 366
	unassignedRole     = "Unassigned"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	db := s.db.WithContext(ctx)
	var summary DashboardSummary

	if err := db.Model(&models.User{}).Where("type = ?", models.UserTypeEmployee).Count(&summary.TotalEmployee).Error; err != nil {
		return DashboardSummary{}, fmt.Errorf("count employees: %w", err)
	}
	if err := db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusActive).Count(&summary.ActiveProject).Error; err != nil {
		return DashboardSummary{}, fmt.Errorf("count active projects: %w", err)
	}

	var hours, cost float64
	row := db.Table("attendances AS a").
		Joins("JOIN users AS u ON u.id = a.user_id AND u.deleted_at IS NULL").
		Where("a.deleted_at IS NULL").
		Select("COALESCE(SUM(a.hours), 0), COALESCE(SUM(a.hours * u.hourly_rate), 0)").
		Row()
	if err := row.Scan(&hours, &cost); err != nil {
		return DashboardSummary{}, fmt.Errorf("sum labour: %w", err)
	}
	summary.TotalHours = round2(hours)
	summary.LaborCost = round2(cost)
	return summary, nil
}

func (s *DashboardService) RoleDistribution(ctx context.Context) (RoleDistribution, error) {
	var roles []string
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("type = ?", models.UserTypeEmployee).
		Pluck("employee_role", &roles).Error; err != nil {
		return RoleDistribution{}, fmt.Errorf("load roles: %w", err)
	}

	counts := make(map[string]int64)
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			role = unassignedRole
		}
		counts[role]++
	}

	distribution := RoleDistribution{Total: int64(len(roles)), Roles: make([]RoleShare, 0, len(counts))}
	for role, count := range counts {
		distribution.Roles = append(distribution.Roles, RoleShare{
			Role:    role,
			Count:   count,
			Percent: int(math.Round(float64(count) * 100 / float64(distribution.Total))),
		})
	}
	sort.Slice(distribution.Roles, func(i, j int) bool {
		if distribution.Roles[i].Count != distribution.Roles[j].Count {
			return distribution.Roles[i].Count > distribution.Roles[j].Count
		}
		return distribution.Roles[i].Role < distribution.Roles[j].Role
	})
	return distribution, nil
}

// AttendanceReport counts PRESENT and ABSENT rows for every day from start to end inclusive.
func (s *DashboardService) AttendanceReport(ctx context.Context, start, end time.Time) (AttendanceReport, error) {
	if start.IsZero() || end.IsZero() {
		return AttendanceReport{}, apperror.New(apperror.CodeValidation, invalidReportRange)
	}
	first, last := dayOf(start), dayOf(end)
	if last.Before(first) || inclusiveDays(first, last) > maxReportDays {
		return AttendanceReport{}, apperror.New(apperror.CodeValidation, invalidReportRange)
	}

	var rows []models.Attendance
	if err := s.db.WithContext(ctx).
		Select("date", "attendance_status").
		Where("date >= ? AND date < ?", first, last.AddDate(0, 0, 1)).
		Find(&rows).Error; err != nil {
		return AttendanceReport{}, fmt.Errorf("load attendance: %w", err)
	}

	present := make(map[string]int64)
	absent := make(map[string]int64)
	for _, row := range rows {
		key := row.Date.UTC().Format(dateLayout)
		switch row.AttendanceStatus {
		case models.AttendancePresent:
			present[key]++
		case models.AttendanceAbsent:
			absent[key]++
		}
	}

	count := inclusiveDays(first, last)
	report := AttendanceReport{
		Dates:   make([]string, 0, count),
		Present: make([]int64, 0, count),
		Absent:  make([]int64, 0, count),
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		report.Dates = append(report.Dates, key)
		report.Present = append(report.Present, present[key])
		report.Absent = append(report.Absent, absent[key])
	}
	return report, nil
}
