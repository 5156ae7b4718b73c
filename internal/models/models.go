package models

// All lists every table managed by AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&ProjectAssignee{},
		&Attendance{},
		&AcademicCalendar{},
		&EmployeeHoliday{},
		&EmployeeLoan{},
		&Notification{},
	}
}
