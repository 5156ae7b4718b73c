package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Attendance is one day of work (or absence) for a user. Date is the UTC
// midnight of the calendar day.
type Attendance struct {
	Model
	UserID           string    `gorm:"type:varchar(36);not null;index"`
	User             User      `gorm:"foreignKey:UserID"`
	ProjectID        *string   `gorm:"type:varchar(36);index"`
	Project          *Project  `gorm:"foreignKey:ProjectID"`
	Date             time.Time `gorm:"not null;index"`
	StartTime        *time.Time
	LunchStart       *time.Time
	LunchEnd         *time.Time
	EndTime          *time.Time
	Hours            float64          `gorm:"not null;default:0"`
	AttendanceStatus AttendanceStatus `gorm:"type:varchar(20);not null;default:'PRESENT'"`
	Notes            string           `gorm:"type:text"`
	Address          string           `gorm:"type:text"`
}
