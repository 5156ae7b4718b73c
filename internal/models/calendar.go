package models

import "time"

type CalendarEventType string

const (
	EventHoliday  CalendarEventType = "HOLIDAY"
	EventOffDay   CalendarEventType = "OFF_DAY"
	EventExam     CalendarEventType = "EXAM"
	EventSeminar  CalendarEventType = "SEMINAR"
	EventMeeting  CalendarEventType = "MEETING"
	EventDeadline CalendarEventType = "DEADLINE"
	EventTraining CalendarEventType = "TRAINING"
	EventGeneric  CalendarEventType = "EVENT"
)

func (t CalendarEventType) Valid() bool {
	switch t {
	case EventHoliday, EventOffDay, EventExam, EventSeminar, EventMeeting, EventDeadline, EventTraining, EventGeneric:
		return true
	}
	return false
}

// SkipsAttendance reports whether days covered by the event are not working days.
func (t CalendarEventType) SkipsAttendance() bool {
	return t == EventHoliday || t == EventOffDay
}

type AcademicCalendar struct {
	Model
	Status        int               `gorm:"not null"`
	Title         string            `gorm:"type:varchar(255)"`
	Description   string            `gorm:"type:text"`
	EventType     CalendarEventType `gorm:"type:varchar(20);not null;default:'EVENT';index"`
	StartDate     time.Time         `gorm:"not null;index"`
	EndDate       time.Time         `gorm:"not null;index"`
	AllDay        bool              `gorm:"not null;default:false"`
	Location      string            `gorm:"type:varchar(255)"`
	Organizer     string            `gorm:"type:varchar(255)"`
	Color         string            `gorm:"type:varchar(20)"`
	GoogleEventID *string           `gorm:"type:varchar(255)"`
	Synced        bool              `gorm:"not null;default:false"`
}
