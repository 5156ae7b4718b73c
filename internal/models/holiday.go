package models

import "time"

type HolidayStatus string

const (
	HolidayPending  HolidayStatus = "PENDING"
	HolidayApproved HolidayStatus = "APPROVED"
	HolidayRejected HolidayStatus = "REJECTED"
)

func (s HolidayStatus) Valid() bool {
	return s == HolidayPending || s == HolidayApproved || s == HolidayRejected
}

type EmployeeHoliday struct {
	Model
	UserID    string        `gorm:"type:varchar(36);not null;index"`
	User      User          `gorm:"foreignKey:UserID"`
	StartDate time.Time     `gorm:"not null;index"`
	EndDate   time.Time     `gorm:"not null"`
	Reason    string        `gorm:"type:text"`
	Status    HolidayStatus `gorm:"type:varchar(20);not null;default:'APPROVED'"`
}
