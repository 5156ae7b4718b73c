package models

type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypeEmployee UserType = "employee"
)

type User struct {
	Model
	Name           string   `gorm:"type:varchar(255)"`
	FirstName      string   `gorm:"type:varchar(100)"`
	LastName       string   `gorm:"type:varchar(100)"`
	Username       string   `gorm:"type:varchar(100);uniqueIndex"`
	Email          string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	Password       string   `gorm:"type:varchar(255)"`
	Type           UserType `gorm:"type:varchar(20);not null;default:'employee';index"`
	PhoneNumber    string   `gorm:"type:varchar(50)"`
	PhysicalNumber string   `gorm:"type:varchar(50)"`
	EmployeeRole   string   `gorm:"type:varchar(100);index"`
	HourlyRate     float64  `gorm:"not null;default:0"`
	Address        string   `gorm:"type:text"`
	Avatar         string   `gorm:"type:varchar(255)"`
	RecordedHours  float64  `gorm:"not null;default:0"`
	Earning        float64  `gorm:"not null;default:0"`

	Attendances []Attendance      `gorm:"foreignKey:UserID"`
	Assignments []ProjectAssignee `gorm:"foreignKey:UserID"`
}
