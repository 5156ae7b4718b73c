package models

type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanApproved LoanStatus = "APPROVED"
	LoanRejected LoanStatus = "REJECTED"
)

func (s LoanStatus) Valid() bool {
	return s == LoanPending || s == LoanApproved || s == LoanRejected
}

type EmployeeLoan struct {
	Model
	UserID      string     `gorm:"type:varchar(36);not null;index"`
	User        User       `gorm:"foreignKey:UserID"`
	LoanAmount  float64    `gorm:"not null"`
	LoanPurpose string     `gorm:"type:text"`
	Notes       string     `gorm:"type:text"`
	LoanStatus  LoanStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
}
