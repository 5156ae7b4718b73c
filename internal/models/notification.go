package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationTypeLoan    = "loan"
	NotificationTypeMessage = "message"
)

// Notification is addressed to ReceiverID, or to every admin when ReceiverID is nil.
type Notification struct {
	Model
	SenderID   *string `gorm:"type:varchar(36);index"`
	Sender     *User   `gorm:"foreignKey:SenderID"`
	ReceiverID *string `gorm:"type:varchar(36);index"`
	EntityID   *string `gorm:"type:varchar(36)"`
	Type       string  `gorm:"type:varchar(50);not null;default:'message'"`
	Text       string  `gorm:"type:text"`
	Payload    datatypes.JSONMap
	ReadAt     *time.Time
}
