package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

type NotificationService struct {
	db    *gorm.DB
	loans *LoanService
}

func NewNotificationService(db *gorm.DB, loans *LoanService) *NotificationService {
	return &NotificationService{db: db, loans: loans}
}

// visibleTo limits a query to the rows an actor receives. Admins also see
// rows addressed to every admin.
func visibleTo(query *gorm.DB, actor Actor) *gorm.DB {
	if actor.Admin {
		return query.Where("(receiver_id = ? OR receiver_id IS NULL)", actor.UserID)
	}
	return query.Where("receiver_id = ?", actor.UserID)
}

func (s *NotificationService) List(ctx context.Context, actor Actor) ([]NotificationDTO, error) {
	db := s.db.WithContext(ctx)

	var notifications []models.Notification
	if err := visibleTo(db.Model(&models.Notification{}), actor).
		Preload("Sender").
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	loanIDs := make([]string, 0)
	for _, notification := range notifications {
		if notification.Type == models.NotificationTypeLoan && notification.EntityID != nil {
			loanIDs = append(loanIDs, *notification.EntityID)
		}
	}
	amounts := make(map[string]float64, len(loanIDs))
	if len(loanIDs) > 0 {
		var loans []models.EmployeeLoan
		if err := db.Unscoped().Select("id", "loan_amount").Where("id IN ?", loanIDs).Find(&loans).Error; err != nil {
			return nil, fmt.Errorf("load notification loans: %w", err)
		}
		for _, loan := range loans {
			amounts[loan.ID] = loan.LoanAmount
		}
	}

	result := make([]NotificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		var amount *float64
		if notification.EntityID != nil {
			if value, ok := amounts[*notification.EntityID]; ok {
				amount = &value
			}
		}
		result = append(result, toNotificationDTO(notification, amount))
	}
	return result, nil
}

func (s *NotificationService) UpdateLoanStatus(ctx context.Context, actor Actor, loanID string, status models.LoanStatus, notes *string) (LoanDTO, error) {
	if !status.Valid() {
		return LoanDTO{}, apperror.New(apperror.CodeValidation, "status must be PENDING, APPROVED or REJECTED")
	}
	return s.loans.Update(ctx, actor, loanID, UpdateLoanInput{Status: &status, Notes: notes})
}

func (s *NotificationService) Delete(ctx context.Context, actor Actor, id string) error {
	query := visibleTo(s.db.WithContext(ctx).Where("id = ?", id), actor)
	result := query.Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.New(apperror.CodeNotFound, "Notification not found")
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, actor Actor) error {
	if err := visibleTo(s.db.WithContext(ctx), actor).Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

func toNotificationDTO(notification models.Notification, amount *float64) NotificationDTO {
	dto := NotificationDTO{
		ID:         notification.ID,
		ReceiverID: notification.ReceiverID,
		SenderID:   notification.SenderID,
		SenderName: "Unknown",
		Text:       notification.Text,
		Amount:     amount,
		Type:       notification.Type,
		EntityID:   notification.EntityID,
		CreatedAt:  notification.CreatedAt,
	}
	if sender := notification.Sender; sender != nil && sender.ID != "" {
		if name := displayName(*sender); name != "" {
			dto.SenderName = name
		}
		if sender.Avatar != "" {
			avatar := sender.Avatar
			dto.SenderImage = &avatar
		}
	}
	return dto
}
