package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

// NotificationEvent is the push event carrying a freshly stored notification.
const NotificationEvent = "notification"

type LoanService struct {
	db      *gorm.DB
	emitter Emitter
}

func NewLoanService(db *gorm.DB, emitter Emitter) *LoanService {
	if emitter == nil {
		emitter = discardEmitter{}
	}
	return &LoanService{db: db, emitter: emitter}
}

func (s *LoanService) Create(ctx context.Context, actor Actor, input CreateLoanInput) (LoanDTO, error) {
	userID := actor.UserID
	if actor.Admin && strings.TrimSpace(input.UserID) != "" {
		userID = strings.TrimSpace(input.UserID)
	}
	if userID == "" {
		return LoanDTO{}, apperror.New(apperror.CodeValidation, "user_id is required")
	}
	if input.Amount <= 0 {
		return LoanDTO{}, apperror.New(apperror.CodeValidation, "loan_amount must be greater than zero")
	}

	loan := models.EmployeeLoan{
		UserID:      userID,
		LoanAmount:  round2(input.Amount),
		LoanPurpose: strings.TrimSpace(input.Purpose),
		Notes:       strings.TrimSpace(input.Notes),
		LoanStatus:  models.LoanPending,
	}

	var stored models.Notification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return notFoundOr(err, "User", "load user")
		}
		if err := tx.Omit(clause.Associations).Create(&loan).Error; err != nil {
			return mapDatabaseError(err)
		}

		var err error
		stored, err = storeNotification(tx, models.Notification{
			SenderID: &user.ID,
			EntityID: &loan.ID,
			Type:     models.NotificationTypeLoan,
			Text:     fmt.Sprintf("%s requested a loan of %.2f", displayName(user), loan.LoanAmount),
			Payload: map[string]any{
				"loan_amount": loan.LoanAmount,
				"loan_status": string(loan.LoanStatus),
			},
		})
		return err
	})
	if err != nil {
		return LoanDTO{}, err
	}

	s.emit(stored, &loan.LoanAmount)
	return s.get(ctx, loan.ID)
}

func (s *LoanService) Update(ctx context.Context, actor Actor, id string, input UpdateLoanInput) (LoanDTO, error) {
	if !actor.Admin {
		return LoanDTO{}, apperror.New(apperror.CodeForbidden, "only admins can change loans")
	}

	var (
		loan    models.EmployeeLoan
		stored  models.Notification
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "Loan", "load loan")
		}

		if input.Amount != nil {
			if *input.Amount <= 0 {
				return apperror.New(apperror.CodeValidation, "loan_amount must be greater than zero")
			}
			loan.LoanAmount = round2(*input.Amount)
		}
		if input.Purpose != nil {
			loan.LoanPurpose = strings.TrimSpace(*input.Purpose)
		}
		if input.Notes != nil {
			loan.Notes = strings.TrimSpace(*input.Notes)
		}
		if input.Status != nil {
			if !input.Status.Valid() {
				return apperror.New(apperror.CodeValidation, "loan_status must be PENDING, APPROVED or REJECTED")
			}
			changed = *input.Status != loan.LoanStatus
			loan.LoanStatus = *input.Status
		}

		if err := tx.Omit(clause.Associations).Save(&loan).Error; err != nil {
			return mapDatabaseError(err)
		}
		if !changed {
			return nil
		}

		var err error
		stored, err = storeNotification(tx, models.Notification{
			SenderID:   senderOf(actor),
			ReceiverID: &loan.UserID,
			EntityID:   &loan.ID,
			Type:       models.NotificationTypeLoan,
			Text:       fmt.Sprintf("Your loan request of %.2f was %s", loan.LoanAmount, strings.ToLower(string(loan.LoanStatus))),
			Payload: map[string]any{
				"loan_amount": loan.LoanAmount,
				"loan_status": string(loan.LoanStatus),
			},
		})
		return err
	})
	if err != nil {
		return LoanDTO{}, err
	}

	if changed {
		s.emit(stored, &loan.LoanAmount)
	}
	return s.get(ctx, loan.ID)
}

func (s *LoanService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.EmployeeLoan{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete loan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Loan")
	}
	return nil
}

func (s *LoanService) List(ctx context.Context) ([]LoanDTO, error) {
	return s.list(s.db.WithContext(ctx))
}

func (s *LoanService) ListForUser(ctx context.Context, actor Actor, userID string) ([]LoanDTO, error) {
	if !actor.Admin && actor.UserID != userID {
		return nil, apperror.New(apperror.CodeForbidden, "you can only view your own loans")
	}
	return s.list(s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *LoanService) list(query *gorm.DB) ([]LoanDTO, error) {
	var loans []models.EmployeeLoan
	if err := query.Preload("User").Order("created_at DESC").Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	result := make([]LoanDTO, 0, len(loans))
	for _, loan := range loans {
		result = append(result, toLoanDTO(loan))
	}
	return result, nil
}

func (s *LoanService) get(ctx context.Context, id string) (LoanDTO, error) {
	var loan models.EmployeeLoan
	if err := s.db.WithContext(ctx).Preload("User").First(&loan, "id = ?", id).Error; err != nil {
		return LoanDTO{}, notFoundOr(err, "Loan", "get loan")
	}
	return toLoanDTO(loan), nil
}

func (s *LoanService) emit(notification models.Notification, amount *float64) {
	dto := toNotificationDTO(notification, amount)
	s.emitter.Emit(notification.ReceiverID, NotificationEvent, dto)
}

func storeNotification(tx *gorm.DB, notification models.Notification) (models.Notification, error) {
	if err := tx.Omit(clause.Associations).Create(&notification).Error; err != nil {
		return models.Notification{}, mapDatabaseError(err)
	}
	if err := tx.Preload("Sender").First(&notification, "id = ?", notification.ID).Error; err != nil {
		return models.Notification{}, fmt.Errorf("reload notification: %w", err)
	}
	return notification, nil
}

func senderOf(actor Actor) *string {
	if actor.UserID == "" {
		return nil
	}
	id := actor.UserID
	return &id
}

type discardEmitter struct{}

func (discardEmitter) Emit(receiverID *string, event string, payload any) {}

func toLoanDTO(loan models.EmployeeLoan) LoanDTO {
	dto := LoanDTO{
		ID:          loan.ID,
		UserID:      loan.UserID,
		LoanAmount:  loan.LoanAmount,
		LoanPurpose: loan.LoanPurpose,
		LoanStatus:  loan.LoanStatus,
		Notes:       loan.Notes,
		CreatedAt:   loan.CreatedAt,
	}
	if loan.User.ID != "" {
		summary := toUserSummary(loan.User)
		dto.User = &summary
	}
	return dto
}
