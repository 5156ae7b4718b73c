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

type HolidayService struct {
	db *gorm.DB
}

func NewHolidayService(db *gorm.DB) *HolidayService {
	return &HolidayService{db: db}
}

func (s *HolidayService) Create(ctx context.Context, input CreateHolidayInput) (HolidayDTO, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return HolidayDTO{}, apperror.New(apperror.CodeValidation, "user_id is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return HolidayDTO{}, apperror.New(apperror.CodeValidation, "start_date and end_date are required")
	}
	status := input.Status
	if status == "" {
		status = models.HolidayApproved
	}
	if !status.Valid() {
		return HolidayDTO{}, apperror.New(apperror.CodeValidation, "status must be PENDING, APPROVED or REJECTED")
	}

	holiday := models.EmployeeHoliday{
		UserID:    strings.TrimSpace(input.UserID),
		StartDate: dayOf(input.StartDate),
		EndDate:   dayOf(input.EndDate),
		Reason:    strings.TrimSpace(input.Reason),
		Status:    status,
	}
	if holiday.EndDate.Before(holiday.StartDate) {
		return HolidayDTO{}, apperror.New(apperror.CodeValidation, "end_date must not be before start_date")
	}

	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.User{}, "id = ?", holiday.UserID).Error; err != nil {
		return HolidayDTO{}, notFoundOr(err, "User", "load user")
	}
	if err := db.Omit(clause.Associations).Create(&holiday).Error; err != nil {
		return HolidayDTO{}, mapDatabaseError(err)
	}
	return s.Get(ctx, holiday.ID)
}

func (s *HolidayService) List(ctx context.Context, filter HolidayFilter) ([]HolidayDTO, Meta, error) {
	page := filter.Pagination.normalize()
	query := s.db.WithContext(ctx).Model(&models.EmployeeHoliday{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.StartDate != nil {
		query = query.Where("start_date >= ?", dayOf(*filter.StartDate))
	}
	if filter.EndDate != nil {
		// end_date is stored as midnight; include the whole named day.
		query = query.Where("end_date < ?", dayOf(*filter.EndDate).AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("count holidays: %w", err)
	}

	var holidays []models.EmployeeHoliday
	if err := paginate(query, page).Preload("User").Order("start_date DESC").Find(&holidays).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("list holidays: %w", err)
	}

	result := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		result = append(result, toHolidayDTO(holiday))
	}
	return result, NewMeta(total, page), nil
}

func (s *HolidayService) Get(ctx context.Context, id string) (HolidayDTO, error) {
	var holiday models.EmployeeHoliday
	if err := s.db.WithContext(ctx).Preload("User").First(&holiday, "id = ?", id).Error; err != nil {
		return HolidayDTO{}, notFoundOr(err, "Holiday", "get holiday")
	}
	return toHolidayDTO(holiday), nil
}

func (s *HolidayService) Update(ctx context.Context, id string, input UpdateHolidayInput) (HolidayDTO, error) {
	db := s.db.WithContext(ctx)

	var holiday models.EmployeeHoliday
	if err := db.First(&holiday, "id = ?", id).Error; err != nil {
		return HolidayDTO{}, notFoundOr(err, "Holiday", "load holiday")
	}

	if input.UserID != nil {
		userID := strings.TrimSpace(*input.UserID)
		if err := db.Select("id").First(&models.User{}, "id = ?", userID).Error; err != nil {
			return HolidayDTO{}, notFoundOr(err, "User", "load user")
		}
		holiday.UserID = userID
	}
	if input.StartDate != nil {
		holiday.StartDate = dayOf(*input.StartDate)
	}
	if input.EndDate != nil {
		holiday.EndDate = dayOf(*input.EndDate)
	}
	if holiday.EndDate.Before(holiday.StartDate) {
		return HolidayDTO{}, apperror.New(apperror.CodeValidation, "end_date must not be before start_date")
	}
	if input.Reason != nil {
		holiday.Reason = strings.TrimSpace(*input.Reason)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return HolidayDTO{}, apperror.New(apperror.CodeValidation, "status must be PENDING, APPROVED or REJECTED")
		}
		holiday.Status = *input.Status
	}

	if err := db.Omit(clause.Associations).Save(&holiday).Error; err != nil {
		return HolidayDTO{}, mapDatabaseError(err)
	}
	return s.Get(ctx, id)
}

func (s *HolidayService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.EmployeeHoliday{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete holiday: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Holiday")
	}
	return nil
}

func toHolidayDTO(holiday models.EmployeeHoliday) HolidayDTO {
	dto := HolidayDTO{
		ID:        holiday.ID,
		UserID:    holiday.UserID,
		StartDate: holiday.StartDate.UTC().Format(dateLayout),
		EndDate:   holiday.EndDate.UTC().Format(dateLayout),
		Reason:    holiday.Reason,
		Status:    holiday.Status,
		TotalDays: inclusiveDays(holiday.StartDate, holiday.EndDate),
	}
	if holiday.User.ID != "" {
		summary := toUserSummary(holiday.User)
		dto.User = &summary
	}
	return dto
}
