package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/auth"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/mailer"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/storage"
)

const minPasswordLength = 6

// FileStore persists uploads and exposes them under a public URL.
type FileStore interface {
	Put(dir, originalName string, content io.Reader) (string, error)
	Delete(dir, name string) error
	URL(dir, name string) string
}

type EmployeeService struct {
	db       *gorm.DB
	files    FileStore
	mail     mailer.Mailer
	loginURL string
	logger   *log.Logger
}

func NewEmployeeService(db *gorm.DB, files FileStore, mail mailer.Mailer, loginURL string, logger *log.Logger) *EmployeeService {
	if mail == nil {
		mail = mailer.Noop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &EmployeeService{db: db, files: files, mail: mail, loginURL: loginURL, logger: logger}
}

func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error) {
	firstName, err := normalizeRequiredString(input.FirstName, "first_name")
	if err != nil {
		return EmployeeDTO{}, err
	}
	lastName, err := normalizeRequiredString(input.LastName, "last_name")
	if err != nil {
		return EmployeeDTO{}, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return EmployeeDTO{}, err
	}
	phone, err := normalizeRequiredString(input.PhoneNumber, "phone_number")
	if err != nil {
		return EmployeeDTO{}, err
	}
	role, err := normalizeRequiredString(input.EmployeeRole, "employee_role")
	if err != nil {
		return EmployeeDTO{}, err
	}
	if input.HourlyRate < 0 {
		return EmployeeDTO{}, apperror.New(apperror.CodeValidation, "hourly_rate must not be negative")
	}

	plain := strings.TrimSpace(input.Password)
	physical := strings.TrimSpace(input.PhysicalNumber)
	switch {
	case plain != "" && len(plain) < minPasswordLength:
		return EmployeeDTO{}, apperror.Newf(apperror.CodeValidation, "password must be at least %d characters", minPasswordLength)
	case plain == "" && physical == "":
		return EmployeeDTO{}, apperror.New(apperror.CodeValidation, "password or physical_number is required")
	case plain == "":
		plain = physical
	}
	hashed, err := auth.HashPassword(plain)
	if err != nil {
		return EmployeeDTO{}, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureEmailFree(db, email, ""); err != nil {
		return EmployeeDTO{}, err
	}
	username, err := uniqueUsername(db, usernameFromEmail(email))
	if err != nil {
		return EmployeeDTO{}, err
	}

	user := models.User{
		Name:           firstName + " " + lastName,
		FirstName:      firstName,
		LastName:       lastName,
		Username:       username,
		Email:          email,
		Password:       hashed,
		Type:           models.UserTypeEmployee,
		PhoneNumber:    phone,
		PhysicalNumber: physical,
		EmployeeRole:   role,
		HourlyRate:     input.HourlyRate,
		Address:        strings.TrimSpace(input.Address),
	}

	var stored string
	if input.Avatar != nil {
		if stored, err = s.storeAvatar(*input.Avatar); err != nil {
			return EmployeeDTO{}, err
		}
		user.Avatar = s.files.URL(storage.AvatarDir, stored)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return mapDatabaseError(err)
		}

		var projectIDs []string
		if err := tx.Model(&models.Project{}).Where("status = ?", models.ProjectStatusActive).Pluck("id", &projectIDs).Error; err != nil {
			return fmt.Errorf("list active projects: %w", err)
		}
		if len(projectIDs) == 0 {
			return nil
		}
		assignments := make([]models.ProjectAssignee, 0, len(projectIDs))
		for _, projectID := range projectIDs {
			assignments = append(assignments, models.ProjectAssignee{ProjectID: projectID, UserID: user.ID})
		}
		if err := tx.Omit(clause.Associations).Create(&assignments).Error; err != nil {
			return mapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		if stored != "" {
			_ = s.files.Delete(storage.AvatarDir, stored)
		}
		return EmployeeDTO{}, err
	}

	credentials := mailer.Credentials{
		Email:    user.Email,
		Name:     user.Name,
		Username: user.Username,
		Password: plain,
		LoginURL: s.loginURL,
	}
	if err := s.mail.SendEmployeeCredentials(ctx, credentials); err != nil {
		s.logger.Printf("employee %s created but credentials mail failed: %v", user.ID, err)
	}

	return toEmployeeDTO(user), nil
}

func (s *EmployeeService) List(ctx context.Context, filter EmployeeFilter) ([]EmployeeDTO, Meta, error) {
	page := filter.Pagination.normalize()
	db := s.db.WithContext(ctx)

	query := db.Model(&models.User{}).Where("type = ?", models.UserTypeEmployee)
	if role := strings.TrimSpace(filter.EmployeeRole); role != "" {
		query = query.Where("employee_role = ?", role)
	}
	query = containsInsensitive(query, filter.Search, "first_name", "last_name", "name", "email", "phone_number")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("count employees: %w", err)
	}

	var users []models.User
	if err := paginate(query, page).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("list employees: %w", err)
	}

	result := make([]EmployeeDTO, 0, len(users))
	for _, user := range users {
		refreshed, err := recomputeUserTotals(db, user.ID)
		if err != nil {
			return nil, Meta{}, err
		}
		result = append(result, toEmployeeDTO(refreshed))
	}
	return result, NewMeta(total, page), nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (EmployeeDetailDTO, error) {
	db := s.db.WithContext(ctx)

	if err := db.Select("id").Where("type = ?", models.UserTypeEmployee).First(&models.User{}, "id = ?", id).Error; err != nil {
		return EmployeeDetailDTO{}, notFoundOr(err, "Employee", "get employee")
	}
	user, err := recomputeUserTotals(db, id)
	if err != nil {
		return EmployeeDetailDTO{}, err
	}

	attended := db.Model(&models.Attendance{}).Select("project_id").Where("user_id = ? AND project_id IS NOT NULL", id)
	liveProjects := db.Model(&models.Project{}).Select("id")

	var assignments []models.ProjectAssignee
	if err := db.Preload("Project").
		Where("user_id = ?", id).
		Where("project_id IN (?)", attended).
		Where("project_id IN (?)", liveProjects).
		Order("created_at DESC").
		Limit(10).
		Find(&assignments).Error; err != nil {
		return EmployeeDetailDTO{}, fmt.Errorf("load assignments: %w", err)
	}

	var attendance []models.Attendance
	if err := db.Preload("Project").
		Where("user_id = ?", id).
		Order("date DESC").
		Limit(30).
		Find(&attendance).Error; err != nil {
		return EmployeeDetailDTO{}, fmt.Errorf("load attendance: %w", err)
	}

	detail := EmployeeDetailDTO{
		EmployeeDTO:     toEmployeeDTO(user),
		ProjectAssignee: make([]AssignmentDTO, 0, len(assignments)),
		Attendance:      make([]AttendanceDTO, 0, len(attendance)),
	}
	for _, assignment := range assignments {
		detail.ProjectAssignee = append(detail.ProjectAssignee, AssignmentDTO{
			Project:    ProjectRef{ID: assignment.Project.ID, Name: assignment.Project.Name},
			TotalHours: assignment.TotalHours,
			TotalCost:  assignment.TotalCost,
		})
	}
	for _, row := range attendance {
		detail.Attendance = append(detail.Attendance, toAttendanceDTO(row))
	}
	return detail, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, input UpdateEmployeeInput) (EmployeeDTO, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("type = ?", models.UserTypeEmployee).First(&user, "id = ?", id).Error; err != nil {
		return EmployeeDTO{}, notFoundOr(err, "Employee", "load employee")
	}

	if input.FirstName != nil {
		value, err := normalizeRequiredString(*input.FirstName, "first_name")
		if err != nil {
			return EmployeeDTO{}, err
		}
		user.FirstName = value
	}
	if input.LastName != nil {
		value, err := normalizeRequiredString(*input.LastName, "last_name")
		if err != nil {
			return EmployeeDTO{}, err
		}
		user.LastName = value
	}
	user.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)

	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return EmployeeDTO{}, err
		}
		if email != user.Email {
			if err := ensureEmailFree(db, email, user.ID); err != nil {
				return EmployeeDTO{}, err
			}
			user.Email = email
		}
	}
	if input.Password != nil {
		plain := strings.TrimSpace(*input.Password)
		if len(plain) < minPasswordLength {
			return EmployeeDTO{}, apperror.Newf(apperror.CodeValidation, "password must be at least %d characters", minPasswordLength)
		}
		hashed, err := auth.HashPassword(plain)
		if err != nil {
			return EmployeeDTO{}, err
		}
		user.Password = hashed
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.PhysicalNumber != nil {
		user.PhysicalNumber = strings.TrimSpace(*input.PhysicalNumber)
	}
	if input.EmployeeRole != nil {
		value, err := normalizeRequiredString(*input.EmployeeRole, "employee_role")
		if err != nil {
			return EmployeeDTO{}, err
		}
		user.EmployeeRole = value
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	rateChanged := false
	if input.HourlyRate != nil {
		if *input.HourlyRate < 0 {
			return EmployeeDTO{}, apperror.New(apperror.CodeValidation, "hourly_rate must not be negative")
		}
		rateChanged = *input.HourlyRate != user.HourlyRate
		user.HourlyRate = *input.HourlyRate
	}

	previousAvatar := user.Avatar
	var stored string
	if input.Avatar != nil {
		var err error
		if stored, err = s.storeAvatar(*input.Avatar); err != nil {
			return EmployeeDTO{}, err
		}
		user.Avatar = s.files.URL(storage.AvatarDir, stored)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return mapDatabaseError(err)
		}
		if !rateChanged {
			return nil
		}
		if _, err := recomputeUserTotals(tx, user.ID); err != nil {
			return err
		}
		return recomputeUserAssignees(tx, user.ID)
	})
	if err != nil {
		if stored != "" {
			_ = s.files.Delete(storage.AvatarDir, stored)
		}
		return EmployeeDTO{}, err
	}

	if stored != "" && previousAvatar != "" {
		s.removeAvatar(previousAvatar)
	}

	return s.reload(ctx, user.ID)
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("type = ?", models.UserTypeEmployee).First(&user, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "Employee", "load employee")
	}
	if err := db.Delete(&user).Error; err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if user.Avatar != "" {
		s.removeAvatar(user.Avatar)
	}
	return nil
}

func (s *EmployeeService) reload(ctx context.Context, id string) (EmployeeDTO, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return EmployeeDTO{}, notFoundOr(err, "Employee", "reload employee")
	}
	return toEmployeeDTO(user), nil
}

func (s *EmployeeService) storeAvatar(upload Upload) (string, error) {
	if s.files == nil {
		return "", errors.New("file storage is not configured")
	}
	name, err := s.files.Put(storage.AvatarDir, upload.Name, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return name, nil
}

func (s *EmployeeService) removeAvatar(avatarURL string) {
	if s.files == nil {
		return
	}
	if err := s.files.Delete(storage.AvatarDir, path.Base(avatarURL)); err != nil {
		s.logger.Printf("remove avatar %s: %v", avatarURL, err)
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 || len(email) > 255 {
		return "", apperror.New(apperror.CodeValidation, "email must be a valid address")
	}
	return email, nil
}

// ensureEmailFree also looks at soft-deleted accounts, which still hold the unique index.
func ensureEmailFree(db *gorm.DB, email, exceptID string) error {
	query := db.Unscoped().Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return apperror.New(apperror.CodeConflict, "Email already exists")
	}
	return nil
}

var usernameStrip = regexp.MustCompile(`[^a-z0-9._-]`)

func usernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	username := usernameStrip.ReplaceAllString(strings.ToLower(local), "")
	if username == "" {
		username = "user"
	}
	return username
}

func uniqueUsername(db *gorm.DB, base string) (string, error) {
	candidate := base
	for suffix := 2; ; suffix++ {
		var count int64
		if err := db.Unscoped().Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(suffix)
	}
}

func toEmployeeDTO(user models.User) EmployeeDTO {
	return EmployeeDTO{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Name:           displayName(user),
		Username:       user.Username,
		Email:          user.Email,
		PhoneNumber:    user.PhoneNumber,
		PhysicalNumber: user.PhysicalNumber,
		Avatar:         user.Avatar,
		EmployeeRole:   user.EmployeeRole,
		HourlyRate:     user.HourlyRate,
		Address:        user.Address,
		RecordedHours:  user.RecordedHours,
		Earning:        user.Earning,
		CreatedAt:      user.CreatedAt,
	}
}
