package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (ProjectDTO, error) {
	name, err := normalizeRequiredString(input.Name, "name")
	if err != nil {
		return ProjectDTO{}, err
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return ProjectDTO{}, apperror.New(apperror.CodeValidation, "priority must be LOW, MEDIUM or HIGH")
	}
	if err := validateSchedule(input.StartDate, input.EndDate); err != nil {
		return ProjectDTO{}, err
	}
	if input.Budget < 0 || input.Cost < 0 {
		return ProjectDTO{}, apperror.New(apperror.CodeValidation, "budget and cost must not be negative")
	}

	status := models.ProjectStatusActive
	if input.Status != nil {
		status = *input.Status
	}

	project := models.Project{
		Name:      name,
		Address:   strings.TrimSpace(input.Address),
		StartDate: utcPtr(input.StartDate),
		EndDate:   utcPtr(input.EndDate),
		Budget:    input.Budget,
		Cost:      input.Cost,
		Priority:  priority,
		Status:    status,
		UserID:    emptyToNil(input.UserID),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return mapDatabaseError(err)
		}
		return replaceAssignees(tx, project.ID, input.Assignees)
	})
	if err != nil {
		return ProjectDTO{}, err
	}

	return s.Get(ctx, project.ID)
}

func (s *ProjectService) List(ctx context.Context, filter ProjectFilter) ([]ProjectDTO, Meta, error) {
	page := filter.Pagination.normalize()
	query := s.db.WithContext(ctx).Model(&models.Project{})

	query = containsInsensitive(query, filter.Search, "name", "address")
	if filter.Priority != "" {
		if !filter.Priority.Valid() {
			return nil, Meta{}, apperror.New(apperror.CodeValidation, "priority must be LOW, MEDIUM or HIGH")
		}
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("count projects: %w", err)
	}

	var projects []models.Project
	if err := paginate(query, page).
		Preload("Assignees", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Assignees.User").
		Order("name ASC").
		Find(&projects).Error; err != nil {
		return nil, Meta{}, fmt.Errorf("list projects: %w", err)
	}

	result := make([]ProjectDTO, 0, len(projects))
	for _, project := range projects {
		result = append(result, toProjectDTO(project))
	}
	return result, NewMeta(total, page), nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (ProjectDTO, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).
		Preload("Assignees", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Assignees.User").
		First(&project, "id = ?", id).Error; err != nil {
		return ProjectDTO{}, notFoundOr(err, "Project", "get project")
	}
	return toProjectDTO(project), nil
}

func (s *ProjectService) Update(ctx context.Context, id string, input UpdateProjectInput) (ProjectDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "Project", "load project")
		}

		if input.Name != nil {
			name, err := normalizeRequiredString(*input.Name, "name")
			if err != nil {
				return err
			}
			project.Name = name
		}
		if input.Address != nil {
			project.Address = strings.TrimSpace(*input.Address)
		}
		if input.StartDate != nil {
			project.StartDate = utcPtr(input.StartDate)
		}
		if input.EndDate != nil {
			project.EndDate = utcPtr(input.EndDate)
		}
		if err := validateSchedule(project.StartDate, project.EndDate); err != nil {
			return err
		}
		if input.Budget != nil {
			project.Budget = *input.Budget
		}
		if input.Cost != nil {
			project.Cost = *input.Cost
		}
		if project.Budget < 0 || project.Cost < 0 {
			return apperror.New(apperror.CodeValidation, "budget and cost must not be negative")
		}
		if input.Priority != nil {
			if !input.Priority.Valid() {
				return apperror.New(apperror.CodeValidation, "priority must be LOW, MEDIUM or HIGH")
			}
			project.Priority = *input.Priority
		}
		if input.Status != nil {
			project.Status = *input.Status
		}
		if input.UserID != nil {
			project.UserID = emptyToNil(input.UserID)
		}

		if err := tx.Omit(clause.Associations).Save(&project).Error; err != nil {
			return mapDatabaseError(err)
		}
		if input.Assignees == nil {
			return nil
		}
		return replaceAssignees(tx, project.ID, *input.Assignees)
	})
	if err != nil {
		return ProjectDTO{}, err
	}

	return s.Get(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Project")
	}
	return nil
}

// replaceAssignees makes userIDs the exact assignee set of the project. Kept
// pairs retain their totals; new pairs start from the user's attendance.
func replaceAssignees(tx *gorm.DB, projectID string, userIDs []string) error {
	wanted := make([]string, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, raw := range userIDs {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		wanted = append(wanted, id)
	}

	if len(wanted) > 0 {
		var found int64
		if err := tx.Model(&models.User{}).Where("id IN ?", wanted).Count(&found).Error; err != nil {
			return fmt.Errorf("check assignees: %w", err)
		}
		if found != int64(len(wanted)) {
			return apperror.New(apperror.CodeValidation, "one or more assignees do not exist")
		}
	}

	removal := tx.Where("project_id = ?", projectID)
	if len(wanted) > 0 {
		removal = removal.Where("user_id NOT IN ?", wanted)
	}
	if err := removal.Delete(&models.ProjectAssignee{}).Error; err != nil {
		return fmt.Errorf("remove assignees: %w", err)
	}

	var existing []string
	if err := tx.Model(&models.ProjectAssignee{}).Where("project_id = ?", projectID).Pluck("user_id", &existing).Error; err != nil {
		return fmt.Errorf("list assignees: %w", err)
	}
	kept := make(map[string]bool, len(existing))
	for _, id := range existing {
		kept[id] = true
	}

	for _, userID := range wanted {
		if kept[userID] {
			continue
		}
		assignee := models.ProjectAssignee{ProjectID: projectID, UserID: userID}
		if err := tx.Omit(clause.Associations).Create(&assignee).Error; err != nil {
			return mapDatabaseError(err)
		}
		if err := recomputeAssignee(tx, &assignee.ProjectID, userID); err != nil {
			return err
		}
	}
	return nil
}

func validateSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperror.New(apperror.CodeValidation, "end_date must not be before start_date")
	}
	return nil
}

func toProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		Address:   project.Address,
		StartDate: project.StartDate,
		EndDate:   project.EndDate,
		Budget:    project.Budget,
		Cost:      project.Cost,
		Priority:  project.Priority,
		Status:    project.Status,
		UserID:    project.UserID,
		Assignees: make([]AssigneeDTO, 0, len(project.Assignees)),
		CreatedAt: project.CreatedAt,
	}
	for _, assignee := range project.Assignees {
		dto.TotalHours += assignee.TotalHours
		dto.TotalCost += assignee.TotalCost
		dto.Assignees = append(dto.Assignees, AssigneeDTO{
			ID:         assignee.ID,
			UserID:     assignee.UserID,
			TotalHours: assignee.TotalHours,
			TotalCost:  assignee.TotalCost,
			User: AssigneeUser{
				UserSummary:   toUserSummary(assignee.User),
				HourlyRate:    assignee.User.HourlyRate,
				RecordedHours: assignee.User.RecordedHours,
				Earning:       assignee.User.Earning,
			},
		})
	}
	dto.TotalHours = round2(dto.TotalHours)
	dto.TotalCost = round2(dto.TotalCost)
	return dto
}
