package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

func sumAttendanceHours(tx *gorm.DB, userID string, projectID *string) (float64, error) {
	query := tx.Model(&models.Attendance{}).Where("user_id = ?", userID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var hours float64
	if err := query.Select("COALESCE(SUM(hours), 0)").Row().Scan(&hours); err != nil {
		return 0, fmt.Errorf("sum attendance hours: %w", err)
	}
	return hours, nil
}

func hourlyRate(tx *gorm.DB, userID string) (float64, error) {
	var user models.User
	if err := tx.Select("id", "hourly_rate").First(&user, "id = ?", userID).Error; err != nil {
		return 0, notFoundOr(err, "User", "load hourly rate")
	}
	return user.HourlyRate, nil
}

// recomputeUserTotals rewrites recorded_hours and earning from the user's attendance.
func recomputeUserTotals(tx *gorm.DB, userID string) (models.User, error) {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, notFoundOr(err, "User", "load user")
	}

	hours, err := sumAttendanceHours(tx, userID, nil)
	if err != nil {
		return models.User{}, err
	}

	user.RecordedHours = round2(hours)
	user.Earning = round2(hours * user.HourlyRate)
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"recorded_hours": user.RecordedHours,
		"earning":        user.Earning,
	}).Error; err != nil {
		return models.User{}, fmt.Errorf("update user totals: %w", err)
	}
	return user, nil
}

// recomputeAssignee rewrites the totals of one (project, user) pair. A pair
// that does not exist yet is created once the user has hours on the project.
func recomputeAssignee(tx *gorm.DB, projectID *string, userID string) error {
	if projectID == nil || *projectID == "" {
		return nil
	}

	rate, err := hourlyRate(tx, userID)
	if err != nil {
		return err
	}
	hours, err := sumAttendanceHours(tx, userID, projectID)
	if err != nil {
		return err
	}

	totals := map[string]any{
		"total_hours": round2(hours),
		"total_cost":  round2(hours * rate),
	}
	result := tx.Model(&models.ProjectAssignee{}).
		Where("project_id = ? AND user_id = ?", *projectID, userID).
		Updates(totals)
	if result.Error != nil {
		return fmt.Errorf("update assignee totals: %w", result.Error)
	}
	if result.RowsAffected > 0 || hours == 0 {
		return nil
	}

	assignee := models.ProjectAssignee{
		ProjectID:  *projectID,
		UserID:     userID,
		TotalHours: round2(hours),
		TotalCost:  round2(hours * rate),
	}
	if err := tx.Omit("Project", "User").Create(&assignee).Error; err != nil {
		return mapDatabaseError(err)
	}
	return nil
}

// recomputeUserAssignees refreshes every pair of a user, used after an hourly rate change.
func recomputeUserAssignees(tx *gorm.DB, userID string) error {
	var projectIDs []string
	if err := tx.Model(&models.ProjectAssignee{}).Where("user_id = ?", userID).Pluck("project_id", &projectIDs).Error; err != nil {
		return fmt.Errorf("list user assignments: %w", err)
	}
	for i := range projectIDs {
		if err := recomputeAssignee(tx, &projectIDs[i], userID); err != nil {
			return err
		}
	}
	return nil
}

// recomputeAfterAttendance refreshes user and assignee totals touched by an
// attendance write. The pairs before and after the write may differ.
func recomputeAfterAttendance(tx *gorm.DB, pairs ...models.Attendance) error {
	seenUsers := make(map[string]bool, len(pairs))
	for _, row := range pairs {
		if !seenUsers[row.UserID] {
			if _, err := recomputeUserTotals(tx, row.UserID); err != nil {
				return err
			}
			seenUsers[row.UserID] = true
		}
		if err := recomputeAssignee(tx, row.ProjectID, row.UserID); err != nil {
			return err
		}
	}
	return nil
}
