package services

import (
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressSnapshot is the result of a milestone completion
type ProgressSnapshot struct {
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

// MilestoneStatus is a milestone with the caller's completion flag
type MilestoneStatus struct {
	courseModels.Milestone
	IsCompleted bool                            `json:"is_completed"`
	Contents    []courseModels.MilestoneContent `json:"contents,omitempty"`
}

// CourseProgress is the read model for a user's progress within a course
type CourseProgress struct {
	Course     courseModels.Course     `json:"course"`
	Enrollment courseModels.Enrollment `json:"enrollment"`
	Milestones []MilestoneStatus       `json:"milestones"`
}

// ProgressService records milestone completions idempotently and keeps the
// enrollment's aggregate progress percentage in sync with the completion
// counts.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// CompleteMilestone marks a milestone as completed for an enrolled user and
// recomputes the course progress. Completing the same milestone twice is a
// silent no-op, not an error.
func (s *ProgressService) CompleteMilestone(userID, courseID, milestoneID uint) (*ProgressSnapshot, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return nil, ErrNotEnrolled
	}

	// The milestone must belong to the course being progressed, otherwise a
	// completion could count toward the wrong course.
	var milestone courseModels.Milestone
	if err := s.db.Where("id = ? AND course_id = ? AND is_deleted = ?", milestoneID, courseID, false).First(&milestone).Error; err != nil {
		return nil, ErrInvalidMilestone
	}

	progress := courseModels.MilestoneProgress{
		UserID:      userID,
		CourseID:    courseID,
		MilestoneID: milestoneID,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "milestone_id"}},
		DoNothing: true,
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}

	return s.recomputeProgress(userID, courseID, &enrollment)
}

// GetCourseProgress returns the course with per-milestone completion flags
// and the enrollment's aggregate progress.
func (s *ProgressService) GetCourseProgress(userID, courseID uint) (*CourseProgress, error) {
	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return nil, ErrCourseNotFound
	}

	var enrollment courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return nil, ErrNotEnrolled
	}

	var milestones []courseModels.Milestone
	s.db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&milestones)

	var completed []courseModels.MilestoneProgress
	s.db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&completed)

	completedIDs := make(map[uint]bool, len(completed))
	for _, p := range completed {
		completedIDs[p.MilestoneID] = true
	}

	statuses := make([]MilestoneStatus, len(milestones))
	for i, m := range milestones {
		var contents []courseModels.MilestoneContent
		s.db.Where("milestone_id = ? AND is_deleted = ?", m.ID, false).Order("order_index asc").Find(&contents)
		statuses[i] = MilestoneStatus{
			Milestone:   m,
			IsCompleted: completedIDs[m.ID],
			Contents:    contents,
		}
	}

	return &CourseProgress{
		Course:     course,
		Enrollment: enrollment,
		Milestones: statuses,
	}, nil
}

// recomputeProgress derives the progress percentage from live completion
// counts. The denominator is fetched fresh, so milestones added or removed
// after enrollment change the percentage on the next completion. A course
// with no milestones has progress 0.
func (s *ProgressService) recomputeProgress(userID, courseID uint, enrollment *courseModels.Enrollment) (*ProgressSnapshot, error) {
	var totalMilestones int64
	var completedCount int64

	s.db.Model(&courseModels.Milestone{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&totalMilestones)

	// Count only completions whose milestone still exists, so removed
	// milestones never push progress past 100.
	s.db.Model(&courseModels.MilestoneProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Where("milestone_id IN (?)", s.db.Model(&courseModels.Milestone{}).
			Select("id").
			Where("course_id = ? AND is_deleted = ?", courseID, false)).
		Count(&completedCount)

	progress := float64(0)
	if totalMilestones > 0 {
		progress = float64(completedCount) / float64(totalMilestones) * 100
	}

	updates := map[string]interface{}{"progress": progress}
	if progress >= 100 && enrollment.CompletedAt == nil {
		now := time.Now()
		updates["completed_at"] = &now
	}

	if err := s.db.Model(enrollment).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &ProgressSnapshot{
		Progress:  progress,
		Completed: progress >= 100,
	}, nil
}
