package services

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEnrollment(t *testing.T, svc *EnrollmentService, userID, courseID uint) *courseModels.Enrollment {
	t.Helper()
	enrollment, err := svc.EnrollFree(userID, courseID)
	require.NoError(t, err)
	return enrollment
}

func TestCompleteMilestoneProgression(t *testing.T) {
	db := setupTestDB(t)
	enrollSvc := NewEnrollmentService(db, &fakeGateway{}, &fakeNotifier{})
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Intro to Go", 0, 3)
	milestones := courseMilestones(t, db, course.ID)
	seedEnrollment(t, enrollSvc, user.ID, course.ID)

	snap, err := svc.CompleteMilestone(user.ID, course.ID, milestones[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, snap.Progress, 0.01)
	assert.False(t, snap.Completed)

	snap, err = svc.CompleteMilestone(user.ID, course.ID, milestones[1].ID)
	require.NoError(t, err)
	assert.InDelta(t, 66.67, snap.Progress, 0.01)
	assert.False(t, snap.Completed)

	snap, err = svc.CompleteMilestone(user.ID, course.ID, milestones[2].ID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), snap.Progress)
	assert.True(t, snap.Completed)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, float64(100), enrollment.Progress)
	require.NotNil(t, enrollment.CompletedAt)
}

// Completing the same milestone twice neither errors nor inflates progress
func TestCompleteMilestoneIdempotent(t *testing.T) {
	db := setupTestDB(t)
	enrollSvc := NewEnrollmentService(db, &fakeGateway{}, &fakeNotifier{})
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Intro to Go", 0, 4)
	milestones := courseMilestones(t, db, course.ID)
	seedEnrollment(t, enrollSvc, user.ID, course.ID)

	snap, err := svc.CompleteMilestone(user.ID, course.ID, milestones[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 25, snap.Progress, 0.01)

	snap, err = svc.CompleteMilestone(user.ID, course.ID, milestones[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 25, snap.Progress, 0.01)

	var count int64
	db.Model(&courseModels.MilestoneProgress{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCompleteMilestoneNotEnrolled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Intro to Go", 0, 3)
	milestones := courseMilestones(t, db, course.ID)

	_, err := svc.CompleteMilestone(user.ID, course.ID, milestones[0].ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

// A milestone id from another course must not count toward this one
func TestCompleteMilestoneWrongCourse(t *testing.T) {
	db := setupTestDB(t)
	enrollSvc := NewEnrollmentService(db, &fakeGateway{}, &fakeNotifier{})
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	courseA := seedCourse(t, db, "Course A", 0, 2)
	courseB := seedCourse(t, db, "Course B", 0, 2)
	milestonesB := courseMilestones(t, db, courseB.ID)
	seedEnrollment(t, enrollSvc, user.ID, courseA.ID)

	_, err := svc.CompleteMilestone(user.ID, courseA.ID, milestonesB[0].ID)
	assert.ErrorIs(t, err, ErrInvalidMilestone)

	var count int64
	db.Model(&courseModels.MilestoneProgress{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

// CompletedAt is stamped once at 100% and survives later recomputations,
// even when new milestones drop the percentage back below 100.
func TestCompletedAtSetOnce(t *testing.T) {
	db := setupTestDB(t)
	enrollSvc := NewEnrollmentService(db, &fakeGateway{}, &fakeNotifier{})
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Intro to Go", 0, 1)
	milestones := courseMilestones(t, db, course.ID)
	seedEnrollment(t, enrollSvc, user.ID, course.ID)

	snap, err := svc.CompleteMilestone(user.ID, course.ID, milestones[0].ID)
	require.NoError(t, err)
	assert.True(t, snap.Completed)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	require.NotNil(t, enrollment.CompletedAt)
	firstCompletedAt := *enrollment.CompletedAt

	// A milestone added after completion lowers the percentage
	added := courseModels.Milestone{CourseID: course.ID, Title: "Milestone 2", OrderIndex: 1}
	require.NoError(t, db.Create(&added).Error)

	snap, err = svc.CompleteMilestone(user.ID, course.ID, milestones[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, snap.Progress, 0.01)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, firstCompletedAt.Unix(), enrollment.CompletedAt.Unix())
}

// Soft-deleted milestones leave both the numerator and the denominator, so
// progress never exceeds 100.
func TestProgressIgnoresDeletedMilestones(t *testing.T) {
	db := setupTestDB(t)
	enrollSvc := NewEnrollmentService(db, &fakeGateway{}, &fakeNotifier{})
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Intro to Go", 0, 3)
	milestones := courseMilestones(t, db, course.ID)
	seedEnrollment(t, enrollSvc, user.ID, course.ID)

	_, err := svc.CompleteMilestone(user.ID, course.ID, milestones[0].ID)
	require.NoError(t, err)
	_, err = svc.CompleteMilestone(user.ID, course.ID, milestones[1].ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&courseModels.Milestone{}).
		Where("id = ?", milestones[0].ID).
		Update("is_deleted", true).Error)

	snap, err := svc.CompleteMilestone(user.ID, course.ID, milestones[2].ID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), snap.Progress)
	assert.True(t, snap.Completed)
}

func TestGetCourseProgress(t *testing.T) {
	db := setupTestDB(t)
	enrollSvc := NewEnrollmentService(db, &fakeGateway{}, &fakeNotifier{})
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Intro to Go", 0, 3)
	milestones := courseMilestones(t, db, course.ID)
	seedEnrollment(t, enrollSvc, user.ID, course.ID)

	_, err := svc.CompleteMilestone(user.ID, course.ID, milestones[1].ID)
	require.NoError(t, err)

	progress, err := svc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, progress.Course.ID)
	assert.InDelta(t, 33.33, progress.Enrollment.Progress, 0.01)
	require.Len(t, progress.Milestones, 3)
	assert.False(t, progress.Milestones[0].IsCompleted)
	assert.True(t, progress.Milestones[1].IsCompleted)
	assert.False(t, progress.Milestones[2].IsCompleted)
}

func TestGetCourseProgressNotEnrolled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Intro to Go", 0, 3)

	_, err := svc.GetCourseProgress(user.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

// A course without milestones reports 0, not a divide-by-zero
func TestProgressWithNoMilestones(t *testing.T) {
	db := setupTestDB(t)
	enrollSvc := NewEnrollmentService(db, &fakeGateway{}, &fakeNotifier{})
	svc := NewProgressService(db)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Empty Course", 0, 0)
	seedEnrollment(t, enrollSvc, user.ID, course.ID)

	progress, err := svc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), progress.Enrollment.Progress)
	assert.Empty(t, progress.Milestones)
}
