package course

import (
	"time"

	"gorm.io/gorm"
)

// Sentinel payment ids recorded when access is granted administratively
// without a real gateway payment.
const AdminGrantSentinel = "autoaccessbyadmin"

// Enrollment tracks a user's access to a course with payment provenance and
// progress. The composite unique index on (user_id, course_id) is what makes
// concurrent enrollment attempts converge on a single row.
type Enrollment struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`

	Progress    float64    `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	CompletedAt *time.Time `json:"completed_at"`

	// Payment provenance. Empty for free enrollments, sentinel values for
	// admin grants.
	PaymentID       string  `json:"payment_id"`
	OrderID         string  `json:"order_id"`
	PaymentVerified bool    `json:"payment_verified" gorm:"default:false"`
	Amount          float64 `json:"amount" gorm:"default:0"` // in rupees
	Currency        string  `json:"currency" gorm:"default:'INR'"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// MilestoneProgress records that a user completed a milestone. Existence of
// the row is the only state; the composite unique index makes duplicate
// completion calls converge on one row.
type MilestoneProgress struct {
	gorm.Model
	UserID      uint `json:"user_id" gorm:"not null;uniqueIndex:idx_milestone_progress_key"`
	CourseID    uint `json:"course_id" gorm:"not null;uniqueIndex:idx_milestone_progress_key"`
	MilestoneID uint `json:"milestone_id" gorm:"not null;uniqueIndex:idx_milestone_progress_key"`
}
