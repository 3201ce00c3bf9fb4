package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment order lifecycle statuses
const (
	OrderStatusCreated = "CREATED"
	OrderStatusPaid    = "PAID"
	OrderStatusExpired = "EXPIRED"
)

// PaymentOrder tracks a Razorpay order created for a paid enrollment.
// The webhook resolves (user, course) for a captured payment through this
// record, keyed by the gateway order id.
type PaymentOrder struct {
	gorm.Model
	OrderID   string         `json:"order_id" gorm:"unique;not null"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	CourseID  uint           `json:"course_id" gorm:"index;not null"`
	Receipt   string         `json:"receipt"`
	Amount    int64          `json:"amount"` // in paise
	Currency  string         `json:"currency" gorm:"default:'INR'"`
	Status    string         `json:"status" gorm:"default:'CREATED'"` // CREATED, PAID, EXPIRED
	PaymentID string         `json:"payment_id"`
	Notes     datatypes.JSON `json:"notes"`
	IsDeleted bool           `json:"-" gorm:"default:false"`
}
