package services

import (
	"errors"

	"lms/payment"
)

// Sentinel errors returned by the enrollment, progress and webhook services.
// Controllers map these onto HTTP statuses; anything else is treated as an
// internal error and reported generically.
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrOrderNotFound    = errors.New("payment order not found")
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
	ErrNotEnrolled      = errors.New("not enrolled in this course")
	ErrInvalidMilestone = errors.New("milestone does not belong to this course")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrPaymentRequired  = errors.New("course is paid, payment required")
	ErrFreeCourse       = errors.New("course is free, no payment needed")
	ErrNotAdmin         = errors.New("admin role required")
	ErrPaymentGateway   = errors.New("payment gateway error")
)

// Gateway is the payment gateway contract the services depend on.
// *payment.Client satisfies it; tests substitute a fake.
type Gateway interface {
	KeyID() string
	CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*payment.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}

// Notifier sends best-effort notification emails. Implementations must not
// block: a failed or slow send never affects the state transition that
// triggered it.
type Notifier interface {
	SendWelcomeEmail(email, name string)
	SendEnrollmentConfirmation(email, name, courseTitle string)
}
