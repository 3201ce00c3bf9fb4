package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentProof carries the signed payment details the Razorpay checkout
// returns to the browser after a successful payment.
type PaymentProof struct {
	PaymentID string
	OrderID   string
	Signature string
}

// OrderDetails is returned to the client so it can open the gateway checkout
type OrderDetails struct {
	OrderID  string  `json:"order_id"`
	Amount   int64   `json:"amount"` // in paise
	Currency string  `json:"currency"`
	KeyID    string  `json:"razorpay_key_id"`
	Price    float64 `json:"price"` // in rupees
}

// EnrollmentService decides enrollment eligibility and records enrollments
// with their payment provenance. At most one enrollment row exists per
// (user, course); the composite unique index backs that up under concurrency.
type EnrollmentService struct {
	db       *gorm.DB
	gateway  Gateway
	notifier Notifier
}

func NewEnrollmentService(db *gorm.DB, gateway Gateway, notifier Notifier) *EnrollmentService {
	return &EnrollmentService{db: db, gateway: gateway, notifier: notifier}
}

// EnrollFree enrolls a user into a free course. A second call for the same
// (user, course) fails with ErrAlreadyEnrolled.
func (s *EnrollmentService) EnrollFree(userID, courseID uint) (*courseModels.Enrollment, error) {
	course, err := s.publishedCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsFree() {
		return nil, ErrPaymentRequired
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Currency: "INR",
	}
	created, _, err := s.insertEnrollment(&enrollment)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyEnrolled
	}

	return &enrollment, nil
}

// InitiatePaid creates a payment gateway order for a paid course and persists
// it so the webhook can later resolve the (user, course) pair from the order
// id alone.
func (s *EnrollmentService) InitiatePaid(userID, courseID uint) (*OrderDetails, error) {
	course, err := s.publishedCourse(courseID)
	if err != nil {
		return nil, err
	}
	if course.IsFree() {
		return nil, ErrFreeCourse
	}

	var existing courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyEnrolled
	}

	// Razorpay receipts must be unique and at most 40 characters
	receipt := fmt.Sprintf("rcpt_%d_%d_%s", userID, courseID, uuid.NewString()[:8])
	notes := map[string]string{
		"user_id":   strconv.FormatUint(uint64(userID), 10),
		"course_id": strconv.FormatUint(uint64(courseID), 10),
	}

	amountPaise := int64(course.Price * 100)
	order, err := s.gateway.CreateOrder(amountPaise, "INR", receipt, notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	notesJSON, _ := json.Marshal(notes)
	paymentOrder := models.PaymentOrder{
		OrderID:  order.ID,
		UserID:   userID,
		CourseID: courseID,
		Receipt:  receipt,
		Amount:   order.Amount,
		Currency: order.Currency,
		Status:   models.OrderStatusCreated,
		Notes:    datatypes.JSON(notesJSON),
	}
	if err := s.db.Create(&paymentOrder).Error; err != nil {
		log.Printf("Failed to persist payment order %s: %v", order.ID, err)
		return nil, err
	}

	return &OrderDetails{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
		Price:    course.Price,
	}, nil
}

// ConfirmPaid verifies the checkout signature and records the enrollment.
// Replays of an already-processed payment return the existing enrollment as
// success: payment confirmation arriving twice must not fail.
func (s *EnrollmentService) ConfirmPaid(userID, courseID uint, proof PaymentProof) (*courseModels.Enrollment, error) {
	if !s.gateway.VerifyPaymentSignature(proof.OrderID, proof.PaymentID, proof.Signature) {
		return nil, ErrInvalidSignature
	}

	course, err := s.publishedCourse(courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.recordVerifiedEnrollment(userID, courseID, course, proof.PaymentID, proof.OrderID, course.Price, "INR")
	if err != nil {
		return nil, err
	}

	s.markOrderPaid(proof.OrderID, proof.PaymentID)

	return enrollment, nil
}

// GrantAccess enrolls a user into a course on an admin's behalf, bypassing
// payment with sentinel provenance. Unlike ConfirmPaid this treats an
// existing enrollment as an error: it is an explicit administrative action,
// not a replay.
func (s *EnrollmentService) GrantAccess(adminUserID uint, targetEmail string, courseID uint, amount float64, currency string) (*courseModels.Enrollment, error) {
	// The route is behind a role middleware, but the service verifies the
	// caller itself in case it is ever reachable another way.
	var admin models.User
	if err := s.db.Where("id = ? AND is_deleted = false", adminUserID).First(&admin).Error; err != nil {
		return nil, ErrNotAdmin
	}
	if admin.Role != "ADMIN" {
		return nil, ErrNotAdmin
	}

	var target models.User
	if err := s.db.Where("email = ? AND is_deleted = false", strings.ToLower(targetEmail)).First(&target).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return nil, ErrCourseNotFound
	}

	if currency == "" {
		currency = "INR"
	}
	enrollment := courseModels.Enrollment{
		UserID:          target.ID,
		CourseID:        courseID,
		PaymentID:       courseModels.AdminGrantSentinel,
		OrderID:         courseModels.AdminGrantSentinel,
		PaymentVerified: true,
		Amount:          amount,
		Currency:        currency,
	}
	created, _, err := s.insertEnrollment(&enrollment)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyEnrolled
	}

	if s.notifier != nil {
		s.notifier.SendEnrollmentConfirmation(target.Email, target.Name, course.Title)
	}

	return &enrollment, nil
}

// recordVerifiedEnrollment inserts a payment-verified enrollment, converging
// on the existing row when one is already there. The confirmation email is
// sent only when a row is actually created, so duplicate payment
// confirmations never notify twice.
func (s *EnrollmentService) recordVerifiedEnrollment(userID, courseID uint, course *courseModels.Course, paymentID, orderID string, amount float64, currency string) (*courseModels.Enrollment, error) {
	enrollment := courseModels.Enrollment{
		UserID:          userID,
		CourseID:        courseID,
		PaymentID:       paymentID,
		OrderID:         orderID,
		PaymentVerified: true,
		Amount:          amount,
		Currency:        currency,
	}
	created, existing, err := s.insertEnrollment(&enrollment)
	if err != nil {
		return nil, err
	}
	if !created {
		return existing, nil
	}

	if s.notifier != nil {
		var user models.User
		if err := s.db.Where("id = ?", userID).First(&user).Error; err == nil {
			s.notifier.SendEnrollmentConfirmation(user.Email, user.Name, course.Title)
		}
	}

	return &enrollment, nil
}

// insertEnrollment inserts with ON CONFLICT DO NOTHING so that concurrent
// attempts for the same (user, course) produce exactly one row. Returns the
// winning row when this insert lost.
func (s *EnrollmentService) insertEnrollment(enrollment *courseModels.Enrollment) (bool, *courseModels.Enrollment, error) {
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(enrollment)
	if result.Error != nil {
		return false, nil, result.Error
	}
	if result.RowsAffected > 0 {
		return true, enrollment, nil
	}

	var existing courseModels.Enrollment
	if err := s.db.Where("user_id = ? AND course_id = ?", enrollment.UserID, enrollment.CourseID).First(&existing).Error; err != nil {
		return false, nil, err
	}
	return false, &existing, nil
}

// markOrderPaid updates the persisted payment order, when one exists, after a
// confirmed payment. Order bookkeeping failure is logged but does not fail
// the enrollment.
func (s *EnrollmentService) markOrderPaid(orderID, paymentID string) {
	err := s.db.Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status <> ?", orderID, models.OrderStatusPaid).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusPaid,
			"payment_id": paymentID,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		log.Printf("Failed to mark payment order %s as paid: %v", orderID, err)
	}
}

func (s *EnrollmentService) publishedCourse(courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return nil, ErrCourseNotFound
	}
	return &course, nil
}
