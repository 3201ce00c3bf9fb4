package services

import (
	"encoding/json"
	"log"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// webhookEvent is the slice of the Razorpay event payload the reconciler
// reads. Everything else in the event is ignored.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"` // in paise
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// WebhookService reconciles asynchronous payment notifications from the
// gateway with enrollments. Delivery is at-least-once, so every step is
// idempotent: the same capture event processed twice converges on one
// enrollment row and one confirmation email.
type WebhookService struct {
	db          *gorm.DB
	gateway     Gateway
	enrollments *EnrollmentService
}

func NewWebhookService(db *gorm.DB, gateway Gateway, enrollments *EnrollmentService) *WebhookService {
	return &WebhookService{db: db, gateway: gateway, enrollments: enrollments}
}

// HandleEvent authenticates, parses and acts on a raw webhook delivery.
// Only payment.captured drives state; other event types are acknowledged as
// no-ops so the gateway does not retry them.
func (s *WebhookService) HandleEvent(rawBody []byte, signatureHeader string) error {
	if signatureHeader == "" || !s.gateway.VerifyWebhookSignature(rawBody, signatureHeader) {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return err
	}

	if event.Event != "payment.captured" {
		return nil
	}

	entity := event.Payload.Payment.Entity

	// Resolve (user, course) through the order persisted at initiation
	var order models.PaymentOrder
	if err := s.db.Where("order_id = ? AND is_deleted = false", entity.OrderID).First(&order).Error; err != nil {
		log.Printf("Webhook: no payment order found for %s", entity.OrderID)
		return ErrOrderNotFound
	}

	// Duplicate delivery: the order was already reconciled
	if order.Status == models.OrderStatusPaid {
		return nil
	}

	var course courseModels.Course
	if err := s.db.Where("id = ? AND is_deleted = false", order.CourseID).First(&course).Error; err != nil {
		return ErrCourseNotFound
	}

	// Same insert path as the synchronous verify call. An enrollment created
	// by that path in the meantime comes back as the existing row, which is
	// success here too.
	amountRupees := float64(entity.Amount) / 100
	_, err := s.enrollments.recordVerifiedEnrollment(order.UserID, order.CourseID, &course, entity.ID, entity.OrderID, amountRupees, order.Currency)
	if err != nil {
		return err
	}

	// Mark the order only after the enrollment is durable, so a failure in
	// between leaves the order CREATED and the next delivery retries the
	// whole (idempotent) sequence.
	return s.db.Model(&order).Updates(map[string]interface{}{
		"status":     models.OrderStatusPaid,
		"payment_id": entity.ID,
	}).Error
}
