package services

import (
	"fmt"
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturedEventBody(paymentID, orderID string, amountPaise int64) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":%d,"status":"captured"}}}}`,
		paymentID, orderID, amountPaise,
	))
}

func TestWebhookCaptureEnrolls(t *testing.T) {
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}
	enrollments := NewEnrollmentService(db, gateway, notifier)
	svc := NewWebhookService(db, gateway, enrollments)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Advanced Go", 499, 3)

	details, err := enrollments.InitiatePaid(user.ID, course.ID)
	require.NoError(t, err)

	body := capturedEventBody("pay_wh001", details.OrderID, details.Amount)
	require.NoError(t, svc.HandleEvent(body, signWebhook(body)))

	assert.Equal(t, int64(1), enrollmentCount(t, db, user.ID, course.ID))

	var enrollment struct {
		PaymentID       string
		PaymentVerified bool
		Amount          float64
	}
	require.NoError(t, db.Table("enrollments").
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Select("payment_id, payment_verified, amount").
		Scan(&enrollment).Error)
	assert.Equal(t, "pay_wh001", enrollment.PaymentID)
	assert.True(t, enrollment.PaymentVerified)
	assert.Equal(t, float64(499), enrollment.Amount)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", details.OrderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_wh001", order.PaymentID)

	assert.Len(t, notifier.confirmations, 1)
}

// The same capture delivered twice converges on one enrollment and one email
func TestWebhookDuplicateDelivery(t *testing.T) {
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}
	enrollments := NewEnrollmentService(db, gateway, notifier)
	svc := NewWebhookService(db, gateway, enrollments)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Advanced Go", 499, 3)

	details, err := enrollments.InitiatePaid(user.ID, course.ID)
	require.NoError(t, err)

	body := capturedEventBody("pay_wh001", details.OrderID, details.Amount)
	require.NoError(t, svc.HandleEvent(body, signWebhook(body)))
	require.NoError(t, svc.HandleEvent(body, signWebhook(body)))

	assert.Equal(t, int64(1), enrollmentCount(t, db, user.ID, course.ID))
	assert.Len(t, notifier.confirmations, 1)
}

func TestWebhookInvalidSignature(t *testing.T) {
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	enrollments := NewEnrollmentService(db, gateway, &fakeNotifier{})
	svc := NewWebhookService(db, gateway, enrollments)

	body := capturedEventBody("pay_wh001", "order_unknown", 49900)

	assert.ErrorIs(t, svc.HandleEvent(body, "bad_signature"), ErrInvalidSignature)
	assert.ErrorIs(t, svc.HandleEvent(body, ""), ErrInvalidSignature)
}

// Non-capture events are acknowledged without touching state
func TestWebhookIgnoresOtherEvents(t *testing.T) {
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	enrollments := NewEnrollmentService(db, gateway, &fakeNotifier{})
	svc := NewWebhookService(db, gateway, enrollments)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Advanced Go", 499, 3)

	details, err := enrollments.InitiatePaid(user.ID, course.ID)
	require.NoError(t, err)

	body := []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_wh001","order_id":%q,"amount":%d,"status":"failed"}}}}`,
		details.OrderID, details.Amount,
	))
	require.NoError(t, svc.HandleEvent(body, signWebhook(body)))

	assert.Equal(t, int64(0), enrollmentCount(t, db, user.ID, course.ID))

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", details.OrderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
}

func TestWebhookUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	enrollments := NewEnrollmentService(db, gateway, &fakeNotifier{})
	svc := NewWebhookService(db, gateway, enrollments)

	body := capturedEventBody("pay_wh001", "order_missing", 49900)
	assert.ErrorIs(t, svc.HandleEvent(body, signWebhook(body)), ErrOrderNotFound)
}

// Checkout verify and webhook for the same payment race to insert; the
// loser adopts the winner's row and no second email goes out.
func TestWebhookAfterCheckoutVerify(t *testing.T) {
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}
	enrollments := NewEnrollmentService(db, gateway, notifier)
	svc := NewWebhookService(db, gateway, enrollments)

	user := seedUser(t, db, "student@example.com", "USER")
	course := seedCourse(t, db, "Advanced Go", 499, 3)

	details, err := enrollments.InitiatePaid(user.ID, course.ID)
	require.NoError(t, err)

	proof := PaymentProof{
		PaymentID: "pay_wh001",
		OrderID:   details.OrderID,
		Signature: signPayment(details.OrderID, "pay_wh001"),
	}
	_, err = enrollments.ConfirmPaid(user.ID, course.ID, proof)
	require.NoError(t, err)

	body := capturedEventBody("pay_wh001", details.OrderID, details.Amount)
	require.NoError(t, svc.HandleEvent(body, signWebhook(body)))

	assert.Equal(t, int64(1), enrollmentCount(t, db, user.ID, course.ID))
	assert.Len(t, notifier.confirmations, 1)
}

func TestWebhookMalformedBody(t *testing.T) {
	db := setupTestDB(t)
	gateway := &fakeGateway{}
	enrollments := NewEnrollmentService(db, gateway, &fakeNotifier{})
	svc := NewWebhookService(db, gateway, enrollments)

	body := []byte(`{"event": "payment.captured", "payload": `)
	assert.Error(t, svc.HandleEvent(body, signWebhook(body)))
}
