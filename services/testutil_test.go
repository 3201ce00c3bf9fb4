package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"lms/models"
	courseModels "lms/models/course"
	"lms/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testKeySecret     = "test_key_secret"
	testWebhookSecret = "test_webhook_secret"
)

// setupTestDB opens a fresh in-memory sqlite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.PaymentOrder{},
		&courseModels.Course{},
		&courseModels.Milestone{},
		&courseModels.MilestoneContent{},
		&courseModels.Enrollment{},
		&courseModels.MilestoneProgress{},
	)
	require.NoError(t, err)

	return db
}

func hmacHex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// signPayment produces the signature the gateway checkout would return
func signPayment(orderID, paymentID string) string {
	return hmacHex(testKeySecret, orderID+"|"+paymentID)
}

// signWebhook produces the webhook signature header for a raw body
func signWebhook(body []byte) string {
	return hmacHex(testWebhookSecret, string(body))
}

// fakeGateway implements Gateway without touching the network. Signature
// verification uses the real HMAC scheme with test secrets.
type fakeGateway struct {
	ordersCreated int
	failCreate    bool
}

func (g *fakeGateway) KeyID() string { return "rzp_test_fake" }

func (g *fakeGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*payment.Order, error) {
	if g.failCreate {
		return nil, fmt.Errorf("gateway unavailable")
	}
	g.ordersCreated++
	return &payment.Order{
		ID:       fmt.Sprintf("order_test%03d", g.ordersCreated),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(hmacHex(testKeySecret, orderID+"|"+paymentID)), []byte(signature))
}

func (g *fakeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return hmac.Equal([]byte(hmacHex(testWebhookSecret, string(body))), []byte(signature))
}

// fakeNotifier records notification calls synchronously
type fakeNotifier struct {
	welcomes      []string
	confirmations []string
}

func (n *fakeNotifier) SendWelcomeEmail(email, name string) {
	n.welcomes = append(n.welcomes, email)
}

func (n *fakeNotifier) SendEnrollmentConfirmation(email, name, courseTitle string) {
	n.confirmations = append(n.confirmations, email)
}

// --- seed helpers ---

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCourse(t *testing.T, db *gorm.DB, title string, price float64, milestoneCount int) *courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		Title:       title,
		Description: "A test course",
		Price:       price,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	for i := 0; i < milestoneCount; i++ {
		milestone := courseModels.Milestone{
			CourseID:   course.ID,
			Title:      fmt.Sprintf("Milestone %d", i+1),
			OrderIndex: i,
		}
		require.NoError(t, db.Create(&milestone).Error)
	}

	return &course
}

func courseMilestones(t *testing.T, db *gorm.DB, courseID uint) []courseModels.Milestone {
	t.Helper()
	var milestones []courseModels.Milestone
	require.NoError(t, db.Where("course_id = ?", courseID).Order("order_index asc").Find(&milestones).Error)
	return milestones
}

func enrollmentCount(t *testing.T, db *gorm.DB, userID, courseID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error)
	return count
}
