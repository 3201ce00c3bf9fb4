package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

// Client talks to the Razorpay REST API and verifies payment signatures.
// Construct it once in main and pass it into the services that need it.
type Client struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	http          *resty.Client
}

// Order is the subset of the Razorpay order entity the platform uses
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // in paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func NewClient(keyID, keySecret, webhookSecret, baseURL string) *Client {
	return &Client{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
		http:          resty.New(),
	}
}

// KeyID returns the public key id the browser checkout needs
func (p *Client) KeyID() string {
	return p.keyID
}

// CreateOrder creates a Razorpay order with auto-capture enabled. Amount is
// in paise. Notes are attached to the order so the capture event carries them
// back through the webhook.
func (p *Client) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": true,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	resp, err := p.http.R().
		SetBasicAuth(p.keyID, p.keySecret).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(p.baseURL + "/orders")
	if err != nil {
		log.Printf("Razorpay order creation failed: %v", err)
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	if resp.StatusCode() != 200 {
		log.Printf("Razorpay order creation rejected: %s", resp.String())
		return nil, fmt.Errorf("payment gateway error: status %d", resp.StatusCode())
	}

	var order Order
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("invalid payment gateway response: %w", err)
	}

	return &order, nil
}

// VerifyPaymentSignature checks the checkout callback signature, computed by
// Razorpay as HMAC-SHA256 over "orderId|paymentId" with the key secret.
func (p *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := hmacSha256Hex(p.keySecret, orderID+"|"+paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// HMAC-SHA256 of the exact raw request body with the webhook secret.
func (p *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := hmacSha256Hex(p.webhookSecret, string(body))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func hmacSha256Hex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
