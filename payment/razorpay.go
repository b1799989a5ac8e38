package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"food-ordering-api/pricing"

	"github.com/google/uuid"
)

// RazorpayGateway talks to a Razorpay-compatible provider. With an empty base
// URL it runs in test mode: intents are minted locally, signature
// verification still uses the real HMAC scheme.
type RazorpayGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewRazorpayGateway(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayGateway {
	return &RazorpayGateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: timeout},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // minimum currency unit
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateIntent registers a pending charge. Amounts are validated before any
// network call; provider unavailability is retryable and never mutates order
// state here.
func (g *RazorpayGateway) CreateIntent(ctx context.Context, amount pricing.Cents, orderRef uint) (*Intent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	intent := &Intent{Amount: amount, Currency: "USD", OrderRef: orderRef}

	if g.baseURL == "" {
		intent.ID = "order_" + uuid.NewString()
		return intent, nil
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(amount),
		Currency: intent.Currency,
		Receipt:  fmt.Sprintf("order_%d", orderRef),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		// Includes timeouts. The caller must not assume the charge failed.
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: provider returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment provider rejected intent: status %d", resp.StatusCode)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: bad provider response: %v", ErrGatewayUnavailable, err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: provider returned no intent id", ErrGatewayUnavailable)
	}
	intent.ID = out.ID
	return intent, nil
}

// VerifySignature checks the HMAC-SHA256 of "intentID|paymentID" under the
// key secret against the provider-supplied signature, in constant time.
func (g *RazorpayGateway) VerifySignature(intentID, paymentID, signature string) error {
	if intentID == "" || paymentID == "" || signature == "" {
		return ErrSignatureMismatch
	}
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign produces the signature the provider would send for a completed
// payment. Exposed for tests and the simulated checkout flow.
func (g *RazorpayGateway) Sign(intentID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
