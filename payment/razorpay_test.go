package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntentRejectsBadAmount(t *testing.T) {
	g := NewRazorpayGateway("", "key", "secret", time.Second)

	_, err := g.CreateIntent(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = g.CreateIntent(context.Background(), -100, 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateIntentTestMode(t *testing.T) {
	g := NewRazorpayGateway("", "key", "secret", time.Second)

	intent, err := g.CreateIntent(context.Background(), 3105, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, intent.ID)
	assert.Contains(t, intent.ID, "order_")
	assert.Equal(t, uint(42), intent.OrderRef)
}

func TestCreateIntentAgainstProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": "order_live_abc"}`))
	}))
	defer srv.Close()

	g := NewRazorpayGateway(srv.URL, "key", "secret", time.Second)
	intent, err := g.CreateIntent(context.Background(), 3105, 42)
	require.NoError(t, err)
	assert.Equal(t, "order_live_abc", intent.ID)
}

func TestCreateIntentProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewRazorpayGateway(srv.URL, "key", "secret", time.Second)
	_, err := g.CreateIntent(context.Background(), 3105, 42)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateIntentTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := NewRazorpayGateway(srv.URL, "key", "secret", 20*time.Millisecond)
	_, err := g.CreateIntent(context.Background(), 3105, 42)
	// a timed-out intent is retryable, never a definitive failure
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestVerifySignature(t *testing.T) {
	g := NewRazorpayGateway("", "key", "secret", time.Second)

	sig := g.Sign("order_abc", "pay_123")
	assert.NoError(t, g.VerifySignature("order_abc", "pay_123", sig))

	assert.ErrorIs(t, g.VerifySignature("order_abc", "pay_123", "forged"), ErrSignatureMismatch)
	assert.ErrorIs(t, g.VerifySignature("order_abc", "pay_999", sig), ErrSignatureMismatch)
	assert.ErrorIs(t, g.VerifySignature("", "", ""), ErrSignatureMismatch)

	// a different key secret produces a different signature
	other := NewRazorpayGateway("", "key", "other_secret", time.Second)
	assert.ErrorIs(t, other.VerifySignature("order_abc", "pay_123", sig), ErrSignatureMismatch)
}
