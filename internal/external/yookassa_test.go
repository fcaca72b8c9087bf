package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katok/internal/config"
	"katok/internal/models"
)

func paymentRequest() *models.CreatePaymentRequest {
	return &models.CreatePaymentRequest{
		Name: "Иван", Surname: "Петров", Phone: "+70000000000",
		Email: "ivan@example.com", Day: "Monday", Time: "10:00",
		TicketType: "regular", Quantity: 2, TotalPrice: "1000.00",
	}
}

func TestCreatePayment(t *testing.T) {
	var captured yooKassaCreateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/payments", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "shop-1", user)
		assert.Equal(t, "sk-1", pass)

		// Ключ идемпотентности обязателен для провайдера
		assert.NotEmpty(t, r.Header.Get("Idempotence-Key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "pay-1",
			"status": "pending",
			"confirmation": map[string]string{
				"type":             "redirect",
				"confirmation_url": "https://yookassa.test/confirm/pay-1",
			},
		})
	}))
	defer srv.Close()

	client := NewYooKassaClient(config.YooKassaConfig{
		ShopID:    "shop-1",
		SecretKey: "sk-1",
		BaseURL:   srv.URL,
		ReturnURL: "https://hc-grad.ru/payment-success",
		Timeout:   5 * time.Second,
	})

	url, err := client.CreatePayment(context.Background(), paymentRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://yookassa.test/confirm/pay-1", url)

	// Данные билета уезжают в metadata и вернутся в вебхуке без изменений
	assert.Equal(t, "1000.00", captured.Amount.Value)
	assert.Equal(t, "RUB", captured.Amount.Currency)
	assert.Equal(t, "ivan@example.com", captured.Metadata["email"])
	assert.Equal(t, "Monday", captured.Metadata["day"])
	assert.Equal(t, "10:00", captured.Metadata["time"])
	assert.Equal(t, "2", captured.Metadata["quantity"])
	assert.Equal(t, "ivan@example.com", captured.Receipt.Customer.Email)
	require.Len(t, captured.Receipt.Items, 1)
	assert.Equal(t, 2, captured.Receipt.Items[0].Quantity)
	assert.True(t, captured.Capture)
}

func TestCreatePaymentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewYooKassaClient(config.YooKassaConfig{
		ShopID: "shop-1", SecretKey: "bad", BaseURL: srv.URL, Timeout: 5 * time.Second,
	})

	_, err := client.CreatePayment(context.Background(), paymentRequest())
	assert.Error(t, err)
}
