package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"katok/internal/auth"
	apperrors "katok/internal/errors"
	"katok/internal/models"
	"katok/internal/service"
)

const maxPayloadLogBytes = 512

type Handlers struct {
	services      *service.FulfillmentService
	authenticator auth.Authenticator
	apiKey        string
}

func NewHandlers(services *service.FulfillmentService, authenticator auth.Authenticator, apiKey string) *Handlers {
	return &Handlers{
		services:      services,
		authenticator: authenticator,
		apiKey:        strings.TrimSpace(apiKey),
	}
}

// Webhook - POST /webhook
// Принять уведомление платежного провайдера и провести его через конвейер
func (h *Handlers) Webhook(c *gin.Context) {
	// Тело читается целиком до разбора: HMAC считается от точных байтов
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	authReq := &auth.Request{
		Header: c.Request.Header,
		Query:  c.Request.URL.Query(),
		Body:   raw,
	}
	if err := h.authenticator.Authenticate(authReq); err != nil {
		slog.Error("Webhook authentication failed", "error", err, "client_ip", c.ClientIP())
		if errors.Is(err, apperrors.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		}
		return
	}

	var notification models.WebhookNotification
	if err := json.Unmarshal(raw, &notification); err != nil {
		slog.Error("Malformed webhook body", "error", err, "payload", truncate(raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed body"})
		return
	}

	err = h.services.ProcessNotification(c.Request.Context(), &notification)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
	case errors.Is(err, apperrors.ErrUnsupportedEvent):
		// Подтверждаем, чтобы провайдер не ретраил незнакомое событие
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	case service.IsClientError(err):
		slog.Error("Webhook rejected", "error", err, "event", notification.Event, "payload", truncate(raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Webhook processing failed", "error", err, "event", notification.Event, "payload", truncate(raw))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// CreatePayment - POST /create-payment
// Создать платеж у провайдера по запросу фронтенда
func (h *Handlers) CreatePayment(c *gin.Context) {
	if !h.bearerAuthorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	confirmationURL, err := h.services.CreatePayment(c.Request.Context(), &req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.CreatePaymentResponse{ConfirmationURL: confirmationURL})
	case errors.Is(err, apperrors.ErrPaymentsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment creation is not configured"})
	case service.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to create payment", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
	}
}

// Root - GET /
// Проверка живости для балансировщика
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, "Сервер работает.")
}

// NotFound - ответ для неопределенных маршрутов
func (h *Handlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
}

func (h *Handlers) bearerAuthorized(header string) bool {
	if h.apiKey == "" {
		return false
	}
	expected := "Bearer " + h.apiKey
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}

func truncate(payload []byte) string {
	if len(payload) > maxPayloadLogBytes {
		return string(payload[:maxPayloadLogBytes]) + "..."
	}
	return string(payload)
}
