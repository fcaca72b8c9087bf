package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"katok/internal/config"
	"katok/internal/models"
)

// YooKassaClient создает платежи через API ЮKassa
type YooKassaClient struct {
	baseURL    string
	shopID     string
	secretKey  string
	returnURL  string
	httpClient *http.Client
}

type yooKassaAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type yooKassaConfirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type yooKassaReceiptItem struct {
	Description    string         `json:"description"`
	Quantity       int            `json:"quantity"`
	Amount         yooKassaAmount `json:"amount"`
	VatCode        string         `json:"vat_code"`
	PaymentSubject string         `json:"payment_subject"`
	PaymentMode    string         `json:"payment_mode"`
	Type           string         `json:"type"`
}

type yooKassaReceipt struct {
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	Items []yooKassaReceiptItem `json:"items"`
}

type yooKassaCreateRequest struct {
	Amount       yooKassaAmount       `json:"amount"`
	Confirmation yooKassaConfirmation `json:"confirmation"`
	Capture      bool                 `json:"capture"`
	Description  string               `json:"description"`
	Receipt      yooKassaReceipt      `json:"receipt"`
	Metadata     map[string]string    `json:"metadata"`
}

type yooKassaCreateResponse struct {
	ID           string               `json:"id"`
	Status       string               `json:"status"`
	Confirmation yooKassaConfirmation `json:"confirmation"`
}

func NewYooKassaClient(cfg config.YooKassaConfig) *YooKassaClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &YooKassaClient{
		baseURL:   cfg.BaseURL,
		shopID:    cfg.ShopID,
		secretKey: cfg.SecretKey,
		returnURL: cfg.ReturnURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreatePayment создает платеж и возвращает ссылку на страницу подтверждения.
// Данные билета кладутся в metadata платежа и возвращаются провайдером
// в вебхуке payment.succeeded без изменений.
func (c *YooKassaClient) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (string, error) {
	itemDescription := fmt.Sprintf("Билет: %s\nДень: %s\nВремя: %s", ticketTitle(req.TicketType), req.Day, req.Time)

	body := yooKassaCreateRequest{
		Amount: yooKassaAmount{
			Value:    req.TotalPrice,
			Currency: "RUB",
		},
		Confirmation: yooKassaConfirmation{
			Type:      "redirect",
			ReturnURL: c.returnURL,
		},
		Capture:     true,
		Description: fmt.Sprintf("Покупка билетов: %d шт.", req.Quantity),
		Metadata: map[string]string{
			"name":       req.Name,
			"surname":    req.Surname,
			"patronymic": req.Patronymic,
			"phone":      req.Phone,
			"email":      req.Email,
			"day":        req.Day,
			"time":       req.Time,
			"ticketType": req.TicketType,
			"quantity":   strconv.Itoa(req.Quantity),
		},
	}
	body.Receipt.Customer.Email = req.Email
	body.Receipt.Items = []yooKassaReceiptItem{
		{
			Description:    itemDescription,
			Quantity:       req.Quantity,
			Amount:         yooKassaAmount{Value: req.TotalPrice, Currency: "RUB"},
			VatCode:        "1",
			PaymentSubject: "commodity",
			PaymentMode:    "full_prepayment",
			Type:           "payment_item",
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/payments", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.SetBasicAuth(c.shopID, c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	// Провайдер дедуплицирует повторные запросы по этому ключу
	httpReq.Header.Set("Idempotence-Key", uuid.New().String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to create payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var created yooKassaCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode payment response: %w", err)
	}

	if created.Confirmation.ConfirmationURL == "" {
		return "", fmt.Errorf("payment %s has no confirmation URL", created.ID)
	}

	return created.Confirmation.ConfirmationURL, nil
}

func ticketTitle(ticketType string) string {
	if ticketType == models.TicketTypeRegular {
		return "На каток"
	}
	return "Льготный"
}
