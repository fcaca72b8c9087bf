package models

import (
	"github.com/shopspring/decimal"
)

// Типы билетов из закрытого набора
const (
	TicketTypeRegular    = "regular"
	TicketTypeDiscounted = "discounted"
)

// Отображаемые названия типов билетов
const (
	LabelRegular    = "standard admission"
	LabelDiscounted = "discounted admission"
)

// WebhookNotification - сырое уведомление платежного провайдера.
// Живет только в рамках одного запроса, нигде не сохраняется.
type WebhookNotification struct {
	Event  string        `json:"event"`
	Object PaymentObject `json:"object"`
}

// PaymentObject - платеж из уведомления
type PaymentObject struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Amount      Amount            `json:"amount"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Paid        bool              `json:"paid,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
}

// Amount - денежная сумма провайдера. Value приходит строкой ("1000.00"),
// decimal сохраняет её точное значение без плавающей точки.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// TicketRequest - нормализованное намерение покупки, прошедшее валидацию
type TicketRequest struct {
	Name       string
	Surname    string
	Patronymic string
	Email      string
	Day        string
	Time       string
	TicketType string
	TypeLabel  string
	Quantity   int
	Amount     decimal.Decimal
}

// FullName собирает отображаемое имя покупателя
func (t *TicketRequest) FullName() string {
	name := t.Name
	if t.Surname != "" {
		if name != "" {
			name += " "
		}
		name += t.Surname
	}
	return name
}

// CreatePaymentRequest - запрос фронтенда на создание платежа
type CreatePaymentRequest struct {
	Name       string `json:"name" binding:"required"`
	Surname    string `json:"surname" binding:"required"`
	Patronymic string `json:"patronymic"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Day        string `json:"day" binding:"required"`
	Time       string `json:"time" binding:"required"`
	TicketType string `json:"ticketType" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	TotalPrice string `json:"totalPrice" binding:"required"`
}

// CreatePaymentResponse - ответ со ссылкой на страницу подтверждения оплаты
type CreatePaymentResponse struct {
	ConfirmationURL string `json:"confirmation_url"`
}
