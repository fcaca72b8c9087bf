package ticket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"katok/internal/config"
	apperrors "katok/internal/errors"
	"katok/internal/models"
	"katok/internal/schedule"
)

// Resolver превращает платеж в проверенный TicketRequest.
// Источник данных о билете задается конфигурацией и никогда не смешивается:
// либо metadata платежа, либо JSON внутри description (наследие старых интеграций,
// где фронтенд прятал данные билета в текстовое поле).
type Resolver struct {
	source   string
	schedule *schedule.Schedule
}

func NewResolver(source string, sched *schedule.Schedule) *Resolver {
	return &Resolver{source: source, schedule: sched}
}

// Resolve валидирует данные билета из платежа. Любая ошибка останавливает
// конвейер до отправки письма.
func (r *Resolver) Resolve(payment *models.PaymentObject) (*models.TicketRequest, error) {
	details, err := r.details(payment)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(details["email"])
	if email == "" {
		return nil, apperrors.ErrMissingEmail
	}

	day := strings.TrimSpace(details["day"])
	start := strings.TrimSpace(details["time"])
	if day == "" || start == "" {
		return nil, fmt.Errorf("%w: day and time are required", apperrors.ErrMissingField)
	}

	if _, ok := r.schedule.Lookup(day, start); !ok {
		return nil, fmt.Errorf("%w: %s %s", apperrors.ErrInvalidSession, day, start)
	}

	quantity := 1
	if raw := strings.TrimSpace(details["quantity"]); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil || quantity < 1 {
			return nil, fmt.Errorf("%w: quantity %q", apperrors.ErrMissingField, raw)
		}
	}

	ticketType := strings.TrimSpace(details["ticketType"])

	return &models.TicketRequest{
		Name:       strings.TrimSpace(details["name"]),
		Surname:    strings.TrimSpace(details["surname"]),
		Patronymic: strings.TrimSpace(details["patronymic"]),
		Email:      email,
		Day:        day,
		Time:       start,
		TicketType: ticketType,
		TypeLabel:  TypeLabel(ticketType),
		Quantity:   quantity,
		Amount:     payment.Amount.Value,
	}, nil
}

// details выбирает источник данных о билете согласно политике
func (r *Resolver) details(payment *models.PaymentObject) (map[string]string, error) {
	switch r.source {
	case config.TicketSourceDescription:
		if strings.TrimSpace(payment.Description) == "" {
			return nil, fmt.Errorf("%w: empty description", apperrors.ErrMalformedBody)
		}
		var details map[string]string
		if err := json.Unmarshal([]byte(payment.Description), &details); err != nil {
			return nil, fmt.Errorf("%w: description is not a JSON object: %v", apperrors.ErrMalformedBody, err)
		}
		return details, nil
	default:
		return payment.Metadata, nil
	}
}

// TypeLabel сопоставляет тип билета с отображаемым названием.
// Все нераспознанные значения намеренно попадают в льготную категорию:
// так вели себя все старые варианты сервиса, оплаченный билет не должен
// пропасть из-за опечатки в типе. Нераспознанное значение логируется.
func TypeLabel(ticketType string) string {
	switch ticketType {
	case models.TicketTypeRegular:
		return models.LabelRegular
	case models.TicketTypeDiscounted:
		return models.LabelDiscounted
	default:
		if ticketType != "" {
			slog.Warn("Unrecognized ticket type, falling back to discounted label", "ticket_type", ticketType)
		}
		return models.LabelDiscounted
	}
}
