package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "katok/internal/errors"
	"katok/internal/mailer"
	"katok/internal/metrics"
	"katok/internal/models"
	"katok/internal/qr"
	"katok/internal/schedule"
	"katok/internal/ticket"
)

// Renderer кодирует текст билета в изображение
type Renderer interface {
	Render(text string) (*qr.Artifact, error)
}

// Sender доставляет письмо покупателю
type Sender interface {
	Send(ctx context.Context, msg *mailer.Message) error
}

// DedupStore подавляет повторную доставку уведомлений
type DedupStore interface {
	MarkProcessed(ctx context.Context, paymentID string) (bool, error)
	Forget(ctx context.Context, paymentID string) error
}

// PaymentGateway создает платеж и возвращает ссылку на подтверждение
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (string, error)
}

// FulfillmentService - конвейер обработки платежного вебхука:
// Parse Event -> Resolve -> Render -> Dispatch. Строго линейный,
// завершается целиком внутри одного запроса.
type FulfillmentService struct {
	successEvent string
	mailTimeout  time.Duration

	schedule *schedule.Schedule
	resolver *ticket.Resolver
	renderer Renderer
	sender   Sender
	dedup    DedupStore
	payments PaymentGateway
}

// NewFulfillmentService собирает конвейер из внедренных зависимостей.
// dedup и payments могут быть nil - соответствующая возможность отключается.
func NewFulfillmentService(
	successEvent string,
	mailTimeout time.Duration,
	sched *schedule.Schedule,
	resolver *ticket.Resolver,
	renderer Renderer,
	sender Sender,
	dedup DedupStore,
	payments PaymentGateway,
) *FulfillmentService {
	return &FulfillmentService{
		successEvent: successEvent,
		mailTimeout:  mailTimeout,
		schedule:     sched,
		resolver:     resolver,
		renderer:     renderer,
		sender:       sender,
		dedup:        dedup,
		payments:     payments,
	}
}

// ProcessNotification проводит уведомление через весь конвейер.
// Ошибка на любом шаге останавливает обработку; частичное письмо не отправляется.
func (s *FulfillmentService) ProcessNotification(ctx context.Context, n *models.WebhookNotification) error {
	start := time.Now()
	defer func() {
		metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	// Незнакомые события не ошибка: провайдер ретраит не-2xx ответы,
	// поэтому такие уведомления подтверждаются и отбрасываются
	if n.Event != s.successEvent {
		slog.Info("Ignoring unsupported event", "event", n.Event)
		metrics.WebhookNotifications.WithLabelValues(metrics.OutcomeIgnored).Inc()
		return apperrors.ErrUnsupportedEvent
	}

	// Идентификатор платежа провайдера служит ключом идемпотентности
	claimed := false
	if s.dedup != nil && n.Object.ID != "" {
		first, err := s.dedup.MarkProcessed(ctx, n.Object.ID)
		switch {
		case err != nil:
			// Недоступность хранилища не роняет запрос: доступность важнее
			// строгой дедупликации
			slog.Warn("Dedup store unavailable, processing without duplicate check",
				"payment_id", n.Object.ID, "error", err)
		case !first:
			slog.Info("Duplicate notification suppressed", "payment_id", n.Object.ID)
			metrics.WebhookNotifications.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			return nil
		default:
			claimed = true
		}
	}

	err := s.fulfill(ctx, n)
	if err != nil && claimed {
		// Освобождаем ключ, чтобы передоставка провайдера смогла
		// довести неудавшийся платеж до конца
		if ferr := s.dedup.Forget(ctx, n.Object.ID); ferr != nil {
			slog.Error("Failed to release dedup key", "payment_id", n.Object.ID, "error", ferr)
		}
	}
	return err
}

func (s *FulfillmentService) fulfill(ctx context.Context, n *models.WebhookNotification) error {
	req, err := s.resolver.Resolve(&n.Object)
	if err != nil {
		metrics.WebhookNotifications.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return err
	}

	artifact, err := s.renderer.Render(ticketText(req))
	if err != nil {
		metrics.WebhookNotifications.WithLabelValues(metrics.OutcomeRenderErr).Inc()
		return err
	}

	mailCtx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()

	msg := &mailer.Message{
		To:             req.Email,
		Subject:        mailSubject,
		HTML:           emailHTML(req, artifact.DataURI),
		Attachment:     artifact.PNG,
		AttachmentName: "qrcode.png",
	}
	if err := s.sender.Send(mailCtx, msg); err != nil {
		metrics.WebhookNotifications.WithLabelValues(metrics.OutcomeDeliveryErr).Inc()
		return err
	}

	metrics.WebhookNotifications.WithLabelValues(metrics.OutcomeProcessed).Inc()
	metrics.TicketsEmailed.Inc()
	slog.Info("Confirmation email sent",
		"payment_id", n.Object.ID,
		"email", req.Email,
		"day", req.Day,
		"time", req.Time,
		"quantity", req.Quantity)
	return nil
}

// CreatePayment резервирует места на сеанс и создает платеж у провайдера
func (s *FulfillmentService) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (string, error) {
	if s.payments == nil {
		return "", apperrors.ErrPaymentsDisabled
	}

	if err := s.schedule.Reserve(req.Day, req.Time, req.Quantity); err != nil {
		return "", err
	}

	confirmationURL, err := s.payments.CreatePayment(ctx, req)
	if err != nil {
		// Неудавшийся платеж не должен съедать вместимость сеанса
		s.schedule.Release(req.Day, req.Time, req.Quantity)
		return "", fmt.Errorf("failed to create payment: %w", err)
	}

	metrics.PaymentsCreated.Inc()
	slog.Info("Payment created", "day", req.Day, "time", req.Time, "quantity", req.Quantity)
	return confirmationURL, nil
}

// IsClientError сообщает, относится ли ошибка конвейера к данным запроса
func IsClientError(err error) bool {
	return errors.Is(err, apperrors.ErrMalformedBody) ||
		errors.Is(err, apperrors.ErrMissingEmail) ||
		errors.Is(err, apperrors.ErrMissingField) ||
		errors.Is(err, apperrors.ErrInvalidSession) ||
		errors.Is(err, apperrors.ErrSoldOut)
}
