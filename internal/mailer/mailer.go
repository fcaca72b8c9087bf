package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"

	"katok/internal/config"
	apperrors "katok/internal/errors"
)

// Message - письмо покупателю с QR билетом
type Message struct {
	To             string
	Subject        string
	HTML           string
	Attachment     []byte
	AttachmentName string
}

// SMTPSender отправляет письма через настроенный SMTP relay.
// Клиент mailyak создается на каждое письмо: у него нет пула соединений,
// а общий экземпляр нельзя безопасно использовать из нескольких запросов.
type SMTPSender struct {
	addr       string
	host       string
	auth       smtp.Auth
	tlsEnabled bool
	sender     string
	senderName string
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		addr:       cfg.Host + ":" + strconv.Itoa(cfg.Port),
		host:       cfg.Host,
		auth:       smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		tlsEnabled: cfg.TLS,
		sender:     cfg.Sender,
		senderName: cfg.SenderName,
	}
}

// Send отправляет письмо, уважая дедлайн контекста. Зависший relay не должен
// держать обработчик вебхука бесконечно.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	mail, err := s.newMail()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, err)
	}

	mail.To(msg.To)
	mail.From(s.sender)
	mail.FromName(s.senderName)
	mail.Subject(msg.Subject)
	mail.HTML().Set(msg.HTML)
	if len(msg.Attachment) > 0 {
		mail.Attach(msg.AttachmentName, bytes.NewReader(msg.Attachment))
	}

	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", apperrors.ErrDeliveryFailed, ctx.Err())
	}
}

func (s *SMTPSender) newMail() (*mailyak.MailYak, error) {
	if s.tlsEnabled {
		return mailyak.NewWithTLS(s.addr, s.auth, &tls.Config{ServerName: s.host})
	}
	return mailyak.New(s.addr, s.auth), nil
}
