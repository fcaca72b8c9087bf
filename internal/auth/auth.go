package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"katok/internal/config"
	apperrors "katok/internal/errors"
)

// Заголовки и параметры, в которых приходят учетные данные
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderSignature = "X-Yookassa-Signature"
	QueryAPIKey     = "api_key"
)

// Request - сырые данные входящего запроса, достаточные для любой стратегии.
// Body - это точные байты тела; пересериализация ломает HMAC проверку.
type Request struct {
	Header http.Header
	Query  url.Values
	Body   []byte
}

// Authenticator отклоняет запрос до выполнения любой бизнес-логики
type Authenticator interface {
	Authenticate(r *Request) error
}

// FromConfig выбирает стратегию аутентификации по конфигурации
func FromConfig(cfg config.AuthConfig) (Authenticator, error) {
	switch cfg.Mode {
	case config.AuthModeHeader:
		return NewHeaderSecret(cfg.APIKey), nil
	case config.AuthModeQuery:
		return NewQuerySecret(cfg.APIKey), nil
	case config.AuthModeHMAC:
		return NewHMACSignature(cfg.WebhookSecret), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// HeaderSecret проверяет общий секрет в заголовке X-API-Key
type HeaderSecret struct {
	secret string
}

func NewHeaderSecret(secret string) *HeaderSecret {
	return &HeaderSecret{secret: strings.TrimSpace(secret)}
}

func (a *HeaderSecret) Authenticate(r *Request) error {
	if a.secret == "" {
		return apperrors.ErrAuthFailed
	}
	got := strings.TrimSpace(r.Header.Get(HeaderAPIKey))
	if !equalConstantTime(got, a.secret) {
		return apperrors.ErrAuthFailed
	}
	return nil
}

// QuerySecret проверяет общий секрет в query-параметре api_key.
// Слабее заголовка: URL с ключом может попасть в логи промежуточных прокси.
// Оставлено для совместимости со старыми интеграциями.
type QuerySecret struct {
	secret string
}

func NewQuerySecret(secret string) *QuerySecret {
	return &QuerySecret{secret: strings.TrimSpace(secret)}
}

func (a *QuerySecret) Authenticate(r *Request) error {
	if a.secret == "" {
		return apperrors.ErrAuthFailed
	}
	got := strings.TrimSpace(r.Query.Get(QueryAPIKey))
	if !equalConstantTime(got, a.secret) {
		return apperrors.ErrAuthFailed
	}
	return nil
}

// HMACSignature сверяет HMAC-SHA256 от точных байтов тела с заголовком подписи
type HMACSignature struct {
	secret []byte
}

func NewHMACSignature(secret string) *HMACSignature {
	return &HMACSignature{secret: []byte(strings.TrimSpace(secret))}
}

func (a *HMACSignature) Authenticate(r *Request) error {
	// Пустой секрет означает закрытый отказ, а не пропуск проверки
	if len(a.secret) == 0 {
		return apperrors.ErrInvalidSignature
	}

	got := strings.TrimSpace(r.Header.Get(HeaderSignature))
	if got == "" {
		return apperrors.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, a.secret)
	mac.Write(r.Body)
	expected := hex.EncodeToString(mac.Sum(nil))

	// Hex-дайджест сравнивается без учета регистра
	if !equalConstantTime(strings.ToLower(got), expected) {
		return apperrors.ErrInvalidSignature
	}
	return nil
}

// Digest возвращает hex-дайджест тела; используется в тестах и диагностике
func (a *HMACSignature) Digest(body []byte) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func equalConstantTime(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
