package errors

import "errors"

// Ошибки конвейера обработки вебхука. Каждая соответствует ровно одному HTTP статусу.
var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedBody    = errors.New("malformed request body")
	ErrUnsupportedEvent = errors.New("unsupported event type")
	ErrMissingEmail     = errors.New("email not found in payment details")
	ErrMissingField     = errors.New("missing required ticket field")
	ErrInvalidSession   = errors.New("no session matches requested day and time")
	ErrSoldOut          = errors.New("no tickets left for requested session")
	ErrRenderFailed     = errors.New("failed to render ticket artifact")
	ErrDeliveryFailed   = errors.New("failed to deliver confirmation email")
	ErrPaymentsDisabled = errors.New("payment creation is not configured")
)
