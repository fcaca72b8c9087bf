package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"katok/internal/config"
)

const keyPrefix = "dedup:payment:"

// Store подавляет повторную доставку одного и того же уведомления.
// Платежные провайдеры передоставляют вебхук при таймауте; без записи
// о первой обработке покупатель получил бы два письма.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore подключается к Redis и проверяет соединение при старте
func NewStore(cfg config.DedupConfig) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: rdb, ttl: cfg.TTL}, nil
}

// NewStoreWithClient оборачивает готовый клиент; используется в тестах
func NewStoreWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// MarkProcessed атомарно помечает платеж обработанным. Возвращает true,
// если платеж виден впервые. Запись короткоживущая - это не журнал событий,
// а защита от передоставки в окне ретраев провайдера.
func (s *Store) MarkProcessed(ctx context.Context, paymentID string) (bool, error) {
	first, err := s.client.SetNX(ctx, keyPrefix+paymentID, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup store error: %w", err)
	}
	return first, nil
}

// Forget освобождает ключ идемпотентности. Вызывается при неудачной
// обработке, чтобы передоставка провайдера не была подавлена.
func (s *Store) Forget(ctx context.Context, paymentID string) error {
	if err := s.client.Del(ctx, keyPrefix+paymentID).Err(); err != nil {
		return fmt.Errorf("dedup store error: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
