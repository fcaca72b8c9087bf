package schedule

import (
	"fmt"
	"sync"
	"time"

	apperrors "katok/internal/errors"
)

// Slot - фиксированное окно сеанса катания
type Slot struct {
	Start    string
	End      string
	Duration time.Duration
}

// Schedule - неизменяемое недельное расписание сеансов плюс счетчики
// проданных билетов по сеансам. Таблица строится один раз при старте
// и безопасна для конкурентного чтения; счетчики защищены мьютексом.
type Schedule struct {
	days map[string][]Slot
	cap  int

	mu   sync.Mutex
	sold map[string]int
}

// Недельное расписание катка. Поиск только по точному совпадению
// дня и времени начала, никакого нечеткого сопоставления.
var weekly = map[string][]Slot{
	"Monday":    weekdaySlots(),
	"Tuesday":   weekdaySlots(),
	"Wednesday": weekdaySlots(),
	"Thursday":  weekdaySlots(),
	"Friday":    weekdaySlots(),
	"Saturday":  weekendSlots(),
	"Sunday":    weekendSlots(),
}

func weekdaySlots() []Slot {
	return []Slot{
		{Start: "10:00", End: "11:00", Duration: time.Hour},
		{Start: "12:00", End: "13:00", Duration: time.Hour},
		{Start: "14:00", End: "15:00", Duration: time.Hour},
		{Start: "16:00", End: "17:00", Duration: time.Hour},
		{Start: "18:00", End: "19:00", Duration: time.Hour},
		{Start: "20:00", End: "21:00", Duration: time.Hour},
	}
}

func weekendSlots() []Slot {
	return []Slot{
		{Start: "10:00", End: "11:00", Duration: time.Hour},
		{Start: "11:30", End: "12:30", Duration: time.Hour},
		{Start: "13:00", End: "14:00", Duration: time.Hour},
		{Start: "14:30", End: "15:30", Duration: time.Hour},
		{Start: "16:00", End: "17:00", Duration: time.Hour},
		{Start: "17:30", End: "18:30", Duration: time.Hour},
		{Start: "19:00", End: "20:00", Duration: time.Hour},
		{Start: "20:30", End: "21:30", Duration: time.Hour},
	}
}

// New создает расписание с лимитом билетов на один сеанс
func New(maxTicketsPerSession int) *Schedule {
	return &Schedule{
		days: weekly,
		cap:  maxTicketsPerSession,
		sold: make(map[string]int),
	}
}

// Lookup ищет сеанс по точному совпадению дня и времени начала
func (s *Schedule) Lookup(day, start string) (Slot, bool) {
	for _, slot := range s.days[day] {
		if slot.Start == start {
			return slot, true
		}
	}
	return Slot{}, false
}

// Days возвращает количество дней в расписании
func (s *Schedule) Days() int {
	return len(s.days)
}

// Reserve учитывает продажу билетов на сеанс. Возвращает ошибку, когда
// лимит сеанса был бы превышен. Счетчики живут до перезапуска процесса.
func (s *Schedule) Reserve(day, start string, quantity int) error {
	if _, ok := s.Lookup(day, start); !ok {
		return fmt.Errorf("%w: %s %s", apperrors.ErrInvalidSession, day, start)
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	key := day + "-" + start

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sold[key]+quantity > s.cap {
		return fmt.Errorf("%w: %s", apperrors.ErrSoldOut, key)
	}
	s.sold[key] += quantity
	return nil
}

// Release откатывает резерв, когда создание платежа не удалось
func (s *Schedule) Release(day, start string, quantity int) {
	key := day + "-" + start

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sold[key] -= quantity
	if s.sold[key] < 0 {
		s.sold[key] = 0
	}
}

// Sold возвращает количество проданных билетов на сеанс
func (s *Schedule) Sold(day, start string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sold[day+"-"+start]
}
