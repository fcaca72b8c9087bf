package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "katok/internal/errors"
)

func TestLookup(t *testing.T) {
	s := New(50)

	slot, ok := s.Lookup("Monday", "10:00")
	assert.True(t, ok)
	assert.Equal(t, "10:00", slot.Start)
	assert.Equal(t, "11:00", slot.End)

	// Выходные имеют собственную сетку
	slot, ok = s.Lookup("Saturday", "11:30")
	assert.True(t, ok)
	assert.Equal(t, "12:30", slot.End)

	assert.Equal(t, 7, s.Days())
}

func TestLookupExactMatchOnly(t *testing.T) {
	s := New(50)

	// Никакого нечеткого сопоставления: ни регистр, ни формат времени
	cases := [][2]string{
		{"Monday", "10:30"},
		{"Monday", "10"},
		{"monday", "10:00"},
		{"Пн", "10:00"},
		{"Funday", "10:00"},
		{"", ""},
	}
	for _, c := range cases {
		_, ok := s.Lookup(c[0], c[1])
		assert.False(t, ok, "unexpected session for %q %q", c[0], c[1])
	}
}

func TestReserve(t *testing.T) {
	s := New(5)

	assert.NoError(t, s.Reserve("Monday", "10:00", 3))
	assert.Equal(t, 3, s.Sold("Monday", "10:00"))

	// Лимит сеанса не превышается
	err := s.Reserve("Monday", "10:00", 3)
	assert.ErrorIs(t, err, apperrors.ErrSoldOut)
	assert.Equal(t, 3, s.Sold("Monday", "10:00"))

	assert.NoError(t, s.Reserve("Monday", "10:00", 2))

	// Другой сеанс считается отдельно
	assert.NoError(t, s.Reserve("Monday", "12:00", 5))
}

func TestReserveUnknownSession(t *testing.T) {
	s := New(5)
	assert.ErrorIs(t, s.Reserve("Monday", "09:00", 1), apperrors.ErrInvalidSession)
}

func TestRelease(t *testing.T) {
	s := New(5)

	assert.NoError(t, s.Reserve("Friday", "18:00", 4))
	s.Release("Friday", "18:00", 4)
	assert.Equal(t, 0, s.Sold("Friday", "18:00"))

	// Освобождение не уводит счетчик в минус
	s.Release("Friday", "18:00", 10)
	assert.Equal(t, 0, s.Sold("Friday", "18:00"))
	assert.NoError(t, s.Reserve("Friday", "18:00", 5))
}
