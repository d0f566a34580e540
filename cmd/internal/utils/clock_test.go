package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"9:05", 545},
		{"12:30:45", 750},
		{"23:59", 1439},
		{"", 0},
		{"abc", 0},
		{"12", 0},
		{"12:3", 0},
		{"24:00", 0},
		{"10:60", 0},
		{"1:2:3:4", 0},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ToMinutes(tc.in))
		})
	}
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock(" 07:15 ")
	require.NoError(t, err)
	assert.Equal(t, 435, minutes)

	_, err = ParseClock("")
	assert.ErrorIs(t, err, ErrInvalidClock)

	_, err = ParseClock("-1:00")
	assert.ErrorIs(t, err, ErrInvalidClock)

	_, err = ParseClock("10:00:6")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestFormatAndNormalizeClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))

	norm, err := NormalizeClock("9:05:00")
	require.NoError(t, err)
	assert.Equal(t, "09:05", norm)

	_, err = NormalizeClock("nine")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	type req struct {
		Name  string
		Notes *string
		Tags  []string
		Count int
	}
	notes := "  hi  "
	r := &req{Name: "  Escola ", Notes: &notes, Tags: []string{" a", "b "}, Count: 3}

	Sanitize(r)

	assert.Equal(t, "Escola", r.Name)
	assert.Equal(t, "hi", *r.Notes)
	assert.Equal(t, []string{"a", "b"}, r.Tags)
	assert.Equal(t, 3, r.Count)

	assert.Panics(t, func() { Sanitize(*r) })
}
