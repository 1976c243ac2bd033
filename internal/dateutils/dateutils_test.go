package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expect    time.Time
		expectErr bool
	}{
		{
			name:   "iso with seconds",
			input:  "2024-03-01T10:00:05",
			expect: time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC),
		},
		{
			name:   "space separated",
			input:  "2024-03-01 10:00:05",
			expect: time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC),
		},
		{
			name:   "iso minutes only",
			input:  "2024-03-01T10:00",
			expect: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "date only",
			input:  "2024-03-01",
			expect: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "rfc3339 with zone",
			input:  "2024-03-01T10:00:05Z",
			expect: time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC),
		},
		{
			name:   "surrounding whitespace",
			input:  "  2024-03-01  ",
			expect: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: "", expectErr: true},
		{name: "garbage", input: "not a timestamp", expectErr: true},
		{name: "wrong order", input: "01-03-2024", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expect), "got %v, want %v", got, tt.expect)
		})
	}
}

func TestWithinWindow(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		other  time.Time
		window time.Duration
		expect bool
	}{
		{name: "inside", other: base.Add(20 * time.Second), window: 30 * time.Second, expect: true},
		{name: "boundary inclusive", other: base.Add(30 * time.Second), window: 30 * time.Second, expect: true},
		{name: "outside", other: base.Add(31 * time.Second), window: 30 * time.Second, expect: false},
		{name: "symmetric", other: base.Add(-20 * time.Second), window: 30 * time.Second, expect: true},
		{name: "same instant", other: base, window: 0, expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, WithinWindow(base, tt.other, tt.window))
			assert.Equal(t, tt.expect, WithinWindow(tt.other, base, tt.window))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 3, 1, 17, 42, 13, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}

func TestDaysBack(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), DaysBack(now, 7))
}
