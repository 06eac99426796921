package cache

import (
	"testing"
	"time"
)

func TestTimeUntilNext(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load Asia/Tokyo timezone: %v", err)
	}

	tests := []struct {
		name     string
		now      time.Time
		hour     int
		expected time.Duration
	}{
		{
			name:     "before refresh hour",
			now:      time.Date(2025, 1, 10, 6, 30, 0, 0, tokyo),
			hour:     8,
			expected: 90 * time.Minute,
		},
		{
			name:     "after refresh hour rolls to tomorrow",
			now:      time.Date(2025, 1, 10, 9, 0, 0, 0, tokyo),
			hour:     8,
			expected: 23 * time.Hour,
		},
		{
			name:     "exactly at refresh hour rolls to tomorrow",
			now:      time.Date(2025, 1, 10, 8, 0, 0, 0, tokyo),
			hour:     8,
			expected: 24 * time.Hour,
		},
		{
			name:     "now given in another zone",
			now:      time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC), // 07:00 JST
			hour:     8,
			expected: time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TimeUntilNext(tt.now, tt.hour, tokyo); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUntilNextRefresh_AlwaysPositive(t *testing.T) {
	t.Parallel()

	ttl := UntilNextRefresh(8, time.UTC)
	for i := 0; i < 10; i++ {
		d := ttl()
		if d <= 0 || d > 24*time.Hour {
			t.Errorf("iteration %d: expected duration in (0, 24h], got %v", i, d)
		}
	}
}
