package random

import (
	"testing"
	"time"
)

func TestJitter(t *testing.T) {
	tests := []struct {
		name    string
		max     time.Duration
		wantMax time.Duration
	}{
		{"10 minutes", 10 * time.Minute, 10 * time.Minute},
		{"1 second", time.Second, time.Second},
		{"sub-second", 500 * time.Millisecond, 500 * time.Millisecond},
		{"zero", 0, 0},
		{"negative", -time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to check range
			for i := 0; i < 100; i++ {
				result := Jitter(tt.max)

				if result < 0 || result > tt.wantMax {
					t.Errorf("Jitter(%v) = %v, want range [0, %v]",
						tt.max, result, tt.wantMax)
				}
			}
		})
	}
}

func TestJitter_WholeSeconds(t *testing.T) {
	for i := 0; i < 100; i++ {
		result := Jitter(5 * time.Minute)
		if result%time.Second != 0 {
			t.Fatalf("Jitter(5m) = %v, want whole seconds", result)
		}
	}
}
