package random

import (
	"math/rand"
	"time"
)

// Jitter returns a random delay in [0, max].
// Example: Jitter(10*time.Minute) might return 3m41s
func Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	// Whole seconds keep log output readable
	seconds := int64(max / time.Second)
	if seconds == 0 {
		return time.Duration(rand.Int63n(int64(max) + 1))
	}

	return time.Duration(rand.Int63n(seconds+1)) * time.Second
}
