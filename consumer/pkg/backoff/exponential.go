package backoff

import (
	"math/rand/v2"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
)

// MaxRetryDelay caps the computed delay regardless of attempt.
const MaxRetryDelay = 5 * time.Minute

// jitterFunc returns a value in [0, 1). Replaced in tests.
var jitterFunc = rand.Float64

// CalculateRetryDelay returns base*2^(attempt-1) with +/-50% jitter, capped at
// MaxRetryDelay. The first attempt and a non-positive base have no delay.
func CalculateRetryDelay(attempt int, base time.Duration) time.Duration {
	if attempt <= 1 || base <= 0 {
		return 0
	}

	delay := base
	for i := 1; i < attempt && delay < MaxRetryDelay; i++ {
		delay *= 2
	}
	if delay > MaxRetryDelay {
		delay = MaxRetryDelay
	}

	spread := float64(delay) * 0.5
	delay += time.Duration(jitterFunc()*2*spread - spread)
	if delay < 0 {
		return 0
	}
	if delay > MaxRetryDelay {
		return MaxRetryDelay
	}
	return delay
}

// CalculateRetryDelayFromConfig uses BACKOFF_BASE_DELAY_MS as the base.
func CalculateRetryDelayFromConfig(attempt int) time.Duration {
	base := time.Duration(configs.GetConfig().BackoffBaseDelay) * time.Millisecond
	return CalculateRetryDelay(attempt, base)
}
