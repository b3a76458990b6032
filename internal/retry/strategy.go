package retry

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"
)

// Strategy decides how long to sleep before the next attempt. The second
// return value is true when the attempt budget is exhausted.
type Strategy interface {
	Sleep(retryCount uint) (time.Duration, bool)
}

type never struct{}

// NewNever returns a strategy that never allows a retry.
func NewNever() *never {
	return &never{}
}

func (n *never) Sleep(retryCount uint) (time.Duration, bool) {
	return 0, true
}

// Entropy injects jitter; tests pass the identity function for determinism.
type Entropy func(int64) int64

type exponentialBackOff struct {
	base          time.Duration
	max           time.Duration
	maxRetryCount uint
	entropy       Entropy
}

// NewExponentialBackOff doubles the delay per attempt starting from base,
// capped at max, jittered by entropy, for at most maxRetryCount attempts.
func NewExponentialBackOff(base time.Duration, max time.Duration, maxRetryCount uint, entropy Entropy) *exponentialBackOff {
	return &exponentialBackOff{
		base:          base,
		max:           max,
		maxRetryCount: maxRetryCount,
		entropy:       entropy,
	}
}

func (eb *exponentialBackOff) Sleep(retryCount uint) (time.Duration, bool) {
	if retryCount >= eb.maxRetryCount {
		return 0, true
	}

	entropy := eb.entropy
	if entropy == nil {
		entropy = rand.Int63n
	}

	if retryCount >= 63 {
		return time.Duration(entropy(int64(eb.max))), false
	}

	delay, err := checkedMulInt64(1<<retryCount, int64(eb.base))
	if err != nil {
		return time.Duration(entropy(int64(eb.max))), false
	}
	return time.Duration(entropy(minOf(delay, int64(eb.max)))), false
}

func minOf[T constraints.Ordered](l T, r T) T {
	if l > r {
		return r
	}
	return l
}

var OverflowError = errors.New("overflow")

func checkedMulInt64(l int64, r int64) (int64, error) {
	if l == 0 || r == 0 {
		return l * r, nil
	}
	if l > math.MaxInt64/r {
		return 0, OverflowError
	}
	return l * r, nil
}
