package chain

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidNonceRange is returned when a nonce low-bit range is empty,
// negative, or does not fit the 20 low bits.
var ErrInvalidNonceRange = errors.New("invalid nonce range")

// Low-bit ranges used when minting nonces. The perpetual venue draws from
// [0, 10000), the spot venue from [1000, 30000).
const (
	PerpNonceMin = 0
	PerpNonceMax = 10000
	SpotNonceMin = 1000
	SpotNonceMax = 30000
)

// nonceLowBits is how many bits of the nonce the random draw may occupy.
const nonceLowBits = 20

// NewNonce mints an anti-replay nonce using the perpetual venue's low-bit
// range.
func NewNonce() uint64 {
	nonce, _ := NewNonceInRange(PerpNonceMin, PerpNonceMax)
	return nonce
}

// NewNonceInRange mints an anti-replay nonce for a signed trade message:
// (unix-millis + 20s) << 20 | random low bits drawn from [lo, hi). The high
// bits track wall-clock time with a fixed forward skew; the low bits only
// reduce collision probability, they do not guarantee uniqueness. The range
// must be non-empty, non-negative and fit the 20 low bits.
func NewNonceInRange(lo, hi int64) (uint64, error) {
	if lo < 0 || hi <= lo || hi > 1<<nonceLowBits {
		return 0, fmt.Errorf("%w: [%d, %d)", ErrInvalidNonceRange, lo, hi)
	}
	ms := time.Now().UnixMilli() + 20_000
	return uint64(ms)<<nonceLowBits | uint64(lo+rand.Int63n(hi-lo)), nil
}
