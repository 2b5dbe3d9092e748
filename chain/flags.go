package chain

import (
	"errors"
	"fmt"
)

// Order flag encoding errors
var (
	ErrInvalidTimeInForce       = errors.New("invalid time in force")
	ErrInvalidSelfTradeBehavior = errors.New("invalid self trade behavior")
	ErrExpiresAtOutOfRange      = errors.New("expires_at out of range")
)

// TimeInForce is the execution lifetime policy of an order.
type TimeInForce string

const (
	TimeInForceDefault           TimeInForce = "default"
	TimeInForceImmediateOrCancel TimeInForce = "immediate_or_cancel"
	TimeInForceFillOrKill        TimeInForce = "fill_or_kill"
	TimeInForcePostOnly          TimeInForce = "post_only"
)

// SelfTradeBehavior is the policy applied when an incoming order would match
// against the same account's resting order.
type SelfTradeBehavior string

const (
	// cancel the maker order and continue to fill taker
	SelfTradeCancelProvide SelfTradeBehavior = "cancel_provide"
	// cancel the remaining of the taker, stop filling
	SelfTradeDecreaseTake SelfTradeBehavior = "decrease_take"
	// abort the fill process, revert all filled and force cancel the maker order
	SelfTradeExpireBoth SelfTradeBehavior = "expire_both"
	// allow self trade
	SelfTradeFill SelfTradeBehavior = "fill"
)

// The index of a value in these orderings is what gets packed into the
// encoded flag, so the order is part of the wire format.
var (
	timeInForces = []TimeInForce{
		TimeInForceDefault,
		TimeInForceImmediateOrCancel,
		TimeInForceFillOrKill,
		TimeInForcePostOnly,
	}
	selfTradeBehaviors = []SelfTradeBehavior{
		SelfTradeCancelProvide,
		SelfTradeDecreaseTake,
		SelfTradeExpireBoth,
		SelfTradeFill,
	}
)

// OrderFlag carries the execution policy of an order. The zero value of a
// field means "use the default", so a partially filled OrderFlag can be
// overlaid onto DefaultOrderFlag via WithDefaults.
type OrderFlag struct {
	TimeInForce       TimeInForce       `json:"time_in_force"`
	SelfTradeBehavior SelfTradeBehavior `json:"self_trade_behavior"`
	ReduceOnly        bool              `json:"reduce_only"`
	// ExpiresAt is a unix timestamp in seconds; 0 means no expiry.
	ExpiresAt     int64 `json:"expires_at"`
	IsMarketOrder bool  `json:"is_market_order"`
}

// DefaultOrderFlag returns the venue default execution policy.
func DefaultOrderFlag() OrderFlag {
	return OrderFlag{
		TimeInForce:       TimeInForceDefault,
		SelfTradeBehavior: SelfTradeCancelProvide,
		ReduceOnly:        false,
		ExpiresAt:         0,
		IsMarketOrder:     false,
	}
}

// WithDefaults fills unset enum fields with their defaults.
func (f OrderFlag) WithDefaults() OrderFlag {
	if f.TimeInForce == "" {
		f.TimeInForce = TimeInForceDefault
	}
	if f.SelfTradeBehavior == "" {
		f.SelfTradeBehavior = SelfTradeCancelProvide
	}
	return f
}

// ExpiresAt may use at most 58 bits of the encoded flag.
const maxExpiresAt = 1<<58 - 1

// EncodeFlag packs an OrderFlag into the 64-bit expiration field of a signed
// order. Bit layout, MSB first: bits 63-62 time-in-force index, bit 61
// reduce-only, bit 60 is-market-order, bits 59-58 self-trade-behavior index,
// bits 57-0 expires-at. Enum values outside the fixed orderings and
// expires-at values that do not fit 58 bits are rejected.
func EncodeFlag(flag OrderFlag) (uint64, error) {
	tif := indexOf(timeInForces, flag.TimeInForce)
	if tif < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeInForce, flag.TimeInForce)
	}
	stb := indexOf(selfTradeBehaviors, flag.SelfTradeBehavior)
	if stb < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelfTradeBehavior, flag.SelfTradeBehavior)
	}
	if flag.ExpiresAt < 0 || flag.ExpiresAt > maxExpiresAt {
		return 0, fmt.Errorf("%w: %d", ErrExpiresAtOutOfRange, flag.ExpiresAt)
	}

	var reduceOnly, isMarket uint64
	if flag.ReduceOnly {
		reduceOnly = 1
	}
	if flag.IsMarketOrder {
		isMarket = 1
	}

	return uint64(tif)<<62 |
		reduceOnly<<61 |
		isMarket<<60 |
		uint64(stb)<<58 |
		uint64(flag.ExpiresAt), nil
}

// DecodeFlag is the exact inverse of EncodeFlag.
func DecodeFlag(encoded uint64) OrderFlag {
	return OrderFlag{
		TimeInForce:       timeInForces[encoded>>62&0x3],
		ReduceOnly:        encoded>>61&0x1 == 1,
		IsMarketOrder:     encoded>>60&0x1 == 1,
		SelfTradeBehavior: selfTradeBehaviors[encoded>>58&0x3],
		ExpiresAt:         int64(encoded & maxExpiresAt),
	}
}

func indexOf[T comparable](values []T, value T) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
