package foundation

import "errors"

var (
	// ErrUnknownTicker is returned when a ticker is not present in the
	// fetched market or asset list.
	ErrUnknownTicker = errors.New("unknown ticker")

	// ErrUnknownMarket is returned when a market id or symbol cannot be
	// resolved after a config fetch.
	ErrUnknownMarket = errors.New("unknown market")

	// ErrEmptyOrderBook is returned when a market order cannot derive a
	// price because the opposing book side is empty. The call is not
	// retried; the caller must re-issue.
	ErrEmptyOrderBook = errors.New("market order expired due to empty order book")

	// ErrConfigUnavailable is returned when the venue signing config has
	// not been resolved and cannot be fetched.
	ErrConfigUnavailable = errors.New("venue signing config unavailable")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}
