package foundation

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// X18Decimals is the fixed-point precision of prices and amounts in signed
// payloads.
const X18Decimals = 18

// ParseX18 converts a decimal string into its 18-decimal fixed-point
// integer form, truncating anything beyond 18 fractional digits.
func ParseX18(value string) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid decimal value: %s", value)}
	}

	return d.Shift(X18Decimals).Truncate(0).BigInt(), nil
}

// FormatX18 converts an 18-decimal fixed-point integer back to its decimal
// string form.
func FormatX18(value *big.Int) string {
	return decimal.NewFromBigInt(value, -X18Decimals).String()
}
