package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Account identifier encoding errors
var (
	ErrInvalidProductType        = errors.New("invalid product type")
	ErrBrokerIDOutOfRange        = errors.New("broker id out of range")
	ErrSubaccountIndexOutOfRange = errors.New("subaccount index out of range")
)

// ProductType tags which venue ledger an account belongs to.
type ProductType int

const (
	ProductTypeUnknown ProductType = iota
	ProductTypePerpetual
	ProductTypeSpot
)

// AccountID is a bytes32 value encoded as a 0x-prefixed 64-character hex
// string. The low 12 bytes are decimal digits (broker id, product type and
// subaccount index), which happen to be valid hex, so the whole identifier
// parses as bytes32.
type AccountID string

const (
	maxBrokerID        = 99999999 // 8 decimal digits
	maxSubaccountIndex = 9999     // 4 decimal digits

	// Fixed product segment used by the perpetual derivation rule. Equals
	// the "0000" filler plus ProductTypePerpetual padded to 8 digits, so
	// both encodings coincide for perpetual accounts.
	perpetualProductSegment = "000000000001"
)

// BuildAccountID derives the venue account identifier for a wallet address:
// address (20 bytes) + broker id padded to 8 decimal digits + a 4-zero
// filler + product type padded to 8 digits + subaccount index padded to 4
// digits. The result is deterministic: identical inputs always produce a
// byte-identical identifier.
func BuildAccountID(address common.Address, product ProductType, brokerID, subaccountIndex int) (AccountID, error) {
	if product != ProductTypeUnknown && product != ProductTypePerpetual && product != ProductTypeSpot {
		return "", fmt.Errorf("%w: %d", ErrInvalidProductType, product)
	}
	if err := checkIDRanges(brokerID, subaccountIndex); err != nil {
		return "", err
	}

	return AccountID(fmt.Sprintf("%s%08d0000%08d%04d",
		strings.ToLower(address.Hex()), brokerID, product, subaccountIndex)), nil
}

// BuildPerpetualAccountID derives an account identifier using the perpetual
// venue's derivation rule, which hard-codes the 12-digit product segment
// instead of taking a product type parameter. For perpetual accounts it is
// byte-identical to BuildAccountID with ProductTypePerpetual.
func BuildPerpetualAccountID(address common.Address, brokerID, subaccountIndex int) (AccountID, error) {
	if err := checkIDRanges(brokerID, subaccountIndex); err != nil {
		return "", err
	}

	return AccountID(fmt.Sprintf("%s%08d%s%04d",
		strings.ToLower(address.Hex()), brokerID, perpetualProductSegment, subaccountIndex)), nil
}

// checkIDRanges rejects values that would not fit their fixed digit widths
// and would otherwise silently produce a misaligned identifier.
func checkIDRanges(brokerID, subaccountIndex int) error {
	if brokerID < 0 || brokerID > maxBrokerID {
		return fmt.Errorf("%w: %d", ErrBrokerIDOutOfRange, brokerID)
	}
	if subaccountIndex < 0 || subaccountIndex > maxSubaccountIndex {
		return fmt.Errorf("%w: %d", ErrSubaccountIndexOutOfRange, subaccountIndex)
	}
	return nil
}
