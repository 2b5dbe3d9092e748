package chain

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// EIP-712 domain constants shared by every signed trade message. The
// verifying contract is the per-market offchain book and is resolved from
// venue configuration at call time.
const (
	EIP712DomainName    = "FOUNDATION"
	EIP712DomainVersion = "0.1.0"
	EIP712DomainChainID = 1
)

var eip712DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// Domain builds the signing domain bound to a market's offchain book
// contract.
func Domain(chainID int64, offchainBook common.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              EIP712DomainName,
		Version:           EIP712DomainVersion,
		ChainId:           math.NewHexOrDecimal256(chainID),
		VerifyingContract: offchainBook.Hex(),
	}
}

// Side is the order side. It is encoded into signed payloads as the sign of
// the amount, never as a separate field.
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// SignedAmount applies the side-as-sign convention: ask amounts are
// negative, bid amounts positive. This is the only place the mapping lives.
func SignedAmount(side Side, amount *big.Int) *big.Int {
	if side == SideAsk {
		return new(big.Int).Neg(amount)
	}
	return new(big.Int).Set(amount)
}

// PerpOrder holds the signable fields of a perpetual order placement.
type PerpOrder struct {
	Subaccount AccountID
	Price      *big.Int // 18-decimal fixed point
	Amount     *big.Int // 18-decimal fixed point, negative for ask
	Nonce      uint64
	Expiration uint64 // encoded order flag, see EncodeFlag
	// TriggerCondition is reserved for conditional orders; nil means 0.
	TriggerCondition *big.Int
}

// TypedData builds the EIP-712 structure for the order.
func (o *PerpOrder) TypedData(domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"Order": {
				{Name: "subaccount", Type: "bytes32"},
				{Name: "price", Type: "int256"},
				{Name: "amount", Type: "int256"},
				{Name: "nonce", Type: "uint64"},
				{Name: "expiration", Type: "uint64"},
				{Name: "triggerCondition", Type: "uint128"},
			},
		},
		PrimaryType: "Order",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"subaccount":       string(o.Subaccount),
			"price":            o.Price.String(),
			"amount":           o.Amount.String(),
			"nonce":            strconv.FormatUint(o.Nonce, 10),
			"expiration":       strconv.FormatUint(o.Expiration, 10),
			"triggerCondition": orZero(o.TriggerCondition).String(),
		},
	}
}

// PerpCancel holds the signable fields of a single-order cancellation on
// the perpetual venue, which keys orders by account and order id alone.
type PerpCancel struct {
	Subaccount AccountID
	Nonce      uint64
	OrderID    uint64
}

// TypedData builds the EIP-712 structure for the cancellation.
func (c *PerpCancel) TypedData(domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"Cancel": {
				{Name: "subaccount", Type: "bytes32"},
				{Name: "nonce", Type: "uint64"},
				{Name: "orderId", Type: "uint64"},
			},
		},
		PrimaryType: "Cancel",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"subaccount": string(c.Subaccount),
			"nonce":      strconv.FormatUint(c.Nonce, 10),
			"orderId":    strconv.FormatUint(c.OrderID, 10),
		},
	}
}

// SpotCancel holds the signable fields of a single-order cancellation on
// the spot venue, which supports multiple markets per account and so
// carries the market id.
type SpotCancel struct {
	AccountID AccountID
	MarketID  uint64
	Nonce     uint64
	OrderID   uint64
}

// TypedData builds the EIP-712 structure for the cancellation.
func (c *SpotCancel) TypedData(domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"Cancel": {
				{Name: "accountId", Type: "bytes32"},
				{Name: "marketId", Type: "uint64"},
				{Name: "nonce", Type: "uint64"},
				{Name: "orderId", Type: "uint64"},
			},
		},
		PrimaryType: "Cancel",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"accountId": string(c.AccountID),
			"marketId":  strconv.FormatUint(c.MarketID, 10),
			"nonce":     strconv.FormatUint(c.Nonce, 10),
			"orderId":   strconv.FormatUint(c.OrderID, 10),
		},
	}
}

// CancelAll holds the signable fields of a cancel-all-orders request for
// one market. It carries no price or amount fields.
type CancelAll struct {
	AccountID AccountID
	MarketID  uint64
	Nonce     uint64
}

// TypedData builds the EIP-712 structure for the cancel-all request.
func (c *CancelAll) TypedData(domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"CancelAll": {
				{Name: "accountId", Type: "bytes32"},
				{Name: "marketId", Type: "uint64"},
				{Name: "nonce", Type: "uint64"},
			},
		},
		PrimaryType: "CancelAll",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"accountId": string(c.AccountID),
			"marketId":  strconv.FormatUint(c.MarketID, 10),
			"nonce":     strconv.FormatUint(c.Nonce, 10),
		},
	}
}

// SpotOrder holds the signable fields of a spot order placement. Spot
// markets are identified by their base/quote asset id pair.
type SpotOrder struct {
	AccountID  AccountID
	Base       uint64
	Quote      uint64
	PriceX18   *big.Int
	Amount     *big.Int // 18-decimal fixed point, negative for ask
	Expiration uint64   // encoded order flag
	Nonce      uint64
	// TriggerCondition is reserved for conditional orders; nil means 0.
	TriggerCondition *big.Int
}

// TypedData builds the EIP-712 structure for the order.
func (o *SpotOrder) TypedData(domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"Order": {
				{Name: "accountId", Type: "bytes32"},
				{Name: "base", Type: "uint64"},
				{Name: "quote", Type: "uint64"},
				{Name: "priceX18", Type: "int128"},
				{Name: "amount", Type: "int128"},
				{Name: "expiration", Type: "uint64"},
				{Name: "nonce", Type: "uint64"},
				{Name: "triggerCondition", Type: "uint128"},
			},
		},
		PrimaryType: "Order",
		Domain:      domain,
		Message: apitypes.TypedDataMessage{
			"accountId":        string(o.AccountID),
			"base":             strconv.FormatUint(o.Base, 10),
			"quote":            strconv.FormatUint(o.Quote, 10),
			"priceX18":         o.PriceX18.String(),
			"amount":           o.Amount.String(),
			"expiration":       strconv.FormatUint(o.Expiration, 10),
			"nonce":            strconv.FormatUint(o.Nonce, 10),
			"triggerCondition": orZero(o.TriggerCondition).String(),
		},
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}
