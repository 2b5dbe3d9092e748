package foundation

import "github.com/foundation-network/foundation-go/chain"

// OrderStatus is the lifecycle state of an order as reported by the venue.
type OrderStatus string

const (
	OrderStatusPlaced              OrderStatus = "placed"
	OrderStatusFilled              OrderStatus = "filled"
	OrderStatusPartialFilled       OrderStatus = "partial_filled"
	OrderStatusCanceled            OrderStatus = "canceled"
	OrderStatusConditionalCanceled OrderStatus = "conditional_canceled"
)

// OrderTag classifies how an order entered the book.
type OrderTag string

const (
	OrderTagLimit      OrderTag = "limit"
	OrderTagMarket     OrderTag = "market"
	OrderTagStopLoss   OrderTag = "stop_loss"
	OrderTagTakeProfit OrderTag = "take_profit"
)

// Level is one order book level: [price, size, extra], best price first in
// its list. All values are decimal strings.
type Level []string

// Price returns the level's price, or "" for a malformed level.
func (l Level) Price() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// Depth is an order book snapshot.
type Depth struct {
	Asks   []Level `json:"asks"`
	Bids   []Level `json:"bids"`
	Symbol string  `json:"symbol"`
}

// MarketConfig describes one open perpetual market.
type MarketConfig struct {
	Symbol       string `json:"symbol"`
	Ticker       string `json:"ticker"`
	OffchainBook string `json:"offchain_book"`
	TickSize     string `json:"tick_size"`
	StepSize     string `json:"step_size"`
	MinAmount    string `json:"min_amount"`
}

// MarketState is the live state of one perpetual market.
type MarketState struct {
	Symbol            string `json:"symbol"`
	OpenInterest      string `json:"open_interest"`
	CumulativeFunding string `json:"cumulative_funding"`
	AvailableSettle   string `json:"available_settle"`
	NextFundingRate   string `json:"next_funding_rate"`
	MarkPrice         string `json:"mark_price"`
}

// Position is one perpetual position under an account.
type Position struct {
	BaseAmount            string `json:"base_amount"`
	QuoteAmount           string `json:"quote_amount"`
	LastCumulativeFunding string `json:"last_cumulative_funding"`
	FrozenInBidOrder      string `json:"frozen_in_bid_order"`
	FrozenInAskOrder      string `json:"frozen_in_ask_order"`
	UnsettledPnl          string `json:"unsettled_pnl"`
	IsSettlePending       bool   `json:"is_settle_pending"`
}

// AccountInfo is the perpetual account state: positions keyed by market
// symbol, plus collateral.
type AccountInfo struct {
	Positions            map[string]Position `json:"positions"`
	Collateral           string              `json:"collateral"`
	IsInLiquidationQueue bool                `json:"is_in_liquidation_queue"`
}

// PendingOrder is a resting order on the perpetual venue.
type PendingOrder struct {
	OrderID            uint64          `json:"order_id"`
	AccountID          chain.AccountID `json:"account_id"`
	Symbol             string          `json:"symbol"`
	Side               chain.Side      `json:"side"`
	CreateTimestamp    int64           `json:"create_timestamp"`
	Amount             string          `json:"amount"`
	Price              string          `json:"price"`
	Status             OrderStatus     `json:"status"`
	MatchedQuoteAmount string          `json:"matched_quote_amount"`
	MatchedBaseAmount  string          `json:"matched_base_amount"`
	QuoteFee           string          `json:"quote_fee"`
	Nonce              uint64          `json:"nonce"`
	Expiration         chain.OrderFlag `json:"expiration"`
	TriggerCondition   *string         `json:"trigger_condition"`
	IsTriggered        bool            `json:"is_triggered"`
	Signature          string          `json:"signature"`
	Signer             *string         `json:"signer"`
	Hash               string          `json:"hash"`
	HasDependency      bool            `json:"has_dependency"`
	Tag                OrderTag        `json:"tag"`
}

// FeeTier is one maker/taker fee pair.
type FeeTier struct {
	TakerFee string `json:"taker_fee"`
	MakerFee string `json:"maker_fee"`
}

// SpotPendingOrder is a resting order on the spot venue. The spot protocol
// splits fees into system and broker components and reports fee tiers; it
// is a distinct wire schema from the perpetual PendingOrder, not a variant
// of it.
type SpotPendingOrder struct {
	MarketID           int             `json:"market_id"`
	OrderID            uint64          `json:"order_id"`
	AccountID          chain.AccountID `json:"account_id"`
	Side               chain.Side      `json:"side"`
	Price              string          `json:"price"`
	Amount             string          `json:"amount"`
	Status             OrderStatus     `json:"status"`
	MatchedQuoteAmount string          `json:"matched_quote_amount"`
	MatchedBaseAmount  string          `json:"matched_base_amount"`
	SystemQuoteFee     string          `json:"system_quote_fee"`
	SystemBaseFee      string          `json:"system_base_fee"`
	BrokerQuoteFee     string          `json:"broker_quote_fee"`
	BrokerBaseFee      string          `json:"broker_base_fee"`
	Nonce              uint64          `json:"nonce"`
	Expiration         chain.OrderFlag `json:"expiration"`
	TriggerCondition   *string         `json:"trigger_condition"`
	CreatedAt          int64           `json:"created_at"`
	IsTriggered        bool            `json:"is_triggered"`
	Signature          string          `json:"signature"`
	Signer             *string         `json:"signer"`
	Tag                OrderTag        `json:"tag"`
	SystemFeeTier      FeeTier         `json:"system_fee_tier"`
	BrokerFeeTier      FeeTier         `json:"broker_fee_tier"`
}

// Balance is one spot asset balance.
type Balance struct {
	Available string `json:"available"`
	Frozen    string `json:"frozen"`
}

// SpotAccountInfo maps asset tickers to balances.
type SpotAccountInfo map[string]Balance

// AssetInfo describes one asset supported by the spot venue.
type AssetInfo struct {
	AssetID int    `json:"asset_id"`
	Name    string `json:"name"`
	Ticker  string `json:"ticker"`
}

// SpotMarket describes one spot trading pair.
type SpotMarket struct {
	ID               int    `json:"id"`
	Ticker           string `json:"ticker"`
	Base             int    `json:"base"`
	Quote            int    `json:"quote"`
	TickSize         string `json:"tick_size"`
	StepSize         string `json:"step_size"`
	AvailableFrom    int64  `json:"available_from"`
	MinVolume        string `json:"min_volume"`
	PriceFloor       string `json:"price_floor"`
	PriceCap         string `json:"price_cap"`
	UnavailableAfter *int64 `json:"unavailable_after"`
}

// SigningConfig is the venue's signing configuration: the offchain book
// contract orders are verified against, and the EIP-712 domain fields.
type SigningConfig struct {
	Endpoint            string `json:"endpoint"`
	OffchainBook        string `json:"offchain_book"`
	EIP712DomainName    string `json:"eip712_domain_name"`
	EIP712DomainVersion string `json:"eip712_domain_version"`
	EIP712DomainChainID int64  `json:"eip712_domain_chain_id"`
}

// SpotConfig is the full spot venue configuration.
type SpotConfig struct {
	SigningConfig  SigningConfig `json:"signing_config"`
	SystemFeeTiers []FeeTier     `json:"system_fee_tiers"`
}
