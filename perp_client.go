package foundation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/foundation-network/foundation-go/chain"
)

// Market order pricing crosses the book at the best opposing price with a
// fixed 5% slippage tolerance. Policy constants, not derived.
var (
	askSlippage = decimal.RequireFromString("1.05") // sell crosses bids
	bidSlippage = decimal.RequireFromString("0.95") // buy crosses asks
)

// PerpClient trades on the perpetual venue. Each public operation is a
// single request/response round trip; the only state beyond configuration
// is the lazily fetched open-market list, populated at most once for the
// client's lifetime.
type PerpClient struct {
	rpc        RPCCaller
	signer     chain.Signer
	subaccount chain.AccountID
	log        *zap.Logger

	marketsMu sync.RWMutex
	markets   []MarketConfig
}

// NewPerpClient creates a perpetual venue client for the signer's account.
// Zero-valued options fall back to the public test deployment.
func NewPerpClient(signer chain.Signer, options ClientOptions) (*PerpClient, error) {
	options = options.withDefaults(TestnetPerpRPCURL)

	subaccount, err := chain.BuildPerpetualAccountID(signer.Address(), options.BrokerID, options.SubaccountIndex)
	if err != nil {
		return nil, err
	}

	rpc := options.Transport
	if rpc == nil {
		rpc, err = DialRPC(options.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rpc endpoint: %w", err)
		}
	}

	return &PerpClient{
		rpc:        rpc,
		signer:     signer,
		subaccount: subaccount,
		log:        options.Logger,
	}, nil
}

// Subaccount returns the derived account identifier the client trades
// under.
func (c *PerpClient) Subaccount() chain.AccountID {
	return c.subaccount
}

// GetAccountInfo fetches positions, collateral and liquidation state.
func (c *PerpClient) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	var info AccountInfo
	if err := c.rpc.Call(ctx, "ob_query_account", []interface{}{c.subaccount}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPendingOrders fetches the account's resting orders on a market.
func (c *PerpClient) GetPendingOrders(ctx context.Context, ticker string) ([]PendingOrder, error) {
	market, err := c.GetMarket(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var orders []PendingOrder
	if err := c.rpc.Call(ctx, "ob_query_user_orders", []interface{}{market.Symbol, c.subaccount}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetMarketState fetches the live state of a market.
func (c *PerpClient) GetMarketState(ctx context.Context, ticker string) (*MarketState, error) {
	market, err := c.GetMarket(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var states []MarketState
	if err := c.rpc.Call(ctx, "ob_query_markets_state", []interface{}{}, &states); err != nil {
		return nil, err
	}

	for i := range states {
		if states[i].Symbol == market.Symbol {
			return &states[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMarket, market.Symbol)
}

// GetOrderbookDepth fetches up to limit levels per side, best price first.
func (c *PerpClient) GetOrderbookDepth(ctx context.Context, ticker string, limit int) (*Depth, error) {
	market, err := c.GetMarket(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var depth Depth
	if err := c.rpc.Call(ctx, "ob_query_depth", []interface{}{market.Symbol, limit}, &depth); err != nil {
		return nil, err
	}
	return &depth, nil
}

// GetMarket resolves a ticker to its market configuration. The open-market
// list is fetched once and cached for the client's lifetime; a lookup miss
// after the fetch fails with ErrUnknownTicker.
func (c *PerpClient) GetMarket(ctx context.Context, ticker string) (*MarketConfig, error) {
	c.marketsMu.RLock()
	markets := c.markets
	c.marketsMu.RUnlock()

	if len(markets) == 0 {
		var fetched []MarketConfig
		if err := c.rpc.Call(ctx, "ob_query_open_markets", []interface{}{}, &fetched); err != nil {
			return nil, err
		}

		c.marketsMu.Lock()
		if len(c.markets) == 0 { // first successful fetch wins
			c.markets = fetched
		}
		markets = c.markets
		c.marketsMu.Unlock()

		c.log.Debug("fetched open markets", zap.Int("count", len(markets)))
	}

	for i := range markets {
		if markets[i].Ticker == ticker {
			return &markets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
}

// perpOrderPayload is the wire form of a bid/ask action inside ob_trade.
type perpOrderPayload struct {
	Symbol     string           `json:"symbol"`
	Amount     string           `json:"amount"`
	Price      string           `json:"price"`
	Expiration orderFlagPayload `json:"expiration"`
}

// orderFlagPayload is the wire form of an order flag; expires_at is null
// when the order never expires.
type orderFlagPayload struct {
	TimeInForce       chain.TimeInForce       `json:"time_in_force"`
	ReduceOnly        bool                    `json:"reduce_only"`
	ExpiresAt         *int64                  `json:"expires_at"`
	IsMarketOrder     bool                    `json:"is_market_order"`
	SelfTradeBehavior chain.SelfTradeBehavior `json:"self_trade_behavior"`
}

func newOrderFlagPayload(flag chain.OrderFlag) orderFlagPayload {
	payload := orderFlagPayload{
		TimeInForce:       flag.TimeInForce,
		ReduceOnly:        flag.ReduceOnly,
		IsMarketOrder:     flag.IsMarketOrder,
		SelfTradeBehavior: flag.SelfTradeBehavior,
	}
	if flag.ExpiresAt != 0 {
		expiresAt := flag.ExpiresAt
		payload.ExpiresAt = &expiresAt
	}
	return payload
}

type perpCancelPayload struct {
	Symbol  string `json:"symbol"`
	OrderID string `json:"orderId"`
}

// PlaceLimit signs and submits a limit order. Price and amount are decimal
// strings; flag fields left at their zero value take the venue defaults. A
// nil flag places the order with the default execution policy.
func (c *PerpClient) PlaceLimit(ctx context.Context, ticker string, side chain.Side, price, amount string, flag *chain.OrderFlag) (json.RawMessage, error) {
	market, err := c.GetMarket(ctx, ticker)
	if err != nil {
		return nil, err
	}

	resolved := chain.DefaultOrderFlag()
	if flag != nil {
		resolved = flag.WithDefaults()
	}
	encodedFlag, err := chain.EncodeFlag(resolved)
	if err != nil {
		return nil, err
	}

	priceX18, err := ParseX18(price)
	if err != nil {
		return nil, err
	}
	amountX18, err := ParseX18(amount)
	if err != nil {
		return nil, err
	}

	nonce := chain.NewNonce()

	order := &chain.PerpOrder{
		Subaccount: c.subaccount,
		Price:      priceX18,
		Amount:     chain.SignedAmount(side, amountX18),
		Nonce:      nonce,
		Expiration: encodedFlag,
	}
	domain := chain.Domain(chain.EIP712DomainChainID, common.HexToAddress(market.OffchainBook))

	signature, err := c.signer.SignTypedData(order.TypedData(domain))
	if err != nil {
		return nil, err
	}

	action := map[string]perpOrderPayload{
		string(side): {
			Symbol:     market.Symbol,
			Amount:     amount,
			Price:      price,
			Expiration: newOrderFlagPayload(resolved),
		},
	}

	c.log.Debug("placing limit order",
		zap.String("ticker", ticker),
		zap.String("side", string(side)),
		zap.String("price", price),
		zap.String("amount", amount))

	var result json.RawMessage
	err = c.rpc.Call(ctx, "ob_trade",
		[]interface{}{c.subaccount, action, signature, strconv.FormatUint(nonce, 10), ""}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PlaceMarket submits a market order as a limit order priced off the best
// opposing level with a fixed 5% slippage tolerance: a sell prices at best
// bid plus 5%, a buy at best ask minus 5%. An empty opposing side fails
// with ErrEmptyOrderBook before any submission.
func (c *PerpClient) PlaceMarket(ctx context.Context, ticker string, side chain.Side, amount string, flag *chain.OrderFlag) (json.RawMessage, error) {
	book, err := c.GetOrderbookDepth(ctx, ticker, 1)
	if err != nil {
		return nil, err
	}

	levels := book.Asks
	slippage := bidSlippage
	if side == chain.SideAsk {
		levels = book.Bids
		slippage = askSlippage
	}
	if len(levels) == 0 {
		return nil, ErrEmptyOrderBook
	}

	best, err := decimal.NewFromString(levels[0].Price())
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid book price: %s", levels[0].Price())}
	}
	price := best.Mul(slippage)

	return c.PlaceLimit(ctx, ticker, side, price.String(), amount, flag)
}

// CancelOrder signs and submits a cancellation for one resting order.
func (c *PerpClient) CancelOrder(ctx context.Context, ticker string, orderID uint64) (json.RawMessage, error) {
	market, err := c.GetMarket(ctx, ticker)
	if err != nil {
		return nil, err
	}

	nonce := chain.NewNonce()
	cancel := &chain.PerpCancel{
		Subaccount: c.subaccount,
		Nonce:      nonce,
		OrderID:    orderID,
	}
	domain := chain.Domain(chain.EIP712DomainChainID, common.HexToAddress(market.OffchainBook))

	signature, err := c.signer.SignTypedData(cancel.TypedData(domain))
	if err != nil {
		return nil, err
	}

	action := map[string]perpCancelPayload{
		"cancel": {
			Symbol:  market.Symbol,
			OrderID: strconv.FormatUint(orderID, 10),
		},
	}

	var result json.RawMessage
	err = c.rpc.Call(ctx, "ob_trade",
		[]interface{}{c.subaccount, action, signature, strconv.FormatUint(nonce, 10), ""}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}
