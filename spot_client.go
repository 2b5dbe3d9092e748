package foundation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"

	"github.com/foundation-network/foundation-go/chain"
)

// SpotClient trades on the spot venue, which splits trade actions into
// per-action RPC methods and resolves markets by base/quote asset pair.
// The supported-asset list and the signing config are fetched once and
// cached for the client's lifetime.
type SpotClient struct {
	rpc        RPCCaller
	api        *APIClient
	signer     chain.Signer
	subaccount chain.AccountID
	log        *zap.Logger

	cacheMu sync.RWMutex
	assets  []AssetInfo
	config  *SigningConfig
}

// NewSpotClient creates a spot venue client for the signer's account.
// Zero-valued options fall back to the public test deployment.
func NewSpotClient(signer chain.Signer, options ClientOptions) (*SpotClient, error) {
	options = options.withDefaults(TestnetSpotRPCURL)

	subaccount, err := chain.BuildAccountID(signer.Address(), chain.ProductTypeSpot, options.BrokerID, options.SubaccountIndex)
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

	return &SpotClient{
		rpc:        rpc,
		api:        NewAPIClient(options.APIURL),
		signer:     signer,
		subaccount: subaccount,
		log:        options.Logger,
	}, nil
}

// Subaccount returns the derived account identifier the client trades
// under.
func (c *SpotClient) Subaccount() chain.AccountID {
	return c.subaccount
}

// GetAccountInfo fetches the account's balances by asset.
func (c *SpotClient) GetAccountInfo(ctx context.Context) (SpotAccountInfo, error) {
	var info SpotAccountInfo
	if err := c.rpc.Call(ctx, "account_get_account", []interface{}{c.subaccount}, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetAsset resolves a ticker to its asset descriptor. The supported-asset
// list is fetched once and cached for the client's lifetime; a lookup miss
// after the fetch fails with ErrUnknownTicker.
func (c *SpotClient) GetAsset(ctx context.Context, ticker string) (*AssetInfo, error) {
	c.cacheMu.RLock()
	assets := c.assets
	c.cacheMu.RUnlock()

	if len(assets) == 0 {
		fetched, err := c.api.GetSupportedAssets(ctx)
		if err != nil {
			return nil, err
		}

		c.cacheMu.Lock()
		if len(c.assets) == 0 { // first successful fetch wins
			c.assets = fetched
		}
		assets = c.assets
		c.cacheMu.Unlock()

		c.log.Debug("fetched supported assets", zap.Int("count", len(assets)))
	}

	for i := range assets {
		if assets[i].Ticker == ticker {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
}

// getSigningConfig fetches the venue signing config once and caches it for
// the client's lifetime.
func (c *SpotClient) getSigningConfig(ctx context.Context) (*SigningConfig, error) {
	c.cacheMu.RLock()
	config := c.config
	c.cacheMu.RUnlock()
	if config != nil {
		return config, nil
	}

	var fetched SigningConfig
	if err := c.rpc.Call(ctx, "core_get_config", []interface{}{}, &fetched); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}

	c.cacheMu.Lock()
	if c.config == nil { // first successful fetch wins
		c.config = &fetched
	}
	config = c.config
	c.cacheMu.Unlock()

	return config, nil
}

// spotOrderPayload is the wire form of an ob_place_limit request.
type spotOrderPayload struct {
	AccountID         chain.AccountID         `json:"account_id"`
	Pair              [2]int                  `json:"pair"`
	Side              chain.Side              `json:"side"`
	Price             string                  `json:"price"`
	Amount            string                  `json:"amount"`
	TimeInForce       chain.TimeInForce       `json:"time_in_force"`
	ExpiresAt         *int64                  `json:"expires_at"`
	IsMarketOrder     bool                    `json:"is_market_order"`
	SelfTradeBehavior chain.SelfTradeBehavior `json:"self_trade_behavior"`
	Nonce             string                  `json:"nonce"`
}

type spotCancelPayload struct {
	AccountID chain.AccountID `json:"account_id"`
	MarketID  uint64          `json:"market_id"`
	OrderID   string          `json:"order_id"`
	Nonce     string          `json:"nonce"`
}

type spotCancelAllPayload struct {
	AccountID chain.AccountID `json:"account_id"`
	MarketID  uint64          `json:"market_id"`
	Nonce     string          `json:"nonce"`
}

// PlaceLimit signs and submits a limit order on the base/quote pair. Price
// and amount are decimal strings; flag fields left at their zero value take
// the venue defaults. A nil flag places the order with the default
// execution policy.
func (c *SpotClient) PlaceLimit(ctx context.Context, base, quote string, side chain.Side, price, amount string, flag *chain.OrderFlag) (json.RawMessage, error) {
	baseAsset, err := c.GetAsset(ctx, base)
	if err != nil {
		return nil, err
	}
	quoteAsset, err := c.GetAsset(ctx, quote)
	if err != nil {
		return nil, err
	}
	config, err := c.getSigningConfig(ctx)
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

	nonce, err := chain.NewNonceInRange(chain.SpotNonceMin, chain.SpotNonceMax)
	if err != nil {
		return nil, err
	}

	order := &chain.SpotOrder{
		AccountID:  c.subaccount,
		Base:       uint64(baseAsset.AssetID),
		Quote:      uint64(quoteAsset.AssetID),
		PriceX18:   priceX18,
		Amount:     chain.SignedAmount(side, amountX18),
		Expiration: encodedFlag,
		Nonce:      nonce,
	}

	signature, err := c.signer.SignTypedData(order.TypedData(c.signingDomain(config)))
	if err != nil {
		return nil, err
	}

	payload := spotOrderPayload{
		AccountID:         c.subaccount,
		Pair:              [2]int{baseAsset.AssetID, quoteAsset.AssetID},
		Side:              side,
		Price:             price,
		Amount:            amount,
		TimeInForce:       resolved.TimeInForce,
		IsMarketOrder:     resolved.IsMarketOrder,
		SelfTradeBehavior: resolved.SelfTradeBehavior,
		Nonce:             strconv.FormatUint(nonce, 10),
	}
	if resolved.ExpiresAt != 0 {
		expiresAt := resolved.ExpiresAt
		payload.ExpiresAt = &expiresAt
	}

	c.log.Debug("placing limit order",
		zap.String("base", base),
		zap.String("quote", quote),
		zap.String("side", string(side)),
		zap.String("price", price),
		zap.String("amount", amount))

	var result json.RawMessage
	if err := c.rpc.Call(ctx, "ob_place_limit", []interface{}{payload, signature}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CancelOrder signs and submits a cancellation for one resting order on a
// market.
func (c *SpotClient) CancelOrder(ctx context.Context, marketID, orderID uint64) (json.RawMessage, error) {
	config, err := c.getSigningConfig(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := chain.NewNonceInRange(chain.SpotNonceMin, chain.SpotNonceMax)
	if err != nil {
		return nil, err
	}
	cancel := &chain.SpotCancel{
		AccountID: c.subaccount,
		MarketID:  marketID,
		Nonce:     nonce,
		OrderID:   orderID,
	}

	signature, err := c.signer.SignTypedData(cancel.TypedData(c.signingDomain(config)))
	if err != nil {
		return nil, err
	}

	payload := spotCancelPayload{
		AccountID: c.subaccount,
		MarketID:  marketID,
		OrderID:   strconv.FormatUint(orderID, 10),
		Nonce:     strconv.FormatUint(nonce, 10),
	}

	var result json.RawMessage
	if err := c.rpc.Call(ctx, "ob_cancel", []interface{}{payload, signature}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CancelAllOrders signs and submits a cancel-all request for one market.
func (c *SpotClient) CancelAllOrders(ctx context.Context, marketID uint64) (json.RawMessage, error) {
	config, err := c.getSigningConfig(ctx)
	if err != nil {
		return nil, err
	}

	nonce, err := chain.NewNonceInRange(chain.SpotNonceMin, chain.SpotNonceMax)
	if err != nil {
		return nil, err
	}
	cancelAll := &chain.CancelAll{
		AccountID: c.subaccount,
		MarketID:  marketID,
		Nonce:     nonce,
	}

	signature, err := c.signer.SignTypedData(cancelAll.TypedData(c.signingDomain(config)))
	if err != nil {
		return nil, err
	}

	payload := spotCancelAllPayload{
		AccountID: c.subaccount,
		MarketID:  marketID,
		Nonce:     strconv.FormatUint(nonce, 10),
	}

	var result json.RawMessage
	if err := c.rpc.Call(ctx, "ob_cancel_all", []interface{}{payload, signature}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetOrderHistory fetches the account's historical orders from the REST
// API. The account filter is pinned to the client's own subaccount.
func (c *SpotClient) GetOrderHistory(ctx context.Context, params OrderHistoryParams) ([]SpotPendingOrder, error) {
	params.Account = string(c.subaccount)
	return c.api.GetOrderHistory(ctx, params)
}

// GetTradeHistory fetches the account's historical trades from the REST
// API. The account filter is pinned to the client's own subaccount.
func (c *SpotClient) GetTradeHistory(ctx context.Context, params TradeHistoryParams) (json.RawMessage, error) {
	params.Account = string(c.subaccount)
	return c.api.GetTradeHistory(ctx, params)
}

// signingDomain binds the EIP-712 domain to the offchain book from the
// venue signing config. The venue publishes its own domain fields; empty
// fields fall back to the protocol constants.
func (c *SpotClient) signingDomain(config *SigningConfig) apitypes.TypedDataDomain {
	domain := chain.Domain(chain.EIP712DomainChainID, common.HexToAddress(config.OffchainBook))
	if config.EIP712DomainName != "" {
		domain.Name = config.EIP712DomainName
	}
	if config.EIP712DomainVersion != "" {
		domain.Version = config.EIP712DomainVersion
	}
	if config.EIP712DomainChainID != 0 {
		domain.ChainId = math.NewHexOrDecimal256(config.EIP712DomainChainID)
	}
	return domain
}
