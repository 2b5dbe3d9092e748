package foundation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/foundation-network/foundation-go/chain"
)

const testPrivateKey = "0x4bbbf85ce3377467afe5d46f804f221813b2bb87f24d81f60f1fcdbf7cbf4356"

// fakeRPC records calls and answers them from a handler, round-tripping the
// handler's return value through JSON like a real transport would.
type fakeRPC struct {
	calls   []fakeCall
	handler func(method string, params []interface{}) (interface{}, error)
}

type fakeCall struct {
	method string
	params []interface{}
}

func (f *fakeRPC) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	posParams, _ := params.([]interface{})
	f.calls = append(f.calls, fakeCall{method: method, params: posParams})

	response, err := f.handler(method, posParams)
	if err != nil {
		return err
	}
	if result == nil || response == nil {
		return nil
	}

	encoded, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, result)
}

func (f *fakeRPC) callCount(method string) int {
	count := 0
	for _, call := range f.calls {
		if call.method == method {
			count++
		}
	}
	return count
}

func (f *fakeRPC) lastCall(method string) *fakeCall {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].method == method {
			return &f.calls[i]
		}
	}
	return nil
}

var testMarkets = []MarketConfig{
	{
		Symbol:       "0x0000000000000000000000000000000000000000000000000000000000000001",
		Ticker:       "CRYPTO_BTC_PERP",
		OffchainBook: "0x00112233445566778899aabbccddeeff00112233",
		TickSize:     "0.1",
		StepSize:     "0.001",
		MinAmount:    "0.001",
	},
	{
		Symbol:       "0x0000000000000000000000000000000000000000000000000000000000000002",
		Ticker:       "CRYPTO_ETH_PERP",
		OffchainBook: "0x00112233445566778899aabbccddeeff00112233",
		TickSize:     "0.01",
		StepSize:     "0.01",
		MinAmount:    "0.01",
	},
}

func newTestPerpClient(t *testing.T, depth *Depth) (*PerpClient, *fakeRPC) {
	t.Helper()

	rpc := &fakeRPC{
		handler: func(method string, params []interface{}) (interface{}, error) {
			switch method {
			case "ob_query_open_markets":
				return testMarkets, nil
			case "ob_query_depth":
				return depth, nil
			case "ob_trade":
				return map[string]string{"status": "ok"}, nil
			default:
				return nil, fmt.Errorf("unexpected method %s", method)
			}
		},
	}

	signer, err := chain.NewPrivateKeySigner(testPrivateKey)
	if err != nil {
		t.Fatalf("NewPrivateKeySigner returned error: %v", err)
	}

	client, err := NewPerpClient(signer, ClientOptions{Transport: rpc})
	if err != nil {
		t.Fatalf("NewPerpClient returned error: %v", err)
	}
	return client, rpc
}

// tradeAction unpacks the {side-or-action: payload} parameter of the last
// ob_trade call.
func tradeAction(t *testing.T, rpc *fakeRPC) map[string]map[string]interface{} {
	t.Helper()

	call := rpc.lastCall("ob_trade")
	if call == nil {
		t.Fatal("no ob_trade call issued")
	}
	if len(call.params) != 5 {
		t.Fatalf("ob_trade has %d params, want 5", len(call.params))
	}

	encoded, err := json.Marshal(call.params[1])
	if err != nil {
		t.Fatalf("failed to marshal action: %v", err)
	}
	var action map[string]map[string]interface{}
	if err := json.Unmarshal(encoded, &action); err != nil {
		t.Fatalf("failed to unmarshal action: %v", err)
	}
	return action
}

func TestPlaceMarket_SellPricesBestBidPlusSlippage(t *testing.T) {
	client, rpc := newTestPerpClient(t, &Depth{
		Bids: []Level{{"100", "2", "0"}},
		Asks: []Level{{"101", "1", "0"}},
	})

	if _, err := client.PlaceMarket(context.Background(), "CRYPTO_BTC_PERP", chain.SideAsk, "0.5", nil); err != nil {
		t.Fatalf("PlaceMarket returned error: %v", err)
	}

	action := tradeAction(t, rpc)
	payload, ok := action["ask"]
	if !ok {
		t.Fatalf("action keys = %v, want ask", action)
	}
	if payload["price"] != "105" {
		t.Errorf("derived price = %v, want 105", payload["price"])
	}
}

func TestPlaceMarket_BuyPricesBestAskMinusSlippage(t *testing.T) {
	client, rpc := newTestPerpClient(t, &Depth{
		Bids: []Level{{"99", "2", "0"}},
		Asks: []Level{{"100", "1", "0"}},
	})

	if _, err := client.PlaceMarket(context.Background(), "CRYPTO_BTC_PERP", chain.SideBid, "0.5", nil); err != nil {
		t.Fatalf("PlaceMarket returned error: %v", err)
	}

	action := tradeAction(t, rpc)
	payload, ok := action["bid"]
	if !ok {
		t.Fatalf("action keys = %v, want bid", action)
	}
	if payload["price"] != "95" {
		t.Errorf("derived price = %v, want 95", payload["price"])
	}
}

func TestPlaceMarket_EmptyBookFailsWithoutSubmission(t *testing.T) {
	client, rpc := newTestPerpClient(t, &Depth{
		Bids: []Level{},
		Asks: []Level{{"100", "1", "0"}},
	})

	_, err := client.PlaceMarket(context.Background(), "CRYPTO_BTC_PERP", chain.SideAsk, "0.5", nil)
	if !errors.Is(err, ErrEmptyOrderBook) {
		t.Fatalf("PlaceMarket error = %v, want ErrEmptyOrderBook", err)
	}
	if rpc.callCount("ob_trade") != 0 {
		t.Errorf("ob_trade issued %d times, want 0", rpc.callCount("ob_trade"))
	}
}

func TestGetMarket_FetchesOpenMarketsOnce(t *testing.T) {
	client, rpc := newTestPerpClient(t, nil)
	ctx := context.Background()

	if _, err := client.GetMarket(ctx, "CRYPTO_BTC_PERP"); err != nil {
		t.Fatalf("GetMarket returned error: %v", err)
	}
	if _, err := client.GetMarket(ctx, "CRYPTO_ETH_PERP"); err != nil {
		t.Fatalf("GetMarket returned error: %v", err)
	}

	if got := rpc.callCount("ob_query_open_markets"); got != 1 {
		t.Errorf("ob_query_open_markets issued %d times, want 1", got)
	}

	_, err := client.GetMarket(ctx, "CRYPTO_DOGE_PERP")
	if !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("GetMarket error = %v, want ErrUnknownTicker", err)
	}
	if got := rpc.callCount("ob_query_open_markets"); got != 1 {
		t.Errorf("lookup miss refetched the market list: %d calls", got)
	}
}

func TestPlaceLimit_TradeParamsShape(t *testing.T) {
	client, rpc := newTestPerpClient(t, nil)

	flag := &chain.OrderFlag{TimeInForce: chain.TimeInForcePostOnly, ExpiresAt: 1735689600}
	if _, err := client.PlaceLimit(context.Background(), "CRYPTO_BTC_PERP", chain.SideBid, "50000", "0.01", flag); err != nil {
		t.Fatalf("PlaceLimit returned error: %v", err)
	}

	call := rpc.lastCall("ob_trade")
	if call == nil {
		t.Fatal("no ob_trade call issued")
	}

	if got := call.params[0]; got != client.Subaccount() {
		t.Errorf("param 0 = %v, want subaccount %s", got, client.Subaccount())
	}

	action := tradeAction(t, rpc)
	payload := action["bid"]
	if payload == nil {
		t.Fatalf("action keys = %v, want bid", action)
	}
	if payload["symbol"] != testMarkets[0].Symbol {
		t.Errorf("symbol = %v, want %s", payload["symbol"], testMarkets[0].Symbol)
	}
	if payload["price"] != "50000" || payload["amount"] != "0.01" {
		t.Errorf("price/amount = %v/%v", payload["price"], payload["amount"])
	}

	expiration, ok := payload["expiration"].(map[string]interface{})
	if !ok {
		t.Fatalf("expiration = %v, want object", payload["expiration"])
	}
	if expiration["time_in_force"] != "post_only" {
		t.Errorf("time_in_force = %v", expiration["time_in_force"])
	}
	if expiration["self_trade_behavior"] != "cancel_provide" {
		t.Errorf("self_trade_behavior = %v", expiration["self_trade_behavior"])
	}
	if expiration["expires_at"] != float64(1735689600) {
		t.Errorf("expires_at = %v", expiration["expires_at"])
	}

	signature, ok := call.params[2].(string)
	if !ok || len(signature) == 0 {
		t.Errorf("param 2 = %v, want signature string", call.params[2])
	}
	nonceStr, ok := call.params[3].(string)
	if !ok {
		t.Fatalf("param 3 = %v, want nonce string", call.params[3])
	}
	if _, err := strconv.ParseUint(nonceStr, 10, 64); err != nil {
		t.Errorf("nonce %q does not parse: %v", nonceStr, err)
	}
	if call.params[4] != "" {
		t.Errorf("param 4 = %v, want empty string", call.params[4])
	}
}

func TestCancelOrder_TradeParamsShape(t *testing.T) {
	client, rpc := newTestPerpClient(t, nil)

	if _, err := client.CancelOrder(context.Background(), "CRYPTO_BTC_PERP", 8); err != nil {
		t.Fatalf("CancelOrder returned error: %v", err)
	}

	action := tradeAction(t, rpc)
	payload, ok := action["cancel"]
	if !ok {
		t.Fatalf("action keys = %v, want cancel", action)
	}
	if payload["symbol"] != testMarkets[0].Symbol {
		t.Errorf("symbol = %v", payload["symbol"])
	}
	if payload["orderId"] != "8" {
		t.Errorf("orderId = %v, want \"8\"", payload["orderId"])
	}
}

func TestPlaceLimit_InvalidFlagRejectedBeforeSubmission(t *testing.T) {
	client, rpc := newTestPerpClient(t, nil)

	flag := &chain.OrderFlag{TimeInForce: "good_til_canceled"}
	_, err := client.PlaceLimit(context.Background(), "CRYPTO_BTC_PERP", chain.SideBid, "50000", "0.01", flag)
	if !errors.Is(err, chain.ErrInvalidTimeInForce) {
		t.Fatalf("PlaceLimit error = %v, want ErrInvalidTimeInForce", err)
	}
	if rpc.callCount("ob_trade") != 0 {
		t.Errorf("ob_trade issued despite invalid flag")
	}
}
