package foundation

import "go.uber.org/zap"

// Public test deployment endpoints. Used when the corresponding option is
// left empty.
const (
	TestnetPerpRPCURL = "https://testnet-rpc.foundation.network/perpetual"
	TestnetSpotRPCURL = "https://testnet-rpc.foundation.network/spot"
	TestnetAPIURL     = "https://testnet-api.foundation.network"
)

// ClientOptions holds configuration for creating a client. The zero value
// points at the public test deployment with broker id 1 and subaccount 0.
type ClientOptions struct {
	// RPCURL is the venue JSON-RPC endpoint. A ws:// or wss:// URL selects
	// the websocket transport, anything else the HTTP transport.
	RPCURL string

	// APIURL is the base URL of the venue REST API (spot only).
	APIURL string

	// BrokerID identifies the broker the account was opened through.
	BrokerID int

	// SubaccountIndex selects the sub-ledger under the wallet address.
	SubaccountIndex int

	// Transport overrides RPCURL with a caller-provided JSON-RPC channel.
	Transport RPCCaller

	// Logger receives debug-level logs at fetch and submit boundaries.
	// Defaults to a no-op logger so the SDK is silent unless opted in.
	Logger *zap.Logger
}

func (o ClientOptions) withDefaults(rpcURL string) ClientOptions {
	if o.RPCURL == "" {
		o.RPCURL = rpcURL
	}
	if o.APIURL == "" {
		o.APIURL = TestnetAPIURL
	}
	if o.BrokerID == 0 {
		o.BrokerID = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
