package foundation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// RPCCaller is the JSON-RPC request/response channel the clients submit
// through. Every venue interaction is a single request/response round trip;
// retry, reconnection and caching policy are the caller's concern.
type RPCCaller interface {
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
}

// RPCError is a JSON-RPC error object returned by the venue. It is
// propagated to the caller unwrapped.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// DialRPC returns a transport for the URL: websocket for ws:// and wss://
// URLs, HTTP for anything else.
func DialRPC(url string) (RPCCaller, error) {
	if strings.HasPrefix(url, "ws") {
		return DialWSRPC(url)
	}
	return NewHTTPRPCClient(url), nil
}

// HTTPRPCClient is a JSON-RPC 2.0 client over HTTP POST.
type HTTPRPCClient struct {
	url    string
	client *http.Client
	nextID atomic.Uint64
}

// NewHTTPRPCClient creates an HTTP JSON-RPC client for the endpoint.
func NewHTTPRPCClient(url string) *HTTPRPCClient {
	return &HTTPRPCClient{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Call performs one JSON-RPC round trip. A non-nil result receives the
// decoded result field.
func (c *HTTPRPCClient) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyStr := string(respBody)
		if bodyStr == "" {
			bodyStr = resp.Status
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("failed to decode JSON response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}

	return nil
}
