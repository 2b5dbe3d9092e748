package foundation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned for calls issued after the websocket
// transport has been closed.
var ErrConnectionClosed = errors.New("websocket connection closed")

// WSRPCClient is a JSON-RPC 2.0 client over a websocket connection. A
// single read loop correlates responses to in-flight calls by request id;
// concurrent calls from multiple goroutines are safe.
type WSRPCClient struct {
	conn   *websocket.Conn
	nextID atomic.Uint64

	writeMu sync.Mutex // serializes writes to the connection

	pendingMu sync.Mutex
	pending   map[uint64]chan *rpcResponse

	closeOnce sync.Once
	done      chan struct{}
}

// DialWSRPC connects to a ws:// or wss:// JSON-RPC endpoint and starts the
// read loop.
func DialWSRPC(url string) (*WSRPCClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	c := &WSRPCClient{
		conn:    conn,
		pending: make(map[uint64]chan *rpcResponse),
		done:    make(chan struct{}),
	}
	go c.readLoop()

	return c, nil
}

// Call performs one JSON-RPC round trip over the connection.
func (c *WSRPCClient) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	id := c.nextID.Add(1)
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}

	ch := make(chan *rpcResponse, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrConnectionClosed
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("failed to decode result: %w", err)
			}
		}
		return nil
	}
}

// Close tears down the connection. In-flight calls fail with
// ErrConnectionClosed.
func (c *WSRPCClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *WSRPCClient) readLoop() {
	defer c.Close()

	for {
		var resp rpcResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			return
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[resp.ID]
		c.pendingMu.Unlock()
		if ok {
			respCopy := resp
			ch <- &respCopy
		}
	}
}
