package foundation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP requests to the venue's read-only REST API: the
// supported-asset list and order/trade history queries.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a new REST API client.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// doRequest performs an HTTP GET against the API.
func (c *APIClient) doRequest(ctx context.Context, endpoint string) (*http.Response, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// decodeJSONResponse reads the response body, checks HTTP status, and
// decodes JSON.
func (c *APIClient) decodeJSONResponse(resp *http.Response, result interface{}) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyStr := string(bodyBytes)
		if bodyStr == "" {
			bodyStr = resp.Status
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		bodyStr := string(bodyBytes)
		if len(bodyStr) > 200 {
			bodyStr = bodyStr[:200] + "..."
		}
		return fmt.Errorf("failed to decode JSON response: %w (body: %s)", err, bodyStr)
	}

	return nil
}

// GetSupportedAssets fetches the list of assets supported by the spot
// venue.
func (c *APIClient) GetSupportedAssets(ctx context.Context) ([]AssetInfo, error) {
	resp, err := c.doRequest(ctx, "/asset/v1/supported-assets")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var assets []AssetInfo
	if err := c.decodeJSONResponse(resp, &assets); err != nil {
		return nil, err
	}

	return assets, nil
}

// OrderHistoryParams filters an order history query. Account is mandatory;
// leaving it empty is a caller error.
type OrderHistoryParams struct {
	Account   string
	Take      int
	Page      *int
	StartTime *int64
	EndTime   *int64
	MarketID  *int
	IsBuyer   *bool
	Status    string
}

func (p OrderHistoryParams) encode() (string, error) {
	if p.Account == "" {
		return "", &InvalidParamError{Message: "account is required"}
	}

	query := fmt.Sprintf("account=%s&take=%d", p.Account, p.Take)
	if p.Page != nil {
		query += fmt.Sprintf("&page=%d", *p.Page)
	}
	if p.StartTime != nil {
		query += fmt.Sprintf("&startTime=%d", *p.StartTime)
	}
	if p.EndTime != nil {
		query += fmt.Sprintf("&endTime=%d", *p.EndTime)
	}
	if p.MarketID != nil {
		query += fmt.Sprintf("&marketId=%d", *p.MarketID)
	}
	if p.IsBuyer != nil {
		query += fmt.Sprintf("&isBuyer=%t", *p.IsBuyer)
	}
	if p.Status != "" {
		query += fmt.Sprintf("&status=%s", p.Status)
	}

	return query, nil
}

// GetOrderHistory fetches historical orders for an account.
func (c *APIClient) GetOrderHistory(ctx context.Context, params OrderHistoryParams) ([]SpotPendingOrder, error) {
	query, err := params.encode()
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "/order/v1/history?"+query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var orders []SpotPendingOrder
	if err := c.decodeJSONResponse(resp, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// TradeHistoryParams filters a trade history query. Account is mandatory;
// leaving it empty is a caller error.
type TradeHistoryParams struct {
	Account   string
	Take      int
	Page      *int
	StartTime *int64
	EndTime   *int64
	MarketID  *int
	IsBuyer   *bool
	IsMaker   *bool
}

func (p TradeHistoryParams) encode() (string, error) {
	if p.Account == "" {
		return "", &InvalidParamError{Message: "account is required"}
	}

	query := fmt.Sprintf("account=%s&take=%d", p.Account, p.Take)
	if p.Page != nil {
		query += fmt.Sprintf("&page=%d", *p.Page)
	}
	if p.StartTime != nil {
		query += fmt.Sprintf("&startTime=%d", *p.StartTime)
	}
	if p.EndTime != nil {
		query += fmt.Sprintf("&endTime=%d", *p.EndTime)
	}
	if p.MarketID != nil {
		query += fmt.Sprintf("&marketId=%d", *p.MarketID)
	}
	if p.IsBuyer != nil {
		query += fmt.Sprintf("&isBuyer=%t", *p.IsBuyer)
	}
	if p.IsMaker != nil {
		query += fmt.Sprintf("&isMaker=%t", *p.IsMaker)
	}

	return query, nil
}

// GetTradeHistory fetches historical trades for an account.
func (c *APIClient) GetTradeHistory(ctx context.Context, params TradeHistoryParams) (json.RawMessage, error) {
	query, err := params.encode()
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "/trade/v1/history?"+query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var trades json.RawMessage
	if err := c.decodeJSONResponse(resp, &trades); err != nil {
		return nil, err
	}

	return trades, nil
}
