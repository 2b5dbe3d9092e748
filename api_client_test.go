package foundation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestOrderHistoryParams_Encode(t *testing.T) {
	params := OrderHistoryParams{
		Account:   "0xabc",
		Take:      50,
		Page:      intPtr(2),
		StartTime: int64Ptr(1700000000),
		EndTime:   int64Ptr(1700100000),
		MarketID:  intPtr(3),
		IsBuyer:   boolPtr(true),
		Status:    "filled",
	}

	got, err := params.encode()
	if err != nil {
		t.Fatalf("encode returned error: %v", err)
	}
	want := "account=0xabc&take=50&page=2&startTime=1700000000&endTime=1700100000&marketId=3&isBuyer=true&status=filled"
	if got != want {
		t.Errorf("encode = %q, want %q", got, want)
	}
}

func TestOrderHistoryParams_OptionalFieldsOmitted(t *testing.T) {
	params := OrderHistoryParams{Account: "0xabc", Take: 10}

	got, err := params.encode()
	if err != nil {
		t.Fatalf("encode returned error: %v", err)
	}
	if got != "account=0xabc&take=10" {
		t.Errorf("encode = %q", got)
	}
}

func TestHistoryParams_AccountRequired(t *testing.T) {
	if _, err := (OrderHistoryParams{Take: 10}).encode(); err == nil {
		t.Error("order history encode accepted an empty account")
	}
	if _, err := (TradeHistoryParams{Take: 10}).encode(); err == nil {
		t.Error("trade history encode accepted an empty account")
	}
}

func TestTradeHistoryParams_Encode(t *testing.T) {
	params := TradeHistoryParams{
		Account: "0xabc",
		Take:    20,
		IsMaker: boolPtr(false),
	}

	got, err := params.encode()
	if err != nil {
		t.Fatalf("encode returned error: %v", err)
	}
	if got != "account=0xabc&take=20&isMaker=false" {
		t.Errorf("encode = %q", got)
	}
}

func TestGetSupportedAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asset/v1/supported-assets" {
			t.Errorf("request path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"asset_id":1,"name":"Bitcoin","ticker":"BTC"},{"asset_id":2,"name":"USD Coin","ticker":"USDC"}]`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	assets, err := client.GetSupportedAssets(context.Background())
	if err != nil {
		t.Fatalf("GetSupportedAssets returned error: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if assets[0].Ticker != "BTC" || assets[0].AssetID != 1 {
		t.Errorf("first asset = %+v", assets[0])
	}
}

func TestAPIClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	if _, err := client.GetSupportedAssets(context.Background()); err == nil {
		t.Error("GetSupportedAssets accepted a 502 response")
	}
}
