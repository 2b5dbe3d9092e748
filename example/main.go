// Example usage of the Foundation Network Go SDK
package main

import (
	"context"
	"fmt"
	"log"

	foundation "github.com/foundation-network/foundation-go"
	"github.com/foundation-network/foundation-go/chain"
)

func main() {
	signer, err := chain.NewPrivateKeySigner("your-private-key-here")
	if err != nil {
		log.Fatalf("Failed to create signer: %v", err)
	}

	client, err := foundation.NewPerpClient(signer, foundation.ClientOptions{
		RPCURL:          foundation.TestnetPerpRPCURL,
		BrokerID:        1,
		SubaccountIndex: 0,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()

	fmt.Printf("Trading as subaccount %s\n", client.Subaccount())

	// Account state
	info, err := client.GetAccountInfo(ctx)
	if err != nil {
		log.Printf("Failed to get account info: %v", err)
	} else {
		fmt.Printf("Collateral: %s, positions: %d\n", info.Collateral, len(info.Positions))
	}

	// Order book
	depth, err := client.GetOrderbookDepth(ctx, "CRYPTO_BTC_PERP", 5)
	if err != nil {
		log.Printf("Failed to get depth: %v", err)
	} else {
		fmt.Printf("Depth: %d asks, %d bids\n", len(depth.Asks), len(depth.Bids))
	}

	// Place a post-only limit bid
	flag := &chain.OrderFlag{TimeInForce: chain.TimeInForcePostOnly}
	result, err := client.PlaceLimit(ctx, "CRYPTO_BTC_PERP", chain.SideBid, "50000", "0.01", flag)
	if err != nil {
		log.Printf("Failed to place order: %v", err)
	} else {
		fmt.Printf("Order placed: %s\n", result)
	}

	// Market sell with default flags
	if _, err := client.PlaceMarket(ctx, "CRYPTO_BTC_PERP", chain.SideAsk, "0.01", nil); err != nil {
		log.Printf("Failed to place market order: %v", err)
	}

	// Pending orders
	orders, err := client.GetPendingOrders(ctx, "CRYPTO_BTC_PERP")
	if err != nil {
		log.Printf("Failed to get pending orders: %v", err)
	} else {
		for _, order := range orders {
			fmt.Printf("Order %d: %s %s @ %s (%s)\n",
				order.OrderID, order.Side, order.Amount, order.Price, order.Status)
		}
	}
}
