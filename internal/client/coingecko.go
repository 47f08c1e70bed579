package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
	solanaCoinID = "solana"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client. An empty baseURL uses the public API.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PriceResponse response from CoinGecko simple/price: coin id -> quote currency -> price
type PriceResponse map[string]map[string]json.Number

// GetSOLRate gets the price of one SOL in quote (e.g. "usd")
func (c *CoinGeckoClient) GetSOLRate(ctx context.Context, quote string) (decimal.Decimal, error) {
	return c.GetRate(ctx, solanaCoinID, quote)
}

// GetRate gets the price of coinID in quote
func (c *CoinGeckoClient) GetRate(ctx context.Context, coinID, quote string) (decimal.Decimal, error) {
	quote = strings.ToLower(quote)
	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", quote)
	reqURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	var priceResp PriceResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&priceResp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate: %w", err)
	}

	price, ok := priceResp[coinID][quote]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s price for %s", quote, coinID)
	}
	rate, err := decimal.NewFromString(price.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rate: %w", err)
	}
	return rate, nil
}
