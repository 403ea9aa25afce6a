// Package coingecko is the REST client for the CoinGecko public API, used as
// the price oracle for ledger valuation and alert evaluation.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avelichko/foliobot/internal/domain"
)

// DefaultBaseURL is the CoinGecko v3 API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// lookupPageSize bounds how deep a symbol lookup scans the market-cap
// ranking. Symbols outside the top 250 do not resolve.
const lookupPageSize = 250

// Client is the CoinGecko API client. It implements domain.PriceOracle.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a CoinGecko client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CurrentPrice returns the current USD price for a coin symbol.
func (c *Client) CurrentPrice(ctx context.Context, coin string) (float64, error) {
	info, err := c.Lookup(ctx, coin)
	if err != nil {
		return 0, err
	}
	return info.CurrentPrice, nil
}

// Lookup resolves a coin symbol (or CoinGecko ID) against the market-cap
// ranking and returns its metadata. Matching is case-insensitive and prefers
// the highest-ranked coin when symbols collide. It returns domain.ErrNotFound
// when the symbol does not resolve.
func (c *Client) Lookup(ctx context.Context, symbol string) (domain.Coin, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return domain.Coin{}, fmt.Errorf("coingecko: %w: empty symbol", domain.ErrNotFound)
	}

	coins, err := c.markets(ctx, lookupPageSize)
	if err != nil {
		return domain.Coin{}, fmt.Errorf("coingecko: lookup %s: %w", symbol, err)
	}

	// Ranking order is market cap descending, so the first match wins ties
	// between duplicate symbols.
	for i := range coins {
		if strings.ToLower(coins[i].Symbol) == symbol || coins[i].ID == symbol {
			return coins[i].toDomain(), nil
		}
	}

	return domain.Coin{}, fmt.Errorf("coingecko: %w: symbol=%s", domain.ErrNotFound, symbol)
}

// TopCoins returns the top-n coins by market cap.
func (c *Client) TopCoins(ctx context.Context, n int) ([]domain.Coin, error) {
	if n <= 0 {
		n = 10
	}
	coins, err := c.markets(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("coingecko: top coins: %w", err)
	}

	out := make([]domain.Coin, 0, len(coins))
	for i := range coins {
		out = append(out, coins[i].toDomain())
	}
	return out, nil
}

// Global returns the aggregate crypto market snapshot.
func (c *Client) Global(ctx context.Context) (domain.GlobalMarket, error) {
	body, err := c.doGet(ctx, "/global")
	if err != nil {
		return domain.GlobalMarket{}, fmt.Errorf("coingecko: global: %w", err)
	}

	var g apiGlobal
	if err := json.Unmarshal(body, &g); err != nil {
		return domain.GlobalMarket{}, fmt.Errorf("coingecko: decode global: %w", err)
	}

	return g.toDomain(), nil
}

// markets fetches the first page of the market-cap ranking.
func (c *Client) markets(ctx context.Context, perPage int) ([]apiCoin, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", "1")

	body, err := c.doGet(ctx, "/coins/markets?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var coins []apiCoin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}
	return coins, nil
}

// doGet sends an unauthenticated GET request. Transport failures and non-2xx
// responses wrap domain.ErrOracleUnavailable so callers can distinguish an
// unreachable oracle from an unknown coin.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrOracleUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrOracleUnavailable, resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Compile-time interface check.
var _ domain.PriceOracle = (*Client)(nil)
