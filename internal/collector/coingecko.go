// internal/collector/coingecko.go
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCoinGeckoURL is the public CoinGecko API root.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoFetcher implements Fetcher using the CoinGecko simple price API.
type CoinGeckoFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewCoinGeckoFetcher creates a CoinGecko fetcher, optionally routed through proxyURL.
func NewCoinGeckoFetcher(baseURL, proxyURL string, timeout time.Duration) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGeckoFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// simplePrice is the response of /simple/price, e.g. {"bitcoin":{"usd":67123.45}}.
type simplePrice map[string]map[string]json.Number

// FetchPrice requests the current BTC/USD price.
func (f *CoinGeckoFetcher) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	endpoint := f.BaseURL + "/simple/price?" + url.Values{
		"ids":           {"bitcoin"},
		"vs_currencies": {"usd"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("coingecko request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Decimal{}, fmt.Errorf("coingecko returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload simplePrice
	if err := dec.Decode(&payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode coingecko response: %w", err)
	}

	raw, ok := payload["bitcoin"]["usd"]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("coingecko response has no bitcoin/usd price")
	}
	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse coingecko price %q: %w", raw, err)
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("coingecko returned non-positive price %s", price)
	}
	return price, nil
}
