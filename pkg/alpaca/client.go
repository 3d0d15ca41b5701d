package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alpacatrade/config"

	"go.uber.org/zap"
)

// Client is an Alpaca REST API client. It holds a snapshot of the endpoints
// and credentials taken at construction and is safe for concurrent use.
type Client struct {
	endpoint     string
	dataEndpoint string
	keyID        string
	keySecret    string

	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// Option overrides part of the configuration snapshot.
type Option func(*Client)

// WithEndpoint overrides the trading endpoint. Empty values are ignored.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithKeyID overrides the key id. Empty values are ignored.
func WithKeyID(keyID string) Option {
	return func(c *Client) {
		if keyID != "" {
			c.keyID = keyID
		}
	}
}

// WithKeySecret overrides the key secret. Empty values are ignored.
func WithKeySecret(keySecret string) Option {
	return func(c *Client) {
		if keySecret != "" {
			c.keySecret = keySecret
		}
	}
}

// WithHTTPClient replaces the default client, whose timeout comes from the
// config. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for per-request debug lines. Without it
// the client logs nothing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNow sets the clock used for the default calendar window.
func WithNow(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds a client from cfg. The data endpoint always comes from
// cfg; there is no option to override it.
func NewClient(cfg config.AlpacaConfig, opts ...Option) *Client {
	c := &Client{
		endpoint:     cfg.Endpoint,
		dataEndpoint: cfg.DataEndpoint,
		keyID:        cfg.KeyID,
		keySecret:    cfg.KeySecret,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the trading endpoint in use.
func (c *Client) Endpoint() string { return c.endpoint }

// DataEndpoint returns the market data endpoint used by Bars.
func (c *Client) DataEndpoint() string { return c.dataEndpoint }

// KeyID returns the key id sent as APCA-API-KEY-ID.
func (c *Client) KeyID() string { return c.keyID }

// KeySecret returns the secret sent as APCA-API-SECRET-KEY.
func (c *Client) KeySecret() string { return c.keySecret }

// Account returns the account tied to the credentials.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	body, err := c.get(ctx, c.endpoint, pathAccount, nil)
	if err != nil {
		return nil, err
	}

	account := &Account{}
	if err := json.Unmarshal(body, account); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return account, nil
}

// Asset returns the asset for symbol. The symbol is path-escaped, so
// "BRK/B" is requested as v2/assets/BRK%2FB.
func (c *Client) Asset(ctx context.Context, symbol string) (*Asset, error) {
	body, err := c.get(ctx, c.endpoint, pathAssets+"/"+url.PathEscape(symbol), nil)
	if err != nil {
		return nil, err
	}

	asset := &Asset{}
	if err := json.Unmarshal(body, asset); err != nil {
		return nil, fmt.Errorf("decode asset: %w", err)
	}
	return asset, nil
}

// Assets lists assets in server order. Nil filters are left out of the query.
func (c *Client) Assets(ctx context.Context, status, assetClass *string) ([]Asset, error) {
	params := url.Values{}
	if status != nil {
		params.Set("status", *status)
	}
	if assetClass != nil {
		params.Set("asset_class", *assetClass)
	}

	body, err := c.get(ctx, c.endpoint, pathAssets, params)
	if err != nil {
		return nil, err
	}

	var assets []Asset
	if err := json.Unmarshal(body, &assets); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	return assets, nil
}

// Bars fetches bars for symbols from the data endpoint.
func (c *Client) Bars(ctx context.Context, timeframe TimeFrame, symbols []string) (*BarSet, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))

	body, err := c.get(ctx, c.dataEndpoint, pathBars+"/"+url.PathEscape(string(timeframe)), params)
	if err != nil {
		return nil, err
	}

	set := &BarSet{}
	if err := json.Unmarshal(body, set); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	return set, nil
}

// Calendar returns trading days between start and end inclusive. A nil start
// means today and a nil end means today plus 30 days, in local time.
func (c *Client) Calendar(ctx context.Context, start, end *time.Time) ([]CalendarDay, error) {
	today := c.now()
	from, to := today, today.AddDate(0, 0, calendarWindowDays)
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}

	params := url.Values{}
	params.Set("start", from.Format(dateLayout))
	params.Set("end", to.Format(dateLayout))

	body, err := c.get(ctx, c.endpoint, pathCalendar, params)
	if err != nil {
		return nil, err
	}

	var days []CalendarDay
	if err := json.Unmarshal(body, &days); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}
	return days, nil
}

// Clock returns the current market clock.
func (c *Client) Clock(ctx context.Context) (*Clock, error) {
	body, err := c.get(ctx, c.endpoint, pathClock, nil)
	if err != nil {
		return nil, err
	}

	clock := &Clock{}
	if err := json.Unmarshal(body, clock); err != nil {
		return nil, fmt.Errorf("decode clock: %w", err)
	}
	return clock, nil
}

// get issues an authenticated GET for base/path and returns the body of a
// successful response. Any status of 300 or above comes back as *APIError.
func (c *Client) get(ctx context.Context, base, path string, params url.Values) ([]byte, error) {
	endpoint := strings.TrimSuffix(base, "/") + "/" + path
	if len(params) > 0 {
		endpoint += "?" + encodeQuery(params)
	}

	// Construct the GET request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Attach credentials
	req.Header.Set(HeaderKeyID, c.keyID)
	req.Header.Set(HeaderSecretKey, c.keySecret)

	// Execute the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("alpaca request",
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	// Check the HTTP status code
	if err := verify(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// encodeQuery is url.Values.Encode with commas left literal, so a symbol
// list goes out as symbols=AAPL,GOOG.
func encodeQuery(params url.Values) string {
	return strings.ReplaceAll(params.Encode(), "%2C", ",")
}
