package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"SmallCapLab/internal/domain/models"
	drepo "SmallCapLab/internal/domain/repository"
	xhttp "SmallCapLab/pkg/http"
)

const (
	DefaultBaseURL = "https://financialmodelingprep.com"
	// DemoKey is the public key FMP accepts for a limited symbol set.
	DemoKey = "demo"

	maxBody = 32 << 20
)

// Client implements drepo.QuoteSource against the FMP per-exchange quotes
// endpoint. It neither retries nor caches.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
}

// Option configures Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// WithBaseURL overrides the provider host.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithAPIKey sets the API key. An empty key falls back to DemoKey.
func WithAPIKey(k string) Option {
	return func(o *clientOptions) { o.apiKey = k }
}

// WithTimeout bounds a single request.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// New creates an FMP quote source.
func New(opts ...Option) *Client {
	o := clientOptions{baseURL: DefaultBaseURL, apiKey: DemoKey, timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.apiKey == "" {
		o.apiKey = DemoKey
	}
	return &Client{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		apiKey:  o.apiKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(o.timeout)),
	}
}

var _ drepo.QuoteSource = (*Client)(nil)

// quote mirrors the provider payload. Every field is optional upstream.
type quote struct {
	Symbol      *string  `json:"symbol"`
	Name        *string  `json:"name"`
	Exchange    *string  `json:"exchange"`
	Price       *float64 `json:"price"`
	Volume      *float64 `json:"volume"`
	AvgVolume   *float64 `json:"avgVolume"`
	MarketCap   *float64 `json:"marketCap"`
	PE          *float64 `json:"pe"`
	EPS         *float64 `json:"eps"`
	PriceAvg50  *float64 `json:"priceAvg50"`
	PriceAvg200 *float64 `json:"priceAvg200"`
	YearHigh    *float64 `json:"yearHigh"`
	YearLow     *float64 `json:"yearLow"`
}

// Fetch returns the quote snapshot of one exchange.
func (c *Client) Fetch(ctx context.Context, exchange drepo.Exchange) ([]models.QuoteRow, error) {
	ex := string(exchange)
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/api/v3/quotes/" + url.PathEscape(ex),
		QueryParams: map[string][]string{"apikey": {c.apiKey}},
		Headers:     map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, &models.UpstreamHTTPError{Exchange: ex, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &models.UpstreamHTTPError{Exchange: ex, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &models.UpstreamHTTPError{
			Exchange:    ex,
			StatusCode:  resp.StatusCode,
			BodyExcerpt: models.Excerpt(body),
		}
	}

	return decodeQuotes(ex, body)
}

// decodeQuotes turns a JSON array of objects into rows. Anything else, an
// error object included, is a format error.
func decodeQuotes(exchange string, body []byte) ([]models.QuoteRow, error) {
	var raw []*quote
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &models.UpstreamFormatError{Exchange: exchange, BodyExcerpt: models.Excerpt(body), Err: err}
	}
	if raw == nil {
		return nil, &models.UpstreamFormatError{Exchange: exchange, BodyExcerpt: models.Excerpt(body)}
	}

	rows := make([]models.QuoteRow, 0, len(raw))
	for _, q := range raw {
		if q == nil {
			return nil, &models.UpstreamFormatError{Exchange: exchange, BodyExcerpt: models.Excerpt(body)}
		}
		row := q.toRow(exchange)
		if row.Key() == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (q *quote) toRow(exchange string) models.QuoteRow {
	row := models.QuoteRow{
		Symbol:      deref(q.Symbol),
		Name:        q.Name,
		Exchange:    exchange,
		Price:       nonNegative(q.Price),
		Volume:      nonNegative(q.Volume),
		AvgVolume:   nonNegative(q.AvgVolume),
		MarketCap:   nonNegative(q.MarketCap),
		PERatio:     q.PE,
		EPS:         q.EPS,
		PriceAvg50:  q.PriceAvg50,
		PriceAvg200: q.PriceAvg200,
		YearHigh:    q.YearHigh,
		YearLow:     q.YearLow,
	}
	if q.Exchange != nil && *q.Exchange != "" {
		row.Exchange = *q.Exchange
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func nonNegative(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
