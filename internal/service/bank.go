package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dskcredit/internal/metrics"
	"dskcredit/internal/model"
)

const (
	EndpointAdvertisement = "/function/getrek.php"
	EndpointMinMax        = "/function/getminmax.php"
	EndpointEur           = "/function/geteur.php"
	EndpointProduct       = "/function/getproduct.php"
	EndpointAddOrder      = "/function/addorders.php"
)

// ErrNoData is what every failed bank call reduces to. Callers treat it as
// "feature unavailable" and carry on.
var ErrNoData = errors.New("bank returned no data")

type MissingFieldError struct {
	Endpoint string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing field %q", e.Endpoint, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrNoData }

// ResponseCache stores raw successful GET bodies.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type BankClientOptions struct {
	Timeout      time.Duration
	MaxRedirects int
	Cache        ResponseCache
	CacheTTL     time.Duration
}

type BankClient struct {
	baseURL  string
	cid      string
	client   *http.Client
	cache    ResponseCache
	cacheTTL time.Duration
}

func NewBankClient(baseURL, cid string, opts BankClientOptions) *BankClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 6 * time.Second
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects < 0 {
		maxRedirects = 0
	}

	return &BankClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		cid:     cid,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}
}

func (c *BankClient) BaseURL() string { return c.baseURL }

func (c *BankClient) CID() string { return c.cid }

// URL joins the base and endpoint with exactly one slash and appends query.
func (c *BankClient) URL(endpoint string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *BankClient) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.URL(endpoint, query)

	if c.cache != nil && c.cacheTTL > 0 {
		if body, ok := c.cache.Get(ctx, u); ok {
			if err := decode(endpoint, body, out); err == nil {
				metrics.BankRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeCached).Inc()
				return nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrNoData, err)
	}

	body, err := c.do(req, endpoint, out)
	if err != nil {
		return err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		c.cache.Set(ctx, u, body, c.cacheTTL)
	}
	return nil
}

func (c *BankClient) Post(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrNoData, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err = c.do(req, endpoint, out)
	return err
}

func (c *BankClient) PostJSON(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode body: %v", ErrNoData, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint, nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrNoData, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	_, err = c.do(req, endpoint, out)
	return err
}

func (c *BankClient) do(req *http.Request, endpoint string, out any) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.BankRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Debug("bank request failed", "url", req.URL.String(), "error", err)
		metrics.BankRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeNoData).Inc()
		return nil, fmt.Errorf("%w: do request: %v", ErrNoData, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("bank response read failed", "url", req.URL.String(), "error", err)
		metrics.BankRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeNoData).Inc()
		return nil, fmt.Errorf("%w: read body: %v", ErrNoData, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("bank returned error status", "url", req.URL.String(), "status", resp.StatusCode)
		metrics.BankRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeHTTP).Inc()
		return nil, fmt.Errorf("%w: unexpected status %d", ErrNoData, resp.StatusCode)
	}

	if err := decode(endpoint, body, out); err != nil {
		outcome := metrics.OutcomeDecode
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			outcome = metrics.OutcomeMissing
		}
		slog.Debug("bank response rejected", "url", req.URL.String(), "error", err)
		metrics.BankRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
		return nil, err
	}

	metrics.BankRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()
	return body, nil
}

type requiredFielder interface {
	RequiredFields() []string
}

// decode rejects empty and null documents and, for typed responses, any
// document lacking a required key.
func decode(endpoint string, body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return fmt.Errorf("%w: empty response", ErrNoData)
	}

	if rf, ok := out.(requiredFielder); ok {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrNoData, err)
		}
		for _, name := range rf.RequiredFields() {
			if _, ok := fields[name]; !ok {
				return &MissingFieldError{Endpoint: endpoint, Field: name}
			}
		}
	}

	if out == nil {
		if !json.Valid(body) {
			return fmt.Errorf("%w: invalid json", ErrNoData)
		}
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNoData, err)
	}
	return nil
}

func (c *BankClient) cidQuery() url.Values {
	return url.Values{"cid": {c.cid}}
}

func (c *BankClient) Advertisement(ctx context.Context) (*model.Advertisement, error) {
	var res model.Advertisement
	if err := c.Get(ctx, EndpointAdvertisement, c.cidQuery(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *BankClient) MinMax(ctx context.Context) (*model.MinMaxLimits, error) {
	var res model.MinMaxLimits
	if err := c.Get(ctx, EndpointMinMax, c.cidQuery(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *BankClient) EurMode(ctx context.Context) (*model.EurMode, error) {
	var res model.EurMode
	if err := c.Get(ctx, EndpointEur, c.cidQuery(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *BankClient) ProductQuote(ctx context.Context, price decimal.Decimal, productID int64) (*model.CreditQuote, error) {
	q := c.cidQuery()
	q.Set("price", price.StringFixed(2))
	q.Set("product_id", strconv.FormatInt(productID, 10))

	var res model.CreditQuote
	if err := c.Get(ctx, EndpointProduct, q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddOrder posts the sealed application. It is never cached. An empty
// document ({}, [], false, 0, "") is ErrNoData; any other body without a
// usable order_id yields a zero OrderID.
func (c *BankClient) AddOrder(ctx context.Context, sealed string) (*model.AddOrderResponse, error) {
	var raw json.RawMessage
	if err := c.PostJSON(ctx, EndpointAddOrder, map[string]string{"data": sealed}, &raw); err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrNoData, err)
	}
	if emptyDocument(doc) {
		return nil, fmt.Errorf("%w: empty %s response", ErrNoData, EndpointAddOrder)
	}

	var res model.AddOrderResponse
	if fields, ok := doc.(map[string]any); ok {
		if _, ok := fields["order_id"]; ok {
			// An unparseable id is treated like a missing one.
			_ = json.Unmarshal(raw, &res)
		}
	}
	return &res, nil
}

func emptyDocument(doc any) bool {
	switch v := doc.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == "" || v == "0"
	}
	return false
}
