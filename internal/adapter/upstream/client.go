package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/voucherbot/internal/domain/errors"
	"github.com/polkiloo/voucherbot/internal/domain/model"
)

const (
	applyPath = "/api/cart/apply-voucher"
	resetPath = "/api/cart/reset-voucher"
	probePath = "/api/user/info"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultTenant    = "SHEIN"

	// maxBodySize bounds how much of an upstream answer is read.
	maxBodySize = 1 << 20
)

// Client exposes the cart voucher operations of the shop API.
type Client interface {
	Apply(ctx context.Context, session model.Session, code string) (*model.ApplyResponse, error)
	Reset(ctx context.Context, session model.Session, code string)
	Probe(ctx context.Context, session model.Session) error
}

// Options tunes request headers and per-call timeouts.
type Options struct {
	Tenant       string
	UserAgent    string
	ApplyTimeout time.Duration
	ResetTimeout time.Duration
	ProbeTimeout time.Duration
}

// HTTPClient implements Client via the shop HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	origin     string
	httpClient *http.Client
	opts       Options
	logger     *slog.Logger
}

type voucherRequest struct {
	VoucherID string `json:"voucherId"`
	Device    device `json:"device"`
}

type device struct {
	ClientType string `json:"client_type"`
}

// applyPayload mirrors the JSON answer of apply-voucher.
type applyPayload struct {
	ErrorMessage json.RawMessage `json:"errorMessage"`
	VoucherInfo  *struct {
		SavedAmount json.RawMessage `json:"savedAmount"`
	} `json:"voucherInfo"`
}

type errorSection struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// NewHTTPClient creates upstream client for the given shop base URL.
func NewHTTPClient(baseURL string, opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("upstream url must be absolute")
	}
	if opts.Tenant == "" {
		opts.Tenant = defaultTenant
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.ApplyTimeout <= 0 {
		opts.ApplyTimeout = 12 * time.Second
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = 5 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    parsed,
		origin:     parsed.Scheme + "://" + parsed.Host,
		httpClient: &http.Client{},
		opts:       opts,
		logger:     logger.With(slog.String("component", "upstream")),
	}, nil
}

// Apply tries the voucher against the session cart.
// Timeouts, connection failures and non-JSON bodies are returned as errors.
func (c *HTTPClient) Apply(ctx context.Context, session model.Session, code string) (*model.ApplyResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ApplyTimeout)
	defer cancel()

	resp, err := c.post(ctx, applyPath, session, code)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("apply %s: %s: %w", code, resp.Status, domainErrors.ErrUnauthorized)
	}

	parsed, err := decodeApply(body)
	if err != nil {
		c.logger.Warn("apply voucher returned malformed body",
			slog.String("code", code),
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("apply %s: %w", code, err)
	}
	return parsed, nil
}

// Reset releases the voucher from the cart. Failures are logged and dropped.
func (c *HTTPClient) Reset(ctx context.Context, session model.Session, code string) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ResetTimeout)
	defer cancel()

	resp, err := c.post(ctx, resetPath, session, code)
	if err != nil {
		c.logger.Debug("reset voucher failed", slog.String("code", code), slog.String("error", err.Error()))
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	resp.Body.Close()
}

// Probe checks that the session is logged in.
func (c *HTTPClient) Probe(ctx context.Context, session model.Session) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(probePath), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, session)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe: %s: %w", resp.Status, domainErrors.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return err
	}
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("probe: %w", domainErrors.ErrMalformedResponse)
	}
	for _, key := range []string{"success", "isSuccess"} {
		if ok, _ := data[key].(bool); ok {
			return nil
		}
	}
	return fmt.Errorf("probe: not logged in: %w", domainErrors.ErrUnauthorized)
}

func (c *HTTPClient) post(ctx context.Context, p string, session model.Session, code string) (*http.Response, error) {
	payload, err := json.Marshal(voucherRequest{VoucherID: code, Device: device{ClientType: "web"}})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, session)
	return c.httpClient.Do(req)
}

func (c *HTTPClient) endpoint(p string) string {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, p)
	return endpoint.String()
}

func (c *HTTPClient) setHeaders(req *http.Request, session model.Session) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.origin)
	req.Header.Set("Referer", c.origin+"/cart")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("X-Tenant-Id", c.opts.Tenant)
	req.Header.Set("Cookie", session.Header())
}

func decodeApply(body []byte) (*model.ApplyResponse, error) {
	var data applyPayload
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, domainErrors.ErrMalformedResponse
	}

	resp := &model.ApplyResponse{}
	if data.VoucherInfo != nil {
		resp.SavedAmount = parseAmount(data.VoucherInfo.SavedAmount)
	}

	raw := bytes.TrimSpace(data.ErrorMessage)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return resp, nil
	}

	resp.HasError = true
	var section errorSection
	if err := json.Unmarshal(raw, &section); err == nil {
		for _, e := range section.Errors {
			resp.Messages = append(resp.Messages, e.Message)
		}
		return resp, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		resp.Messages = []string{text}
	}
	return resp, nil
}

func parseAmount(raw json.RawMessage) int64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(f))
}
