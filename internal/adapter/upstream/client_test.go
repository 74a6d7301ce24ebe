package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/voucherbot/internal/domain/errors"
	"github.com/polkiloo/voucherbot/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewHTTPClient(srv.URL, opts, testLogger())
	require.NoError(t, err)
	return client
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	_, err := NewHTTPClient("://bad-url", Options{}, testLogger())
	assert.Error(t, err)
	_, err = NewHTTPClient("/relative", Options{}, testLogger())
	assert.Error(t, err)
}

func TestApplySendsVoucherRequest(t *testing.T) {
	var captured struct {
		method, path string
		header       http.Header
		body         voucherRequest
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.header = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&captured.body)
		_, _ = w.Write([]byte(`{"voucherInfo":{"savedAmount":1500}}`))
	}, Options{})

	resp, err := client.Apply(context.Background(), model.Session("a=1; b=2"), "SVH1234")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, applyPath, captured.path)
	assert.Equal(t, "SVH1234", captured.body.VoucherID)
	assert.Equal(t, "web", captured.body.Device.ClientType)
	assert.Equal(t, "a=1; b=2", captured.header.Get("Cookie"))
	assert.Equal(t, "SHEIN", captured.header.Get("X-Tenant-Id"))
	assert.Equal(t, "application/json", captured.header.Get("Content-Type"))
	assert.Equal(t, client.origin, captured.header.Get("Origin"))
	assert.Equal(t, client.origin+"/cart", captured.header.Get("Referer"))
	assert.NotEmpty(t, captured.header.Get("User-Agent"))

	assert.False(t, resp.HasError)
	assert.Equal(t, int64(1500), resp.SavedAmount)
}

func TestApplyDecodesErrorSection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorMessage":{"errors":[{"message":"Voucher already Redeemed"},{"message":"second"}]}}`))
	}, Options{})

	resp, err := client.Apply(context.Background(), "c=1", "SVA1")
	require.NoError(t, err)
	assert.True(t, resp.HasError)
	assert.Equal(t, []string{"Voucher already Redeemed", "second"}, resp.Messages)
}

func TestApplyTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		opts    Options
		target  error
	}{
		{
			name: "non json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>captcha</html>"))
			},
			target: domainErrors.ErrMalformedResponse,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			target: domainErrors.ErrMalformedResponse,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"errorMessage":{"errors":[{"message":"login"}]}}`))
			},
			target: domainErrors.ErrUnauthorized,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
			opts:   Options{ApplyTimeout: 20 * time.Millisecond},
			target: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, tt.opts)
			resp, err := client.Apply(context.Background(), "c=1", "SVA1")
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, errors.Is(err, tt.target), "expected %v, got %v", tt.target, err)
		})
	}
}

func TestApplyConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewHTTPClient(url, Options{}, testLogger())
	require.NoError(t, err)
	_, err = client.Apply(context.Background(), "c=1", "SVA1")
	assert.Error(t, err)
}

func TestResetSwallowsFailures(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, resetPath, r.URL.Path)
		http.Error(w, "boom", http.StatusInternalServerError)
	}, Options{})

	client.Reset(context.Background(), "c=1", "SVA1")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	dead, err := NewHTTPClient("http://127.0.0.1:1", Options{ResetTimeout: 50 * time.Millisecond}, testLogger())
	require.NoError(t, err)
	assert.NotPanics(t, func() { dead.Reset(context.Background(), "c=1", "SVA1") })
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "logged in", status: http.StatusOK, body: `{"success":true,"name":"x"}`},
		{name: "alternate flag", status: http.StatusOK, body: `{"isSuccess":true}`},
		{name: "not logged in", status: http.StatusOK, body: `{"success":false}`, wantErr: domainErrors.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, wantErr: domainErrors.ErrUnauthorized},
		{name: "html", status: http.StatusOK, body: `<html>`, wantErr: domainErrors.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, probePath, r.URL.Path)
				assert.Equal(t, "sid=1", r.Header.Get("Cookie"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, Options{})

			err := client.Probe(context.Background(), "sid=1")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeApply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.ApplyResponse
	}{
		{name: "empty object", body: `{}`, want: model.ApplyResponse{}},
		{name: "null body", body: `null`, want: model.ApplyResponse{}},
		{name: "null error", body: `{"errorMessage":null,"voucherInfo":{"savedAmount":"250.75"}}`, want: model.ApplyResponse{SavedAmount: 250}},
		{name: "string error", body: `{"errorMessage":"Invalid voucher"}`, want: model.ApplyResponse{HasError: true, Messages: []string{"Invalid voucher"}}},
		{name: "empty errors", body: `{"errorMessage":{"errors":[]}}`, want: model.ApplyResponse{HasError: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeApply([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, int64(0), parseAmount(nil))
	assert.Equal(t, int64(0), parseAmount(json.RawMessage(`null`)))
	assert.Equal(t, int64(12), parseAmount(json.RawMessage(`12.9`)))
	assert.Equal(t, int64(7), parseAmount(json.RawMessage(`"7"`)))
	assert.Equal(t, int64(0), parseAmount(json.RawMessage(`-3`)))
	assert.Equal(t, int64(0), parseAmount(json.RawMessage(`"abc"`)))
	assert.Equal(t, int64(math.MaxInt64), parseAmount(json.RawMessage(`1e20`)))
	assert.Equal(t, int64(math.MaxInt64), parseAmount(json.RawMessage(`"9223372036854775808"`)))
}
