/*
Package gateway 支付网关 REST 客户端

所有出站调用都有超时，并经过熔断器。熔断器只统计传输层失败
（连接错误、超时）；网关返回的任何 HTTP 状态都视为一次成功往返。
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storefront/config"
	"storefront/domain/payment"
	"storefront/pkg/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrUpstream 网关不可达、超时或熔断器打开
var ErrUpstream = errors.New("payment gateway unavailable")

const maxResponseBytes = 1 << 20

// Response is a gateway reply relayed verbatim.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type Client struct {
	baseURL    string
	authHeader string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Response]
	lookups    singleflight.Group
}

func NewClient(cfg config.GatewayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	failures := cfg.Breaker.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		baseURL:    cfg.BaseURL(),
		authHeader: basicAuth(cfg.ClientKey, cfg.SecretKey),
		timeout:    timeout,
		httpClient: &http.Client{},
		breaker:    gobreaker.NewCircuitBreaker[*Response](settings),
	}
}

func basicAuth(clientKey, secretKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientKey+":"+secretKey))
}

// Proxy forwards body to POST /v1/payments once and returns the reply unchanged.
func (c *Client) Proxy(ctx context.Context, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/v1/payments", body)
}

// QueryPayment fetches the authoritative state of a transaction.
// Concurrent lookups of the same tid share one request.
func (c *Client) QueryPayment(ctx context.Context, tid string) (payment.Confirmation, error) {
	v, err, _ := c.lookups.Do(tid, func() (any, error) {
		resp, err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(tid), nil)
		if err != nil {
			return payment.Confirmation{}, err
		}
		if resp.StatusCode != http.StatusOK {
			return payment.Confirmation{}, fmt.Errorf("gateway lookup of %s returned %d", tid, resp.StatusCode)
		}
		var confirmation payment.Confirmation
		if err := json.Unmarshal(resp.Body, &confirmation); err != nil {
			return payment.Confirmation{}, fmt.Errorf("decode gateway lookup: %w", err)
		}
		return confirmation, nil
	})
	if err != nil {
		return payment.Confirmation{}, err
	}
	return v.(payment.Confirmation), nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.breaker.Execute(func() (*Response, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", c.authHeader)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}
		return &Response{
			StatusCode:  httpResp.StatusCode,
			ContentType: httpResp.Header.Get("Content-Type"),
			Body:        data,
		}, nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn("Payment gateway call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp, nil
}
