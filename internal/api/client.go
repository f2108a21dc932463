package api

import (
	"bytes"
	"context"
	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"
	"io"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"kickoff/internal/session"
	"kickoff/internal/structures"
	"net/http"
	"strings"
	"time"
)

const refreshKey = "refresh"

type Client struct {
	baseURL string
	http    *retryablehttp.Client
	tokens  session.TokenStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	flight  singleflight.Group
}

func NewClient(conf *structures.Config, tokens session.TokenStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = conf.Api.RetryMax
	rc.RetryWaitMin = time.Duration(conf.Api.RetryWaitMin) * time.Second
	rc.RetryWaitMax = time.Duration(conf.Api.RetryWaitMax) * time.Second
	rc.Logger = &leveledLogger{logger: logger}
	// hand the last response back instead of a "giving up" error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.HTTPClient.Transport = providers.MetricsTransport(metrics, rc.HTTPClient.Transport)

	return &Client{
		baseURL: strings.TrimRight(conf.Api.BaseURL, "/"),
		http:    rc,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Client) Tokens() session.TokenStoreInterface {
	return c.tokens
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, accessToken string) (int, []byte, error) {
	var body interface{}
	if payload != nil {
		body = payload
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// Do issues an authenticated request and decodes a 2xx body into out.
// A 401 with a refresh token available triggers one shared refresh and a
// single retry; any failure is returned as *ApiError.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return &ApiError{Message: "unable to encode request body", Detail: err.Error()}
		}
	}

	tokens := c.tokens.Get(ctx)
	accessToken := ""
	if tokens != nil {
		accessToken = tokens.AccessToken
	}

	status, data, err := c.send(ctx, method, endpoint, payload, accessToken)
	if err != nil {
		return networkError(err)
	}

	if status == http.StatusUnauthorized && tokens != nil && tokens.RefreshToken != "" {
		if fresh, ok := c.refresh(ctx, accessToken); ok {
			c.logger.Debugf(providers.TypeApi, "Retrying %s %s with refreshed token", method, endpoint)
			status, data, err = c.send(ctx, method, endpoint, payload, fresh.AccessToken)
			if err != nil {
				return networkError(err)
			}
		}
	}

	if status < 200 || status >= 300 {
		return shapeError(status, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ApiError{Message: "invalid response body", Status: status, Detail: err.Error()}
	}
	return nil
}

// refresh returns a usable pair for a request that was rejected with stale.
// Concurrent callers share one refresh call. A caller that arrives after the
// pair was already rotated reuses the stored pair.
func (c *Client) refresh(ctx context.Context, stale string) (*models.TokenPair, bool) {
	if current := c.tokens.Get(ctx); rotated(current, stale) {
		return current, true
	}

	v, _, _ := c.flight.Do(refreshKey, func() (interface{}, error) {
		// one caller's cancellation must not fail every waiter
		rctx := context.WithoutCancel(ctx)

		current := c.tokens.Get(rctx)
		if rotated(current, stale) {
			return current, nil
		}
		if current == nil || current.RefreshToken == "" {
			return nil, nil
		}

		pair, err := c.Refresh(rctx, current.RefreshToken)
		if err != nil || pair.AccessToken == "" {
			c.metrics.IncRefreshTotal(providers.RefreshFailed)
			c.logger.Warnf(providers.TypeSession, "Token refresh failed, clearing session: %v", err)
			c.tokens.Clear(rctx)
			return nil, nil
		}

		c.tokens.Set(rctx, *pair)
		c.metrics.IncRefreshTotal(providers.RefreshSucceeded)
		c.logger.Infof(providers.TypeSession, "Token pair refreshed")
		return pair, nil
	})

	pair, _ := v.(*models.TokenPair)
	return pair, pair != nil
}

func rotated(current *models.TokenPair, stale string) bool {
	return current != nil && current.AccessToken != "" && current.AccessToken != stale
}

// Refresh exchanges a refresh token for a new pair. It never retries and
// never touches the token store.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	payload, err := json.Marshal(models.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, &ApiError{Message: "unable to encode request body", Detail: err.Error()}
	}
	status, data, err := c.send(ctx, http.MethodPost, "/users/refresh", payload, "")
	if err != nil {
		return nil, networkError(err)
	}
	if status < 200 || status >= 300 {
		return nil, shapeError(status, data)
	}
	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, &ApiError{Message: "invalid response body", Status: status, Detail: err.Error()}
	}
	return &pair, nil
}

func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodGet, endpoint, nil, &out)
	return out, err
}

func Post[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodPost, endpoint, body, &out)
	return out, err
}

func Put[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodPut, endpoint, body, &out)
	return out, err
}

func Delete[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodDelete, endpoint, nil, &out)
	return out, err
}
