package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nutripae/internal/apierror"

	"github.com/rs/zerolog/log"
)

// RESTClient talks JSON to one upstream microservice (coverage, hr, menus,
// purchases). Every call is exactly one round-trip: no retries, no caching.
// Non-2xx answers come back as *apierror.Error, classified once here.
type RESTClient struct {
	service    string
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

// NewRESTClient builds a client for service rooted at baseURL. cb may be nil.
func NewRESTClient(service, baseURL string, timeout time.Duration, cb *CircuitBreaker) *RESTClient {
	return &RESTClient{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
	}
}

func (c *RESTClient) Service() string { return c.service }

// Breaker exposes the circuit breaker for health reporting (may be nil).
func (c *RESTClient) Breaker() *CircuitBreaker { return c.cb }

func (c *RESTClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *RESTClient) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *RESTClient) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *RESTClient) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *RESTClient) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do performs the request and decodes a 2xx body into out (when non-nil and
// the body is not empty). Only transport failures and 5xx answers count
// against the circuit breaker; caller cancellations count as neither.
func (c *RESTClient) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := fmt.Sprintf("%s: %s %s", c.service, method, path)

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal body: %w", op, err)
		}
		payload = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// outcome carries errors that must reach the caller without tripping the breaker.
	var outcome error
	start := time.Now()
	err = c.execute(func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				outcome = apierror.Transport(op, ctx.Err())
				return nil
			}
			return apierror.Transport(op, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return apierror.Transport(op, err)
		}

		log.Debug().
			Str("service", c.service).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Msg("upstream call")

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := apierror.FromResponse(op, resp.StatusCode, raw)
			if apiErr.Kind == apierror.KindServer {
				return apiErr
			}
			outcome = apiErr
			return nil
		}

		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			outcome = &apierror.Error{
				Kind:   apierror.KindServer,
				Status: resp.StatusCode,
				Detail: "respuesta invalida del servicio",
				Op:     op,
				Err:    err,
			}
		}
		return nil
	})
	if errors.Is(err, ErrCircuitOpen) {
		return apierror.Transport(op, err)
	}
	if err != nil {
		return err
	}
	return outcome
}

func (c *RESTClient) execute(fn func() error) error {
	if c.cb == nil {
		return fn()
	}
	return c.cb.Execute(fn)
}

// Ping reports whether the upstream answers at all. Any HTTP status counts as
// reachable; it bypasses the circuit breaker so health checks never trip it.
func (c *RESTClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: ping: %w", c.service, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
