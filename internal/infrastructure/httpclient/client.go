package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
)

// DefaultTimeout applies when the context carries no deadline.
const DefaultTimeout = 30 * time.Second

// Options configure the shared transport.
type Options struct {
	Timeout time.Duration
	// RequestsPerSecond caps the total outgoing rate across all providers. 0 means unlimited.
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// client is the fasthttp implementation of port.HTTPClient.
// It only classifies transport failures; status codes are left to the caller.
type client struct {
	client  *fasthttp.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a fasthttp-backed port.HTTPClient.
func NewClient(opts Options, logger *zap.Logger) port.HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	c := &client{
		client: &fasthttp.Client{
			Name:                          opts.UserAgent,
			NoDefaultUserAgentHeader:      opts.UserAgent == "",
			DisableHeaderNamesNormalizing: true,
			ReadTimeout:                   opts.Timeout,
			WriteTimeout:                  opts.Timeout,
		},
		timeout: opts.Timeout,
		logger:  logger.Named("HTTPClient"),
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// Do implements port.HTTPClient.
func (c *client) Do(ctx context.Context, r entity.HTTPRequest) (entity.HTTPResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return entity.HTTPResponse{}, fmt.Errorf("rate limiter wait: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return entity.HTTPResponse{}, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(r.URL)
	req.Header.SetMethod(r.Method)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Body != nil {
		req.SetBody(r.Body)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Sending request", zap.String("method", r.Method), zap.String("url", r.URL))

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Warn("Request failed", zap.String("url", r.URL), zap.Error(err))
		if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
			return entity.HTTPResponse{}, &entity.RequestError{Kind: entity.ErrTimeout, URL: r.URL, Err: err}
		}
		return entity.HTTPResponse{}, &entity.RequestError{Kind: entity.ErrNotOK, URL: r.URL, Err: err}
	}

	// resp is returned to the pool, keep a copy of the body
	body := append([]byte(nil), resp.Body()...)
	return entity.HTTPResponse{StatusCode: resp.StatusCode(), Body: body}, nil
}
