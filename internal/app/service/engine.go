package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultMinSleep is added to the provider interval between two calls.
	DefaultMinSleep = 500 * time.Millisecond
	// DefaultMaxAttempts counts the first call.
	DefaultMaxAttempts = 2
)

// EngineSettings are the per-run knobs shared by every engine.
type EngineSettings struct {
	MinSleep    time.Duration // 0 disables the pause between calls entirely
	MaxAttempts int
}

// Engine drives one provider adapter through its request specs for an address.
// An Engine is not safe for concurrent use; the orchestrator runs one per provider goroutine.
type Engine struct {
	adapter    port.ProviderAdapter
	definition entity.ProviderDefinition
	client     port.HTTPClient
	validator  port.AddressValidator
	aggregator *Aggregator
	metrics    port.MetricsObserver
	logger     port.Logger
	clock      clock.Clock
	collator   *collate.Collator
	settings   EngineSettings
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithMetrics attaches a metrics observer.
func WithMetrics(m port.MetricsObserver) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an Engine for adapter.
func NewEngine(
	adapter port.ProviderAdapter,
	client port.HTTPClient,
	validator port.AddressValidator,
	aggregator *Aggregator,
	logger port.Logger,
	settings EngineSettings,
	opts ...EngineOption,
) *Engine {
	if settings.MinSleep < 0 {
		settings.MinSleep = 0
	}
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = DefaultMaxAttempts
	}
	e := &Engine{
		adapter:    adapter,
		definition: adapter.Definition(),
		client:     client,
		validator:  validator,
		aggregator: aggregator,
		logger:     logger,
		clock:      clock.New(),
		collator:   collate.New(language.English),
		settings:   settings,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the provider name.
func (e *Engine) Name() string {
	return e.definition.Name
}

// Execute runs every request spec the adapter builds for address, one after another.
// The first error that survives the retry policy is returned and the remaining specs are not run.
func (e *Engine) Execute(ctx context.Context, address string) error {
	specs := e.adapter.RequestSpecs(address)

	for _, spec := range specs {
		target := spec.Address
		if target == "" {
			target = address
		}
		if !e.validator.IsValid(spec.Chain, target) {
			e.logger.Debug("Skipping request, address not valid for chain",
				"provider", e.Name(), "chain", spec.Chain, "address", target)
			if e.metrics != nil {
				e.metrics.ObserveSkip(e.Name(), spec.Chain)
			}
			continue
		}

		start := e.clock.Now()
		err := e.executeWithRetry(ctx, target, spec)
		elapsed := e.clock.Since(start)

		if e.metrics != nil {
			e.metrics.ObserveRequest(e.Name(), spec.Chain, elapsed, err)
		}
		if err != nil {
			return fmt.Errorf("%s %s request for %s: %w", e.Name(), spec.Chain, target, err)
		}

		if err := e.aggregator.RecordTiming(e.Name(), spec.Chain, elapsed); err != nil {
			return err
		}
		e.logger.Debug("Request completed", "provider", e.Name(), "chain", spec.Chain, "elapsed", elapsed)

		if err := e.sleep(ctx); err != nil {
			return err
		}
	}
	return nil
}

// pause is the delay between two calls: MinSleep plus the provider's published interval.
func (e *Engine) pause() time.Duration {
	if e.settings.MinSleep == 0 {
		return 0
	}
	return e.settings.MinSleep + e.definition.MinInterval
}

func (e *Engine) sleep(ctx context.Context) error {
	d := e.pause()
	if d <= 0 {
		return nil
	}
	timer := e.clock.Timer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Engine) executeWithRetry(ctx context.Context, address string, spec entity.RequestSpec) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := e.executeSpec(ctx, address, spec)
		if err == nil {
			return nil
		}
		if !entity.IsSkippable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		e.logger.Warn("Transient provider error, retrying",
			"provider", e.Name(), "chain", spec.Chain, "attempt", attempt, "retry_in", next, "error", err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.pause()), uint64(e.settings.MaxAttempts-1)),
		ctx,
	)
	return backoff.RetryNotifyWithTimer(operation, policy, notify, &clockTimer{clock: e.clock})
}

func (e *Engine) executeSpec(ctx context.Context, address string, spec entity.RequestSpec) error {
	balances, err := e.fetch(ctx, spec, e.adapter.TransformResponse)
	if err != nil {
		return err
	}

	if native, ok := e.adapter.(port.NativeBalanceProvider); ok {
		if nativeSpec, wanted := native.NativeRequest(spec); wanted {
			nativeBalances, err := e.fetch(ctx, nativeSpec, native.TransformNative)
			if err != nil {
				return err
			}
			if nativeBalances != nil {
				balances = append(nativeBalances, balances...)
			}
		}
	}

	if balances == nil {
		return nil
	}

	sorted, tokens := e.normalize(balances)
	return e.aggregator.RecordBalances(e.Name(), address, spec.Chain, sorted, tokens)
}

type transformFunc func(chain entity.ChainID, body []byte) ([]entity.Balance, error)

func (e *Engine) fetch(ctx context.Context, spec entity.RequestSpec, transform transformFunc) ([]entity.Balance, error) {
	req := entity.HTTPRequest{
		Method:  e.definition.Method,
		URL:     spec.URL,
		Headers: e.adapter.Headers(),
	}
	if spec.Body != nil {
		body, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Body = body
	}

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		var reqErr *entity.RequestError
		if errors.As(err, &reqErr) {
			return nil, err
		}
		return nil, &entity.RequestError{Kind: entity.ErrNotOK, URL: spec.URL, Err: err}
	}

	if kind := entity.ClassifyStatus(resp.StatusCode); kind != nil {
		e.logger.Debug("Provider returned non-success status",
			"provider", e.Name(), "status", resp.StatusCode, "body", string(resp.Body))
		return nil, &entity.RequestError{Kind: kind, StatusCode: resp.StatusCode, URL: spec.URL}
	}

	if !json.Valid(resp.Body) {
		return nil, &entity.RequestError{Kind: entity.ErrMalformedResponse, StatusCode: resp.StatusCode, URL: spec.URL}
	}

	balances, err := transform(spec.Chain, resp.Body)
	if err != nil {
		return nil, &entity.RequestError{Kind: entity.ErrMalformedResponse, StatusCode: resp.StatusCode, URL: spec.URL, Err: err}
	}
	return balances, nil
}

// normalize drops balances without a token, sorts the rest by token and collects the distinct tokens.
func (e *Engine) normalize(balances []entity.Balance) ([]entity.Balance, []string) {
	filtered := make([]entity.Balance, 0, len(balances))
	for _, b := range balances {
		if b.Token == "" {
			continue
		}
		filtered = append(filtered, b)
	}

	sortBalances(e.collator, filtered)

	tokens := make([]string, len(filtered))
	for i, b := range filtered {
		tokens[i] = b.Token
	}
	return filtered, utils.UniqueStrings(tokens, true)
}

func sortBalances(c *collate.Collator, balances []entity.Balance) {
	sort.SliceStable(balances, func(i, j int) bool {
		return c.CompareString(balances[i].Token, balances[j].Token) < 0
	})
}

// clockTimer adapts clock.Clock to backoff.Timer so retries wait on the same clock as the engine.
type clockTimer struct {
	clock clock.Clock
	timer *clock.Timer
	c     <-chan time.Time
}

func (t *clockTimer) Start(d time.Duration) {
	t.Stop()
	if d <= 0 {
		fired := make(chan time.Time, 1)
		fired <- t.clock.Now()
		t.timer, t.c = nil, fired
		return
	}
	t.timer = t.clock.Timer(d)
	t.c = t.timer.C
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.c
}
