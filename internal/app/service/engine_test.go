package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/pkg/address"
	"balance_benchmark/internal/pkg/logger"
)

type fakeAdapter struct {
	name   string
	chains []entity.ChainID
	native bool
}

func (a *fakeAdapter) Definition() entity.ProviderDefinition {
	return entity.ProviderDefinition{
		Name:        a.name,
		BaseURL:     "https://fake.test",
		Method:      http.MethodGet,
		MinInterval: 2 * time.Second,
	}
}

func (a *fakeAdapter) RequestSpecs(addr string) []entity.RequestSpec {
	specs := make([]entity.RequestSpec, 0, len(a.chains))
	for _, chain := range a.chains {
		specs = append(specs, entity.RequestSpec{URL: "https://fake.test/" + string(chain) + "/" + addr, Chain: chain})
	}
	return specs
}

type fakePayload struct {
	Tokens []struct {
		Symbol string `json:"symbol"`
		Amount string `json:"amount"`
	} `json:"tokens"`
}

func decodeFake(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var payload fakePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload.Tokens == nil {
		return nil, nil
	}
	out := make([]entity.Balance, 0, len(payload.Tokens))
	for _, t := range payload.Tokens {
		out = append(out, entity.Balance{Token: t.Symbol, Amount: t.Amount, Chain: chain})
	}
	return out, nil
}

func (a *fakeAdapter) TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	return decodeFake(chain, body)
}

func (a *fakeAdapter) Headers() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

type nativeAdapter struct {
	fakeAdapter
}

func (a *nativeAdapter) NativeRequest(spec entity.RequestSpec) (entity.RequestSpec, bool) {
	spec.URL += "/native"
	return spec, true
}

func (a *nativeAdapter) TransformNative(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	return decodeFake(chain, body)
}

type fakeResponse struct {
	status int
	body   string
	err    error
}

type fakeClient struct {
	mu        sync.Mutex
	clock     *clock.Mock
	latency   time.Duration
	responses []fakeResponse
	requests  []entity.HTTPRequest
}

func (c *fakeClient) Do(_ context.Context, req entity.HTTPRequest) (entity.HTTPResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	var resp fakeResponse
	if len(c.responses) > 0 {
		resp = c.responses[0]
		c.responses = c.responses[1:]
	} else {
		resp = fakeResponse{status: http.StatusOK, body: `{"tokens":[]}`}
	}
	c.mu.Unlock()

	if c.clock != nil && c.latency > 0 {
		c.clock.Add(c.latency)
	}
	if resp.err != nil {
		return entity.HTTPResponse{}, resp.err
	}
	return entity.HTTPResponse{StatusCode: resp.status, Body: []byte(resp.body)}, nil
}

func (c *fakeClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func newTestEngine(adapter port.ProviderAdapter, client port.HTTPClient, agg *Aggregator, opts ...EngineOption) *Engine {
	agg.RegisterProvider(adapter.Definition().Name)
	return NewEngine(adapter, client, address.NewValidator(), agg, logger.NewSlogAdapter(),
		EngineSettings{MinSleep: 0, MaxAttempts: DefaultMaxAttempts}, opts...)
}

const evmAddress = "0x1d17371f4502357942b199cb0de90c6821f01fa5"

func TestEngineSkipsInvalidAddress(t *testing.T) {
	agg := NewAggregator()
	client := &fakeClient{}
	engine := newTestEngine(&fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Bitcoin}}, client, agg)

	require.NoError(t, engine.Execute(context.Background(), "not-a-real-address"))

	assert.Equal(t, 0, client.calls())
	assert.Empty(t, agg.Timings()["fake"])
	assert.Equal(t, 0, agg.ComputeStatistics()[0].Count)
}

func TestEngineOnlyCallsChainsMatchingAddress(t *testing.T) {
	agg := NewAggregator()
	client := &fakeClient{}
	chains := []entity.ChainID{entity.Ethereum, entity.Ronin, entity.Bitcoin, entity.Solana, entity.Polygon}
	engine := newTestEngine(&fakeAdapter{name: "fake", chains: chains}, client, agg)

	require.NoError(t, engine.Execute(context.Background(), evmAddress))

	require.Equal(t, 2, client.calls())
	assert.Equal(t, "https://fake.test/ethereum/"+evmAddress, client.requests[0].URL)
	assert.Equal(t, "https://fake.test/polygon/"+evmAddress, client.requests[1].URL)

	timings := agg.Timings()["fake"]
	assert.Len(t, timings, 2)
	assert.NotContains(t, timings, entity.Ronin)
}

func TestEngineNormalizesBalances(t *testing.T) {
	agg := NewAggregator()
	client := &fakeClient{responses: []fakeResponse{{
		status: http.StatusOK,
		body:   `{"tokens":[{"symbol":"eth","amount":"1"},{"symbol":"","amount":"9"},{"symbol":"BNB","amount":"2"},{"symbol":"aave","amount":"3"},{"symbol":"BNB","amount":"4"}]}`,
	}}}
	engine := newTestEngine(&fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum}}, client, agg)

	require.NoError(t, engine.Execute(context.Background(), evmAddress))

	result := agg.Balances()[evmAddress][entity.Ethereum]["fake"]
	require.Len(t, result.Result, 4)
	tokens := make([]string, 0, len(result.Result))
	for _, b := range result.Result {
		tokens = append(tokens, b.Token)
	}
	assert.Equal(t, []string{"aave", "BNB", "BNB", "eth"}, tokens)
	assert.Equal(t, "2", result.Result[1].Amount, "equal tokens keep provider order")
	assert.Equal(t, "aave, BNB, eth", result.TokenList)
}

func TestEngineRecordsMeasuredDuration(t *testing.T) {
	mock := clock.NewMock()
	agg := NewAggregator()
	client := &fakeClient{clock: mock, latency: 150 * time.Millisecond}
	engine := newTestEngine(&fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum}}, client, agg, WithClock(mock))

	require.NoError(t, engine.Execute(context.Background(), evmAddress))

	assert.Equal(t, []float64{150}, agg.Timings()["fake"][entity.Ethereum])
}

func TestEngineRecordsTimingWithoutBalanceData(t *testing.T) {
	agg := NewAggregator()
	client := &fakeClient{responses: []fakeResponse{{status: http.StatusOK, body: `{}`}}}
	engine := newTestEngine(&fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum}}, client, agg)

	require.NoError(t, engine.Execute(context.Background(), evmAddress))

	assert.Len(t, agg.Timings()["fake"][entity.Ethereum], 1)
	assert.Empty(t, agg.Balances())
}

func TestEngineRetryPolicy(t *testing.T) {
	tests := []struct {
		name      string
		responses []fakeResponse
		wantCalls int
		wantErr   error
		wantTimed bool
	}{
		{
			name:      "skippable twice propagates after two attempts",
			responses: []fakeResponse{{status: http.StatusTooManyRequests}, {status: http.StatusTooManyRequests}, {status: http.StatusOK, body: `{"tokens":[]}`}},
			wantCalls: 2,
			wantErr:   entity.ErrTooManyRequests,
		},
		{
			name:      "temporary block then success returns retried result",
			responses: []fakeResponse{{status: 430}, {status: http.StatusOK, body: `{"tokens":[{"symbol":"ETH","amount":"1"}]}`}},
			wantCalls: 2,
			wantTimed: true,
		},
		{
			name:      "gateway timeout is retried",
			responses: []fakeResponse{{status: http.StatusGatewayTimeout}, {status: http.StatusNotAcceptable}},
			wantCalls: 2,
			wantErr:   entity.ErrTimeout,
		},
		{
			name:      "forbidden is not retried",
			responses: []fakeResponse{{status: http.StatusForbidden}},
			wantCalls: 1,
			wantErr:   entity.ErrForbidden,
		},
		{
			name:      "unauthorized is not retried",
			responses: []fakeResponse{{status: http.StatusUnauthorized}},
			wantCalls: 1,
			wantErr:   entity.ErrForbidden,
		},
		{
			name:      "generic failure is not retried",
			responses: []fakeResponse{{status: http.StatusInternalServerError}},
			wantCalls: 1,
			wantErr:   entity.ErrNotOK,
		},
		{
			name:      "malformed body is not retried",
			responses: []fakeResponse{{status: http.StatusOK, body: `{"tokens":`}},
			wantCalls: 1,
			wantErr:   entity.ErrMalformedResponse,
		},
		{
			name:      "classified transport timeout is retried",
			responses: []fakeResponse{{err: &entity.RequestError{Kind: entity.ErrTimeout}}, {status: http.StatusOK, body: `{"tokens":[]}`}},
			wantCalls: 2,
			wantTimed: true,
		},
		{
			name:      "unclassified transport error is not retried",
			responses: []fakeResponse{{err: assert.AnError}},
			wantCalls: 1,
			wantErr:   entity.ErrNotOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			client := &fakeClient{responses: tt.responses}
			engine := newTestEngine(&fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum}}, client, agg)

			err := engine.Execute(context.Background(), evmAddress)

			assert.Equal(t, tt.wantCalls, client.calls())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantTimed {
				assert.Len(t, agg.Timings()["fake"][entity.Ethereum], 1)
			} else {
				assert.Empty(t, agg.Timings()["fake"])
			}
		})
	}
}

func TestEngineStopsAtFirstPropagatedError(t *testing.T) {
	agg := NewAggregator()
	client := &fakeClient{responses: []fakeResponse{{status: http.StatusForbidden}}}
	engine := newTestEngine(&fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum, entity.Polygon}}, client, agg)

	err := engine.Execute(context.Background(), evmAddress)

	require.ErrorIs(t, err, entity.ErrForbidden)
	assert.Equal(t, 1, client.calls())
}

func TestEnginePrependsNativeBalance(t *testing.T) {
	agg := NewAggregator()
	client := &fakeClient{responses: []fakeResponse{
		{status: http.StatusOK, body: `{"tokens":[{"symbol":"USDC","amount":"5"}]}`},
		{status: http.StatusOK, body: `{"tokens":[{"symbol":"ETH","amount":"1"}]}`},
	}}
	adapter := &nativeAdapter{fakeAdapter{name: "native", chains: []entity.ChainID{entity.Ethereum}}}
	engine := newTestEngine(adapter, client, agg)

	require.NoError(t, engine.Execute(context.Background(), evmAddress))

	require.Equal(t, 2, client.calls())
	assert.Equal(t, "https://fake.test/ethereum/"+evmAddress+"/native", client.requests[1].URL)
	result := agg.Balances()[evmAddress][entity.Ethereum]["native"]
	assert.Equal(t, "ETH, USDC", result.TokenList)
}

func TestEngineSendsHeadersAndMethod(t *testing.T) {
	agg := NewAggregator()
	client := &fakeClient{}
	engine := newTestEngine(&fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum}}, client, agg)

	require.NoError(t, engine.Execute(context.Background(), evmAddress))

	require.Equal(t, 1, client.calls())
	assert.Equal(t, http.MethodGet, client.requests[0].Method)
	assert.Equal(t, "application/json", client.requests[0].Headers["Content-Type"])
	assert.Nil(t, client.requests[0].Body)
}

func TestEnginePause(t *testing.T) {
	agg := NewAggregator()
	adapter := &fakeAdapter{name: "fake"}

	disabled := NewEngine(adapter, &fakeClient{}, address.NewValidator(), agg, logger.NewSlogAdapter(), EngineSettings{MinSleep: 0})
	assert.Zero(t, disabled.pause())

	enabled := NewEngine(adapter, &fakeClient{}, address.NewValidator(), agg, logger.NewSlogAdapter(), EngineSettings{MinSleep: 500 * time.Millisecond})
	assert.Equal(t, 2500*time.Millisecond, enabled.pause())
	assert.Equal(t, DefaultMaxAttempts, enabled.settings.MaxAttempts)
}

func TestEngineRetryWaitsThePause(t *testing.T) {
	mock := clock.NewMock()
	agg := NewAggregator()
	agg.RegisterProvider("fake")
	adapter := &fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum}}
	client := &fakeClient{responses: []fakeResponse{
		{status: http.StatusTooManyRequests},
		{status: http.StatusOK, body: `{"tokens":[]}`},
	}}
	engine := NewEngine(adapter, client, address.NewValidator(), agg, logger.NewSlogAdapter(),
		EngineSettings{MinSleep: time.Second, MaxAttempts: 2}, WithClock(mock))

	done := make(chan error, 1)
	go func() { done <- engine.Execute(context.Background(), evmAddress) }()

	require.Eventually(t, func() bool { return client.calls() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond) // let the retry timer start

	mock.Add(2900 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, client.calls())

	mock.Add(100 * time.Millisecond)
	require.Eventually(t, func() bool { return client.calls() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return len(agg.Timings()["fake"][entity.Ethereum]) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []float64{3000}, agg.Timings()["fake"][entity.Ethereum])

	// release the pause after the successful call
	time.Sleep(10 * time.Millisecond)
	mock.Add(3 * time.Second)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not finish after the pause")
	}
}

func TestEngineSleepHonorsContext(t *testing.T) {
	mock := clock.NewMock()
	agg := NewAggregator()
	adapter := &fakeAdapter{name: "fake", chains: []entity.ChainID{entity.Ethereum, entity.Polygon}}
	agg.RegisterProvider("fake")
	client := &fakeClient{}
	engine := NewEngine(adapter, client, address.NewValidator(), agg, logger.NewSlogAdapter(),
		EngineSettings{MinSleep: time.Second}, WithClock(mock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Execute(ctx, evmAddress) }()

	require.Eventually(t, func() bool { return client.calls() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop on cancellation")
	}
	assert.Equal(t, 1, client.calls())
}
