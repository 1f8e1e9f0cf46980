package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
)

var _ port.MetricsObserver = (*Observer)(nil)

func TestObserverCounts(t *testing.T) {
	o := NewObserver()

	o.ObserveRequest("ankr", entity.Ethereum, 120*time.Millisecond, nil)
	o.ObserveRequest("ankr", entity.Ethereum, 80*time.Millisecond, nil)
	o.ObserveRequest("debank", entity.Polygon, time.Second, &entity.RequestError{Kind: entity.ErrForbidden, StatusCode: 403})
	o.ObserveSkip("ankr", entity.Bitcoin)

	assert.Equal(t, 1.0, testutil.ToFloat64(o.errors.WithLabelValues("debank", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.skipped.WithLabelValues("ankr", "bitcoin")))
	assert.Equal(t, 2, testutil.CollectAndCount(o.duration))
}

func TestObserverHandler(t *testing.T) {
	o := NewObserver()
	o.ObserveRequest("moralis", entity.BSC, 50*time.Millisecond, nil)
	o.ObserveSkip("moralis", entity.Ronin)

	rec := httptest.NewRecorder()
	o.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `benchmark_request_duration_seconds_count{chain="bsc",outcome="success",provider="moralis"} 1`)
	assert.Contains(t, body, "benchmark_skipped_requests_total")
}
