package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(operations.WithLabelValues("deposit", "OK"))
	RecordOperation("deposit", "OK", time.Millisecond)
	RecordOperation("deposit", "OK", time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(operations.WithLabelValues("deposit", "OK")))

	RecordMoved("deposit", "SOL", 1500)
	assert.GreaterOrEqual(t, testutil.ToFloat64(movedValue.WithLabelValues("deposit", "SOL")), 1500.0)

	violations := testutil.ToFloat64(invariantViolations)
	RecordInvariantViolation()
	assert.Equal(t, violations+1, testutil.ToFloat64(invariantViolations))
}

func TestInstrumentHandler(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/escrow/withdraw", "409"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/escrow/withdraw", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/escrow/withdraw", "409")))

	unknown := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "other", "409"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/path/123", nil))
	assert.Equal(t, unknown+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "other", "409")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordOperation("withdraw", "OK", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "escrow_ledger_operations_total")
}
