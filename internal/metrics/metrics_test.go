package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundary_ObserveCall(t *testing.T) {
	reg := NewRegistry()
	b := NewBoundary(reg)

	b.ObserveCall("save-submission", true, 3*time.Millisecond)
	b.ObserveCall("save-submission", false, time.Millisecond)
	b.ObserveCall("save-submission", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(b.Calls.WithLabelValues("save-submission", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.Calls.WithLabelValues("save-submission", OutcomeFailure)))
}

func TestBoundary_NilIsNoop(t *testing.T) {
	var b *Boundary
	b.ObserveCall("get-submissions", true, time.Millisecond)
	b.ObserveFocusRequest()
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := NewRegistry()
	b := NewBoundary(reg)
	b.ObserveFocusRequest()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "entrifi_window_focus_requests_total 1")
}
