package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOutcome(t *testing.T) {
	p := NewPrometheus()

	p.RecordOutcome("complete_password_reset", "ok")
	p.RecordOutcome("complete_password_reset", "ok")
	p.RecordOutcome("complete_password_reset", "invalid_token")

	assert.Equal(t, 2.0, testutil.ToFloat64(p.outcomes.WithLabelValues("complete_password_reset", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.outcomes.WithLabelValues("complete_password_reset", "invalid_token")))
}

func TestHandlerExposesOutcomes(t *testing.T) {
	p := NewPrometheus()
	p.RecordOutcome("request_password_reset", "ok")

	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `streemi_operation_outcomes_total{operation="request_password_reset",outcome="ok"} 1`)
}
