package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsEndpointExposesRequestCounter(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t, happyMock(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interview/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "mockmate_gateway_requests_total") {
		t.Error("request counter missing from /metrics output")
	}
	if !strings.Contains(body, `route="/api/v1/interview/health"`) {
		t.Error("health route label missing from /metrics output")
	}
}

func TestStageMetricsRecorded(t *testing.T) {
	t.Parallel()

	g, handler := newTestGateway(t, happyMock(), nil)
	g.metrics.ObserveStage("generate", 10*time.Millisecond)
	g.metrics.RecordStageError("transcribe")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "mockmate_pipeline_stage_duration_seconds") {
		t.Error("stage duration histogram missing")
	}
	if !strings.Contains(body, `mockmate_pipeline_stage_errors_total{stage="transcribe"} 1`) {
		t.Error("stage error counter missing")
	}
}
