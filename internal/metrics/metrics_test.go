package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCommentsApprovedCounter(t *testing.T) {
	before := testutil.ToFloat64(CommentsApproved)
	CommentsApproved.Add(3)
	if got := testutil.ToFloat64(CommentsApproved) - before; got != 3 {
		t.Fatalf("expected counter to grow by 3, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	AuthzDenied.WithLabelValues("story").Inc()

	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "youvshr_authz_denied_total") {
		t.Fatal("expected authz counter in scrape output")
	}
}
