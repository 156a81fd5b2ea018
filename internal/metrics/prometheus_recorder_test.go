package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveTransformDuration(150 * time.Millisecond)
	pr.IncBlockOutcome(BlockEmbedded)
	pr.IncBlockOutcome(BlockEmbedded)
	pr.IncBlockOutcome(BlockParseFailed)
	pr.ObserveProbeDuration("remote", 20*time.Millisecond, true)
	pr.IncProbeRetry("remote")

	if got := testutil.ToFloat64(pr.blockOutcomes.WithLabelValues(string(BlockEmbedded))); got != 2 {
		t.Fatalf("expected 2 embedded blocks, got %v", got)
	}
	if got := testutil.ToFloat64(pr.probeRetries.WithLabelValues("remote")); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBlockOutcome(BlockGeometry)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `docleaflet_block_outcomes_total{outcome="geometry_failed"} 1`) {
		t.Fatalf("expected block outcome series in scrape, got:\n%s", body)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveTransformDuration(time.Second)
	pr.IncBlockOutcome(BlockEmbedded)
	pr.ObserveProbeDuration("local", time.Second, false)
	pr.IncProbeRetry("local")

	if _, ok := OrNoop(nil).(NoopRecorder); !ok {
		t.Fatal("expected OrNoop(nil) to return NoopRecorder")
	}
}
