package handler

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"

	"github.com/speakhelper/speakhelper/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	relayKeys := make([]metrics.RelayKey, 0, len(snap.RelayCalls))
	for k := range snap.RelayCalls {
		relayKeys = append(relayKeys, k)
	}
	slices.SortFunc(relayKeys, func(a, b metrics.RelayKey) int {
		return cmp.Or(cmp.Compare(a.Endpoint, b.Endpoint), cmp.Compare(a.Status, b.Status))
	})
	for _, k := range relayKeys {
		writeMetric(w, "speakhelper_relay_calls_total{endpoint=%q,status=%q} %d\n", k.Endpoint, k.Status, snap.RelayCalls[k])
	}

	for _, endpoint := range sortedKeys(snap.UpstreamDurationCount) {
		writeMetric(w, "speakhelper_upstream_duration_seconds_count{endpoint=%q} %d\n", endpoint, snap.UpstreamDurationCount[endpoint])
		writeMetric(w, "speakhelper_upstream_duration_seconds_sum{endpoint=%q} %.6f\n", endpoint, float64(snap.UpstreamDurationTotalNs[endpoint])/1e9)
	}

	for _, reason := range sortedKeys(snap.AuthFailures) {
		writeMetric(w, "speakhelper_auth_failures_total{reason=%q} %d\n", reason, snap.AuthFailures[reason])
	}

	writeMetric(w, "speakhelper_history_writes_total{status=\"success\"} %d\n", snap.HistoryWrites)
	writeMetric(w, "speakhelper_history_writes_total{status=\"failed\"} %d\n", snap.HistoryWriteFailures)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
