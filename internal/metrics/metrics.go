package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MediaUploads     *prometheus.CounterVec
	MediaCleanup     *prometheus.CounterVec
	TempleOperations *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MediaUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "temple_media_uploads_total",
			Help: "Media uploads by kind and result",
		}, []string{"kind", "result"}),
		MediaCleanup: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "temple_media_cleanup_total",
			Help: "Remote media deletions by result",
		}, []string{"result"}),
		TempleOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "temple_operations_total",
			Help: "Registry operations by operation and result",
		}, []string{"operation", "result"}),
	}
}

// The helpers below are safe on a nil *Metrics.

func (m *Metrics) ObserveUpload(kind string, ok bool) {
	if m == nil {
		return
	}
	m.MediaUploads.WithLabelValues(kind, result(ok)).Inc()
}

func (m *Metrics) ObserveCleanup(res string) {
	if m == nil {
		return
	}
	m.MediaCleanup.WithLabelValues(res).Inc()
}

func (m *Metrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	m.TempleOperations.WithLabelValues(op, result(err == nil)).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
