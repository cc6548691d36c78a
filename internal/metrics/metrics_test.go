package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUpload("image", true)
	m.ObserveUpload("image", false)
	m.ObserveCleanup("success")
	m.ObserveOperation("create", nil)
	m.ObserveOperation("create", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaUploads.WithLabelValues("image", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaUploads.WithLabelValues("image", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaCleanup.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TempleOperations.WithLabelValues("create", "failure")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpload("image", true)
		m.ObserveCleanup("failure")
		m.ObserveOperation("update", nil)
	})
}
