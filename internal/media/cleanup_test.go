package media

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/temple-registry/internal/metrics"
)

func TestJanitorRetriesThenSucceeds(t *testing.T) {
	store := newMemStore()
	store.deleteFailures["temples/a.png"] = 2
	m := metrics.New(prometheus.NewRegistry())
	j := NewJanitor(store, JanitorOptions{MaxAttempts: 3, Backoff: time.Millisecond, Metrics: m})
	j.Start(context.Background(), 1)

	require.NoError(t, j.Enqueue(context.Background(), DeleteJob{PublicID: "temples/a.png", Reason: "test"}))
	j.Close()

	assert.Equal(t, 3, store.calls("temples/a.png"))
	assert.Equal(t, []string{"temples/a.png"}, store.deletedIDs())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaCleanup.WithLabelValues("success")))
	assert.Empty(t, j.Warnings())
}

func TestJanitorGivesUpWithWarning(t *testing.T) {
	store := newMemStore()
	store.deleteFailures["temples/a.png"] = 10
	j := NewJanitor(store, JanitorOptions{MaxAttempts: 2, Backoff: time.Millisecond})
	j.Start(context.Background(), 2)

	require.NoError(t, j.Enqueue(context.Background(), DeleteJob{PublicID: "temples/a.png", URL: "https://cdn.test/a.png", Reason: "gallery image removed"}))
	j.Close()

	assert.Equal(t, 2, store.calls("temples/a.png"))
	select {
	case w := <-j.Warnings():
		assert.Equal(t, "temples/a.png", w.Job.PublicID)
		assert.Equal(t, 2, w.Attempts)
		assert.ErrorIs(t, w.Err, errStore)
	default:
		t.Fatal("expected a warning for the abandoned deletion")
	}
}

func TestJanitorDerivesIDFromURL(t *testing.T) {
	store := newMemStore()
	j := NewJanitor(store, JanitorOptions{Backoff: time.Millisecond})
	j.Start(context.Background(), 1)

	require.NoError(t, j.Enqueue(context.Background(), DeleteJob{URL: "https://cdn.test/uploads/legacy.jpg"}))
	require.NoError(t, j.Enqueue(context.Background(), DeleteJob{URL: "https://cdn.test/uploads/readme"}))
	j.Close()

	assert.Equal(t, []string{"legacy"}, store.deletedIDs())
	w := <-j.Warnings()
	assert.ErrorIs(t, w.Err, ErrNoPublicID)
	assert.Equal(t, 0, w.Attempts)
}

func TestJanitorCloseDrainsAndRejects(t *testing.T) {
	store := newMemStore()
	j := NewJanitor(store, JanitorOptions{Buffer: 8, Backoff: time.Millisecond})
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, j.Enqueue(context.Background(), DeleteJob{PublicID: id}))
	}
	j.Start(context.Background(), 1)
	j.Close()

	assert.ElementsMatch(t, []string{"a", "b", "c"}, store.deletedIDs())
	assert.ErrorIs(t, j.Enqueue(context.Background(), DeleteJob{PublicID: "d"}), ErrQueueClosed)
	assert.NotPanics(t, j.Close)
}

func TestJanitorEnqueueNeverBlocks(t *testing.T) {
	j := NewJanitor(newMemStore(), JanitorOptions{Buffer: 1})

	require.NoError(t, j.Enqueue(context.Background(), DeleteJob{PublicID: "a"}))
	assert.ErrorIs(t, j.Enqueue(context.Background(), DeleteJob{PublicID: "b"}), ErrQueueFull)

	j.Start(context.Background(), 1)
	j.Close()
}
