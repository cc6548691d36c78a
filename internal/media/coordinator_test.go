package media

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/temple-registry/internal/metrics"
)

func newCoordinator(store Store, q CleanupQueue) (*Coordinator, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	return NewCoordinator(store, q, CoordinatorOptions{MaxUploadBytes: 1 << 20, Concurrency: 2, Metrics: m}), m
}

func TestCoordinatorUploadValidates(t *testing.T) {
	store := newMemStore()
	c, m := newCoordinator(store, &captureQueue{})

	_, err := c.Upload(context.Background(), File{Filename: "a.txt", Content: []byte("hello")})
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Empty(t, store.uploads, "invalid files never reach the store")

	asset, err := c.Upload(context.Background(), png("a.png"))
	require.NoError(t, err)
	assert.Equal(t, "temples/a.png", asset.PublicID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaUploads.WithLabelValues("image", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaUploads.WithLabelValues("image", "failure")))
}

func TestCoordinatorUploadBatchKeepsOrder(t *testing.T) {
	store := newMemStore()
	store.failUpload["b.png"] = true
	c, _ := newCoordinator(store, &captureQueue{})

	res := c.UploadBatch(context.Background(), []File{
		png("a.png"),
		png("b.png"),
		{Filename: "c.txt", Content: []byte("text")},
		png("d.png"),
	})

	require.Len(t, res.Uploaded, 2)
	assert.Equal(t, "https://cdn.test/a.png", res.Uploaded[0].URL)
	assert.Equal(t, "https://cdn.test/d.png", res.Uploaded[1].URL)

	require.Len(t, res.Failed, 2)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.ErrorIs(t, res.Failed[0].Err, errStore)
	assert.Equal(t, "c.txt", res.Failed[1].Filename)
	assert.ErrorIs(t, res.Failed[1].Err, ErrNotImage)
}

func TestCoordinatorReplaceCoverOrdering(t *testing.T) {
	store := newMemStore()
	q := &captureQueue{}
	c, _ := newCoordinator(store, q)
	previous := Asset{URL: "https://cdn.test/old.png", PublicID: "temples/old.png"}

	var committed Asset
	asset, err := c.ReplaceCover(context.Background(), previous, png("new.png"), func(a Asset) error {
		committed = a
		assert.Empty(t, q.snapshot(), "previous cover must survive until the record is saved")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, asset, committed)

	jobs := q.snapshot()
	require.Len(t, jobs, 1)
	assert.Equal(t, "temples/old.png", jobs[0].PublicID)
	assert.Equal(t, "cover image replaced", jobs[0].Reason)
}

func TestCoordinatorReplaceCoverCommitFailure(t *testing.T) {
	store := newMemStore()
	q := &captureQueue{}
	c, _ := newCoordinator(store, q)
	previous := Asset{URL: "https://cdn.test/old.png", PublicID: "temples/old.png"}
	errCommit := errors.New("save failed")

	_, err := c.ReplaceCover(context.Background(), previous, png("new.png"), func(Asset) error { return errCommit })
	assert.ErrorIs(t, err, errCommit)

	jobs := q.snapshot()
	require.Len(t, jobs, 1)
	assert.Equal(t, "temples/new.png", jobs[0].PublicID, "only the orphaned upload is discarded")
}

func TestCoordinatorReplaceCoverUploadFailure(t *testing.T) {
	store := newMemStore()
	store.failUpload["new.png"] = true
	q := &captureQueue{}
	c, _ := newCoordinator(store, q)

	called := false
	_, err := c.ReplaceCover(context.Background(), Asset{PublicID: "temples/old.png"}, png("new.png"), func(Asset) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, errStore)
	assert.False(t, called)
	assert.Empty(t, q.snapshot())
}

func TestCoordinatorDiscardSwallowsEnqueueErrors(t *testing.T) {
	q := &captureQueue{err: ErrQueueFull}
	c, m := newCoordinator(newMemStore(), q)

	assert.NotPanics(t, func() {
		c.Discard(context.Background(), Asset{PublicID: "temples/x.png"}, "test")
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MediaCleanup.WithLabelValues("dropped")))
}

func TestCoordinatorDiscardOutlivesCanceledContext(t *testing.T) {
	q := &captureQueue{}
	c, _ := newCoordinator(newMemStore(), q)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Discard(ctx, Asset{PublicID: "temples/x.png"}, "request ended")
	assert.Len(t, q.snapshot(), 1)
}
