package media

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sharath018/temple-registry/internal/metrics"
)

type CoordinatorOptions struct {
	MaxUploadBytes int64
	// Concurrency bounds parallel uploads within one batch.
	Concurrency int
	Metrics     *metrics.Metrics
}

// Coordinator sequences uploads and deletions against a Store. Deletions are
// never performed inline; they go to the cleanup queue.
type Coordinator struct {
	store   Store
	cleanup CleanupQueue
	opts    CoordinatorOptions
}

func NewCoordinator(store Store, cleanup CleanupQueue, opts CoordinatorOptions) *Coordinator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Coordinator{store: store, cleanup: cleanup, opts: opts}
}

// Upload validates f as an image and stores it.
func (c *Coordinator) Upload(ctx context.Context, f File) (Asset, error) {
	contentType, _, err := ValidateImage(f, c.opts.MaxUploadBytes)
	if err != nil {
		c.opts.Metrics.ObserveUpload(string(KindImage), false)
		return Asset{}, err
	}
	f.ContentType = contentType

	asset, err := c.store.Upload(ctx, f)
	c.opts.Metrics.ObserveUpload(string(KindImage), err == nil)
	if err != nil {
		return Asset{}, err
	}
	return asset, nil
}

// ReplaceCover uploads the new image, runs commit to persist it, and only then
// schedules deletion of the previous one. If commit fails the new upload is
// discarded instead and the previous image is left alone.
func (c *Coordinator) ReplaceCover(ctx context.Context, previous Asset, f File, commit func(Asset) error) (Asset, error) {
	asset, err := c.Upload(ctx, f)
	if err != nil {
		return Asset{}, err
	}
	if commit != nil {
		if err := commit(asset); err != nil {
			c.Discard(ctx, asset, "cover image commit failed")
			return Asset{}, err
		}
	}
	if previous.URL != "" || previous.PublicID != "" {
		c.Discard(ctx, previous, "cover image replaced")
	}
	return asset, nil
}

// FileError records one failed item of a batch.
type FileError struct {
	Index    int
	Filename string
	Err      error
}

// BatchResult keeps successful uploads in input order.
type BatchResult struct {
	Uploaded []Asset
	Failed   []FileError
}

// UploadBatch uploads every file independently. One failure never stops the others.
func (c *Coordinator) UploadBatch(ctx context.Context, files []File) BatchResult {
	assets := make([]Asset, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			assets[i], errs[i] = c.Upload(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	var res BatchResult
	for i := range files {
		if errs[i] != nil {
			log.Warn().Err(errs[i]).Str("file", files[i].Filename).Msg("⚠️ gallery upload failed")
			res.Failed = append(res.Failed, FileError{Index: i, Filename: files[i].Filename, Err: errs[i]})
			continue
		}
		res.Uploaded = append(res.Uploaded, assets[i])
	}
	return res
}

// Discard schedules best-effort removal of a. Enqueue failures are logged only.
func (c *Coordinator) Discard(ctx context.Context, a Asset, reason string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	job := DeleteJob{PublicID: a.PublicID, URL: a.URL, Kind: KindImage, Reason: reason}
	if err := c.cleanup.Enqueue(ctx, job); err != nil {
		c.opts.Metrics.ObserveCleanup("dropped")
		log.Warn().Err(err).Str("url", a.URL).Str("reason", reason).Msg("⚠️ could not schedule media deletion")
	}
}
