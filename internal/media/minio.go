package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the URL prefix handed out for objects.
	PublicURL string
}

// MinIOStore keeps uploads in an S3-compatible bucket.
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("%s/%s", client.EndpointURL().String(), cfg.Bucket)
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (s *MinIOStore) Upload(ctx context.Context, f File) (Asset, error) {
	key := "temples/" + uuid.NewString() + mimetype.Detect(f.Content).Extension()

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(f.Content), int64(len(f.Content)),
		minio.PutObjectOptions{ContentType: f.ContentType},
	)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to upload to minio: %w", err)
	}

	return Asset{URL: fmt.Sprintf("%s/%s", s.publicURL, key), PublicID: key}, nil
}

// Delete removes the object. Identifiers derived from a URL lack the
// "temples/" prefix and extension; those are resolved by listing.
func (s *MinIOStore) Delete(ctx context.Context, publicID string, _ Kind) error {
	key := publicID
	if !strings.Contains(key, "/") {
		resolved, err := s.resolve(ctx, key)
		if err != nil {
			return err
		}
		key = resolved
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *MinIOStore) resolve(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefix := "temples/" + id
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if object.Err != nil {
			return "", fmt.Errorf("error listing objects: %w", object.Err)
		}
		return object.Key, nil
	}
	return "", fmt.Errorf("object %q not found", id)
}
