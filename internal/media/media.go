package media

import (
	"context"
	"errors"
)

// Kind is the asset class passed to the store on deletion.
type Kind string

const KindImage Kind = "image"

// File is an upload read into memory at the transport boundary.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Asset is a stored object: its public URL and the store's opaque identifier.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Store is the remote media host.
type Store interface {
	Upload(ctx context.Context, f File) (Asset, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

var (
	ErrNotImage    = errors.New("file is not a supported image")
	ErrTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrEmptyFile   = errors.New("file is empty")
	ErrNoPublicID  = errors.New("cannot derive a media identifier from url")
	ErrQueueClosed = errors.New("cleanup queue is closed")
)
