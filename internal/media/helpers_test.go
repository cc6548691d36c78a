package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func png(name string) File {
	return File{Filename: name, Content: pngBytes}
}

var errStore = errors.New("store unavailable")

// memStore records uploads and deletions. Names listed in failUpload are
// rejected; deleteFailures makes the first N deletes of an id fail.
type memStore struct {
	mu             sync.Mutex
	uploads        []string
	deleted        []string
	failUpload     map[string]bool
	deleteFailures map[string]int
	deleteCalls    map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		failUpload:     map[string]bool{},
		deleteFailures: map[string]int{},
		deleteCalls:    map[string]int{},
	}
}

func (s *memStore) Upload(_ context.Context, f File) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload[f.Filename] {
		return Asset{}, fmt.Errorf("%s: %w", f.Filename, errStore)
	}
	s.uploads = append(s.uploads, f.Filename)
	return Asset{URL: "https://cdn.test/" + f.Filename, PublicID: "temples/" + f.Filename}, nil
}

func (s *memStore) Delete(_ context.Context, publicID string, _ Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls[publicID]++
	if s.deleteFailures[publicID] > 0 {
		s.deleteFailures[publicID]--
		return errStore
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}

func (s *memStore) deletedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *memStore) calls(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCalls[id]
}

type captureQueue struct {
	mu   sync.Mutex
	jobs []DeleteJob
	err  error
}

func (q *captureQueue) Enqueue(_ context.Context, job DeleteJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *captureQueue) snapshot() []DeleteJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]DeleteJob(nil), q.jobs...)
}
