package temple

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/sharath018/temple-registry/internal/auditlog"
	"github.com/sharath018/temple-registry/internal/media"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func pngFile(name string) media.File {
	return media.File{Filename: name, ContentType: "image/png", Content: pngMagic}
}

func textFile(name string) media.File {
	return media.File{Filename: name, ContentType: "image/png", Content: []byte("definitely not an image")}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool     { return &b }

func validRequest(name, city, email, phone string) CreateRequest {
	return CreateRequest{
		TempleName:            name,
		Location:              Location{Address: "1 Temple Road", City: city, State: "Maharashtra", Country: "India"},
		Description:           "A historic temple",
		History:               "Built in the 12th century",
		DarshanTimings:        DarshanTimings{Morning: "06:00-12:00", Evening: "16:00-21:00"},
		ActivitiesAndServices: "Daily aarti",
		ContactDetails:        ContactDetails{Email: email, Phone: phone},
	}
}

// fakeStore names assets after the uploaded file and can fail selected files.
type fakeStore struct {
	mu      sync.Mutex
	fail    map[string]bool
	uploads []string
	deletes []string
}

func newFakeStore(failing ...string) *fakeStore {
	s := &fakeStore{fail: map[string]bool{}}
	for _, f := range failing {
		s.fail[f] = true
	}
	return s
}

func (s *fakeStore) Upload(_ context.Context, f media.File) (media.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[f.Filename] {
		return media.Asset{}, fmt.Errorf("upload %s: remote store unavailable", f.Filename)
	}
	s.uploads = append(s.uploads, f.Filename)
	id := "temples/" + strings.TrimSuffix(f.Filename, path.Ext(f.Filename))
	return media.Asset{URL: "https://cdn.test/" + id + ".png", PublicID: id}, nil
}

func (s *fakeStore) Delete(_ context.Context, publicID string, _ media.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, publicID)
	return nil
}

func (s *fakeStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

// recordingQueue captures scheduled deletions instead of running them.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []media.DeleteJob
}

func (q *recordingQueue) Enqueue(_ context.Context, job media.DeleteJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) snapshot() []media.DeleteJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]media.DeleteJob(nil), q.jobs...)
}

func (q *recordingQueue) publicIDs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := make([]string, 0, len(q.jobs))
	for _, j := range q.jobs {
		ids = append(ids, j.PublicID)
	}
	return ids
}

// failingSaveRepo lets Create succeed and fails every Save.
type failingSaveRepo struct {
	Repository
}

var errSaveFailed = errors.New("database unavailable")

func (failingSaveRepo) Save(context.Context, *Temple) error { return errSaveFailed }

type recordingNotifier struct {
	mu     sync.Mutex
	topics []string
}

func (n *recordingNotifier) Notify(_ context.Context, topic, _, _ string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.topics = append(n.topics, topic)
	return nil
}

type testEnv struct {
	svc      *Service
	repo     *MemoryRepository
	store    *fakeStore
	queue    *recordingQueue
	audit    auditlog.Service
	notifier *recordingNotifier
}

func newTestEnv(failing ...string) *testEnv {
	repo := NewMemoryRepository()
	store := newFakeStore(failing...)
	queue := &recordingQueue{}
	coord := media.NewCoordinator(store, queue, media.CoordinatorOptions{MaxUploadBytes: 1 << 20})
	as := auditlog.NewService(auditlog.NewMemoryRepository())
	notifier := &recordingNotifier{}

	svc := NewService(repo, coord, as)
	svc.Notifier = notifier
	return &testEnv{svc: svc, repo: repo, store: store, queue: queue, audit: as, notifier: notifier}
}

func (e *testEnv) actions(templeID uint) []string {
	res, err := e.audit.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{TempleID: &templeID, Limit: 100})
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(res.Data))
	for _, l := range res.Data {
		out = append(out, l.Action)
	}
	return out
}
