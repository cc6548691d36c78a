package temple

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps temples in process. It backs tests and the
// DB_DRIVER=memory development mode.
type MemoryRepository struct {
	mu      sync.RWMutex
	temples map[uint]*Temple
	nextID  uint
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		temples: make(map[uint]*Temple),
		nextID:  1,
		now:     time.Now,
	}
}

func (f Filter) matches(t *Temple) bool {
	if f.ExcludeID != 0 && t.ID == f.ExcludeID {
		return false
	}
	if f.TempleName != "" && t.TempleName != f.TempleName {
		return false
	}
	if f.ExactCity != "" && t.Location.City != f.ExactCity {
		return false
	}
	if f.Email != "" || f.Phone != "" {
		emailHit := f.Email != "" && t.ContactDetails.Email == f.Email
		phoneHit := f.Phone != "" && t.ContactDetails.Phone == f.Phone
		if !emailHit && !phoneHit {
			return false
		}
	}
	if f.RegisteredBy != nil && t.RegisteredBy != *f.RegisteredBy {
		return false
	}
	if f.Slug != "" && t.Slug != f.Slug {
		return false
	}
	if f.City != "" && !containsFold(t.Location.City, f.City) {
		return false
	}
	if f.State != "" && !containsFold(t.Location.State, f.State) {
		return false
	}
	if f.Verified != nil && t.IsVerified != *f.Verified {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *MemoryRepository) FindByID(_ context.Context, id uint) (*Temple, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.temples[id]
	if !ok {
		return nil, notFound("Temple not found")
	}
	return t.Clone(), nil
}

func (r *MemoryRepository) FindOne(ctx context.Context, f Filter) (*Temple, error) {
	found, err := r.Find(ctx, Query{Filter: f, SortBy: "id", Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, notFound("Temple not found")
	}
	return &found[0], nil
}

func (r *MemoryRepository) Find(_ context.Context, q Query) ([]Temple, error) {
	r.mu.RLock()
	var out []Temple
	for _, t := range r.temples {
		if q.Filter.matches(t) {
			out = append(out, *t.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if q.Desc {
			i, j = j, i
		}
		c := compareBy(q.SortBy, &out[i], &out[j])
		if c == 0 {
			return out[i].ID < out[j].ID
		}
		return c < 0
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []Temple{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func compareBy(field string, a, b *Temple) int {
	switch field {
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "templeName":
		return strings.Compare(a.TempleName, b.TempleName)
	case "city":
		return strings.Compare(a.Location.City, b.Location.City)
	case "state":
		return strings.Compare(a.Location.State, b.Location.State)
	case "id":
		return 0
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r *MemoryRepository) Count(_ context.Context, f Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, t := range r.temples {
		if f.matches(t) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Create(_ context.Context, t *Temple) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.temples {
		if existing.TempleName == t.TempleName && existing.Location.City == t.Location.City {
			return conflict("templeName", "A temple with this name already exists in this city")
		}
	}
	now := r.now()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	r.temples[t.ID] = t.Clone()
	return nil
}

func (r *MemoryRepository) Save(_ context.Context, t *Temple) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.temples[t.ID]
	if !ok {
		return notFound("Temple not found")
	}
	stored := t.Clone()
	stored.RegisteredBy = existing.RegisteredBy
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = r.now()
	t.UpdatedAt = stored.UpdatedAt
	r.temples[t.ID] = stored
	return nil
}
