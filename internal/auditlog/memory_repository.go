package auditlog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps audit entries in process memory. Used with the
// memory database driver and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	logs   []AuditLog
	nextID uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) Create(ctx context.Context, log *AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.ID = r.nextID
	r.nextID++
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (f AuditLogFilter) matches(l AuditLog) bool {
	if f.ActorID != nil && (l.ActorID == nil || *l.ActorID != *f.ActorID) {
		return false
	}
	if f.TempleID != nil && (l.TempleID == nil || *l.TempleID != *f.TempleID) {
		return false
	}
	if f.Action != "" && !strings.Contains(strings.ToLower(l.Action), strings.ToLower(f.Action)) {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.FromDate != nil && l.CreatedAt.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && l.CreatedAt.After(*f.ToDate) {
		return false
	}
	return true
}

func toResponse(l AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        l.ID,
		ActorID:   l.ActorID,
		TempleID:  l.TempleID,
		Action:    l.Action,
		Details:   l.Details,
		IPAddress: l.IPAddress,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
	}
}

func (r *MemoryRepository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []AuditLog
	for _, l := range r.logs {
		if filter.matches(l) {
			matched = append(matched, l)
		}
	}
	// newest first, same as the SQL repository
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset < 0 {
		offset = 0
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}

	out := make([]AuditLogResponse, 0, end-offset)
	for _, l := range matched[offset:end] {
		out = append(out, toResponse(l))
	}
	return out, total, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.logs {
		if l.ID == id {
			resp := toResponse(l)
			return &resp, nil
		}
	}
	return nil, fmt.Errorf("audit log %d: %w", id, ErrNotFound)
}

func (r *MemoryRepository) CountByAction(ctx context.Context, from, to time.Time) ([]ActionCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct{ action, status string }
	counts := map[key]int64{}
	var order []key
	for _, l := range r.logs {
		if l.CreatedAt.Before(from) || l.CreatedAt.After(to) {
			continue
		}
		k := key{l.Action, l.Status}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	out := make([]ActionCount, 0, len(order))
	for _, k := range order {
		out = append(out, ActionCount{Action: k.action, Status: k.status, Count: counts[k]})
	}
	return out, nil
}
