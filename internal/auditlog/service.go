package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

type Service interface {
	Record(ctx context.Context, e Entry) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error)
	GetStats(ctx context.Context, from, to time.Time) (*Stats, error)
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, e Entry) error {
	if e.Action == "" {
		return errors.New("audit entry without action")
	}
	if e.Status == "" {
		e.Status = StatusSuccess
	}

	details := []byte("{}")
	if len(e.Details) > 0 {
		if b, err := json.Marshal(e.Details); err == nil {
			details = b
		}
	}

	return s.repo.Create(ctx, &AuditLog{
		ActorID:   e.ActorID,
		TempleID:  e.TempleID,
		Action:    e.Action,
		Details:   string(details),
		IPAddress: e.IP,
		Status:    e.Status,
	})
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	if logs == nil {
		logs = []AuditLogResponse{}
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	return s.repo.GetByID(ctx, id)
}

// GetStats aggregates entries created in [from, to].
func (s *service) GetStats(ctx context.Context, from, to time.Time) (*Stats, error) {
	groups, err := s.repo.CountByAction(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("audit stats: %w", err)
	}

	stats := &Stats{From: from, To: to, ActionBreakdown: map[string]int64{}}
	for _, g := range groups {
		stats.Total += g.Count
		stats.ActionBreakdown[g.Action] += g.Count
		if g.Status == StatusSuccess {
			stats.SuccessCount += g.Count
		} else {
			stats.FailureCount += g.Count
		}
	}
	return stats, nil
}
