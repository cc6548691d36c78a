package auditlog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*AuditLogResponse, error)
	CountByAction(ctx context.Context, from, to time.Time) ([]ActionCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const selectWithTemple = `
	al.id, al.actor_id, al.temple_id, al.action,
	al.details, al.ip_address, al.status, al.created_at,
	t.temple_name as temple_name
`

func (r *repository) withTemple(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("audit_logs al").
		Select(selectWithTemple).
		Joins("LEFT JOIN temples t ON al.temple_id = t.id")
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	var logs []AuditLogResponse
	var total int64

	query := r.withTemple(ctx)
	if filter.ActorID != nil {
		query = query.Where("al.actor_id = ?", *filter.ActorID)
	}
	if filter.TempleID != nil {
		query = query.Where("al.temple_id = ?", *filter.TempleID)
	}
	if filter.Action != "" {
		escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(filter.Action)
		query = query.Where("al.action ILIKE ?", "%"+escaped+"%")
	}
	if filter.Status != "" {
		query = query.Where("al.status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("al.created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("al.created_at <= ?", *filter.ToDate)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("al.created_at DESC, al.id DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	var log AuditLogResponse
	err := r.withTemple(ctx).Where("al.id = ?", id).Take(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("audit log %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *repository) CountByAction(ctx context.Context, from, to time.Time) ([]ActionCount, error) {
	var out []ActionCount
	err := r.db.WithContext(ctx).
		Model(&AuditLog{}).
		Select("action, status, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("action, status").
		Scan(&out).Error
	return out, err
}
