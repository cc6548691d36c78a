package auditlog

import (
	"errors"
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var ErrNotFound = errors.New("audit log not found")

// AuditLog is one row of audit_logs. Actor and temple are nullable: system
// jobs have no actor and failed registrations have no temple yet.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *uint     `gorm:"index" json:"actorId"`
	TempleID  *uint     `gorm:"index" json:"templeId"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ipAddress"`
	Status    string    `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Entry is what callers record; Details is stored as JSON.
type Entry struct {
	ActorID  *uint
	TempleID *uint
	Action   string
	Details  map[string]interface{}
	IP       string
	Status   string
}

// AuditLogResponse is an audit row joined with the temple name, when the temple still exists.
type AuditLogResponse struct {
	ID         uint      `json:"id"`
	ActorID    *uint     `json:"actorId"`
	TempleID   *uint     `json:"templeId"`
	TempleName *string   `json:"templeName,omitempty"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ipAddress"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AuditLogFilter struct {
	ActorID  *uint
	TempleID *uint
	// Action matches as a case-insensitive substring.
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

type PaginatedAuditLogs struct {
	Data       []AuditLogResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

// ActionCount is one group of the stats aggregation.
type ActionCount struct {
	Action string
	Status string
	Count  int64
}

type Stats struct {
	From            time.Time        `json:"from"`
	To              time.Time        `json:"to"`
	Total           int64            `json:"total"`
	SuccessCount    int64            `json:"successCount"`
	FailureCount    int64            `json:"failureCount"`
	ActionBreakdown map[string]int64 `json:"actionBreakdown"`
}
