package model

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
)

// AuditLog records one row mutation on a campaign table.
type AuditLog struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID      string         `gorm:"index:idx_audit_trace;size:64" json:"trace_id"`
	Table        string         `gorm:"column:table_name;index:idx_audit_row;size:64;not null" json:"table_name"`
	RowID        int64          `gorm:"index:idx_audit_row" json:"row_id"`
	Action       string         `gorm:"size:16;not null" json:"action"`
	RowsAffected int64          `json:"rows_affected"`
	Payload      datatypes.JSON `json:"payload"`
	CreatedAt    time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"created_at"`
}
