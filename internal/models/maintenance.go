// internal/models/maintenance.go
package models

import "time"

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

// IsOpen reports whether the request still blocks the stand.
func (s MaintenanceStatus) IsOpen() bool {
	return s == MaintenanceScheduled || s == MaintenanceInProgress
}

type MaintenanceRequest struct {
	ID       int64             `json:"id" db:"id"`
	StandID  int64             `json:"standId" db:"stand_id"`
	Title    string            `json:"title" db:"title"`
	Status   MaintenanceStatus `json:"status" db:"status"`
	Priority string            `json:"priority" db:"priority"`
	StartsAt time.Time         `json:"startsAt" db:"starts_at"`
	EndsAt   *time.Time        `json:"endsAt,omitempty" db:"ends_at"`
}
