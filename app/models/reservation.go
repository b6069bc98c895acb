package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. Active statuses count against availability.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRejected   = "rejected"
)

// ActiveStatuses are the statuses that consume a unit of availability.
var ActiveStatuses = []string{StatusPending, StatusApproved, StatusInProgress}

// Reservation is a user's claim on one unit of a product for a date range
// (inclusive on both ends). Rows are never hard-deleted; a reservation
// leaves the active set only by transitioning to a terminal status.
type Reservation struct {
	gorm.Model
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`
	Status    string    `gorm:"size:50;not null;default:pending;index" json:"status"`
}

// IsActive reports whether the reservation currently counts against
// availability.
func (r *Reservation) IsActive() bool {
	switch r.Status {
	case StatusPending, StatusApproved, StatusInProgress:
		return true
	}
	return false
}

// IsTerminal reports whether the reservation has reached a final status.
func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Overlaps reports whether the reservation window intersects [qs, qe].
// Both windows are inclusive: [start, end] overlaps [qs, qe] iff
// start <= qe AND end >= qs.
func (r *Reservation) Overlaps(qs, qe time.Time) bool {
	return !r.StartDate.After(qe) && !r.EndDate.Before(qs)
}

// CanTransition reports whether moving to next is a legal status change.
// The forward path is pending → approved → in_progress → completed;
// cancelled and rejected are reachable from any non-terminal status.
// Returning an item completes the reservation whether or not pickup was
// recorded, so completion is legal from approved as well as in_progress.
func (r *Reservation) CanTransition(next string) bool {
	if r.IsTerminal() {
		return false
	}
	switch next {
	case StatusCancelled, StatusRejected:
		return true
	case StatusApproved:
		return r.Status == StatusPending
	case StatusInProgress:
		return r.Status == StatusApproved
	case StatusCompleted:
		return r.Status == StatusApproved || r.Status == StatusInProgress
	}
	return false
}

// Midnight truncates t to midnight UTC. Reservation dates are stored
// day-granular so overlap arithmetic works on whole days.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
