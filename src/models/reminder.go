package models

import (
	"time"

	"standup/src/types"
)

type Reminder struct {
	ID               uint                   `gorm:"primarykey" json:"id"`
	Title            string                 `json:"title,omitempty"`
	Description      string                 `json:"description,omitempty"`
	Type             types.ReminderType     `gorm:"default:'general'" json:"type,omitempty"`
	Priority         types.ReminderPriority `gorm:"default:'medium'" json:"priority,omitempty"`
	DueDate          string                 `gorm:"index:due_active" json:"due_date,omitempty"`
	DueTime          string                 `json:"due_time,omitempty"`
	TeamID           uint                   `gorm:"index" json:"team_id,omitempty"`
	CreatedBy        uint                   `json:"created_by,omitempty"`
	IsRecurring      bool                   `gorm:"default:false" json:"is_recurring"`
	RecurringPattern types.RecurringPattern `json:"recurring_pattern,omitempty"`
	IsActive         bool                   `gorm:"default:true;index:due_active" json:"is_active"`

	Assignments []ReminderAssignment `gorm:"foreignKey:reminder_id" json:"assigned_to,omitempty"`
	Team        *Team                `gorm:"foreignKey:team_id" json:"team,omitempty"`
	Creator     *User                `gorm:"foreignKey:created_by" json:"creator,omitempty"`

	types.Timestamps
}

// ReminderAssignment rows are replaced, not soft-deleted, when a reminder's
// assignee list is edited; the unique index holds one row per user.
type ReminderAssignment struct {
	ID             uint                   `gorm:"primarykey" json:"id"`
	ReminderID     uint                   `gorm:"uniqueIndex:reminder_user" json:"reminder_id,omitempty"`
	UserID         uint                   `gorm:"uniqueIndex:reminder_user" json:"user_id,omitempty"`
	Status         types.AssignmentStatus `gorm:"default:'pending'" json:"status,omitempty"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

// Assignment returns the per-user assignment row for userId, or nil.
func (r *Reminder) Assignment(userId uint) *ReminderAssignment {
	for i := range r.Assignments {
		if r.Assignments[i].UserID == userId {
			return &r.Assignments[i]
		}
	}
	return nil
}

// DueAt resolves DueDate + DueTime into a point in time in loc.
func (r *Reminder) DueAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.DueDate+" "+r.DueTime, loc)
}
