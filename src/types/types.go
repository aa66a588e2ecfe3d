package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Role string

const (
	ROLE_ADMIN  Role = "admin"
	ROLE_MEMBER Role = "member"
)

type InviteStatus string

const (
	INVITE_PENDING  InviteStatus = "pending"
	INVITE_ACCEPTED InviteStatus = "accepted"
)

type AssignmentStatus string

const (
	ASSIGNMENT_PENDING      AssignmentStatus = "pending"
	ASSIGNMENT_ACKNOWLEDGED AssignmentStatus = "acknowledged"
	ASSIGNMENT_COMPLETED    AssignmentStatus = "completed"
)

type ReminderType string

const (
	REMINDER_STANDUP ReminderType = "standup"
	REMINDER_MEETING ReminderType = "meeting"
	REMINDER_TASK    ReminderType = "task"
	REMINDER_GENERAL ReminderType = "general"
)

type ReminderPriority string

const (
	PRIORITY_LOW    ReminderPriority = "low"
	PRIORITY_MEDIUM ReminderPriority = "medium"
	PRIORITY_HIGH   ReminderPriority = "high"
	PRIORITY_URGENT ReminderPriority = "urgent"
)

type RecurringPattern string

const (
	RECURRING_DAILY   RecurringPattern = "daily"
	RECURRING_WEEKLY  RecurringPattern = "weekly"
	RECURRING_MONTHLY RecurringPattern = "monthly"
)

type Environment string

const (
	Local      Environment = "local"
	Test       Environment = "test"
	Production Environment = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Timezone string `json:"timezone" binding:"required"`
	Role     string `json:"role,omitempty" binding:"omitempty,oneof=admin member"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateTeamRequestBody struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description" binding:"required"`
	ReminderTime string `json:"reminder_time" binding:"required,hhmm"`
}

type SendInviteRequestBody struct {
	TeamID uint   `json:"team_id" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}

type AcceptInviteRequestBody struct {
	InviteID uint `json:"invite_id" binding:"required"`
}

type UpdateMemberRequestBody struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Timezone *string `json:"timezone,omitempty"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=admin member"`
	TeamID   *uint   `json:"team_id,omitempty"`
}

type MembersQueryFilters struct {
	TeamID uint   `form:"team_id"`
	Query  string `form:"q"`
	Sort   string `form:"sort"`
}

type CreateReminderRequestBody struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description" binding:"required"`
	Type             string `json:"type,omitempty" binding:"omitempty,oneof=standup meeting task general"`
	Priority         string `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	DueDate          string `json:"due_date" binding:"required,dateymd"`
	DueTime          string `json:"due_time" binding:"required,hhmm"`
	TeamID           uint   `json:"team_id" binding:"required"`
	AssignedTo       []uint `json:"assigned_to" binding:"required,min=1"`
	IsRecurring      bool   `json:"is_recurring,omitempty"`
	RecurringPattern string `json:"recurring_pattern,omitempty" binding:"omitempty,oneof=daily weekly monthly"`
}

// UpdateReminderRequestBody covers both actions of PUT /reminders/:id. The
// edit fields are nullable so absent fields are left untouched.
type UpdateReminderRequestBody struct {
	Action string `json:"action" binding:"required,oneof=update_status edit"`

	Status string `json:"status,omitempty" binding:"omitempty,oneof=acknowledged completed"`

	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty" binding:"omitempty,oneof=standup meeting task general"`
	Priority    *string `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *string `json:"due_date,omitempty" binding:"omitempty,dateymd"`
	DueTime     *string `json:"due_time,omitempty" binding:"omitempty,hhmm"`
	AssignedTo  []uint  `json:"assigned_to,omitempty"`
}

type RemindersQueryFilters struct {
	TeamID uint `form:"team_id"`
}

type StandupsQueryFilters struct {
	TeamID    uint   `form:"team_id"`
	StartDate string `form:"start_date" binding:"omitempty,dateymd"`
	EndDate   string `form:"end_date" binding:"omitempty,dateymd"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}
