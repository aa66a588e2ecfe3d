package models

import (
	"time"

	"standup/src/types"
)

type Team struct {
	ID           uint   `gorm:"primarykey;uniqueIndex:slugid" json:"id"`
	Name         string `gorm:"uniqueIndex" json:"name,omitempty"`
	Slug         string `gorm:"uniqueIndex:slugid" json:"slug"`
	Description  string `json:"description,omitempty"`
	ReminderTime string `json:"reminder_time,omitempty"`
	CreatedBy    uint   `json:"created_by,omitempty"`

	Members []TeamMember `gorm:"foreignKey:team_id" json:"members,omitempty"`
	Creator User         `gorm:"foreignKey:created_by" json:"-"`

	types.Timestamps
}

type TeamMember struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	TeamID   uint       `gorm:"uniqueIndex:team_user" json:"team_id,omitempty"`
	UserID   uint       `gorm:"uniqueIndex:team_user" json:"user_id,omitempty"`
	Role     types.Role `gorm:"default:'member'" json:"role,omitempty"`
	JoinedAt time.Time  `gorm:"autoCreateTime" json:"joined_at,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

// Member returns the membership row for userId, or nil.
func (t *Team) Member(userId uint) *TeamMember {
	for i := range t.Members {
		if t.Members[i].UserID == userId {
			return &t.Members[i]
		}
	}
	return nil
}

func (t *Team) IsAdmin(userId uint) bool {
	m := t.Member(userId)
	return m != nil && m.Role == types.ROLE_ADMIN
}
