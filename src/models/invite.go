package models

import (
	"standup/src/types"
)

type Invite struct {
	ID        uint               `gorm:"primarykey" json:"id"`
	Email     string             `gorm:"uniqueIndex:email_team" json:"email,omitempty"`
	TeamID    uint               `gorm:"uniqueIndex:email_team" json:"team_id,omitempty"`
	InvitedBy uint               `json:"invited_by,omitempty"`
	Status    types.InviteStatus `gorm:"default:'pending'" json:"status,omitempty"`

	Team    *Team `gorm:"foreignKey:team_id" json:"team,omitempty"`
	Inviter *User `gorm:"foreignKey:invited_by" json:"inviter,omitempty"`

	types.Timestamps
}
