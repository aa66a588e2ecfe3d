package models

import (
	"time"

	"standup/src/types"
)

type User struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Name       string     `json:"name,omitempty"`
	Email      string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Password   string     `json:"-"`
	Timezone   string     `json:"timezone,omitempty"`
	Role       types.Role `json:"role,omitempty"`
	TeamID     *uint      `json:"team_id,omitempty"`
	LastActive *time.Time `json:"last_active,omitempty"`

	Team     *Team     `gorm:"foreignKey:team_id" json:"-"`
	Standups []Standup `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
