package models

import (
	"standup/src/types"
)

// Standup rows are append-only. There is no update path; the only delete is
// the cascade when the submitting user is removed.
type Standup struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	UserID    uint   `gorm:"index" json:"user_id,omitempty"`
	TeamID    uint   `gorm:"index" json:"team_id,omitempty"`
	Date      string `gorm:"index" json:"date,omitempty"`
	Yesterday string `json:"yesterday,omitempty"`
	Today     string `json:"today,omitempty"`
	Blockers  string `json:"blockers,omitempty"`

	Media []StandupMedia `gorm:"foreignKey:standup_id" json:"media,omitempty"`
	User  *User          `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Team  *Team          `gorm:"foreignKey:team_id" json:"team,omitempty"`

	types.Timestamps
}

type StandupMedia struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StandupID uint   `gorm:"index" json:"standup_id,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	FileType  string `json:"file_type,omitempty"`
	FileURL   string `json:"file_url,omitempty"`

	types.Timestamps
}
