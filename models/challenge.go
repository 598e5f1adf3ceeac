// file: models/challenge.go
package models

import (
	"time"
)

type Challenge struct {
	ID          uint32          `gorm:"primarykey" json:"id"`
	Title       string          `gorm:"size:100;unique;not null" json:"title"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	Author      string          `gorm:"size:50" json:"author"`
	Description string          `gorm:"type:text" json:"description"`
	Points      uint            `gorm:"not null" json:"points"`
	IsPublished bool            `gorm:"not null;default:false" json:"is_published"`
	Links       []ChallengeLink `gorm:"foreignKey:ChallengeID" json:"links,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "novactf_challenge"
}

// ChallengeLink is an explicit {name, url} row. Supporting material used to be
// a loosely-typed JSON blob; the shape is now validated at the boundary and
// stored relationally.
type ChallengeLink struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	ChallengeID uint32 `gorm:"not null;index" json:"challenge_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	URL         string `gorm:"size:500;not null" json:"url"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}

func (ChallengeLink) TableName() string {
	return "novactf_challenge_link"
}
