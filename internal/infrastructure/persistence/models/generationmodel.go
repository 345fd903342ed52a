package models

import "time"

type GenerationModel struct {
	ID          uint    `gorm:"primaryKey"`
	SID         string  `gorm:"uniqueIndex;size:32;not null"`
	UserID      uint    `gorm:"index;not null"`
	Prompt      string  `gorm:"type:text;not null"`
	Model       string  `gorm:"size:64;not null"`
	Size        string  `gorm:"size:20;not null"`
	CreditCost  int     `gorm:"not null;default:1"`
	Status      string  `gorm:"size:20;not null;index"`
	AssetURL    *string `gorm:"type:text"`
	ErrorDetail *string `gorm:"size:512"`
	IsPublic    bool    `gorm:"not null;default:false;index"`
	LikeCount   int     `gorm:"not null;default:0"`
	ViewCount   int     `gorm:"not null;default:0"`
	Attempts    int     `gorm:"not null;default:0"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	Version     int `gorm:"default:1"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (GenerationModel) TableName() string {
	return "generations"
}
