package models

import "time"

// UserModel carries the account row. The credit ledger columns live here
// because every reservation is a single conditional UPDATE against the
// account, never a separate read-modify-write.
type UserModel struct {
	ID                  uint    `gorm:"primaryKey"`
	SID                 string  `gorm:"uniqueIndex;size:32;not null"`
	Email               string  `gorm:"uniqueIndex;size:255;not null"`
	Name                string  `gorm:"size:100"`
	Role                string  `gorm:"size:20;not null;default:'user'"`
	ProviderCustomerRef *string `gorm:"size:128;index"`
	CreditsRemaining    int     `gorm:"not null;default:0"`
	ImagesGenerated     int     `gorm:"not null;default:0"`
	CurrentPlanID       *uint   `gorm:"index"`
	Version             int     `gorm:"default:1"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (UserModel) TableName() string {
	return "users"
}
