package models

import (
	"time"

	"gorm.io/datatypes"
)

type PlanModel struct {
	ID              uint           `gorm:"primaryKey"`
	SID             string         `gorm:"uniqueIndex;size:32;not null"`
	Name            string         `gorm:"uniqueIndex;size:50;not null"`
	DisplayName     string         `gorm:"size:100;not null"`
	Description     string         `gorm:"type:text"`
	PriceCents      int64          `gorm:"not null"`
	Currency        string         `gorm:"size:10;not null;default:'USD'"`
	BillingCycle    string         `gorm:"size:20;not null"`
	CreditAllotment int            `gorm:"not null"`
	ImageLimit      int            `gorm:"not null;default:0"`
	Features        datatypes.JSON `gorm:"type:json"`
	ProviderPriceID *string        `gorm:"size:128"`
	Active          bool           `gorm:"not null;default:true;index"`
	Priority        int            `gorm:"not null;default:0"`
	Version         int            `gorm:"default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PlanModel) TableName() string {
	return "plans"
}
