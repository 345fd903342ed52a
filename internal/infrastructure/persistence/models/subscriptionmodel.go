package models

import "time"

type SubscriptionModel struct {
	ID                 uint    `gorm:"primaryKey"`
	SID                string  `gorm:"uniqueIndex;size:32;not null"`
	UserID             uint    `gorm:"index;not null"`
	PlanID             uint    `gorm:"index;not null"`
	Status             string  `gorm:"size:20;not null;index"`
	BillingCycle       string  `gorm:"size:20;not null"`
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time `gorm:"index"`
	AutoRenew          bool      `gorm:"not null;default:true"`
	ImagesUsed         int       `gorm:"not null;default:0"`
	ScheduledPlanID    *uint
	ProviderSubRef     *string `gorm:"size:128;index"`
	CancelledAt        *time.Time
	CancelReason       *string `gorm:"size:255"`
	Version            int     `gorm:"default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
