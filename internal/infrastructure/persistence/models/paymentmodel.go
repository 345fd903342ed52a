package models

import "time"

type PaymentModel struct {
	ID             uint    `gorm:"primaryKey"`
	SID            string  `gorm:"uniqueIndex;size:32;not null"`
	UserID         uint    `gorm:"index;not null"`
	SubscriptionID *uint   `gorm:"index"`
	AmountCents    int64   `gorm:"not null"`
	Currency       string  `gorm:"size:10;not null;default:'USD'"`
	Purpose        string  `gorm:"size:20;not null"`
	Status         string  `gorm:"size:20;not null;index"`
	ProviderRef    *string `gorm:"size:128;index"`
	FailureReason  *string `gorm:"size:255"`
	RefundReason   *string `gorm:"size:255"`
	PaidAt         *time.Time
	RefundedAt     *time.Time
	Version        int `gorm:"default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
