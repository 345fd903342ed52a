package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixamint/pixamint/internal/domain/subscription"
	vo "github.com/pixamint/pixamint/internal/domain/subscription/valueobjects"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/mappers"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
	"github.com/pixamint/pixamint/internal/shared/db"
	apperrors "github.com/pixamint/pixamint/internal/shared/errors"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return sub.SetID(model.ID)
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription by sid: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) GetByProviderSubRef(ctx context.Context, ref string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider_sub_ref = ?", ref).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription by provider ref: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) GetLiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status IN ?", userID, []string{
			vo.StatusPendingPayment.String(),
			vo.StatusActive.String(),
			vo.StatusPastDue.String(),
		}).
		Order("id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get live subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) GetLatestByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	// the version predicate rejects writes based on a stale read; sweeps
	// racing live webhook traffic skip instead of clobbering
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"plan_id":              model.PlanID,
			"status":               model.Status,
			"billing_cycle":        model.BillingCycle,
			"current_period_start": model.CurrentPeriodStart,
			"current_period_end":   model.CurrentPeriodEnd,
			"auto_renew":           model.AutoRenew,
			"images_used":          model.ImagesUsed,
			"scheduled_plan_id":    model.ScheduledPlanID,
			"provider_sub_ref":     model.ProviderSubRef,
			"cancelled_at":         model.CancelledAt,
			"cancel_reason":        model.CancelReason,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("subscription was modified concurrently")
	}

	return nil
}

func (r *SubscriptionRepository) FindExpiring(ctx context.Context, now time.Time, days int) ([]*subscription.Subscription, error) {
	var subModels []models.SubscriptionModel

	windowEnd := now.Add(time.Duration(days) * 24 * time.Hour)

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND auto_renew = ? AND current_period_end >= ? AND current_period_end < ?",
			vo.StatusActive.String(), false, now, windowEnd).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}

	return r.toDomainList(subModels)
}

func (r *SubscriptionRepository) FindLapsed(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var subModels []models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status IN ? AND current_period_end < ?",
			[]string{vo.StatusActive.String(), vo.StatusPastDue.String()}, now).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find lapsed subscriptions: %w", err)
	}

	return r.toDomainList(subModels)
}

func (r *SubscriptionRepository) FindStalePendingPayment(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	var subModels []models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND created_at < ?", vo.StatusPendingPayment.String(), cutoff).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find stale pending subscriptions: %w", err)
	}

	return r.toDomainList(subModels)
}

func (r *SubscriptionRepository) FindActiveForUsageReset(ctx context.Context) ([]*subscription.Subscription, error) {
	var subModels []models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND images_used > 0", vo.StatusActive.String()).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find subscriptions for usage reset: %w", err)
	}

	return r.toDomainList(subModels)
}

func (r *SubscriptionRepository) List(ctx context.Context, filter subscription.Filter) ([]*subscription.Subscription, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PlanID != nil {
		query = query.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var subModels []models.SubscriptionModel
	if err := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&subModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs, err := r.toDomainList(subModels)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *SubscriptionRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscriptions by status: %w", err)
	}

	return count, nil
}

func (r *SubscriptionRepository) toDomainList(subModels []models.SubscriptionModel) ([]*subscription.Subscription, error) {
	subs := make([]*subscription.Subscription, 0, len(subModels))
	for i := range subModels {
		sub, err := mappers.SubscriptionToDomain(&subModels[i])
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
