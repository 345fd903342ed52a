package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/pixamint/pixamint/internal/domain/plan"
	vo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
)

func PlanToModel(p *plan.Plan) (*models.PlanModel, error) {
	features, err := json.Marshal(p.Features())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan features: %w", err)
	}

	return &models.PlanModel{
		ID:              p.ID(),
		SID:             p.SID(),
		Name:            p.Name(),
		DisplayName:     p.DisplayName(),
		Description:     p.Description(),
		PriceCents:      p.PriceCents(),
		Currency:        p.Currency(),
		BillingCycle:    p.BillingCycle().String(),
		CreditAllotment: p.CreditAllotment(),
		ImageLimit:      p.ImageLimit(),
		Features:        datatypes.JSON(features),
		ProviderPriceID: p.ProviderPriceID(),
		Active:          p.IsActive(),
		Priority:        p.Priority(),
		Version:         p.Version(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}, nil
}

func PlanToDomain(model *models.PlanModel) (*plan.Plan, error) {
	var features []string
	if len(model.Features) > 0 {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
		}
	}

	return plan.Reconstruct(plan.ReconstructParams{
		ID:              model.ID,
		SID:             model.SID,
		Name:            model.Name,
		DisplayName:     model.DisplayName,
		Description:     model.Description,
		PriceCents:      model.PriceCents,
		Currency:        model.Currency,
		BillingCycle:    vo.BillingCycle(model.BillingCycle),
		CreditAllotment: model.CreditAllotment,
		ImageLimit:      model.ImageLimit,
		Features:        features,
		ProviderPriceID: model.ProviderPriceID,
		Active:          model.Active,
		Priority:        model.Priority,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
}
