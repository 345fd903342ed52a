package mappers

import (
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
)

func UserToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:                  u.ID(),
		SID:                 u.SID(),
		Email:               u.Email(),
		Name:                u.Name(),
		Role:                u.Role(),
		ProviderCustomerRef: u.ProviderCustomerRef(),
		Version:             u.Version(),
		CreatedAt:           u.CreatedAt(),
		UpdatedAt:           u.UpdatedAt(),
	}
}

func UserToDomain(model *models.UserModel) (*user.User, error) {
	return user.Reconstruct(user.ReconstructParams{
		ID:                  model.ID,
		SID:                 model.SID,
		Email:               model.Email,
		Name:                model.Name,
		Role:                model.Role,
		ProviderCustomerRef: model.ProviderCustomerRef,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
		Version:             model.Version,
	})
}
