package mappers

import (
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
)

// LedgerToDomain projects the credit columns of the account row into the
// ledger aggregate.
func LedgerToDomain(model *models.UserModel) (*ledger.Ledger, error) {
	return ledger.Reconstruct(
		model.ID,
		model.CreditsRemaining,
		model.ImagesGenerated,
		model.CurrentPlanID,
		model.Version,
		model.UpdatedAt,
	)
}
