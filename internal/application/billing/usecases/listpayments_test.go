package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/domain/payment"
)

func TestListPayments(t *testing.T) {
	pay := pendingPayment(t, "ch_1", 11)
	repo := &mockPaymentRepository{}
	repo.ListByUserIDFunc = func(ctx context.Context, userID uint, page, pageSize int) ([]*payment.Payment, int64, error) {
		require.Equal(t, uint(7), userID)
		require.Equal(t, 1, page)
		require.Equal(t, 20, pageSize)
		return []*payment.Payment{pay}, 1, nil
	}
	uc := NewListPaymentsUseCase(repo, mockLogger{})

	// out-of-range paging collapses to defaults
	result, err := uc.Execute(context.Background(), ListPaymentsCommand{UserID: 7, Page: 0, PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "pay_wh1", result.Items[0].SID)
	assert.Equal(t, int64(1999), result.Items[0].AmountCents)
	assert.Equal(t, "USD", result.Items[0].Currency)
	assert.Equal(t, "subscription", result.Items[0].Purpose)
	assert.Equal(t, "pending", result.Items[0].Status)
}
