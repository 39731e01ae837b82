package testhelpers

import (
	"testing"
	"time"

	"github.com/duespay/duespay/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewPendingPayment builds a valid pending payment ready to persist.
func NewPendingPayment(t *testing.T) *domain.Payment {
	t.Helper()

	payment, err := domain.NewPayment(
		"quarterly association dues",
		time.Now().Add(30*24*time.Hour).UTC(),
		150000,
		"NGN",
		"Ada Obi",
		"ada@example.com",
		uuid.New().String(),
	)
	require.NoError(t, err)
	return payment
}

// NewPaymentAt builds a pending payment with a pinned creation time, for
// pagination ordering.
func NewPaymentAt(t *testing.T, description string, createdAt time.Time) *domain.Payment {
	t.Helper()

	payment, err := domain.NewPayment(
		description,
		createdAt.Add(30*24*time.Hour),
		75000,
		"USD",
		"Bisi Ade",
		"bisi@example.com",
		uuid.New().String(),
	)
	require.NoError(t, err)
	payment.CreatedAt = createdAt
	payment.UpdatedAt = createdAt
	return payment
}
