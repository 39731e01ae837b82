package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/application/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCreateCommand() services.CreatePaymentCommand {
	return services.CreatePaymentCommand{
		Description: "march membership dues",
		DueDate:     time.Now().Add(30 * 24 * time.Hour),
		Amount:      150000,
		Currency:    "NGN",
		PayerName:   "Ada Obi",
		PayerEmail:  "ada@example.com",
	}
}

func newCreateService(paymentRepo *services.MockPaymentRepository, idemRepo *services.MockIdempotencyRepository) *services.CreateService {
	return services.NewCreateService(paymentRepo, newGuard(idemRepo), newTestLogger())
}

func TestCreate_Success(t *testing.T) {
	paymentRepo := services.NewMockPaymentRepository()
	svc := newCreateService(paymentRepo, services.NewMockIdempotencyRepository())

	raw, replayed, err := svc.Create(context.Background(), defaultCreateCommand(), uuid.New().String())

	require.NoError(t, err)
	assert.False(t, replayed)

	var resp services.PaymentResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(150000), resp.Amount)
	assert.Contains(t, resp.CheckoutRef, "chk_")

	saved, err := paymentRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, saved.ID)
}

func TestCreate_SameKeySamePayload_ReplaysWithoutSecondPayment(t *testing.T) {
	paymentRepo := services.NewMockPaymentRepository()
	svc := newCreateService(paymentRepo, services.NewMockIdempotencyRepository())
	cmd := defaultCreateCommand()
	key := uuid.New().String()

	first, replayed, err := svc.Create(context.Background(), cmd, key)
	require.NoError(t, err)
	require.False(t, replayed)

	second, replayed, err := svc.Create(context.Background(), cmd, key)
	require.NoError(t, err)

	assert.True(t, replayed)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, paymentRepo.Count(), "retry must not create a second payment")
}

func TestCreate_SameKeyDifferentPayload_Conflicts(t *testing.T) {
	svc := newCreateService(services.NewMockPaymentRepository(), services.NewMockIdempotencyRepository())
	key := uuid.New().String()

	_, _, err := svc.Create(context.Background(), defaultCreateCommand(), key)
	require.NoError(t, err)

	changed := defaultCreateCommand()
	changed.Amount = 9999

	_, _, err = svc.Create(context.Background(), changed, key)

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeIdempotencyConflict, svcErr.Code)
}

func TestCreate_InvalidCommand_FailsValidation(t *testing.T) {
	svc := newCreateService(services.NewMockPaymentRepository(), services.NewMockIdempotencyRepository())

	cmd := defaultCreateCommand()
	cmd.Amount = -5

	_, _, err := svc.Create(context.Background(), cmd, uuid.New().String())

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeValidation, svcErr.Code)
}

func TestCreate_UniqueKeyBackstop_SurfacesConflict(t *testing.T) {
	// An idempotency record check can race: the record may be missing while
	// the payment row already exists. The unique key on payments catches it.
	paymentRepo := services.NewMockPaymentRepository()
	svc := newCreateService(paymentRepo, services.NewMockIdempotencyRepository())
	key := uuid.New().String()

	_, _, err := svc.Create(context.Background(), defaultCreateCommand(), key)
	require.NoError(t, err)

	// Fresh idempotency store simulates the lost record.
	raced := newCreateService(paymentRepo, services.NewMockIdempotencyRepository())
	_, _, err = raced.Create(context.Background(), defaultCreateCommand(), key)

	require.Error(t, err)
	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeIdempotencyConflict, svcErr.Code)
	assert.Equal(t, 1, paymentRepo.Count())
}
