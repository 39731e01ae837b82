package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/duespay/duespay/internal/application"
	"github.com/duespay/duespay/internal/application/services/testhelpers"
	"github.com/duespay/duespay/internal/domain"
	"github.com/duespay/duespay/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	testDB          *testhelpers.TestDatabase
	paymentRepo     *postgres.PaymentRepository
	historyRepo     *postgres.HistoryRepository
	idempotencyRepo *postgres.IdempotencyRepository
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.paymentRepo = postgres.NewPaymentRepository(suite.testDB.DB)
	suite.historyRepo = postgres.NewHistoryRepository(suite.testDB.DB)
	suite.idempotencyRepo = postgres.NewIdempotencyRepository(suite.testDB.DB)
}

func (suite *RepositoryTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.testDB.CleanTables(suite.T())
}

// ============================================================================
// PAYMENTS
// ============================================================================

func (suite *RepositoryTestSuite) Test_CreateAndFindByID() {
	ctx := context.Background()
	t := suite.T()

	payment := testhelpers.NewPendingPayment(t)
	require.NoError(t, suite.paymentRepo.Create(ctx, payment))

	found, err := suite.paymentRepo.FindByID(ctx, payment.ID)
	require.NoError(t, err)

	assert.Equal(t, payment.ID, found.ID)
	assert.Equal(t, payment.Amount, found.Amount)
	assert.Equal(t, payment.Currency, found.Currency)
	assert.Equal(t, domain.StatusPending, found.Status)
	assert.Equal(t, payment.CheckoutRef, found.CheckoutRef)
	assert.Equal(t, payment.IdempotencyKey, found.IdempotencyKey)
}

func (suite *RepositoryTestSuite) Test_FindByID_NotFound() {
	ctx := context.Background()
	t := suite.T()

	_, err := suite.paymentRepo.FindByID(ctx, uuid.New().String())

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodePaymentNotFound, domainErr.Code)
}

func (suite *RepositoryTestSuite) Test_Create_DuplicateIdempotencyKey() {
	ctx := context.Background()
	t := suite.T()

	first := testhelpers.NewPendingPayment(t)
	require.NoError(t, suite.paymentRepo.Create(ctx, first))

	second := testhelpers.NewPendingPayment(t)
	second.IdempotencyKey = first.IdempotencyKey
	err := suite.paymentRepo.Create(ctx, second)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeDuplicateIdempotencyKey, domainErr.Code)
}

func (suite *RepositoryTestSuite) Test_FindMany_OrderAndBound() {
	ctx := context.Background()
	t := suite.T()

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for i, desc := range []string{"a", "b", "c", "d"} {
		p := testhelpers.NewPaymentAt(t, desc, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, suite.paymentRepo.Create(ctx, p))
	}

	all, err := suite.paymentRepo.FindMany(ctx, application.PaymentFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].Description)
	assert.Equal(t, "a", all[3].Description)

	// bound is exclusive: before c returns only b and a
	boundary := base.Add(2 * time.Minute)
	bounded, err := suite.paymentRepo.FindMany(ctx, application.PaymentFilter{
		Before: &boundary,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, bounded, 2)
	assert.Equal(t, "b", bounded[0].Description)
	assert.Equal(t, "a", bounded[1].Description)
}

func (suite *RepositoryTestSuite) Test_FindMany_StatusFilterAndLimit() {
	ctx := context.Background()
	t := suite.T()

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		p := testhelpers.NewPaymentAt(t, "open", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, suite.paymentRepo.Create(ctx, p))
	}
	paid := testhelpers.NewPaymentAt(t, "settled", base.Add(time.Hour))
	require.NoError(t, suite.paymentRepo.Create(ctx, paid))
	history, err := paid.ApplyStatus(domain.StatusPaid, "")
	require.NoError(t, err)
	require.NoError(t, suite.paymentRepo.ApplyTransition(ctx, paid, history))

	status := domain.StatusPaid
	onlyPaid, err := suite.paymentRepo.FindMany(ctx, application.PaymentFilter{
		Status: &status,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, onlyPaid, 1)
	assert.Equal(t, "settled", onlyPaid[0].Description)

	limited, err := suite.paymentRepo.FindMany(ctx, application.PaymentFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

// ============================================================================
// TRANSITIONS
// ============================================================================

func (suite *RepositoryTestSuite) Test_ApplyTransition_PersistsStatusAndHistory() {
	ctx := context.Background()
	t := suite.T()

	payment := testhelpers.NewPendingPayment(t)
	require.NoError(t, suite.paymentRepo.Create(ctx, payment))

	history, err := payment.ApplyStatus(domain.StatusPaid, "card settlement")
	require.NoError(t, err)
	require.NoError(t, suite.paymentRepo.ApplyTransition(ctx, payment, history))

	stored, err := suite.paymentRepo.FindByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.Status)

	records, err := suite.historyRepo.ListByPaymentID(ctx, payment.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusPending, records[0].OldStatus)
	assert.Equal(t, domain.StatusPaid, records[0].NewStatus)
	require.NotNil(t, records[0].Reason)
	assert.Equal(t, "card settlement", *records[0].Reason)
}

func (suite *RepositoryTestSuite) Test_ApplyTransition_LosesRaceCleanly() {
	ctx := context.Background()
	t := suite.T()

	payment := testhelpers.NewPendingPayment(t)
	require.NoError(t, suite.paymentRepo.Create(ctx, payment))

	// first transition wins
	winner := *payment
	history, err := winner.ApplyStatus(domain.StatusPaid, "")
	require.NoError(t, err)
	require.NoError(t, suite.paymentRepo.ApplyTransition(ctx, &winner, history))

	// second transition from the same stale snapshot must fail and leave
	// no extra history behind
	loser := *payment
	staleHistory, err := loser.ApplyStatus(domain.StatusPaid, "")
	require.NoError(t, err)
	err = suite.paymentRepo.ApplyTransition(ctx, &loser, staleHistory)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeInvalidTransition, domainErr.Code)

	records, err := suite.historyRepo.ListByPaymentID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// ============================================================================
// IDEMPOTENCY RECORDS
// ============================================================================

func (suite *RepositoryTestSuite) Test_IdempotencyRecord_RoundTrip() {
	ctx := context.Background()
	t := suite.T()

	record := domain.NewIdempotencyRecord(
		uuid.New().String(),
		"deadbeef",
		[]byte(`{"id":"p-1","status":"pending"}`),
		24*time.Hour,
	)
	require.NoError(t, suite.idempotencyRepo.Create(ctx, record))

	found, err := suite.idempotencyRepo.FindByKey(ctx, record.Key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, record.RequestHash, found.RequestHash)
	assert.JSONEq(t, string(record.ResponsePayload), string(found.ResponsePayload))
	assert.WithinDuration(t, record.ExpiresAt, found.ExpiresAt, time.Second)
}

func (suite *RepositoryTestSuite) Test_IdempotencyRecord_AbsentKeyIsNil() {
	ctx := context.Background()
	t := suite.T()

	found, err := suite.idempotencyRepo.FindByKey(ctx, uuid.New().String())

	require.NoError(t, err)
	assert.Nil(t, found)
}

func (suite *RepositoryTestSuite) Test_IdempotencyRecord_ConcurrentStoreIsSilent() {
	ctx := context.Background()
	t := suite.T()

	key := uuid.New().String()
	first := domain.NewIdempotencyRecord(key, "aaaa", []byte(`{"n":1}`), time.Hour)
	require.NoError(t, suite.idempotencyRepo.Create(ctx, first))

	// a concurrent request completing the same work stores the same key;
	// the first write stands
	second := domain.NewIdempotencyRecord(key, "aaaa", []byte(`{"n":2}`), time.Hour)
	require.NoError(t, suite.idempotencyRepo.Create(ctx, second))

	found, err := suite.idempotencyRepo.FindByKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.JSONEq(t, `{"n":1}`, string(found.ResponsePayload))
}

func (suite *RepositoryTestSuite) Test_DeleteExpired_SweepsOnlyPastRecords() {
	ctx := context.Background()
	t := suite.T()

	expired1 := domain.NewIdempotencyRecord(uuid.New().String(), "a", []byte(`{}`), -time.Hour)
	expired2 := domain.NewIdempotencyRecord(uuid.New().String(), "b", []byte(`{}`), -time.Minute)
	live := domain.NewIdempotencyRecord(uuid.New().String(), "c", []byte(`{}`), time.Hour)
	for _, rec := range []*domain.IdempotencyRecord{expired1, expired2, live} {
		require.NoError(t, suite.idempotencyRepo.Create(ctx, rec))
	}

	deleted, err := suite.idempotencyRepo.DeleteExpired(ctx, time.Now().UTC(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	found, err := suite.idempotencyRepo.FindByKey(ctx, live.Key)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func (suite *RepositoryTestSuite) Test_DeleteExpired_HonorsBatchLimit() {
	ctx := context.Background()
	t := suite.T()

	for i := 0; i < 5; i++ {
		rec := domain.NewIdempotencyRecord(uuid.New().String(), "x", []byte(`{}`), -time.Hour)
		require.NoError(t, suite.idempotencyRepo.Create(ctx, rec))
	}

	deleted, err := suite.idempotencyRepo.DeleteExpired(ctx, time.Now().UTC(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := suite.idempotencyRepo.DeleteExpired(ctx, time.Now().UTC(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)
}
