package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/financing"
)

func newTestCollectionService(
	financingRepo domain.FinancingRepository,
	paymentRepo domain.PaymentRepository,
	clientRepo domain.ClientRepository,
) *CollectionService {
	svc := NewCollectionService(financingRepo, paymentRepo, clientRepo, financing.DefaultConfig(), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestOverdueReport_SortedWorstFirst(t *testing.T) {
	// Arrange: one financing 70 days behind, one 21 days behind, one current.
	ctx := context.Background()

	worst := activeFinancing("fin-worst", 120000, 12, testNow.Add(-70*24*time.Hour))
	mild := activeFinancing("fin-mild", 120000, 12, testNow.Add(-21*24*time.Hour))
	current := activeFinancing("fin-current", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	mockClientRepo := new(MockClientRepository)
	service := newTestCollectionService(mockFinancingRepo, mockPaymentRepo, mockClientRepo)

	mockFinancingRepo.On("FindByStatuses", ctx, []domain.FinancingStatus{
		domain.FinancingStatusActive,
		domain.FinancingStatusOverdue,
	}).Return([]*domain.Financing{mild, current, worst}, nil)

	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-worst").Return([]*domain.Payment{}, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-mild").Return([]*domain.Payment{}, nil)
	// The current financing's single elapsed installment is already paid.
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-current").Return([]*domain.Payment{
		{ID: "pay-1", FinancingID: "fin-current", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 1},
	}, nil)

	mockClientRepo.On("FindByID", ctx, "client-1").Return(testClient(), nil)

	// Act
	entries, err := service.OverdueReport(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "fin-worst", entries[0].Financing.ID)
	assert.Equal(t, 11, entries[0].Arrears.OverdueCount)
	assert.Equal(t, financing.SeverityCritical, entries[0].Severity)
	assert.Equal(t, "Maria Lopez", entries[0].ClientName)
	assert.Equal(t, "fin-mild", entries[1].Financing.ID)
	assert.Equal(t, 4, entries[1].Arrears.OverdueCount)
	assert.Equal(t, financing.SeverityMedium, entries[1].Severity)

	mockFinancingRepo.AssertExpectations(t)
	mockPaymentRepo.AssertExpectations(t)
}

func TestOverdueReport_EmptyWhenEveryoneCurrent(t *testing.T) {
	// Arrange
	ctx := context.Background()

	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	mockClientRepo := new(MockClientRepository)
	service := newTestCollectionService(mockFinancingRepo, mockPaymentRepo, mockClientRepo)

	mockFinancingRepo.On("FindByStatuses", ctx, []domain.FinancingStatus{
		domain.FinancingStatusActive,
		domain.FinancingStatusOverdue,
	}).Return([]*domain.Financing{f}, nil)

	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{
		{ID: "pay-1", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 1},
	}, nil)

	// Act
	entries, err := service.OverdueReport(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, entries)

	mockClientRepo.AssertNotCalled(t, "FindByID")
}

func TestOverdueReport_ClientLookupFailureDoesNotFail(t *testing.T) {
	// Arrange: an unresolvable client name must not block the worklist.
	ctx := context.Background()

	f := activeFinancing("fin-1", 120000, 12, testNow.Add(-28*24*time.Hour))

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	mockClientRepo := new(MockClientRepository)
	service := newTestCollectionService(mockFinancingRepo, mockPaymentRepo, mockClientRepo)

	mockFinancingRepo.On("FindByStatuses", ctx, []domain.FinancingStatus{
		domain.FinancingStatusActive,
		domain.FinancingStatusOverdue,
	}).Return([]*domain.Financing{f}, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)
	mockClientRepo.On("FindByID", ctx, "client-1").Return(nil, assert.AnError)

	// Act
	entries, err := service.OverdueReport(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Empty(t, entries[0].ClientName)
	assert.Equal(t, 5, entries[0].Arrears.OverdueCount)
	assert.Equal(t, financing.SeverityHigh, entries[0].Severity)
}
