package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/financing"
)

// MockFinancingRepository is a mock implementation of FinancingRepository
type MockFinancingRepository struct {
	mock.Mock
}

func (m *MockFinancingRepository) Create(ctx context.Context, f *domain.Financing) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFinancingRepository) FindByID(ctx context.Context, id string) (*domain.Financing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Financing), args.Error(1)
}

func (m *MockFinancingRepository) FindByStatuses(ctx context.Context, statuses []domain.FinancingStatus) ([]*domain.Financing, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Financing), args.Error(1)
}

func (m *MockFinancingRepository) UpdateStatus(ctx context.Context, id string, status domain.FinancingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	args := m.Called(ctx, payments)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByFinancingID(ctx context.Context, financingID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, financingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByFinancingIDWithPagination(ctx context.Context, financingID string, limit, offset int) ([]*domain.Payment, error) {
	args := m.Called(ctx, financingID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountByFinancingID(ctx context.Context, financingID string) (int64, error) {
	args := m.Called(ctx, financingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) ExistsByReceiptRef(ctx context.Context, receiptRef string) (bool, error) {
	args := m.Called(ctx, receiptRef)
	return args.Bool(0), args.Error(1)
}

var testNow = time.Date(2026, 5, 11, 12, 0, 0, 0, time.UTC)

func newTestService(financingRepo domain.FinancingRepository, paymentRepo domain.PaymentRepository) *PaymentService {
	svc := NewPaymentService(financingRepo, paymentRepo, nil, financing.DefaultConfig(), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func activeFinancing(id string, total int64, installments int, start time.Time) *domain.Financing {
	return &domain.Financing{
		ID:            id,
		ControlNumber: "F-000001",
		ClientID:      "client-1",
		Items: []domain.LineItem{
			{ProductID: "product-1", Quantity: 1, UnitPrice: total, Subtotal: total},
		},
		Total:        total,
		SaleType:     domain.SaleTypeInstallments,
		Installments: installments,
		StartDate:    start,
		Status:       domain.FinancingStatusActive,
	}
}

// assignIDs simulates the persistence layer handing out primary keys so the
// freshly created rows count in the recomputed ledger.
func assignIDs(args mock.Arguments) {
	payments := args.Get(1).([]*domain.Payment)
	for i, p := range payments {
		p.ID = fmt.Sprintf("pay-%d", i+1)
	}
}

func TestApplyPayment_SplitsIntoWholeInstallments(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Run(assignIDs).Return(nil)

	// Act: 200.00 against a 100.00 installment value.
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      20000,
		Method:      "cash",
	})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result.Payments, 2)
	assert.Equal(t, 1, result.Payments[0].InstallmentNumber)
	assert.Equal(t, 2, result.Payments[1].InstallmentNumber)
	assert.Equal(t, int64(10000), result.Payments[0].Amount)
	assert.Equal(t, int64(10000), result.Payments[1].Amount)
	assert.Equal(t, domain.FinancingStatusActive, result.Status)
	assert.Equal(t, int64(20000), result.Ledger.TotalCollected)
	assert.Equal(t, int64(100000), result.Ledger.PendingAmount)

	mockFinancingRepo.AssertExpectations(t)
	mockPaymentRepo.AssertExpectations(t)
	mockFinancingRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestApplyPayment_RejectsPartialInstallment(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)

	// Act: 250.00 is 2.5 installments; the whole request is rejected.
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      25000,
		Method:      "cash",
	})

	// Assert
	assert.Nil(t, result)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "whole multiple")

	mockPaymentRepo.AssertNotCalled(t, "CreateBatch")
}

func TestApplyPayment_RejectsBelowInstallmentValue(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      5000,
		Method:      "cash",
	})

	// Assert
	assert.Nil(t, result)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)

	mockPaymentRepo.AssertNotCalled(t, "CreateBatch")
}

func TestApplyPayment_NumberingContinuesFromExisting(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	existing := []*domain.Payment{
		{ID: "pay-a", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 1},
		{ID: "pay-b", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 2},
		{ID: "pay-c", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 3},
	}

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return(existing, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Run(assignIDs).Return(nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      20000,
		Method:      "cash",
	})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result.Payments, 2)
	assert.Equal(t, 4, result.Payments[0].InstallmentNumber)
	assert.Equal(t, 5, result.Payments[1].InstallmentNumber)
	assert.Equal(t, int64(50000), result.Ledger.TotalCollected)

	mockPaymentRepo.AssertExpectations(t)
}

func TestApplyPayment_FinalPaymentCompletes(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow.Add(-77*24*time.Hour))

	existing := make([]*domain.Payment, 11)
	for i := range existing {
		existing[i] = &domain.Payment{
			ID:                fmt.Sprintf("pay-%d", i+1),
			FinancingID:       "fin-1",
			Amount:            10000,
			Kind:              domain.PaymentKindInstallment,
			InstallmentNumber: i + 1,
		}
	}

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return(existing, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockFinancingRepo.On("UpdateStatus", ctx, "fin-1", domain.FinancingStatusCompleted).Return(nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      10000,
		Method:      "cash",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.FinancingStatusCompleted, result.Status)
	assert.Equal(t, int64(0), result.Ledger.PendingAmount)
	assert.Equal(t, 12, result.Payments[0].InstallmentNumber)

	mockFinancingRepo.AssertExpectations(t)
	mockPaymentRepo.AssertExpectations(t)
}

func TestApplyPayment_CompletedFinancingRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)
	f.Status = domain.FinancingStatusCompleted

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      10000,
		Method:      "cash",
	})

	// Assert
	assert.Nil(t, result)
	var state *domain.InvalidStateError
	assert.ErrorAs(t, err, &state)

	mockPaymentRepo.AssertNotCalled(t, "FindByFinancingID")
	mockPaymentRepo.AssertNotCalled(t, "CreateBatch")
}

func TestApplyPayment_CashSaleRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := &domain.Financing{
		ID:       "fin-cash",
		ClientID: "client-1",
		Total:    50000,
		SaleType: domain.SaleTypeCash,
		Status:   domain.FinancingStatusCompleted,
	}

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-cash").Return(f, nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-cash",
		Amount:      10000,
		Method:      "cash",
	})

	// Assert
	assert.Nil(t, result)
	var state *domain.InvalidStateError
	assert.ErrorAs(t, err, &state)
}

func TestApplyPayment_DuplicateReceiptRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)
	mockPaymentRepo.On("ExistsByReceiptRef", ctx, "REC-001").Return(true, nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      10000,
		Method:      "transfer",
		ReceiptRef:  "REC-001",
	})

	// Assert
	assert.Nil(t, result)
	var dup *domain.DuplicateReceiptError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "REC-001", dup.ReceiptRef)

	mockPaymentRepo.AssertNotCalled(t, "CreateBatch")
}

func TestApplyPayment_ReceiptRequiredForTransfer(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)

	// Act: transfer with no receipt reference.
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      10000,
		Method:      "transfer",
	})

	// Assert
	assert.Nil(t, result)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Equal(t, "receipt_ref", validation.Field)

	mockPaymentRepo.AssertNotCalled(t, "CreateBatch")
	mockPaymentRepo.AssertNotCalled(t, "ExistsByReceiptRef")
}

func TestApplyPayment_ReceiptAttachedToFirstRowOnly(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)
	mockPaymentRepo.On("ExistsByReceiptRef", ctx, "REC-002").Return(false, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Run(assignIDs).Return(nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      30000,
		Method:      "transfer",
		ReceiptRef:  "REC-002",
	})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result.Payments, 3)
	assert.Equal(t, "REC-002", result.Payments[0].ReceiptRef)
	assert.Empty(t, result.Payments[1].ReceiptRef)
	assert.Empty(t, result.Payments[2].ReceiptRef)

	mockPaymentRepo.AssertExpectations(t)
}

func TestApplyPayment_ExactFinalSettlementBelowInstallmentValue(t *testing.T) {
	// Arrange: 1000.00 over 3 installments of 333.33; after three payments
	// one residual centavo remains and must be collectible.
	ctx := context.Background()
	f := activeFinancing("fin-1", 100000, 3, testNow)

	existing := []*domain.Payment{
		{ID: "pay-1", FinancingID: "fin-1", Amount: 33333, Kind: domain.PaymentKindInstallment, InstallmentNumber: 1},
		{ID: "pay-2", FinancingID: "fin-1", Amount: 33333, Kind: domain.PaymentKindInstallment, InstallmentNumber: 2},
		{ID: "pay-3", FinancingID: "fin-1", Amount: 33333, Kind: domain.PaymentKindInstallment, InstallmentNumber: 3},
	}

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return(existing, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockFinancingRepo.On("UpdateStatus", ctx, "fin-1", domain.FinancingStatusCompleted).Return(nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      1,
		Method:      "cash",
	})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result.Payments, 1)
	assert.Equal(t, int64(1), result.Payments[0].Amount)
	assert.Equal(t, domain.FinancingStatusCompleted, result.Status)
	assert.Equal(t, int64(0), result.Ledger.PendingAmount)

	mockFinancingRepo.AssertExpectations(t)
}

func TestApplyPayment_TransitionsToOverdue(t *testing.T) {
	// Arrange: 70 days in with nothing paid; one installment does not clear
	// the backlog.
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow.Add(-70*24*time.Hour))

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockFinancingRepo.On("UpdateStatus", ctx, "fin-1", domain.FinancingStatusOverdue).Return(nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      10000,
		Method:      "cash",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.FinancingStatusOverdue, result.Status)
	assert.Equal(t, 10, result.Arrears.OverdueCount)
	assert.Equal(t, financing.SeverityCritical, result.Severity)

	mockFinancingRepo.AssertExpectations(t)
}

func TestApplyPayment_BatchInsertFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Return(errors.New("connection reset"))

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      10000,
		Method:      "cash",
	})

	// Assert
	assert.Nil(t, result)
	var ioErr *domain.IOError
	assert.ErrorAs(t, err, &ioErr)

	mockFinancingRepo.AssertNotCalled(t, "UpdateStatus")
}

func TestApplyPayment_StatusUpdateFailureIsPartialApply(t *testing.T) {
	// Arrange: the rows are in but the status write fails; the caller must
	// learn the payments exist.
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow.Add(-70*24*time.Hour))

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)
	mockPaymentRepo.On("CreateBatch", ctx, mock.Anything).Run(assignIDs).Return(nil)
	mockFinancingRepo.On("UpdateStatus", ctx, "fin-1", domain.FinancingStatusOverdue).Return(errors.New("connection reset"))

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      10000,
		Method:      "cash",
	})

	// Assert
	assert.Nil(t, result)
	var partial *domain.PartialApplyError
	assert.ErrorAs(t, err, &partial)
	assert.Equal(t, "fin-1", partial.FinancingID)
	assert.Len(t, partial.Created, 1)
}

func TestApplyPayment_RejectsNonPositiveAmount(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return([]*domain.Payment{}, nil)

	// Act
	result, err := service.ApplyPayment(ctx, ApplyPaymentRequest{
		FinancingID: "fin-1",
		Amount:      0,
		Method:      "cash",
	})

	// Assert
	assert.Nil(t, result)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestGetStatement_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow.Add(-70*24*time.Hour))

	payments := []*domain.Payment{
		{ID: "pay-1", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 1},
		{ID: "pay-2", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 2},
		{ID: "pay-3", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 3},
	}

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("FindByFinancingID", ctx, "fin-1").Return(payments, nil)

	// Act
	statement, err := service.GetStatement(ctx, "fin-1")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(30000), statement.Ledger.TotalCollected)
	assert.Equal(t, int64(90000), statement.Ledger.PendingAmount)
	assert.Equal(t, 8, statement.Arrears.OverdueCount)
	assert.Equal(t, int64(80000), statement.Arrears.OverdueAmount)
	assert.Equal(t, financing.SeverityCritical, statement.Severity)

	mockFinancingRepo.AssertExpectations(t)
	mockPaymentRepo.AssertExpectations(t)
}

func TestGetStatement_FinancingNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "missing").Return(nil, errors.New("financing not found"))

	// Act
	statement, err := service.GetStatement(ctx, "missing")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, statement)
	assert.Contains(t, err.Error(), "failed to get financing")

	mockPaymentRepo.AssertNotCalled(t, "FindByFinancingID")
}

func TestGetFinancingPaymentsPaginated(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	page := []*domain.Payment{
		{ID: "pay-3", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 3},
		{ID: "pay-4", FinancingID: "fin-1", Amount: 10000, Kind: domain.PaymentKindInstallment, InstallmentNumber: 4},
	}

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)
	mockPaymentRepo.On("CountByFinancingID", ctx, "fin-1").Return(int64(5), nil)
	mockPaymentRepo.On("FindByFinancingIDWithPagination", ctx, "fin-1", 2, 2).Return(page, nil)

	// Act
	result, err := service.GetFinancingPaymentsPaginated(ctx, "fin-1", PaginationParams{Page: 2, PageSize: 2})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result.Payments, 2)
	assert.Equal(t, int64(5), result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)

	mockPaymentRepo.AssertExpectations(t)
}

func TestGetFinancingPaymentsPaginated_RejectsBadParams(t *testing.T) {
	// Arrange
	ctx := context.Background()

	mockFinancingRepo := new(MockFinancingRepository)
	mockPaymentRepo := new(MockPaymentRepository)
	service := newTestService(mockFinancingRepo, mockPaymentRepo)

	cases := []PaginationParams{
		{Page: 0, PageSize: 20},
		{Page: 1, PageSize: 0},
		{Page: -1, PageSize: -5},
	}

	for _, params := range cases {
		// Act
		result, err := service.GetFinancingPaymentsPaginated(ctx, "fin-1", params)

		// Assert
		assert.Nil(t, result)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
	}

	mockFinancingRepo.AssertNotCalled(t, "FindByID")
	mockPaymentRepo.AssertNotCalled(t, "CountByFinancingID")
}

// memoryPaymentRepository is a stateful in-memory store with no locking of
// its own. Concurrent ApplyPayment calls only see consistent installment
// numbering if the service serializes access per financing.
type memoryPaymentRepository struct {
	payments []*domain.Payment
}

func (m *memoryPaymentRepository) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	for i, p := range payments {
		p.ID = fmt.Sprintf("pay-%d", len(m.payments)+i+1)
	}
	m.payments = append(m.payments, payments...)
	return nil
}

func (m *memoryPaymentRepository) FindByFinancingID(ctx context.Context, financingID string) ([]*domain.Payment, error) {
	out := make([]*domain.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		if p.FinancingID == financingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPaymentRepository) FindByFinancingIDWithPagination(ctx context.Context, financingID string, limit, offset int) ([]*domain.Payment, error) {
	return m.FindByFinancingID(ctx, financingID)
}

func (m *memoryPaymentRepository) CountByFinancingID(ctx context.Context, financingID string) (int64, error) {
	ps, _ := m.FindByFinancingID(ctx, financingID)
	return int64(len(ps)), nil
}

func (m *memoryPaymentRepository) ExistsByReceiptRef(ctx context.Context, receiptRef string) (bool, error) {
	return false, nil
}

func TestApplyPayment_ConcurrentPaymentsGetDistinctInstallments(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := activeFinancing("fin-1", 120000, 12, testNow)

	mockFinancingRepo := new(MockFinancingRepository)
	paymentRepo := &memoryPaymentRepository{}
	service := newTestService(mockFinancingRepo, paymentRepo)

	mockFinancingRepo.On("FindByID", ctx, "fin-1").Return(f, nil)

	// Act: two cuotas arrive at the same time for the same financing.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.ApplyPayment(ctx, ApplyPaymentRequest{
				FinancingID: "fin-1",
				Amount:      10000,
				Date:        testNow,
				Method:      "cash",
			})
		}(i)
	}
	wg.Wait()

	// Assert: both land, and each got its own installment number.
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Len(t, paymentRepo.payments, 2)

	numbers := make(map[int]bool)
	for _, p := range paymentRepo.payments {
		numbers[p.InstallmentNumber] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, numbers)
}
