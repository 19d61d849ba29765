package domain

import "context"

type FinancingRepository interface {
	Create(ctx context.Context, financing *Financing) error
	FindByID(ctx context.Context, id string) (*Financing, error)
	FindByStatuses(ctx context.Context, statuses []FinancingStatus) ([]*Financing, error)
	UpdateStatus(ctx context.Context, id string, status FinancingStatus) error
}

type PaymentRepository interface {
	// CreateBatch persists all payments atomically; either every row is
	// created or none is.
	CreateBatch(ctx context.Context, payments []*Payment) error
	FindByFinancingID(ctx context.Context, financingID string) ([]*Payment, error)
	FindByFinancingIDWithPagination(ctx context.Context, financingID string, limit, offset int) ([]*Payment, error)
	CountByFinancingID(ctx context.Context, financingID string) (int64, error)
	// ExistsByReceiptRef checks receipt uniqueness across all payments
	// system-wide, not just one financing.
	ExistsByReceiptRef(ctx context.Context, receiptRef string) (bool, error)
}

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, limit, offset int) ([]*Client, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, limit, offset int) ([]*Product, error)
	// DecrementStock fails when the remaining stock would go negative.
	DecrementStock(ctx context.Context, id string, quantity int) error
	AdjustStock(ctx context.Context, id string, delta int) error
}

// ControlNumberRepository hands out the sequential numbers behind the
// human-facing F-/C- identifiers.
type ControlNumberRepository interface {
	Next(ctx context.Context, sequence string) (int64, error)
}
