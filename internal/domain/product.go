package domain

import "time"

// Product is a catalog item. Stock is mutated only through sale creation and
// manual adjustments; UnitPrice is in centavos.
type Product struct {
	ID                string
	Name              string
	Description       string
	UnitPrice         int64
	Stock             int
	LowStockThreshold int
	Category          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewProduct(name, description string, unitPrice int64, stock, lowStockThreshold int, category string) (*Product, error) {
	if name == "" {
		return nil, NewValidationError("name", "product name is required")
	}
	if unitPrice < 0 {
		return nil, NewValidationError("unit_price", "unit price cannot be negative")
	}
	if stock < 0 {
		return nil, NewValidationError("stock", "stock cannot be negative")
	}

	now := time.Now()
	return &Product{
		Name:              name,
		Description:       description,
		UnitPrice:         unitPrice,
		Stock:             stock,
		LowStockThreshold: lowStockThreshold,
		Category:          category,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// LowStock reports whether the product is at or below its restock threshold.
func (p *Product) LowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
