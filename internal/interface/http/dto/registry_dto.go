package dto

import (
	"errors"

	"github.com/shopspring/decimal"
)

type CreateClientRequest struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

func (r *CreateClientRequest) Validate() error {
	if r.FullName == "" {
		return errors.New("full_name is required")
	}
	if r.NationalID == "" {
		return errors.New("national_id is required")
	}
	return nil
}

type ClientResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type CreateProductRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	UnitPrice         string `json:"unit_price"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold,omitempty"`
	Category          string `json:"category,omitempty"`
}

func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.UnitPrice == "" {
		return errors.New("unit_price is required")
	}
	if _, err := decimal.NewFromString(r.UnitPrice); err != nil {
		return errors.New("unit_price must be a valid decimal number")
	}
	if r.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return nil
}

func (r *CreateProductRequest) UnitPriceCentavos() (int64, error) {
	d, err := decimal.NewFromString(r.UnitPrice)
	if err != nil {
		return 0, err
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, errors.New("unit_price has more than two decimal places")
	}
	return cents.IntPart(), nil
}

type ProductResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	UnitPrice         int64  `json:"unit_price"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	LowStock          bool   `json:"low_stock"`
	Category          string `json:"category,omitempty"`
}

type StockAdjustmentRequest struct {
	Delta int    `json:"delta"`
	Note  string `json:"note,omitempty"`
}

func (r *StockAdjustmentRequest) Validate() error {
	if r.Delta == 0 {
		return errors.New("delta cannot be zero")
	}
	return nil
}
