package persistence

import (
	"time"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

// ClientModel represents the database schema for clients
type ClientModel struct {
	ID         string `gorm:"primaryKey;type:varchar(50)"`
	FullName   string `gorm:"type:varchar(150);not null"`
	NationalID string `gorm:"type:varchar(30);uniqueIndex;not null"`
	Phone      string `gorm:"type:varchar(30)"`
	Address    string `gorm:"type:varchar(255)"`
	PhotoURL   string `gorm:"type:varchar(255)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ClientModel) TableName() string {
	return "clients"
}

func (m *ClientModel) ToDomain() *domain.Client {
	return &domain.Client{
		ID:         m.ID,
		FullName:   m.FullName,
		NationalID: m.NationalID,
		Phone:      m.Phone,
		Address:    m.Address,
		PhotoURL:   m.PhotoURL,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ClientModelFromDomain(c *domain.Client) *ClientModel {
	return &ClientModel{
		ID:         c.ID,
		FullName:   c.FullName,
		NationalID: c.NationalID,
		Phone:      c.Phone,
		Address:    c.Address,
		PhotoURL:   c.PhotoURL,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ProductModel represents the database schema for products
type ProductModel struct {
	ID                string `gorm:"primaryKey;type:varchar(50)"`
	Name              string `gorm:"type:varchar(150);not null;index"`
	Description       string `gorm:"type:text"`
	UnitPrice         int64  `gorm:"not null"`
	Stock             int    `gorm:"not null;default:0"`
	LowStockThreshold int    `gorm:"not null;default:5"`
	Category          string `gorm:"type:varchar(60);index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

func (m *ProductModel) ToDomain() *domain.Product {
	return &domain.Product{
		ID:                m.ID,
		Name:              m.Name,
		Description:       m.Description,
		UnitPrice:         m.UnitPrice,
		Stock:             m.Stock,
		LowStockThreshold: m.LowStockThreshold,
		Category:          m.Category,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ProductModelFromDomain(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		UnitPrice:         p.UnitPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		Category:          p.Category,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// FinancingModel represents the database schema for financings
type FinancingModel struct {
	ID            string               `gorm:"primaryKey;type:varchar(50)"`
	ControlNumber string               `gorm:"type:varchar(20);uniqueIndex;not null"`
	ClientID      string               `gorm:"type:varchar(50);not null;index"`
	Items         []FinancingItemModel `gorm:"foreignKey:FinancingID"`
	ProductID     string               `gorm:"type:varchar(50)"`
	Quantity      int
	Total         int64     `gorm:"not null"`
	SaleType      string    `gorm:"type:varchar(20);not null"`
	Installments  int       `gorm:"not null;default:0"`
	StartDate     time.Time `gorm:"not null;index"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	Description   string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (FinancingModel) TableName() string {
	return "financings"
}

// FinancingItemModel is one sale line of a financing
type FinancingItemModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	FinancingID string `gorm:"type:varchar(50);not null;index"`
	ProductID   string `gorm:"type:varchar(50);not null"`
	Quantity    int    `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"`
	Subtotal    int64  `gorm:"not null"`
}

func (FinancingItemModel) TableName() string {
	return "financing_items"
}

func (m *FinancingModel) ToDomain() *domain.Financing {
	items := make([]domain.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = domain.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
	}
	return &domain.Financing{
		ID:            m.ID,
		ControlNumber: m.ControlNumber,
		ClientID:      m.ClientID,
		Items:         items,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		Total:         m.Total,
		SaleType:      domain.SaleType(m.SaleType),
		Installments:  m.Installments,
		StartDate:     m.StartDate,
		Status:        domain.FinancingStatus(m.Status),
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FinancingModelFromDomain(f *domain.Financing) *FinancingModel {
	items := make([]FinancingItemModel, len(f.Items))
	for i, it := range f.Items {
		items[i] = FinancingItemModel{
			FinancingID: f.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		}
	}
	return &FinancingModel{
		ID:            f.ID,
		ControlNumber: f.ControlNumber,
		ClientID:      f.ClientID,
		Items:         items,
		ProductID:     f.ProductID,
		Quantity:      f.Quantity,
		Total:         f.Total,
		SaleType:      string(f.SaleType),
		Installments:  f.Installments,
		StartDate:     f.StartDate,
		Status:        string(f.Status),
		Description:   f.Description,
		CreatedAt:     f.CreatedAt,
	}
}

// PaymentModel represents the database schema for payments
type PaymentModel struct {
	ID                string    `gorm:"primaryKey;type:varchar(50)"`
	FinancingID       string    `gorm:"type:varchar(50);not null;index"`
	Amount            int64     `gorm:"not null"`
	Date              time.Time `gorm:"not null;index"`
	Kind              string    `gorm:"type:varchar(20);not null"`
	InstallmentNumber int       `gorm:"not null;default:0"`
	Method            string    `gorm:"type:varchar(30)"`
	// ReceiptRef is nullable so that receiptless payments do not collide on
	// the unique index.
	ReceiptRef      *string   `gorm:"type:varchar(100);uniqueIndex"`
	ReceiptImageURL string    `gorm:"type:varchar(255)"`
	Note            string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (m *PaymentModel) ToDomain() *domain.Payment {
	p := &domain.Payment{
		ID:                m.ID,
		FinancingID:       m.FinancingID,
		Amount:            m.Amount,
		Date:              m.Date,
		Kind:              domain.PaymentKind(m.Kind),
		InstallmentNumber: m.InstallmentNumber,
		Method:            m.Method,
		ReceiptImageURL:   m.ReceiptImageURL,
		Note:              m.Note,
		CreatedAt:         m.CreatedAt,
	}
	if m.ReceiptRef != nil {
		p.ReceiptRef = *m.ReceiptRef
	}
	return p
}

func PaymentModelFromDomain(p *domain.Payment) *PaymentModel {
	model := &PaymentModel{
		ID:                p.ID,
		FinancingID:       p.FinancingID,
		Amount:            p.Amount,
		Date:              p.Date,
		Kind:              string(p.Kind),
		InstallmentNumber: p.InstallmentNumber,
		Method:            p.Method,
		ReceiptImageURL:   p.ReceiptImageURL,
		Note:              p.Note,
		CreatedAt:         p.CreatedAt,
	}
	if p.ReceiptRef != "" {
		ref := p.ReceiptRef
		model.ReceiptRef = &ref
	}
	return model
}

// ControlNumberModel backs the sequential sale numbering
type ControlNumberModel struct {
	Sequence  string `gorm:"primaryKey;type:varchar(30)"`
	Value     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (ControlNumberModel) TableName() string {
	return "control_numbers"
}
