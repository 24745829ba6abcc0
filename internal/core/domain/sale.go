// internal/core/domain/sale.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// Normalize maps legacy wire values onto the current enum.
func (m PaymentMethod) Normalize() PaymentMethod {
	switch strings.ToLower(string(m)) {
	case "cash", "efectivo":
		return PaymentCash
	case "transfer", "transferencia":
		return PaymentTransfer
	}
	return m
}

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentTransfer
}

// SaleDateLayout is the calendar-day format used for sale dates.
const SaleDateLayout = "2006-01-02"

// Sale is an immutable record of units sold
type Sale struct {
	ID            string          `json:"id,omitempty"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	Size          string          `json:"size"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	SaleDate      string          `json:"saleDate"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleInput is what a caller provides to record a sale
type SaleInput struct {
	ProductID     string        `json:"productId"`
	Size          string        `json:"size"`
	Quantity      int           `json:"quantity"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomerName  string        `json:"customerName,omitempty"`
	CustomerPhone string        `json:"customerPhone,omitempty"`
	CustomerEmail string        `json:"customerEmail,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	SaleDate      string        `json:"saleDate,omitempty"`
}

// Validate checks the input and fills defaults relative to now
func (in *SaleInput) Validate(now time.Time) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return Validationf("productId is required")
	}
	if strings.TrimSpace(in.Size) == "" {
		return Validationf("size is required")
	}
	if in.Quantity <= 0 {
		return Validationf("quantity must be positive")
	}

	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCash
	}
	in.PaymentMethod = in.PaymentMethod.Normalize()
	if !in.PaymentMethod.IsValid() {
		return Validationf("invalid payment method %q", in.PaymentMethod)
	}

	if in.SaleDate == "" {
		in.SaleDate = now.UTC().Format(SaleDateLayout)
	}
	if _, err := time.Parse(SaleDateLayout, in.SaleDate); err != nil {
		return Validationf("saleDate must be formatted as YYYY-MM-DD")
	}

	return nil
}

// NewSale freezes the product name and price into a sale record
func NewSale(in SaleInput, product *Product) *Sale {
	return &Sale{
		ProductID:     product.ID,
		ProductName:   product.Name,
		Size:          in.Size,
		Quantity:      in.Quantity,
		UnitPrice:     product.Price,
		TotalPrice:    product.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		PaymentMethod: in.PaymentMethod,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Notes:         in.Notes,
		SaleDate:      in.SaleDate,
	}
}

// ToDocument maps the sale to its stored shape.
func (s *Sale) ToDocument() Document {
	doc := Document{
		"productId":     s.ProductID,
		"productName":   s.ProductName,
		"size":          s.Size,
		"quantity":      s.Quantity,
		"unitPrice":     s.UnitPrice.InexactFloat64(),
		"totalPrice":    s.TotalPrice.InexactFloat64(),
		"paymentMethod": string(s.PaymentMethod),
		"saleDate":      s.SaleDate,
	}

	optional := map[string]string{
		"customerName":  s.CustomerName,
		"customerPhone": s.CustomerPhone,
		"customerEmail": s.CustomerEmail,
		"notes":         s.Notes,
	}
	for k, v := range optional {
		if v != "" {
			doc[k] = v
		}
	}

	return doc
}

// SaleFromDocument decodes a normalized document.
func SaleFromDocument(d Document) (*Sale, error) {
	var s Sale
	createdAt, err := decodeRecord(d, &s)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = createdAt
	s.PaymentMethod = s.PaymentMethod.Normalize()
	return &s, nil
}
