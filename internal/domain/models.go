package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Brand     string          `db:"brand" json:"brand"`
	Quantity  int             `db:"quantity" json:"quantity"`
	CostPrice decimal.Decimal `db:"cost_price" json:"cost_price"`
	SalePrice decimal.Decimal `db:"sale_price" json:"sale_price"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

type Sale struct {
	ID          string          `db:"id" json:"id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	Quantity    int             `db:"quantity" json:"quantity"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// SaleView is a ledger row joined with its product for display.
type SaleView struct {
	Sale
	ProductName  string `db:"product_name" json:"product_name"`
	ProductBrand string `db:"product_brand" json:"product_brand"`
}

type Movement struct {
	ID        string          `db:"id" json:"id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Type      MovementType    `db:"type" json:"type"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitCost  decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

// StockAudit compares a product's stored quantity with its movement journal.
type StockAudit struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	JournalTotal int    `json:"journal_total"`
	Consistent   bool   `json:"consistent"`
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Quantity  int             `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// InventoryEdit is one row of the bulk stock-table save.
type InventoryEdit struct {
	ProductID string `json:"product_id"`
	ProductInput
}

// DraftOrder is a caller-owned cart; the ledger never keeps one between calls.
type DraftOrder struct {
	Lines []DraftLine `json:"lines"`
}

type DraftLine struct {
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Total sums the line amounts of the draft.
func (d DraftOrder) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range d.Lines {
		sum = sum.Add(l.TotalAmount)
	}
	return sum
}

type Receipt struct {
	Sales []Sale          `json:"sales"`
	Total decimal.Decimal `json:"total"`
}
