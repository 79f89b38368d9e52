package model

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Medicine is a catalog entry referenced by prescription lines.
type Medicine struct {
	Base
	Name          string  `db:"name" json:"name"`
	Category      string  `db:"category" json:"category"`
	Strength      string  `db:"strength" json:"strength,omitempty"`
	Form          string  `db:"form" json:"form,omitempty"`
	Manufacturer  string  `db:"manufacturer" json:"manufacturer,omitempty"`
	Price         float64 `db:"price" json:"price"`
	StockQuantity int     `db:"stock_quantity" json:"stock_quantity"`
	ReorderLevel  int     `db:"reorder_level" json:"reorder_level"`
	Active        bool    `db:"active" json:"active"`
}

// StockStatus is derived from quantity and reorder level, never stored.
func (m *Medicine) StockStatus() StockStatus {
	switch {
	case m.StockQuantity <= 0:
		return StockStatusOutOfStock
	case m.StockQuantity <= m.ReorderLevel:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

type CreateMedicineRequest struct {
	Name          string  `json:"name" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Strength      string  `json:"strength"`
	Form          string  `json:"form"`
	Manufacturer  string  `json:"manufacturer"`
	Price         float64 `json:"price" binding:"gte=0"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	ReorderLevel  int     `json:"reorder_level" binding:"gte=0"`
}

type UpdateMedicineRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Strength      *string  `json:"strength"`
	Form          *string  `json:"form"`
	Manufacturer  *string  `json:"manufacturer"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	ReorderLevel  *int     `json:"reorder_level"`
	Active        *bool    `json:"active"`
}

type MedicineFilters struct {
	SearchTerm string
	Category   string
	ActiveOnly bool
}
