package models

import "github.com/shopspring/decimal"

// AlertLevel grades a low stock alert
type AlertLevel string

const (
	AlertLow      AlertLevel = "LOW"
	AlertCritical AlertLevel = "CRITICAL"
)

// Resource is a stocked ingredient or supply
type Resource struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	Item         string           `json:"item" gorm:"uniqueIndex;size:100;not null"`
	Amount       int              `json:"amount" gorm:"not null;default:0"`
	Unit         string           `json:"unit" gorm:"size:20;not null;default:'piece'"`
	MinimumStock int              `json:"minimum_stock" gorm:"not null"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit" gorm:"type:decimal(8,2)"`
}

// IsLow reports whether the stock is at or below the minimum.
func (r *Resource) IsLow() bool {
	return r.Amount <= r.MinimumStock
}

// AlertLevel is CRITICAL once the stock is exhausted.
func (r *Resource) AlertLevel() AlertLevel {
	if r.Amount <= 0 {
		return AlertCritical
	}
	return AlertLow
}

type LowStockAlert struct {
	ResourceID   uint       `json:"resource_id"`
	Item         string     `json:"item"`
	CurrentStock int        `json:"current_stock"`
	MinimumStock int        `json:"minimum_stock"`
	Unit         string     `json:"unit"`
	Shortage     int        `json:"shortage"`
	AlertLevel   AlertLevel `json:"alert_level"`
}

type StockCheck struct {
	ResourceID uint   `json:"resource_id"`
	Item       string `json:"item"`
	Available  int    `json:"available"`
	Required   int    `json:"required"`
	Sufficient bool   `json:"sufficient"`
	Unit       string `json:"unit"`
}

type StockUpdate struct {
	Resource Resource `json:"resource"`
	Warning  string   `json:"warning,omitempty"`
}

type StockConsumption struct {
	Resource       Resource `json:"resource"`
	AmountConsumed int      `json:"amount_consumed"`
	RemainingStock int      `json:"remaining_stock"`
	Warning        string   `json:"warning,omitempty"`
}

type StockRestock struct {
	Resource      Resource `json:"resource"`
	AmountAdded   int      `json:"amount_added"`
	NewStockLevel int      `json:"new_stock_level"`
}

type InventorySummary struct {
	TotalItems          int             `json:"total_items"`
	LowStockCount       int             `json:"low_stock_count"`
	OutOfStockCount     int             `json:"out_of_stock_count"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
}
