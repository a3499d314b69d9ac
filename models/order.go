package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen progress of an order
type OrderStatus string

const (
	StatusReceived  OrderStatus = "received"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

var OrderStatuses = []OrderStatus{StatusReceived, StatusPreparing, StatusReady, StatusCompleted}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type OrderType string

const (
	OrderTakeout  OrderType = "takeout"
	OrderDelivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == OrderTakeout || t == OrderDelivery
}

type Order struct {
	ID             uint                 `json:"id" gorm:"primaryKey"`
	CustomerName   string               `json:"customer_name" gorm:"size:100;not null"`
	Phone          string               `json:"phone" gorm:"size:15;not null"`
	Address        string               `json:"address" gorm:"size:500"`
	OrderType      OrderType            `json:"order_type" gorm:"size:20;not null"`
	Status         OrderStatus          `json:"status" gorm:"size:50;not null;index"`
	PaymentStatus  PaymentStatus        `json:"payment_status" gorm:"size:20;not null"`
	SubtotalAmount decimal.Decimal      `json:"subtotal_amount" gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal      `json:"discount_amount" gorm:"type:decimal(10,2);not null"`
	TotalAmount    decimal.Decimal      `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	TrackingNumber string               `json:"tracking_number" gorm:"uniqueIndex;size:50;not null"`
	PromoCodeID    *uint                `json:"promo_code_id"`
	PromoRedeemed  bool                 `json:"promo_redeemed" gorm:"not null;default:false"`
	PromoCode      *PromoCode           `json:"promo_code,omitempty" gorm:"foreignKey:PromoCodeID"`
	Description    string               `json:"description" gorm:"size:300"`
	OrderDate      time.Time            `json:"order_date" gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time            `json:"updated_at"`
	OrderDetails   []OrderDetail        `json:"order_details,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory  []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
}

// Total is the subtotal less the discount, floored at zero.
func Total(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// NewTrackingNumber returns "ORD-" followed by eight uppercase hex digits.
func NewTrackingNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

type OrderDetail struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`
	OrderID             uint            `json:"order_id" gorm:"not null;index"`
	SandwichID          uint            `json:"sandwich_id" gorm:"not null;index"`
	Sandwich            *Sandwich       `json:"sandwich,omitempty" gorm:"foreignKey:SandwichID"`
	Quantity            int             `json:"quantity" gorm:"not null"`
	UnitPrice           decimal.Decimal `json:"unit_price" gorm:"type:decimal(6,2);not null"` // price when added
	Subtotal            decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	SpecialInstructions string          `json:"special_instructions" gorm:"size:300"`
}

// OrderItemConsumption is the stock one line item took from one resource. Rows written by the
// same consume share a Batch; Portions shrinks as quantity is given back, newest batch first.
type OrderItemConsumption struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	OrderDetailID uint `json:"order_detail_id" gorm:"not null;index"`
	Batch         int  `json:"batch" gorm:"not null"`
	ResourceID    uint `json:"resource_id" gorm:"not null;index"`
	PerPortion    int  `json:"per_portion" gorm:"not null"`
	Portions      int  `json:"portions" gorm:"not null"`
}

// OrderStatusHistory records every status change made to an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // staff id, 0 for system changes
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

type RevenueReport struct {
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	OrderCount   int             `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Orders       []Order         `json:"orders"`
}
