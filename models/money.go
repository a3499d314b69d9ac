package models

import "github.com/shopspring/decimal"

func init() {
	// Money fields are emitted as JSON numbers, matching the request shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&StaffUser{},
		&Resource{},
		&Sandwich{},
		&Recipe{},
		&PromoCode{},
		&Order{},
		&OrderDetail{},
		&OrderItemConsumption{},
		&OrderStatusHistory{},
		&Review{},
	}
}
