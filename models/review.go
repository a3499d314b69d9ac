package models

import "time"

type Review struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	OrderID       uint       `json:"order_id" gorm:"not null;uniqueIndex:idx_reviews_order_sandwich"`
	Order         *Order     `json:"-" gorm:"foreignKey:OrderID"`
	SandwichID    uint       `json:"sandwich_id" gorm:"not null;uniqueIndex:idx_reviews_order_sandwich;index"`
	Sandwich      *Sandwich  `json:"sandwich,omitempty" gorm:"foreignKey:SandwichID"`
	CustomerName  string     `json:"customer_name" gorm:"size:100;not null"`
	Rating        int        `json:"rating" gorm:"not null"`
	Comment       string     `json:"comment" gorm:"type:text"`
	ReviewDate    time.Time  `json:"review_date" gorm:"autoCreateTime;index"`
	StaffResponse string     `json:"staff_response" gorm:"type:text"`
	ResponseDate  *time.Time `json:"response_date"`
}

type RatingSummary struct {
	SandwichID         uint        `json:"sandwich_id"`
	SandwichName       string      `json:"sandwich_name"`
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

type LowRatedSandwich struct {
	SandwichID       uint     `json:"sandwich_id"`
	SandwichName     string   `json:"sandwich_name"`
	AverageRating    float64  `json:"average_rating"`
	ReviewCount      int      `json:"review_count"`
	RecentComplaints []Review `json:"recent_complaints"`
}
