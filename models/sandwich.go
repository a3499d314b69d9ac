package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Sandwich struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	SandwichName string          `json:"sandwich_name" gorm:"uniqueIndex;size:100;not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(6,2);not null"`
	Description  string          `json:"description" gorm:"size:500"`
	Calories     *int            `json:"calories"`
	Category     string          `json:"category" gorm:"size:100"`
	IsAvailable  bool            `json:"is_available" gorm:"not null"`
	CreatedDate  time.Time       `json:"created_date" gorm:"autoCreateTime"`
}

// Tags parses the comma separated category into a sorted set of lowercase tags.
func (s *Sandwich) Tags() []string {
	return ParseTags(s.Category)
}

// HasTag reports whether tag is one of the sandwich's tags (case-insensitive).
func (s *Sandwich) HasTag(tag string) bool {
	want := strings.ToLower(strings.TrimSpace(tag))
	for _, t := range s.Tags() {
		if t == want {
			return true
		}
	}
	return false
}

func ParseTags(category string) []string {
	seen := map[string]bool{}
	var tags []string
	for _, part := range strings.Split(category, ",") {
		t := strings.ToLower(strings.TrimSpace(part))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// RatedSandwich is a menu entry with its review statistics
type RatedSandwich struct {
	Sandwich
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}

type PopularSandwich struct {
	SandwichID     uint            `json:"sandwich_id"`
	SandwichName   string          `json:"sandwich_name"`
	Price          decimal.Decimal `json:"price"`
	TotalOrdered   int             `json:"total_ordered"`
	OrderFrequency int             `json:"order_frequency"`
	AverageRating  *float64        `json:"average_rating"`
}

type UnpopularSandwich struct {
	SandwichID     uint            `json:"sandwich_id"`
	SandwichName   string          `json:"sandwich_name"`
	Price          decimal.Decimal `json:"price"`
	TotalOrdered   int             `json:"total_ordered"`
	Recommendation string          `json:"recommendation"`
}

type SandwichDetails struct {
	Sandwich      Sandwich       `json:"sandwich"`
	AverageRating *float64       `json:"average_rating"`
	ReviewCount   int            `json:"review_count"`
	RecentReviews []Review       `json:"recent_reviews"`
	Recipe        []RecipeDetail `json:"recipe"`
}
