package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultPopularLimit = 10
	unpopularThreshold  = 5
	recentReviewCount   = 5
)

type CreateSandwichRequest struct {
	SandwichName string          `json:"sandwich_name" binding:"required,max=100"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description" binding:"max=500"`
	Calories     *int            `json:"calories" binding:"omitempty,min=0"`
	Category     string          `json:"category" binding:"max=100"`
	IsAvailable  *bool           `json:"is_available"`
}

type UpdateSandwichRequest struct {
	SandwichName *string          `json:"sandwich_name" binding:"omitempty,min=1,max=100"`
	Price        *decimal.Decimal `json:"price"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	Calories     *int             `json:"calories" binding:"omitempty,min=0"`
	Category     *string          `json:"category" binding:"omitempty,max=100"`
	IsAvailable  *bool            `json:"is_available"`
}

// SandwichService manages the menu catalog
type SandwichService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewSandwichService(db *gorm.DB, log *logrus.Logger) *SandwichService {
	return &SandwichService{db: db, log: log.WithField("component", "sandwich_service")}
}

func (s *SandwichService) Create(ctx context.Context, req CreateSandwichRequest) (*models.Sandwich, error) {
	if !req.Price.IsPositive() {
		return nil, apperr.BusinessRule("Price must be greater than zero")
	}
	sandwich := models.Sandwich{
		SandwichName: strings.TrimSpace(req.SandwichName),
		Price:        req.Price,
		Description:  req.Description,
		Calories:     req.Calories,
		Category:     req.Category,
		IsAvailable:  true,
	}
	if req.IsAvailable != nil {
		sandwich.IsAvailable = *req.IsAvailable
	}
	if err := s.db.WithContext(ctx).Create(&sandwich).Error; err != nil {
		return nil, apperr.Constraint(err)
	}
	s.log.WithFields(logrus.Fields{"sandwich_id": sandwich.ID, "name": sandwich.SandwichName}).Info("sandwich created")
	return &sandwich, nil
}

func (s *SandwichService) List(ctx context.Context) ([]models.Sandwich, error) {
	return s.find(s.db.WithContext(ctx))
}

func (s *SandwichService) ListAvailable(ctx context.Context) ([]models.Sandwich, error) {
	return s.find(s.db.WithContext(ctx).Where("is_available = ?", true))
}

func (s *SandwichService) find(q *gorm.DB) ([]models.Sandwich, error) {
	var sandwiches []models.Sandwich
	if err := q.Order("id").Find(&sandwiches).Error; err != nil {
		return nil, errors.Wrap(err, "list sandwiches")
	}
	return sandwiches, nil
}

func (s *SandwichService) Get(ctx context.Context, id uint) (*models.Sandwich, error) {
	var sandwich models.Sandwich
	if err := s.db.WithContext(ctx).First(&sandwich, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Sandwich")
	}
	return &sandwich, nil
}

// SearchByName matches available sandwiches by case-insensitive substring.
func (s *SandwichService) SearchByName(ctx context.Context, q string) ([]models.Sandwich, error) {
	return s.find(s.db.WithContext(ctx).
		Where("is_available = ? AND LOWER(sandwich_name) LIKE ?", true, "%"+strings.ToLower(q)+"%"))
}

// SearchByCategory matches the tag exactly against each available sandwich's tag set.
func (s *SandwichService) SearchByCategory(ctx context.Context, tag string) ([]models.Sandwich, error) {
	available, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.Sandwich{}
	for _, sw := range available {
		if sw.HasTag(tag) {
			matched = append(matched, sw)
		}
	}
	return matched, nil
}

// Categories returns the sorted distinct tags of available sandwiches.
func (s *SandwichService) Categories(ctx context.Context) ([]string, error) {
	available, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	categories := []string{}
	for _, sw := range available {
		for _, t := range sw.Tags() {
			if !seen[t] {
				seen[t] = true
				categories = append(categories, t)
			}
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *SandwichService) Update(ctx context.Context, id uint, req UpdateSandwichRequest) (*models.Sandwich, error) {
	updates := map[string]interface{}{}
	if req.SandwichName != nil {
		updates["sandwich_name"] = strings.TrimSpace(*req.SandwichName)
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, apperr.BusinessRule("Price must be greater than zero")
		}
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Calories != nil {
		updates["calories"] = *req.Calories
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	var sandwich models.Sandwich
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sandwich, id).Error; err != nil {
			return apperr.FromRead(err, "Sandwich")
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&sandwich).Updates(updates).Error; err != nil {
			return apperr.Constraint(err)
		}
		return tx.First(&sandwich, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &sandwich, nil
}

// ToggleAvailability flips is_available and describes the new state.
func (s *SandwichService) ToggleAvailability(ctx context.Context, id uint) (*models.Sandwich, string, error) {
	var sandwich models.Sandwich
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sandwich, id).Error; err != nil {
			return apperr.FromRead(err, "Sandwich")
		}
		sandwich.IsAvailable = !sandwich.IsAvailable
		return apperr.Constraint(tx.Model(&sandwich).UpdateColumn("is_available", sandwich.IsAvailable).Error)
	})
	if err != nil {
		return nil, "", err
	}
	state := "unavailable"
	if sandwich.IsAvailable {
		state = "available"
	}
	s.log.WithFields(logrus.Fields{"sandwich_id": id, "available": sandwich.IsAvailable}).Info("sandwich availability toggled")
	return &sandwich, "Sandwich '" + sandwich.SandwichName + "' is now " + state, nil
}

func (s *SandwichService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Sandwich{}, id)
	if res.Error != nil {
		return apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Sandwich not found")
	}
	return nil
}

type ratingStat struct {
	SandwichID  uint
	AvgRating   float64
	ReviewCount int
}

type orderStat struct {
	SandwichID     uint
	TotalOrdered   int
	OrderFrequency int
}

func (s *SandwichService) ratingStats(ctx context.Context) (map[uint]ratingStat, error) {
	var rows []ratingStat
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("sandwich_id, AVG(rating) AS avg_rating, COUNT(id) AS review_count").
		Group("sandwich_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregate ratings")
	}
	stats := make(map[uint]ratingStat, len(rows))
	for _, r := range rows {
		stats[r.SandwichID] = r
	}
	return stats, nil
}

func (s *SandwichService) orderStats(ctx context.Context) (map[uint]orderStat, error) {
	var rows []orderStat
	err := s.db.WithContext(ctx).Model(&models.OrderDetail{}).
		Select("sandwich_id, SUM(quantity) AS total_ordered, COUNT(id) AS order_frequency").
		Group("sandwich_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregate orders")
	}
	stats := make(map[uint]orderStat, len(rows))
	for _, r := range rows {
		stats[r.SandwichID] = r
	}
	return stats, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func averageOf(stat ratingStat, ok bool) *float64 {
	if !ok || stat.ReviewCount == 0 {
		return nil
	}
	avg := roundTo(stat.AvgRating, 1)
	return &avg
}

// MenuWithRatings lists available sandwiches with their average rating and review count.
func (s *SandwichService) MenuWithRatings(ctx context.Context) ([]models.RatedSandwich, error) {
	available, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingStats(ctx)
	if err != nil {
		return nil, err
	}
	menu := make([]models.RatedSandwich, 0, len(available))
	for _, sw := range available {
		stat, ok := ratings[sw.ID]
		menu = append(menu, models.RatedSandwich{
			Sandwich:      sw,
			AverageRating: averageOf(stat, ok),
			ReviewCount:   stat.ReviewCount,
		})
	}
	return menu, nil
}

// Popular ranks ordered sandwiches by total quantity sold.
func (s *SandwichService) Popular(ctx context.Context, limit int) ([]models.PopularSandwich, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	sandwiches, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderStats(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingStats(ctx)
	if err != nil {
		return nil, err
	}

	popular := []models.PopularSandwich{}
	for _, sw := range sandwiches {
		stat, ok := orders[sw.ID]
		if !ok {
			continue
		}
		rating, rated := ratings[sw.ID]
		popular = append(popular, models.PopularSandwich{
			SandwichID:     sw.ID,
			SandwichName:   sw.SandwichName,
			Price:          sw.Price,
			TotalOrdered:   stat.TotalOrdered,
			OrderFrequency: stat.OrderFrequency,
			AverageRating:  averageOf(rating, rated),
		})
	}
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].TotalOrdered > popular[j].TotalOrdered
	})
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

// Unpopular lists sandwiches that sold five units or fewer, least sold first.
func (s *SandwichService) Unpopular(ctx context.Context) ([]models.UnpopularSandwich, error) {
	sandwiches, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderStats(ctx)
	if err != nil {
		return nil, err
	}

	unpopular := []models.UnpopularSandwich{}
	for _, sw := range sandwiches {
		total := orders[sw.ID].TotalOrdered
		if total > unpopularThreshold {
			continue
		}
		rec := "Monitor performance"
		if total <= 2 {
			rec = "Consider removing or improving recipe"
		}
		unpopular = append(unpopular, models.UnpopularSandwich{
			SandwichID:     sw.ID,
			SandwichName:   sw.SandwichName,
			Price:          sw.Price,
			TotalOrdered:   total,
			Recommendation: rec,
		})
	}
	sort.SliceStable(unpopular, func(i, j int) bool {
		return unpopular[i].TotalOrdered < unpopular[j].TotalOrdered
	})
	return unpopular, nil
}

// Details bundles a sandwich with its ratings, latest reviews and recipe.
func (s *SandwichService) Details(ctx context.Context, id uint) (*models.SandwichDetails, error) {
	sandwich, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingStats(ctx)
	if err != nil {
		return nil, err
	}
	stat, ok := ratings[id]

	details := &models.SandwichDetails{
		Sandwich:      *sandwich,
		AverageRating: averageOf(stat, ok),
		ReviewCount:   stat.ReviewCount,
		RecentReviews: []models.Review{},
	}
	err = s.db.WithContext(ctx).
		Where("sandwich_id = ?", id).
		Order("review_date DESC").Order("id DESC").
		Limit(recentReviewCount).
		Find(&details.RecentReviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "recent reviews")
	}
	if details.Recipe, err = recipeDetails(s.db.WithContext(ctx), id); err != nil {
		return nil, err
	}
	return details, nil
}
