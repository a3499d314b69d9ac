package services

import (
	"context"
	"strings"
	"time"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultLowRating   = 2
	complaintsPerDish  = 3
	attentionMaxRating = 2
)

type CreateReviewRequest struct {
	OrderID    uint   `json:"order_id" binding:"required"`
	SandwichID uint   `json:"sandwich_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

// ReviewService records customer feedback and the staff replies to it
type ReviewService struct {
	db  *gorm.DB
	log *logrus.Entry
	now func() time.Time
}

func NewReviewService(db *gorm.DB, log *logrus.Logger) *ReviewService {
	return &ReviewService{
		db:  db,
		log: log.WithField("component", "review_service"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create accepts a review only from an order that contains the sandwich, once per pair.
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.BusinessRule("Rating must be between 1 and 5")
	}
	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, req.OrderID).Error; err != nil {
			return apperr.FromRead(err, "Order")
		}
		if err := mustExist(tx, &models.Sandwich{}, req.SandwichID, "Sandwich"); err != nil {
			return err
		}

		var ordered int64
		err := tx.Model(&models.OrderDetail{}).
			Where("order_id = ? AND sandwich_id = ?", req.OrderID, req.SandwichID).
			Count(&ordered).Error
		if err != nil {
			return errors.Wrap(err, "check ordered items")
		}
		if ordered == 0 {
			return apperr.BusinessRule("You can only review sandwiches that you actually ordered!")
		}

		var reviewed int64
		err = tx.Model(&models.Review{}).
			Where("order_id = ? AND sandwich_id = ?", req.OrderID, req.SandwichID).
			Count(&reviewed).Error
		if err != nil {
			return errors.Wrap(err, "check existing review")
		}
		if reviewed > 0 {
			return apperr.BusinessRule("You have already reviewed this sandwich for this order!")
		}

		review = models.Review{
			OrderID:      req.OrderID,
			SandwichID:   req.SandwichID,
			CustomerName: order.CustomerName,
			Rating:       req.Rating,
			Comment:      strings.TrimSpace(req.Comment),
		}
		return apperr.Constraint(tx.Create(&review).Error)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"review_id": review.ID, "sandwich_id": review.SandwichID, "rating": review.Rating}).Info("review created")
	return &review, nil
}

func (s *ReviewService) newest(q *gorm.DB) ([]models.Review, error) {
	var reviews []models.Review
	if err := q.Preload("Sandwich").Order("review_date DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return reviews, nil
}

func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.newest(s.db.WithContext(ctx))
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Preload("Sandwich").First(&review, id).Error; err != nil {
		return nil, apperr.FromRead(err, "Review")
	}
	return &review, nil
}

func (s *ReviewService) BySandwich(ctx context.Context, sandwichID uint) ([]models.Review, error) {
	return s.newest(s.db.WithContext(ctx).Where("sandwich_id = ?", sandwichID))
}

// ByCustomer matches a case-insensitive substring of the customer name.
func (s *ReviewService) ByCustomer(ctx context.Context, name string) ([]models.Review, error) {
	return s.newest(s.db.WithContext(ctx).Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(name)+"%"))
}

func (s *ReviewService) Unanswered(ctx context.Context) ([]models.Review, error) {
	return s.newest(s.db.WithContext(ctx).Where("staff_response IS NULL OR staff_response = ''"))
}

// NeedingAttention lists unanswered reviews rated 2 or lower.
func (s *ReviewService) NeedingAttention(ctx context.Context) ([]models.Review, error) {
	return s.newest(s.db.WithContext(ctx).
		Where("rating <= ?", attentionMaxRating).
		Where("staff_response IS NULL OR staff_response = ''"))
}

type ratingBucket struct {
	Rating int
	Count  int
}

// RatingSummary counts reviews per star for one sandwich.
func (s *ReviewService) RatingSummary(ctx context.Context, sandwichID uint) (*models.RatingSummary, error) {
	db := s.db.WithContext(ctx)
	var sandwich models.Sandwich
	if err := db.First(&sandwich, sandwichID).Error; err != nil {
		return nil, apperr.FromRead(err, "Sandwich")
	}

	var buckets []ratingBucket
	err := db.Model(&models.Review{}).
		Select("rating, COUNT(id) AS count").
		Where("sandwich_id = ?", sandwichID).
		Group("rating").
		Scan(&buckets).Error
	if err != nil {
		return nil, errors.Wrap(err, "rating distribution")
	}

	summary := &models.RatingSummary{
		SandwichID:         sandwich.ID,
		SandwichName:       sandwich.SandwichName,
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, b := range buckets {
		summary.RatingDistribution[b.Rating] = b.Count
		summary.TotalReviews += b.Count
		sum += b.Rating * b.Count
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = roundTo(float64(sum)/float64(summary.TotalReviews), 2)
	}
	return summary, nil
}

// LowRated lists sandwiches whose average rating is at most maxRating, worst first, each with
// its most recent commented complaints.
func (s *ReviewService) LowRated(ctx context.Context, maxRating float64) ([]models.LowRatedSandwich, error) {
	if maxRating <= 0 {
		maxRating = defaultLowRating
	}
	db := s.db.WithContext(ctx)

	var rows []ratingStat
	err := db.Model(&models.Review{}).
		Select("sandwich_id, AVG(rating) AS avg_rating, COUNT(id) AS review_count").
		Group("sandwich_id").
		Having("AVG(rating) <= ?", maxRating).
		Order("avg_rating").Order("sandwich_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "low rated sandwiches")
	}

	result := make([]models.LowRatedSandwich, 0, len(rows))
	for _, r := range rows {
		var sandwich models.Sandwich
		if err := db.Select("id", "sandwich_name").First(&sandwich, r.SandwichID).Error; err != nil {
			return nil, apperr.FromRead(err, "Sandwich")
		}
		entry := models.LowRatedSandwich{
			SandwichID:       r.SandwichID,
			SandwichName:     sandwich.SandwichName,
			AverageRating:    roundTo(r.AvgRating, 2),
			ReviewCount:      r.ReviewCount,
			RecentComplaints: []models.Review{},
		}
		err := db.Where("sandwich_id = ? AND rating <= ? AND comment IS NOT NULL AND comment <> ''", r.SandwichID, maxRating).
			Order("review_date DESC").Order("id DESC").
			Limit(complaintsPerDish).
			Find(&entry.RecentComplaints).Error
		if err != nil {
			return nil, errors.Wrap(err, "recent complaints")
		}
		result = append(result, entry)
	}
	return result, nil
}

// AddStaffResponse stores the reply and stamps the response date.
func (s *ReviewService) AddStaffResponse(ctx context.Context, id uint, response string) (*models.Review, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperr.BusinessRule("Staff response cannot be empty")
	}
	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"staff_response": response,
		"response_date":  now,
	})
	if res.Error != nil {
		return nil, apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Review not found")
	}
	return s.Get(ctx, id)
}

func (s *ReviewService) Update(ctx context.Context, id uint, req UpdateReviewRequest) (*models.Review, error) {
	updates := map[string]interface{}{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, apperr.BusinessRule("Rating must be between 1 and 5")
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = strings.TrimSpace(*req.Comment)
	}
	db := s.db.WithContext(ctx)
	if err := mustExist(db, &models.Review{}, id, "Review"); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Review{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, apperr.Constraint(err)
		}
	}
	return s.Get(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return apperr.Constraint(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Review not found")
	}
	return nil
}
