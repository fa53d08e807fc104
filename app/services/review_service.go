package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/pkg/cache"
	"github.com/shashiranjanraj/honeyshop/pkg/metrics"
	"github.com/shashiranjanraj/honeyshop/pkg/orm"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
	cache    *cache.Cache
	ttl      time.Duration
	now      func() time.Time
}

func NewReviewService(reviews ReviewStore, products ProductStore, c *cache.Cache, ttl time.Duration) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, cache: c, ttl: ttl, now: time.Now}
}

func summaryKey(productID primitive.ObjectID) string { return "ratings:" + productID.Hex() }

// Create stores the user's review of a product. A user may review a
// product once.
func (s *ReviewService) Create(ctx context.Context, userID uint, productID primitive.ObjectID, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, ErrInvalidRating
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Review{}, ErrProductNotFound
		}
		return models.Review{}, fmt.Errorf("load product: %w", err)
	}

	review := models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		Date:      s.now().UTC(),
	}
	if err := s.reviews.Insert(ctx, &review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Review{}, ErrDuplicateReview
		}
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}
	_ = s.cache.Del(ctx, summaryKey(productID))
	metrics.ReviewsCreated.Inc()
	return review, nil
}

// List returns the product's reviews newest first.
func (s *ReviewService) List(ctx context.Context, productID primitive.ObjectID, page, limit int) (Page[models.Review], error) {
	page, limit = orm.Normalize(page, limit, 10)
	reviews, total, err := s.reviews.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return Page[models.Review]{}, fmt.Errorf("list reviews: %w", err)
	}
	return newPage(reviews, page, limit, total), nil
}

// Summary aggregates every rating of the product.
func (s *ReviewService) Summary(ctx context.Context, productID primitive.ObjectID) (models.RatingSummary, error) {
	var out models.RatingSummary
	err := s.cache.Remember(ctx, summaryKey(productID), s.ttl, &out, func() (interface{}, error) {
		ratings, err := s.reviews.Ratings(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("load ratings: %w", err)
		}
		return Summarize(ratings), nil
	})
	return out, err
}

// Summarize computes the average (two decimals), count and per-star
// distribution of ratings. An empty input yields a zero summary.
func Summarize(ratings []int) models.RatingSummary {
	sum := models.RatingSummary{RatingDistribution: map[int]int{}}
	if len(ratings) == 0 {
		return sum
	}
	total := 0
	for _, r := range ratings {
		total += r
		sum.RatingDistribution[r]++
	}
	sum.TotalReviews = len(ratings)
	sum.AverageRating, _ = decimal.NewFromInt(int64(total)).
		DivRound(decimal.NewFromInt(int64(len(ratings))), 2).
		Float64()
	return sum
}
