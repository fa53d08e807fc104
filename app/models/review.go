package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's single rating of a product.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uint               `bson:"user_id"       json:"user_id"`
	ProductID primitive.ObjectID `bson:"product_id"    json:"product_id"`
	Rating    int                `bson:"rating"        json:"rating"`
	Comment   string             `bson:"comment"       json:"comment"`
	Date      time.Time          `bson:"date"          json:"date"`
}

// RatingSummary aggregates the reviews of one product.
type RatingSummary struct {
	AverageRating      float64     `json:"average_rating"`
	TotalReviews       int         `json:"total_reviews"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}
