package controllers

import (
	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
)

type ReviewRequest struct {
	ProductID string `json:"product_id" validate:"required,objectid"`
	Rating    int    `json:"rating"     validate:"required,between=1,5"`
	Comment   string `json:"comment"    validate:"max=2000"`
}

type ReviewController struct {
	catalog Catalog
	reviews Reviews
}

func NewReviewController(catalog Catalog, reviews Reviews) *ReviewController {
	return &ReviewController{catalog: catalog, reviews: reviews}
}

// Store handles POST /api/reviews.
func (h *ReviewController) Store(c *ctx.Context) {
	var in ReviewRequest
	if !c.BindJSON(&in) {
		return
	}

	review, err := h.reviews.Create(c.Context(), c.UserID(), mustObjectID(in.ProductID), in.Rating, in.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Created(review)
}

// Index handles GET /api/products/{slug}/reviews.
func (h *ReviewController) Index(c *ctx.Context) {
	p, err := h.catalog.ProductBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.reviews.List(c.Context(), p.ID, c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.reviews.Summary(c.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Success(struct {
		services.Page[models.Review]
		Summary models.RatingSummary `json:"rating_summary"`
	}{page, summary})
}
