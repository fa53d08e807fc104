// Package controllers adapts HTTP requests to the shop services.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var badRequest = []error{
	services.ErrEmptyCart,
	services.ErrInvalidQuantity,
	services.ErrInvalidRating,
	services.ErrDuplicateReview,
	services.ErrInvalidStatus,
	services.ErrInvalidVariant,
	services.ErrInvalidPrice,
	services.ErrUsernameTaken,
	services.ErrEmailTaken,
}

var notFound = []error{
	services.ErrProductNotFound,
	services.ErrCategoryNotFound,
	services.ErrOrderNotFound,
	services.ErrAddressNotFound,
	services.ErrUserNotFound,
	services.ErrCartItemNotFound,
}

// respondError maps a service error to its status code. Anything not known
// is logged and answered with a generic 500.
func respondError(c *ctx.Context, err error) {
	var te *services.TransitionError
	if errors.As(err, &te) {
		c.Error(http.StatusBadRequest, te.Error())
		return
	}
	if target, ok := match(err, badRequest); ok {
		c.Error(http.StatusBadRequest, target.Error())
		return
	}
	if target, ok := match(err, notFound); ok {
		c.Error(http.StatusNotFound, target.Error())
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Error(http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrForbidden):
		c.Error(http.StatusForbidden, services.ErrForbidden.Error())
	case errors.Is(err, services.ErrConflict):
		c.Error(http.StatusConflict, services.ErrConflict.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.R.Method, "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

func match(err error, targets []error) (error, bool) {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t, true
		}
	}
	return nil, false
}

// objectIDParam parses a document id path parameter. A malformed id cannot
// name an existing resource, so it is answered with notFound.
func objectIDParam(c *ctx.Context, key string, missing error) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(key))
	if err != nil {
		c.Error(http.StatusNotFound, missing.Error())
		return primitive.NilObjectID, false
	}
	return id, true
}

func uintParam(c *ctx.Context, key string, missing error) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Error(http.StatusNotFound, missing.Error())
		return 0, false
	}
	return uint(n), true
}

// mustObjectID is used after the validator accepted the value.
func mustObjectID(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}
