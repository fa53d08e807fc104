// Package routes registers the shop's HTTP endpoints.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/honeyshop/app/controllers"
	"github.com/shashiranjanraj/honeyshop/app/models"
	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
	"github.com/shashiranjanraj/honeyshop/pkg/middleware"
	"github.com/shashiranjanraj/honeyshop/pkg/rbac"
	"github.com/shashiranjanraj/honeyshop/pkg/router"
)

// API bundles what the /api routes need.
type API struct {
	Tokens   middleware.TokenParser
	Accounts *controllers.AccountController
	Address  *controllers.AddressController
	Catalog  *controllers.CatalogController
	Reviews  *controllers.ReviewController
	Cart     *controllers.CartController
	Orders   *controllers.OrderController
	Stream   *controllers.OrderStreamController
	GraphQL  http.Handler
}

func RegisterAPI(r *router.Router, h API) {
	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", ctx.Wrap(h.Accounts.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(h.Accounts.Login))
	api.Post("/auth/logout", "auth.logout", ctx.Wrap(h.Accounts.Logout))

	api.Get("/categories", "categories.index", ctx.Wrap(h.Catalog.Categories))
	api.Get("/categories/{slug}", "categories.show", ctx.Wrap(h.Catalog.Category))
	api.Get("/products", "products.index", ctx.Wrap(h.Catalog.Products))
	api.Get("/products/{slug}", "products.show", ctx.Wrap(h.Catalog.Product))
	api.Get("/products/{slug}/reviews", "products.reviews", ctx.Wrap(h.Reviews.Index))
	api.Post("/graphql", "graphql", h.GraphQL.ServeHTTP)

	user := api.Group("", middleware.Auth(h.Tokens))

	user.Get("/profile", "profile.show", ctx.Wrap(h.Accounts.Profile))
	user.Put("/profile", "profile.update", ctx.Wrap(h.Accounts.UpdateProfile))

	user.Get("/addresses", "addresses.index", ctx.Wrap(h.Address.Index))
	user.Post("/addresses", "addresses.store", ctx.Wrap(h.Address.Store))
	user.Put("/addresses/{id}", "addresses.update", ctx.Wrap(h.Address.Update))
	user.Delete("/addresses/{id}", "addresses.destroy", ctx.Wrap(h.Address.Destroy))

	user.Post("/reviews", "reviews.store", ctx.Wrap(h.Reviews.Store))

	user.Get("/cart", "cart.show", ctx.Wrap(h.Cart.Show))
	user.Post("/cart/add", "cart.add", ctx.Wrap(h.Cart.Add))
	user.Delete("/cart/remove/{product_id}", "cart.remove", ctx.Wrap(h.Cart.Remove))
	user.Post("/cart/clear", "cart.clear", ctx.Wrap(h.Cart.Clear))

	user.Post("/orders", "orders.store", ctx.Wrap(h.Orders.Store))
	user.Get("/orders", "orders.index", ctx.Wrap(h.Orders.Index))
	user.Get("/orders/{id}", "orders.show", ctx.Wrap(h.Orders.Show))

	user.Get("/ws/orders", "orders.stream", ctx.Wrap(h.Stream.Connect))

	admin := user.Group("", rbac.HasRole(models.RoleAdmin))

	admin.Post("/categories", "categories.store", ctx.Wrap(h.Catalog.StoreCategory))
	admin.Post("/products", "products.store", ctx.Wrap(h.Catalog.StoreProduct))
	admin.Put("/products/{slug}/status", "products.status", ctx.Wrap(h.Catalog.UpdateProductStatus))
	admin.Post("/products/{slug}/images", "products.images", ctx.Wrap(h.Catalog.UploadImage))
	admin.Put("/orders/{id}/payment", "orders.payment", ctx.Wrap(h.Orders.UpdatePayment))
	admin.Put("/orders/{id}/status", "orders.status", ctx.Wrap(h.Orders.UpdateStatus))
}
