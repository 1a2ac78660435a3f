// Package routes wires the HTTP surface: storefront, account, and the
// admin console.
package routes

import (
	"time"

	"github.com/nikhilverma/shopline/app/controllers"
	"github.com/nikhilverma/shopline/app/graphqlapi"
	"github.com/nikhilverma/shopline/pkg/middleware"
	"github.com/nikhilverma/shopline/pkg/rbac"
	"github.com/nikhilverma/shopline/pkg/router"
)

// RegisterAPI mounts every route under /api.
func RegisterAPI(r *router.Router) {
	auth := controllers.NewAuthController()
	products := controllers.NewProductController()
	categories := controllers.NewCategoryController()
	carts := controllers.NewCartController()
	orders := controllers.NewOrderController()
	payments := controllers.NewPaymentController()
	reviews := controllers.NewReviewController()
	wishlists := controllers.NewWishlistController()
	admin := controllers.NewAdminController()

	api := r.Group("/api")

	// Auth. Login and register are rate limited harder than the rest of
	// the API to slow credential stuffing.
	api.Post("/auth/register", "auth.register", auth.Register, middleware.RateLimit(10, time.Minute))
	api.Post("/auth/login", "auth.login", auth.Login, middleware.RateLimit(10, time.Minute))
	api.Post("/auth/refresh", "auth.refresh", auth.Refresh)

	// Catalogue, public.
	api.Get("/products", "products.index", products.Index)
	api.Get("/products/{id}", "products.show", products.Show)
	api.Get("/products/{id}/reviews", "products.reviews", products.Reviews)
	api.Get("/categories", "categories.index", categories.Index)
	api.Get("/categories/{id}", "categories.show", categories.Show)
	api.Post("/graphql", "graphql", graphqlapi.Handler())

	// Gateway callback, authenticated by signature rather than a token.
	api.Post("/webhooks/payment", "webhooks.payment", payments.Webhook)

	// Cart works for guests (session cookie) and signed-in users alike.
	cart := api.Group("/cart", middleware.OptionalAuth)
	cart.Get("/", "cart.show", carts.Show)
	cart.Post("/items", "cart.items.add", carts.AddItem)
	cart.Put("/items/{productId}", "cart.items.update", carts.UpdateItem)
	cart.Delete("/items/{productId}", "cart.items.remove", carts.RemoveItem)

	// Account, token required.
	account := api.Group("", middleware.Auth)
	account.Get("/auth/profile", "auth.profile", auth.Profile)

	account.Post("/orders", "orders.checkout", orders.Checkout)
	account.Get("/orders", "orders.index", orders.Index)
	account.Get("/orders/{id}", "orders.show", orders.Show)
	account.Post("/orders/{id}/cancel", "orders.cancel", orders.Cancel)
	account.Get("/orders/{id}/stream", "orders.stream", orders.StatusStream)

	account.Post("/products/{id}/reviews", "reviews.create", reviews.Create)
	account.Put("/reviews/{id}", "reviews.update", reviews.Update)
	account.Delete("/reviews/{id}", "reviews.delete", reviews.Delete)

	account.Get("/wishlist", "wishlist.show", wishlists.Show)
	account.Post("/wishlist/{productId}", "wishlist.add", wishlists.Add)
	account.Delete("/wishlist/{productId}", "wishlist.remove", wishlists.Remove)
	account.Post("/wishlist/{productId}/move-to-cart", "wishlist.move", wishlists.MoveToCart)

	// Admin console.
	console := api.Group("/admin", middleware.Auth, rbac.HasRole("admin"))
	console.Get("/stats", "admin.stats", admin.Stats)
	console.Get("/feed", "admin.feed", admin.OrderFeed)

	console.Post("/products", "admin.products.create", admin.CreateProduct)
	console.Put("/products/{id}", "admin.products.update", admin.UpdateProduct)
	console.Delete("/products/{id}", "admin.products.delete", admin.DeleteProduct)
	console.Post("/uploads/images", "admin.uploads.image", admin.UploadImage)

	console.Post("/categories", "admin.categories.create", admin.CreateCategory)
	console.Put("/categories/{id}", "admin.categories.update", admin.UpdateCategory)
	console.Delete("/categories/{id}", "admin.categories.delete", admin.DeleteCategory)

	console.Get("/orders", "admin.orders.index", admin.Orders)
	console.Put("/orders/{id}/status", "admin.orders.status", admin.UpdateOrderStatus)
	console.Post("/orders/{id}/refund", "admin.orders.refund", admin.Refund)

	console.Get("/payments/failed", "admin.payments.failed", admin.FailedPayments)
}
