package router

import (
	"net/http"
	"strings"

	"mechanical-burger/internal/handler"
	"mechanical-burger/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Public    *handler.PublicHandler
	Catalog   *handler.CatalogHandler
	Orders    *handler.OrderHandler
	Carts     *handler.CartHandler
	Admin     *handler.AdminHandler
	Kitchen   *handler.KitchenHandler
	Analytics *handler.AnalyticsHandler
	Stream    *handler.StreamHandler
	Media     *handler.MediaHandler
}

// Options configures the router.
type Options struct {
	// Auth resolves admin session tokens.
	Auth middleware.Authenticator

	// MediaDir is served under MediaPath when set.
	MediaDir  string
	MediaPath string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", h.Public.Health)

	if opts.MediaDir != "" && opts.MediaPath != "" {
		prefix := "/" + strings.Trim(opts.MediaPath, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(opts.MediaDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.Public.Menu)
		r.Get("/config/public", h.Public.Config)
		r.Get("/snapshot", h.Public.Snapshot)

		r.Get("/categories", h.Catalog.ListCategories)
		r.Get("/burgers", h.Catalog.ListMenuItems)
		r.Get("/customizations", h.Catalog.ListCustomizations)

		r.With(middleware.OptionalAdmin(opts.Auth)).Get("/stream/{collection}", h.Stream.Stream)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.Create)
			r.Get("/{id}", h.Orders.GetByID)
			r.Post("/{id}/cancel", h.Orders.Cancel)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", h.Carts.Create)
			r.Get("/{id}", h.Carts.Get)
			r.Post("/{id}/items", h.Carts.AddItem)
			r.Patch("/{id}/items/{index}", h.Carts.UpdateItem)
			r.Delete("/{id}/items/{index}", h.Carts.RemoveItem)
			r.Post("/{id}/checkout", h.Carts.Checkout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/session", h.Admin.EnterSession)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(opts.Auth, logger))

				r.Get("/session", h.Admin.GetSession)
				r.Delete("/session", h.Admin.EndSession)
				r.Post("/session/advanced", h.Admin.UnlockAdvanced)
				r.Delete("/session/advanced", h.Admin.RelockAdvanced)

				r.Post("/passwords", h.Admin.ChangePassword)
				r.Get("/passwords/status", h.Admin.PasswordStatus)
				r.Delete("/passwords", h.Admin.ResetPasswords)

				r.Get("/snapshot", h.Public.AdminSnapshot)
				r.Post("/replica/restart", h.Public.Restart)

				r.Get("/kitchen", h.Kitchen.Board)
				r.Get("/kitchen/cues", h.Kitchen.Cues)

				r.Get("/orders", h.Orders.List)
				r.Patch("/orders/{id}/status", h.Orders.UpdateStatus)
				r.Post("/orders/{id}/advance", h.Orders.Advance)
				r.Delete("/orders/{id}", h.Orders.Delete)

				// Advanced tier
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdvanced(logger))

					r.Get("/orders/deleted", h.Orders.ListDeleted)

					r.Post("/categories", h.Catalog.CreateCategory)
					r.Patch("/categories/{id}", h.Catalog.UpdateCategory)
					r.Delete("/categories/{id}", h.Catalog.DeleteCategory)

					r.Post("/burgers", h.Catalog.CreateMenuItem)
					r.Patch("/burgers/{id}", h.Catalog.UpdateMenuItem)
					r.Delete("/burgers/{id}", h.Catalog.DeleteMenuItem)

					r.Post("/customizations", h.Catalog.CreateCustomization)
					r.Patch("/customizations/{id}", h.Catalog.UpdateCustomization)
					r.Delete("/customizations/{id}", h.Catalog.DeleteCustomization)

					r.Get("/analytics/overview", h.Analytics.Overview)
					r.Get("/analytics/report", h.Analytics.Report)
					r.Get("/analytics/export", h.Analytics.Export)

					r.Post("/images", h.Media.Upload)
					r.Delete("/images", h.Media.Delete)
				})
			})
		})
	})

	return r
}
