package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/config"
	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
	"github.com/tabletop-pos/api/internal/handler"
	mw "github.com/tabletop-pos/api/internal/middleware"
	"github.com/tabletop-pos/api/internal/service"
	"github.com/tabletop-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Checkout and menu reads are public (kiosk); everything else needs a staff token.
// audits may be nil when the checkout audit trail is disabled.
func New(
	cfg *config.Config,
	logger *zap.SugaredLogger,
	queries *database.Queries,
	checkout handler.CheckoutServicer,
	observer service.OrderObserver,
	hub *ws.Hub,
	audits handler.CheckoutAuditReader,
) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	checkoutHandler := handler.NewCheckoutHandler(checkout, logger)
	r.Route("/checkout", checkoutHandler.RegisterRoutes)

	// Menu reads are public; maintenance needs a manager token
	menuHandler := handler.NewMenuHandler(queries, logger)
	r.Route("/menu", func(r chi.Router) {
		menuHandler.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			menuHandler.RegisterManagerRoutes(r)
		})
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/{topic}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler := handler.NewAuthHandler()
		r.Route("/auth", authHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(queries, observer, logger)
		r.Route("/orders", orderHandler.RegisterRoutes)

		// Manager-only reports
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleManager))
			inventoryHandler := handler.NewInventoryHandler(queries, audits, logger)
			r.Route("/inventory", inventoryHandler.RegisterRoutes)
		})
	})

	logger.Debug("router initialized with all handlers")
	return r
}
