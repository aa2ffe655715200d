package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pearl-pos/api/internal/config"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"github.com/pearl-pos/api/internal/handler"
	mw "github.com/pearl-pos/api/internal/middleware"
	"github.com/pearl-pos/api/internal/service"
	"github.com/pearl-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Write endpoints that touch restricted data sit behind the MANAGER role.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/kitchen", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Service layer
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})
	cancelService := service.NewCancelService(pool, func(db database.DBTX) service.CancelStore {
		return database.New(db)
	})
	reportService := service.NewReportService(queries, pool, func(db database.DBTX) service.ReportStore {
		return database.New(db)
	})

	// Handlers
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	orderHandler := handler.NewOrderHandler(orderService, cancelService, hub)
	kitchenHandler := handler.NewKitchenHandler(queries, hub)
	reportsHandler := handler.NewReportsHandler(reportService, queries)
	inventoryHandler := handler.NewInventoryHandler(queries)
	menuHandler := handler.NewMenuHandler(queries, pool, func(db database.DBTX) handler.MenuStore {
		return database.New(db)
	})
	employeesHandler := handler.NewEmployeesHandler(queries)
	trendsHandler := handler.NewTrendsHandler(queries)
	gamesHandler := handler.NewGamesHandler(pool, func(db database.DBTX) handler.GamesStore {
		return database.New(db)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RequireJSON)

		// Auth routes (public)
		authHandler.RegisterRoutes(r)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			// All staff
			orderHandler.RegisterRoutes(r)
			kitchenHandler.RegisterRoutes(r)
			gamesHandler.RegisterRoutes(r)
			inventoryHandler.RegisterRoutes(r)
			menuHandler.RegisterRoutes(r)
			reportsHandler.RegisterRoutes(r)

			// Manager only
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleManager))
				inventoryHandler.RegisterManagerRoutes(r)
				menuHandler.RegisterManagerRoutes(r)
				reportsHandler.RegisterManagerRoutes(r)
				employeesHandler.RegisterRoutes(r)
				trendsHandler.RegisterRoutes(r)
			})
		})
	})

	return r
}
