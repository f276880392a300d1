package httpapi

import (
	"net/http"

	"ramtoram-console-service/internal/auth"
	"ramtoram-console-service/internal/config"
	"ramtoram-console-service/internal/http/handlers"
	"ramtoram-console-service/internal/middleware"
	"ramtoram-console-service/internal/queue"
	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/internal/storage"
	"ramtoram-console-service/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewRouter(
	db *pgxpool.Pool,
	logger *zap.Logger,
	cfg config.Config,
	reports *report.Service,
	queueClient *queue.Client,
	objects *storage.ObjectStore,
	wsServer *ws.Server,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{
		DB:      db,
		Logger:  logger,
		Config:  cfg,
		Queue:   queueClient,
		Reports: reports,
		Objects: objects,
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/api/auth/login", h.Login)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SessionAuth(db, cfg.JWTSecret))

		r.Get("/auth/me", h.Me)

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.RequireSection(auth.SectionCustomers))
			r.Get("/", h.CustomersList)
			r.Post("/", h.CustomersCreate)
			r.Get("/{id}", h.CustomersDetail)
			r.Put("/{id}", h.CustomersUpdate)
			r.Delete("/{id}", h.CustomersDelete)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Use(middleware.RequireSection(auth.SectionReservations))
			r.Get("/", h.ReservationsList)
			r.Post("/", h.ReservationsCreate)
			r.Put("/{id}", h.ReservationsUpdate)
			r.Patch("/{id}/status", h.ReservationsUpdateStatus)
			r.Delete("/{id}", h.ReservationsDelete)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Use(middleware.RequireSection(auth.SectionSales))
			r.Get("/", h.SalesList)
			r.Post("/", h.SalesCreate)
			r.Put("/{id}", h.SalesUpdate)
			r.Delete("/{id}", h.SalesDelete)
		})

		r.Route("/menus", func(r chi.Router) {
			r.Use(middleware.RequireSection(auth.SectionMenu))
			r.Get("/", h.MenuList)
			r.Post("/", h.MenuCreate)
			r.Put("/{id}", h.MenuUpdate)
			r.Delete("/{id}", h.MenuDelete)
			r.Post("/{id}/photo", h.MenuPhotoUpload)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireSection(auth.SectionUsers))
			r.Get("/", h.UsersList)
			r.Post("/", h.UsersCreate)
			r.Put("/{id}", h.UsersUpdate)
			r.Delete("/{id}", h.UsersDelete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireSection(auth.SectionReports))
			r.Get("/dashboard", h.Dashboard)
			r.Get("/statistics", h.Statistics)
			r.Get("/export", h.ReportExport)
		})

		r.Route("/marketing", func(r chi.Router) {
			r.Use(middleware.RequireSection(auth.SectionMarketing))
			r.Get("/settings", h.MarketingSettingsList)
			r.Put("/settings/{scenario}", h.MarketingSettingsUpdate)
			r.Get("/logs", h.MarketingLogsList)
		})
	})

	if wsServer != nil {
		r.Get("/ws/dashboard", wsServer.DashboardWS)
	}

	return r
}
