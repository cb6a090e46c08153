package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/smokwena/dispute-backend/internal/api/handlers"
	"github.com/smokwena/dispute-backend/internal/auth"
	"github.com/smokwena/dispute-backend/internal/config"
	"github.com/smokwena/dispute-backend/internal/metrics"
	"github.com/smokwena/dispute-backend/internal/middleware"
	"github.com/smokwena/dispute-backend/internal/models"
	"github.com/smokwena/dispute-backend/internal/services"
)

type RouterDeps struct {
	Cfg      config.Config
	TM       *auth.TokenManager
	Users    *services.UserService
	Txns     *services.TransactionService
	Disputes *services.DisputeService
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(deps.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authH := &handlers.AuthHandlers{Users: deps.Users}
	txnH := &handlers.TransactionHandlers{Txns: deps.Txns}
	dspH := &handlers.DisputeHandlers{Disputes: deps.Disputes}

	authMW := middleware.NewAuthMiddleware(deps.TM)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)
			r.Post("/auth/logout", authH.Logout)

			// customer surface
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleCustomer))
				r.Get("/transactions", txnH.List)
				r.Get("/transactions/summary", txnH.Summary)
				r.Get("/transactions/disputable", txnH.Disputable)
				r.Get("/transactions/search", txnH.Search)
				r.Get("/transactions/{id}", txnH.Get)

				r.Post("/disputes", dspH.Create)
				r.Put("/disputes/{id}/cancel", dspH.Cancel)
				r.Post("/disputes/{id}/attachments", dspH.RecordAttachment)
			})

			// shared by customers (own disputes) and admins (any dispute);
			// ownership is enforced in the service
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleCustomer, models.RoleDisputeAdmin))
				r.Get("/disputes", dspH.ListMine)
				r.Get("/disputes/{id}", dspH.Get)
				r.Get("/disputes/{id}/events", dspH.Events)
				r.Get("/disputes/{id}/transitions", dspH.Transitions)
				r.Post("/disputes/{id}/comments", dspH.AddComment)
			})

			// admin surface
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleDisputeAdmin))
				r.Get("/admin/disputes", dspH.AdminList)
				r.Get("/admin/disputes/statistics", dspH.Statistics)
				r.Get("/admin/disputes/assigned-to-me", dspH.AssignedToMe)
				r.Put("/admin/disputes/{id}/status", dspH.UpdateStatus)
				r.Put("/admin/disputes/{id}/assign", dspH.Assign)
				r.Post("/admin/disputes/{id}/internal-notes", dspH.AddInternalNote)
			})
		})
	})

	return r
}
