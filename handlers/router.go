package handlers

import (
	"net/http"
	"time"

	"github.com/dms-app/dms-backend/middleware"
	"github.com/dms-app/dms-backend/service"
	"github.com/dms-app/dms-backend/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps bundles everything the router needs. Tests pass an in-memory
// store and object store here.
type Deps struct {
	DB         store.Store
	Files      service.ObjectStore
	Mailer     *service.Mailer
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	MaxBytes   int64
}

// NewRouter builds the full API router. Paths keep the trailing slashes
// of the original API so existing clients keep working.
func NewRouter(d Deps) chi.Router {
	auth := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret, AccessTTL: d.AccessTTL, RefreshTTL: d.RefreshTTL}
	docs := &DocumentsHandler{DB: d.DB, Files: d.Files, Mailer: d.Mailer, MaxBytes: d.MaxBytes}
	perms := &PermissionsHandler{DB: d.DB, Files: d.Files}
	dashboard := &DashboardHandler{DB: d.DB}
	notifications := &NotificationsHandler{DB: d.DB}

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register/", auth.Register)
		r.Post("/auth/login/", auth.Login)
		r.Post("/auth/refresh/", auth.Refresh)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.JWTSecret))
			r.Get("/auth/me/", auth.Me)

			r.Get("/dashboard/", dashboard.Summary)

			r.Get("/documents/", docs.List)
			r.Post("/documents/upload/", docs.Upload)
			r.Get("/documents/{id}/", docs.Get)
			r.Get("/documents/{id}/download/", docs.Download)
			r.Post("/documents/{id}/request-replace/", docs.RequestReplace)
			r.Post("/documents/{id}/request-delete/", docs.RequestDelete)

			r.Get("/notifications/", notifications.List)
			r.Post("/notifications/{id}/read/", notifications.MarkRead)

			// Admin-only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Get("/permissions", perms.ListPending)
				r.Get("/permissions/admin/history/", perms.History)
				r.Post("/permissions/{id}/approve/", perms.Approve)
				r.Post("/permissions/{id}/reject/", perms.Reject)
			})
		})
	})

	return r
}
