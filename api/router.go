package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/peershare/peershare/internal/logging"
)

func (a *API) Router() chi.Router {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.Recoverer)
	mux.Use(chimiddleware.RealIP)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH", "HEAD"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))
	mux.Use(requestLogger(logging.DefaultLogger()))

	mux.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", a.SignUp)
			r.Post("/login", a.LogIn)
			r.With(a.requireAuth).Get("/session", a.Session)
			r.With(a.requireAuth).Post("/logout", a.Logout)
		})
		r.Route("/files", func(r chi.Router) {
			r.With(a.requireAuth).Post("/", a.UploadFile)
			r.With(a.requireAuth).Get("/", a.ListFiles)
			r.With(a.requireAuth).Get("/{fileID}", a.GetFile)
			r.With(a.requireAuth).Patch("/{fileID}", a.UpdateFile)
			r.With(a.requireAuth).Delete("/{fileID}", a.DeleteFile)
			r.With(a.optionalAuth).Get("/{fileID}/content", a.FileContent)
			r.With(a.optionalAuth).Get("/{fileID}/download", a.DownloadFile)
		})
		r.Route("/share", func(r chi.Router) {
			r.Use(a.requireAuth)
			r.Post("/", a.CreateGrant)
			r.Post("/revoke", a.RevokeGrant)
			r.Get("/verify", a.VerifyShare)
			r.Get("/received", a.ListAccessible)
			r.Post("/allowlist", a.AddAllowList)
			r.Post("/allowlist/remove", a.RemoveAllowList)
		})
	})

	return mux
}
