package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aora/backend/internal/metrics"
	"github.com/aora/backend/internal/middleware"
	"github.com/aora/backend/internal/storage"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts      AccountStore
	Profiles      ProfileStore
	Sessions      SessionManager
	Videos        VideoStore
	Storage       storage.AssetStorage
	Verifier      middleware.TokenVerifier
	Limiter       RateLimiter
	Metrics       *metrics.Metrics
	PublicBaseURL string
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	accounts := AccountHandler{Accounts: deps.Accounts, Sessions: deps.Sessions}
	profiles := ProfileHandler{Profiles: deps.Profiles, PublicBaseURL: deps.PublicBaseURL}
	videos := VideoHandler{Videos: deps.Videos, Profiles: deps.Profiles}
	files := FileHandler{Storage: deps.Storage, Metrics: deps.Metrics}
	avatars := AvatarHandler{}

	authed := middleware.RequireAuth(deps.Verifier)

	mux.HandleFunc("/healthz", health.Handle)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/v1/accounts", rateLimited(deps.Limiter, "accounts", accounts.Create))
	mux.HandleFunc("/api/v1/sessions/refresh", rateLimited(deps.Limiter, "sessions", accounts.RefreshSession))
	mux.HandleFunc("/api/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			rateLimited(deps.Limiter, "sessions", accounts.CreateSession)(w, r)
		case http.MethodDelete:
			accounts.DeleteSession(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("/api/v1/account", authed(http.HandlerFunc(accounts.Current)))
	mux.Handle("/api/v1/users", authed(http.HandlerFunc(profiles.Create)))
	mux.Handle("/api/v1/users/me", authed(http.HandlerFunc(profiles.Me)))
	mux.HandleFunc("/api/v1/videos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authed(http.HandlerFunc(videos.Create)).ServeHTTP(w, r)
			return
		}
		videos.List(w, r)
	})
	mux.Handle("/api/v1/files", authed(http.HandlerFunc(files.Create)))
	mux.HandleFunc("/api/v1/avatars/initials", avatars.Initials)
}

func rateLimited(limiter RateLimiter, scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowRequest(limiter, r, scope) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
