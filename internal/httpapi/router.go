// Package httpapi mounts the server's HTTP surface: the WebSocket
// upgrade endpoint, a matchmaking-join REST endpoint, health, and
// metrics. CORS, compression, and deep routing policy are the external
// collaborator's concern (spec.md §1); this is the thin chi seam that
// satisfies it.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/authn"
	"github.com/cruxsyn/shipwar/internal/matchmaking"
	"github.com/cruxsyn/shipwar/internal/matchqueue"
	"github.com/cruxsyn/shipwar/internal/metrics"
	"github.com/cruxsyn/shipwar/internal/profile"
	"github.com/cruxsyn/shipwar/internal/ratelimit"
	"github.com/cruxsyn/shipwar/internal/registry"
	"github.com/cruxsyn/shipwar/internal/session"
	"github.com/cruxsyn/shipwar/internal/wire"
)

type userIDKey struct{}

// Config holds everything NewRouter needs to wire up routes.
type Config struct {
	Verifier       authn.Verifier
	Profiles       profile.Store
	Matchmaking    *matchmaking.Service
	Registry       *registry.Registry
	UpgradeLimiter *ratelimit.UpgradeLimiter

	InputRatePerSec float64
	InputBurst      int

	CORSOrigins []string
}

// NewRouter builds the HTTP router. It is pure — no goroutines started,
// no listeners opened — so it is safe to mount in an httptest server.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", handleHealthz(cfg.Registry))
	r.Handle("/metrics", metrics.Handler())

	wsHandler := session.NewRouter(cfg.Verifier, cfg.Profiles, cfg.Matchmaking, cfg.InputRatePerSec, cfg.InputBurst)
	wsRoute := http.HandlerFunc(wsHandler.ServeHTTP)
	if cfg.UpgradeLimiter != nil {
		r.With(cfg.UpgradeLimiter.Middleware).Get("/ws", wsRoute.ServeHTTP)
	} else {
		r.Get("/ws", wsRoute.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(requireAuth(cfg.Verifier))
		r.Post("/matchmaking/join", handleMatchmakingJoin(cfg.Matchmaking))
		r.Post("/matchmaking/leave", handleMatchmakingLeave(cfg.Matchmaking))
	})

	return r
}

func handleHealthz(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "ok",
			"active_matches": reg.ActiveMatches(),
			"total_players":  reg.TotalPlayers(),
		})
	}
}

// requireAuth extracts a Bearer token, verifies it, and stashes the
// resulting user id in the request context for downstream handlers.
func requireAuth(verifier authn.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userIDFrom(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(userIDKey{}).(uuid.UUID)
	return id, ok
}

type joinRequest struct {
	DisplayName string        `json:"display_name"`
	ShipType    wire.ShipType `json:"ship_type"`
	FlagSkinID  *uuid.UUID    `json:"flag_skin_id,omitempty"`
}

func handleMatchmakingJoin(mm *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFrom(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req joinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if !req.ShipType.Valid() {
			req.ShipType = wire.ShipFighter
		}

		displayName := profile.SanitizeDisplayName(req.DisplayName)
		if displayName == "" {
			displayName = "Player_" + userID.String()[:8]
		}

		err := mm.JoinQueue(matchqueue.QueuedPlayer{
			UserID:      userID,
			DisplayName: displayName,
			ShipType:    req.ShipType,
			FlagSkinID:  req.FlagSkinID,
			QueuedAt:    time.Now(),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func handleMatchmakingLeave(mm *matchmaking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFrom(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		mm.LeaveQueue(userID)
		w.WriteHeader(http.StatusNoContent)
	}
}
