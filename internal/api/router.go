package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dogstory/internal/app"
	"dogstory/internal/leaderboard"
	"dogstory/internal/player"
)

// AppInterface defines the facade methods the transport layer calls. It
// exists so tests can swap in a fake without constructing a real World,
// the same way the teacher's EngineInterface decouples the router from the
// concrete game engine.
type AppInterface interface {
	Join(name, mapID string) (*player.Player, error)
	Authenticate(authHeader string) (*player.Player, error)
	Players(authHeader string) (map[int]string, error)
	Action(authHeader, move string) error
	State(authHeader string) (app.StateView, error)
	Tick(deltaMs int64)
	Records(limit, offset int) ([]leaderboard.Entry, error)
	Maps() []map[string]string
	Map(mapID string) map[string]interface{}
	Stats() (sessions, players, loots int)
}

// RouterConfig bundles everything needed to construct the HTTP router.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    App: myApp,
//	    RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// App is the application facade (required).
	App AppInterface

	// TickEndpointEnabled exposes POST /api/v1/game/tick. It is false
	// whenever the process drives its own wall-clock ticker (--tick-period
	// set), matching the CLI's documented behavior.
	TickEndpointEnabled bool

	// RateLimiter is an optional pre-configured rate limiter. If nil, one
	// is created from RateLimitConfig (or DefaultRateLimitConfig).
	RateLimiter *IPRateLimiter

	RateLimitConfig *RateLimitConfig

	// CORSOrigins overrides the default allowed CORS origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for
	// benchmarks and quiet test output).
	DisableLogging bool
}

type routerHandlers struct {
	app AppInterface
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It opens no listener, so it is safe to use with httptest.NewServer. When
// cfg.RateLimiter is nil it creates one, which starts that limiter's
// cleanup goroutine.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	h := &routerHandlers{app: cfg.App}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/maps", h.handleListMaps)
		r.Get("/maps/{id}", h.handleGetMap)

		r.Route("/game", func(r chi.Router) {
			r.Post("/join", h.handleJoin)
			r.Get("/players", h.handleGetPlayers)
			r.Get("/state", h.handleGetState)
			r.Post("/player/action", h.handleAction)
			r.Get("/records", h.handleGetRecords)

			if cfg.TickEndpointEnabled {
				r.Post("/tick", h.handleTick)
			}
		})
	})

	r.Get("/metrics", metricsHandler().ServeHTTP)
	r.Get("/healthz", h.handleHealthz)

	return r
}

// routePattern returns chi's matched route pattern for the current
// request, falling back to the raw path before routing has resolved (e.g.
// a 404 for an unmatched route).
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
