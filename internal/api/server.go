package api

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Server wraps the HTTP router with a listener lifecycle, the way the
// teacher separates router construction (pure, testable) from Start
// (starts goroutines, opens a listener).
type Server struct {
	app         AppInterface
	router      http.Handler
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// NewServer builds a Server around app using default rate-limit and CORS
// settings. Construction opens no listener until Start is called; it does
// start the rate limiter's cleanup goroutine, which Shutdown stops.
func NewServer(application AppInterface, tickEndpointEnabled bool) *Server {
	rateLimiter := NewIPRateLimiter(DefaultRateLimitConfig)
	router := NewRouter(RouterConfig{
		App:                 application,
		TickEndpointEnabled: tickEndpointEnabled,
		RateLimiter:         rateLimiter,
	})
	return &Server{
		app:         application,
		router:      router,
		rateLimiter: rateLimiter,
	}
}

// Router returns the HTTP handler for use with httptest.
//
//	srv := api.NewServer(application, true)
//	ts := httptest.NewServer(srv.Router())
//	defer ts.Close()
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving addr. This is the only method that opens a network
// listener; call it once, from the owning goroutine.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	log.Printf("api: listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the listener and the rate limiter's cleanup
// goroutine, waiting up to the given timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.rateLimiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
