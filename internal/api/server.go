// Package api is the thin HTTP surface over the engine: routing, CORS, and
// JSON rendering. Failures always render as well-formed JSON with status
// 200, never as an unhandled error page.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"sharkwatch/internal/news"
	"sharkwatch/internal/service"
)

// Server hosts the public API.
type Server struct {
	router *mux.Router
	stocks *service.StockService
	news   *news.Client
	http   *http.Server
}

// NewServer wires routes and middleware.
func NewServer(addr string, stocks *service.StockService, newsClient *news.Client, requestTimeout time.Duration) *Server {
	s := &Server{
		router: mux.NewRouter(),
		stocks: stocks,
		news:   newsClient,
	}
	s.routes()

	var handler http.Handler = s.router
	handler = AccessLog(handler)
	handler = RequestID(handler)
	handler = CORS(handler)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// A fully degraded provider chain can take tens of seconds; the
		// write timeout must outlast the whole retry budget.
		WriteTimeout: requestTimeout,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stock/foreign/{symbol}", s.handleForeign).Methods(http.MethodGet)
	s.router.HandleFunc("/api/stock/{symbol}", s.handleStock).Methods(http.MethodGet)
	s.router.HandleFunc("/api/index/{symbol}", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/api/realtime/{symbol}", s.handleRealtime).Methods(http.MethodGet)
	s.router.HandleFunc("/api/news/{symbol}", s.handleNews).Methods(http.MethodGet)
}

// Handler exposes the composed handler chain, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves until the listener fails.
func (s *Server) Start() error {
	log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
