package httpadapter

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AutoCookies/pomai-htable/internal/engine"
)

// Server wraps the HTTP surface over the sharded store.
type Server struct {
	store  *engine.Store
	router *mux.Router
}

// NewServer creates a new API Server instance
func NewServer(store *engine.Store) *Server {
	s := &Server{
		store:  store,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/htable/{key}", s.handlePut).Methods("PUT")
	api.HandleFunc("/htable/{key}", s.handleGet).Methods("GET")
	api.HandleFunc("/htable/{key}", s.handleHead).Methods("HEAD")

	api.HandleFunc("/keys", s.handleKeys).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
