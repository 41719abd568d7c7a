// Package httpserver exposes the sale state over a read-only HTTP API.
// Purchases go through the engine directly; the server only answers
// queries.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/mogul-productions/go-mogies-auction/auction"
	"github.com/mogul-productions/go-mogies-auction/journal"
)

// Server wraps the HTTP listener around the query handler.
type Server struct {
	srv *http.Server
	log logrus.Ext1FieldLogger
}

// New builds a server for the engine, listening on addr. A nil journal
// disables the history endpoint.
func New(addr string, eng *auction.Engine, jrnl *journal.Journal, log logrus.Ext1FieldLogger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	NewHandler(eng, jrnl, log).RegisterRoutes(r)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.WithField("addr", s.srv.Addr).Info("http api listening")
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
