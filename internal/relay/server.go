// Package relay implements the key-hiding proxy in front of the
// headlines API. Clients send the same queries they would send to the
// API, minus the key; the relay appends its own key, forwards the
// request upstream, and streams the JSON body back verbatim.
package relay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nkoval/newsdeck/internal/config"
	"github.com/nkoval/newsdeck/internal/debuglog"
	"github.com/nkoval/newsdeck/internal/validation"
)

type Server struct {
	apiKey   string
	upstream string
	client   *http.Client
	srv      *http.Server
}

func NewServer(cfg *config.Config, apiKey string) (*Server, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("relay needs an API key to append upstream")
	}

	validator := validation.NewPermissiveFeedURLValidator()
	upstream, err := validator.ValidateAndNormalize(cfg.Relay.Upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}

	s := &Server{
		apiKey:   apiKey,
		upstream: upstream,
		client: &http.Client{
			Timeout: cfg.Relay.HTTPTimeout,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/top-headlines", s.handleForward("top-headlines"))
	mux.HandleFunc("/v2/everything", s.handleForward("everything"))
	mux.HandleFunc("/healthz", s.handleHealthz)

	s.srv = &http.Server{
		Addr:         cfg.Relay.Listen,
		Handler:      withCORS(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Relay.HTTPTimeout + 10*time.Second,
	}

	return s, nil
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	debuglog.Infof("relay listening on %s, upstream %s", s.srv.Addr, s.upstream)
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
