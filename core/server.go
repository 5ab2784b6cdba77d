package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdelaire/linedraw/core/auth"
)

const (
	MaxPayloadBytes = 1 << 20
	SignatureHeader = "X-Line-Signature"
	CallbackPath    = "/callback"
	StaticPath      = "/static/"
)

// ServerConfig holds the listener and request settings of a Server.
type ServerConfig struct {
	Addr string
	// PublicURL overrides the root URL derived from each request.
	PublicURL string
	// StaticDir, when set, is served under /static/.
	StaticDir string
}

// Server receives LINE webhook callbacks over HTTP.
type Server struct {
	cfg        ServerConfig
	verifier   *auth.Verifier
	decoder    EventDecoder
	dispatcher *Dispatcher
	logger     *slog.Logger

	httpSrv  *http.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer creates a webhook server.
func NewServer(cfg ServerConfig, verifier *auth.Verifier, decoder EventDecoder, dispatcher *Dispatcher, logger *slog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		verifier:   verifier,
		decoder:    decoder,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)
	mux.HandleFunc("/health", s.handleHealth)
	if s.cfg.StaticDir != "" {
		mux.Handle(StaticPath, http.StripPrefix(StaticPath, http.FileServer(http.Dir(s.cfg.StaticDir))))
	}
	return mux
}

// Start begins listening on the configured address. It returns once the
// listener is bound; requests are served in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.listener = ln
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.logger.Info("listening", "addr", ln.Addr().String(), "static_dir", s.cfg.StaticDir)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight callbacks.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	err := s.httpSrv.Shutdown(ctx)
	s.wg.Wait()
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", uuid.New().String())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxPayloadBytes+1))
	if err != nil {
		logger.Warn("read body failed", "error", err)
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	if len(body) > MaxPayloadBytes {
		http.Error(w, fmt.Sprintf("payload exceeds %d byte limit", MaxPayloadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	logger.Debug("request body", "body", string(body))

	if err := s.verifier.Validate(body, r.Header.Get(SignatureHeader)); err != nil {
		logger.Info("invalid signature, check the channel secret", "error", err)
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	events, err := s.decoder.Decode(body)
	if err != nil {
		logger.Error("decode failed", "error", err)
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}

	// Dispatch runs to completion even if the platform drops the connection.
	res := s.dispatcher.Dispatch(context.WithoutCancel(r.Context()), s.rootURL(r), events)
	logger.Info("callback handled",
		"events", res.Events,
		"matched", res.Matched,
		"sent", res.Sent,
		"failed", res.Failed)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "OK")
}

// rootURL returns scheme://host of the service as seen by the client,
// without a trailing slash.
func (s *Server) rootURL(r *http.Request) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.SplitN(proto, ",", 2)[0])
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	return scheme + "://" + host
}
