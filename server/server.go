package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

const (
	DefaultPort    = "8080"
	DefaultTLSMode = TLSModeAutoCert

	TLSModeAutoCert = "autocert"
	TLSModeFile     = "file"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

type Server struct {
	Port string
	Host string
	TLS  ServerTLS
}

type ServerTLS struct {
	Enabled  bool
	Mode     string
	AutoCert *ServerTLSAutoCert
	CertFile string
	KeyFile  string
}

type ServerTLSAutoCert struct {
	CacheDir string
	Domains  []string
	Email    string
}

type UnknownTLSModeError struct {
	Mode string
}

func (err UnknownTLSModeError) Error() string {
	return fmt.Sprintf("unknown tls mode %q", err.Mode)
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Run serves handler until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	listen, err := s.listenFunc(srv)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- listen()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (s *Server) listenFunc(srv *http.Server) (func() error, error) {
	if !s.TLS.Enabled {
		slog.Info("server listening", "address", "http://"+srv.Addr)

		return srv.ListenAndServe, nil
	}

	switch s.TLS.Mode {
	case TLSModeAutoCert:
		autoCert := s.TLS.AutoCert
		if autoCert == nil {
			autoCert = &ServerTLSAutoCert{}
		}

		manager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Cache:      autocert.DirCache(autoCert.CacheDir),
			HostPolicy: autocert.HostWhitelist(autoCert.Domains...),
			Email:      autoCert.Email,
		}

		srv.TLSConfig = manager.TLSConfig()

		slog.Info("server listening", "address", domainsToHTTPSAddress(autoCert.Domains))

		return func() error {
			return srv.ListenAndServeTLS("", "")
		}, nil
	case TLSModeFile:
		slog.Info("server listening", "address", "https://"+srv.Addr)

		return func() error {
			return srv.ListenAndServeTLS(s.TLS.CertFile, s.TLS.KeyFile)
		}, nil
	default:
		return nil, &UnknownTLSModeError{Mode: s.TLS.Mode}
	}
}

func domainsToHTTPSAddress(domains []string) string {
	addresses := make([]string, 0, len(domains))

	for _, domain := range domains {
		addresses = append(addresses, "https://"+domain)
	}

	return strings.Join(addresses, ", ")
}
