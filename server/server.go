package server

import (
	"context"
	"log/slog"

	hertzserver "github.com/cloudwego/hertz/pkg/app/server"
)

// Server runs the status endpoints in the background.
type Server struct {
	addr string
	h    *hertzserver.Hertz
}

// New builds a server listening on addr.
func New(addr string, handler Handler) *Server {
	h := hertzserver.Default(hertzserver.WithHostPorts(addr))
	handler.RegisterRoutes(h)
	return &Server{addr: addr, h: h}
}

// Start serves in a new goroutine. Errors after startup are logged.
func (s *Server) Start() {
	go func() {
		slog.Info("status server listening", "addr", s.addr)
		if err := s.h.Run(); err != nil {
			slog.Error("status server stopped", "error", err)
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.h.Shutdown(ctx)
}
