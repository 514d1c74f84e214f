// Package server exposes an Executor over the PostgreSQL wire protocol so
// psql and ordinary drivers can issue roster commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"rosterdb/config"
	"rosterdb/executor"
)

// Server accepts TCP connections and serves each on its own goroutine.
// All connections share one Executor.
type Server struct {
	cfg  *config.Config
	exec *executor.Executor
	log  *slog.Logger

	closing atomic.Bool
	nextID  atomic.Uint64
	wg      sync.WaitGroup

	mu    sync.Mutex // guards ln and conns
	ln    net.Listener
	conns map[net.Conn]struct{}
}

// New creates a server. A nil logger discards output.
func New(cfg *config.Config, exec *executor.Executor, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:   cfg,
		exec:  exec,
		log:   log,
		conns: make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on the configured port and calls Serve.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown. It returns nil after a
// shutdown and the accept error otherwise.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	if s.closing.Load() {
		ln.Close()
		return nil
	}
	s.log.Info("listening", "addr", ln.Addr().String())

	for {
		nc, err := ln.Accept()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn("accept failed", "error", err)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		if !s.track(nc) {
			nc.Close()
			return nil
		}

		log := s.log.With("conn", s.nextID.Add(1), "remote", nc.RemoteAddr().String())
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(nc)
			newConn(nc, s.cfg, s.exec, log).serve()
		}()
	}
}

func (s *Server) track(nc net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing.Load() {
		return false
	}
	s.conns[nc] = struct{}{}
	return true
}

func (s *Server) untrack(nc net.Conn) {
	s.mu.Lock()
	delete(s.conns, nc)
	s.mu.Unlock()
}

// Addr returns the listener's address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting connections and waits for open ones to end.
// When ctx expires first, the remaining connections are closed and
// ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing.Store(true)
	if s.ln != nil {
		s.ln.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for nc := range s.conns {
			nc.Close()
		}
		s.mu.Unlock()
		<-done
		return ctx.Err()
	}
}
