package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Fixed protocol intervals and bounds; implementation constants, not
// configuration.
const (
	acceptPollInterval = 100 * time.Millisecond
	readRetrySleep     = 100 * time.Millisecond
	readTimeout        = 10 * time.Second
	writeTimeout       = 10 * time.Second
	readBufferSize     = 512
)

var (
	ErrBind          = errors.New("server: bind failed")
	ErrServerRunning = errors.New("server: already running")
	ErrServerStopped = errors.New("server: stopped; a fresh instance is required per run")
)

// Lifecycle states. A server is single-use: created -> running -> stopped.
const (
	stateCreated int32 = iota
	stateRunning
	stateStopped
)

// Server owns the listening socket and the cancellation context shared with
// every connection handler. Shutdown is cooperative: Stop cancels the context
// and returns without waiting; the accept loop and handlers observe the
// cancellation on their next iteration.
type Server struct {
	ln     *net.TCPListener
	ctx    context.Context
	cancel context.CancelFunc

	state     atomic.Int32
	startedAt time.Time

	acceptedConns atomic.Int64
	activeConns   atomic.Int64
}

// New binds a TCP listener to addr. The returned server is in created state.
func New(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBind, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ln:        ln.(*net.TCPListener),
		ctx:       ctx,
		cancel:    cancel,
		startedAt: time.Now(),
	}, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Run accepts connections until Stop is called, spawning one handler goroutine
// per accepted connection. The accept call blocks at most acceptPollInterval
// so cancellation is observed within one polling interval. Accept errors other
// than timeouts are logged and the loop continues.
func (s *Server) Run() error {
	if !s.state.CompareAndSwap(stateCreated, stateRunning) {
		if s.state.Load() == stateStopped {
			return ErrServerStopped
		}
		return ErrServerRunning
	}
	defer s.ln.Close()
	log.Info().Str("addr", s.ln.Addr().String()).Msg("server listening")

	for s.ctx.Err() == nil {
		_ = s.ln.SetDeadline(time.Now().Add(acceptPollInterval))
		conn, err := s.ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				// nothing to accept yet
				continue
			}
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			log.Error().Err(err).Msg("accept failed")
			continue
		}
		log.Info().Str("peer", conn.RemoteAddr().String()).Msg("client connected")
		go s.serveConn(conn)
	}

	log.Info().Msg("server stopped")
	return nil
}

// Stop idempotently signals shutdown. It does not close in-flight connections
// and does not wait for handlers to exit.
func (s *Server) Stop() {
	if s.state.CompareAndSwap(stateRunning, stateStopped) {
		log.Info().Msg("shutdown signal sent")
		s.cancel()
		return
	}
	log.Warn().Msg("server already stopped or not running")
}

func (s *Server) serveConn(conn net.Conn) {
	s.acceptedConns.Add(1)
	s.activeConns.Add(1)
	defer s.activeConns.Add(-1)

	h, err := newConnHandler(conn)
	if err != nil {
		log.Error().Err(err).Str("peer", conn.RemoteAddr().String()).Msg("failed to initialize connection handler")
		_ = conn.Close()
		return
	}
	h.serve(s.ctx)
}

func (s *Server) stateName() string {
	switch s.state.Load() {
	case stateRunning:
		return "running"
	case stateStopped:
		return "stopped"
	default:
		return "created"
	}
}
