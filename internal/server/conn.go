package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/wirectl/internal/observability"
	"github.com/danmuck/wirectl/internal/protocol/wire"
)

// connHandler exclusively owns one accepted connection: one bounded read per
// iteration, classify, respond.
type connHandler struct {
	conn net.Conn
	id   string
	log  zerolog.Logger
	buf  [readBufferSize]byte
}

// newConnHandler wraps an accepted connection and configures the fixed read
// deadline. Fails only when the deadline cannot be set.
func newConnHandler(conn net.Conn) (*connHandler, error) {
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, fmt.Errorf("server: set read deadline: %w", err)
	}
	id := uuid.NewString()
	logger := log.With().
		Str("conn", id).
		Str("peer", conn.RemoteAddr().String()).
		Logger()
	return &connHandler{conn: conn, id: id, log: logger}, nil
}

// serve loops until clean peer disconnect, a fatal connection error, or
// server shutdown observed on the shared context.
func (h *connHandler) serve(ctx context.Context) {
	observability.RecordConnectionOpened()
	defer observability.RecordConnectionClosed()
	defer h.conn.Close()

	for ctx.Err() == nil {
		closed, err := h.handleOnce()
		if err != nil {
			h.log.Error().Err(err).Msg("connection failed")
			return
		}
		if closed {
			return
		}
	}
}

// handleOnce performs one read of at most readBufferSize bytes. A timeout is
// non-fatal: sleep briefly and let the caller retry. closed reports a clean
// peer disconnect, after which the handler must not be invoked again.
func (h *connHandler) handleOnce() (closed bool, err error) {
	_ = h.conn.SetReadDeadline(time.Now().Add(readTimeout))
	n, err := h.conn.Read(h.buf[:])
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			// nothing to read yet
			time.Sleep(readRetrySleep)
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			h.log.Info().Msg("client disconnected")
			return true, nil
		}
		return false, fmt.Errorf("server: read: %w", err)
	}
	if n == 0 {
		h.log.Info().Msg("client disconnected")
		return true, nil
	}
	return false, h.respond(h.buf[:n])
}

// respond classifies one payload and writes the reply. Decode failures are
// logged and swallowed; the connection stays open for the next read. Write
// errors are fatal for this connection.
func (h *connHandler) respond(payload []byte) error {
	env, err := wire.DecodeClientEnvelope(payload)
	if err != nil {
		observability.RecordDecodeFailure()
		h.log.Warn().Int("bytes", len(payload)).Msg("unknown message format, no response sent")
		return nil
	}

	var out wire.ServerEnvelope
	switch env.Kind() {
	case wire.KindEcho:
		h.log.Info().Str("content", env.Echo.Content).Msg("echo message")
		out.Echo = env.Echo
	case wire.KindAddRequest:
		// int32 addition wraps on overflow (two's complement).
		sum := env.Add.A + env.Add.B
		h.log.Info().Int32("a", env.Add.A).Int32("b", env.Add.B).Msg("add request")
		out.AddResponse = &wire.AddResponse{Result: sum}
	}
	observability.RecordMessage(env.Kind().String())

	resp, err := out.Encode()
	if err != nil {
		return fmt.Errorf("server: encode response: %w", err)
	}
	_ = h.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := h.conn.Write(resp); err != nil {
		return fmt.Errorf("server: write: %w", err)
	}
	return nil
}
