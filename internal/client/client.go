// Package client implements the wirectl connection contract from the client
// side: connect, send one client envelope, receive one server envelope or a
// disconnect/timeout.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/wirectl/internal/protocol/wire"
)

// One receive reads at most one encoded message; there is no outer framing.
const receiveBufferSize = 1024

const DefaultTimeout = 5 * time.Second

var (
	ErrAddressRequired = errors.New("client: address required")
	ErrNotConnected    = errors.New("client: no active connection")
	ErrServerClosed    = errors.New("client: server closed the connection")
	ErrUnexpectedReply = errors.New("client: unexpected reply kind")
)

// Config holds dial target and the timeout applied to connect, read, and
// write operations.
type Config struct {
	Address string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	conn net.Conn
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, ErrAddressRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg}, nil
}

func (c *Client) Connect(ctx context.Context) error {
	dialer := net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Address)
	if err != nil {
		return fmt.Errorf("client: dial %s: %w", c.cfg.Address, err)
	}
	c.conn = conn
	log.Debug().Str("addr", c.cfg.Address).Msg("client connected")
	return nil
}

// Disconnect closes the connection; calling it without an active connection
// is a no-op.
func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	log.Debug().Str("addr", c.cfg.Address).Msg("client disconnected")
	return err
}

// Send writes one encoded client envelope.
func (c *Client) Send(env wire.ClientEnvelope) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	payload, err := env.Encode()
	if err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout))
	if _, err := c.conn.Write(payload); err != nil {
		return fmt.Errorf("client: write: %w", err)
	}
	return nil
}

// Receive reads and decodes one server envelope.
func (c *Client) Receive() (wire.ServerEnvelope, error) {
	if c.conn == nil {
		return wire.ServerEnvelope{}, ErrNotConnected
	}
	buf := make([]byte, receiveBufferSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
	n, err := c.conn.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return wire.ServerEnvelope{}, ErrServerClosed
		}
		return wire.ServerEnvelope{}, fmt.Errorf("client: read: %w", err)
	}
	if n == 0 {
		return wire.ServerEnvelope{}, ErrServerClosed
	}
	env, err := wire.DecodeServerEnvelope(buf[:n])
	if err != nil {
		return wire.ServerEnvelope{}, fmt.Errorf("client: decode reply: %w", err)
	}
	return env, nil
}

// Echo sends one echo message and returns the echoed reply.
func (c *Client) Echo(content string) (wire.EchoMessage, error) {
	msg := wire.EchoMessage{Content: content}
	if err := c.Send(wire.ClientEnvelope{Echo: &msg}); err != nil {
		return wire.EchoMessage{}, err
	}
	reply, err := c.Receive()
	if err != nil {
		return wire.EchoMessage{}, err
	}
	if reply.Echo == nil {
		return wire.EchoMessage{}, fmt.Errorf("%w: %s", ErrUnexpectedReply, reply.Kind())
	}
	return *reply.Echo, nil
}

// Add sends one add request and returns the sum reply.
func (c *Client) Add(a, b int32) (wire.AddResponse, error) {
	req := wire.AddRequest{A: a, B: b}
	if err := c.Send(wire.ClientEnvelope{Add: &req}); err != nil {
		return wire.AddResponse{}, err
	}
	reply, err := c.Receive()
	if err != nil {
		return wire.AddResponse{}, err
	}
	if reply.AddResponse == nil {
		return wire.AddResponse{}, fmt.Errorf("%w: %s", ErrUnexpectedReply, reply.Kind())
	}
	return *reply.AddResponse, nil
}
