package client

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/wirectl/internal/protocol/wire"
	"github.com/danmuck/wirectl/internal/testutil/testlog"
)

func TestNewRequiresAddress(t *testing.T) {
	testlog.Start(t)
	if _, err := New(Config{Address: "   "}); !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestNewAppliesDefaultTimeout(t *testing.T) {
	testlog.Start(t)
	c, err := New(Config{Address: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.cfg.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %v", c.cfg.Timeout)
	}
}

func TestSendReceiveWithoutConnection(t *testing.T) {
	testlog.Start(t)
	c, err := New(Config{Address: "127.0.0.1:1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	msg := wire.EchoMessage{Content: "x"}
	if err := c.Send(wire.ClientEnvelope{Echo: &msg}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected on send, got %v", err)
	}
	if _, err := c.Receive(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected on receive, got %v", err)
	}
	if err := c.Disconnect(); err != nil {
		t.Fatalf("disconnect without connection: %v", err)
	}
}
