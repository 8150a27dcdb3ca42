package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/wirectl/internal/client"
	"github.com/danmuck/wirectl/internal/logging"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "wirectl server address")
	echoText := flag.String("echo", "", "send one echo message with this content")
	addPair := flag.String("add", "", "send one add request as a,b")
	timeout := flag.Duration("timeout", 2*time.Second, "connect/read/write timeout")
	flag.Parse()

	logging.ConfigureRuntime()

	if (*echoText == "") == (*addPair == "") {
		fmt.Fprintln(os.Stderr, "client-wire: exactly one of -echo or -add is required")
		os.Exit(2)
	}

	c, err := client.New(client.Config{Address: *addr, Timeout: *timeout})
	if err != nil {
		fail(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		fail(err)
	}
	defer c.Disconnect()

	if *echoText != "" {
		reply, err := c.Echo(*echoText)
		if err != nil {
			fail(err)
		}
		fmt.Println(reply.Content)
		return
	}

	a, b, err := parseAddPair(*addPair)
	if err != nil {
		fail(err)
	}
	reply, err := c.Add(a, b)
	if err != nil {
		fail(err)
	}
	fmt.Println(reply.Result)
}

func parseAddPair(raw string) (int32, int32, error) {
	left, right, ok := strings.Cut(raw, ",")
	if !ok {
		return 0, 0, fmt.Errorf("client-wire: -add expects a,b, got %q", raw)
	}
	a, err := strconv.ParseInt(strings.TrimSpace(left), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("client-wire: parse a: %w", err)
	}
	b, err := strconv.ParseInt(strings.TrimSpace(right), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("client-wire: parse b: %w", err)
	}
	return int32(a), int32(b), nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "client-wire: %v\n", err)
	os.Exit(1)
}
