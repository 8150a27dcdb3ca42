package wire

import (
	"errors"
	"testing"

	"github.com/danmuck/wirectl/internal/testutil/testlog"
)

func TestEchoMessageRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := EchoMessage{Content: "Hello, World!"}
	got, err := DecodeEchoMessage(in.Encode())
	if err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if got != in {
		t.Fatalf("echo round trip mismatch: %+v", got)
	}
}

func TestAddRequestRoundTripNegativeValues(t *testing.T) {
	testlog.Start(t)
	in := AddRequest{A: -10, B: 2147483647}
	got, err := DecodeAddRequest(in.Encode())
	if err != nil {
		t.Fatalf("decode add_request: %v", err)
	}
	if got != in {
		t.Fatalf("add_request round trip mismatch: %+v", got)
	}
}

func TestDecodeKindsAreDisjoint(t *testing.T) {
	testlog.Start(t)
	addPayload := AddRequest{A: 1, B: 2}.Encode()
	if _, err := DecodeEchoMessage(addPayload); err == nil {
		t.Fatalf("add_request bytes must not decode as echo")
	}
	echoPayload := EchoMessage{Content: "x"}.Encode()
	if _, err := DecodeAddRequest(echoPayload); err == nil {
		t.Fatalf("echo bytes must not decode as add_request")
	}
	if _, err := DecodeAddResponse(echoPayload); err == nil {
		t.Fatalf("echo bytes must not decode as add_response")
	}
}

func TestClientEnvelopeTrialOrder(t *testing.T) {
	testlog.Start(t)
	env, err := DecodeClientEnvelope(EchoMessage{Content: "hi"}.Encode())
	if err != nil {
		t.Fatalf("decode echo envelope: %v", err)
	}
	if env.Kind() != KindEcho || env.Echo == nil || env.Echo.Content != "hi" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	env, err = DecodeClientEnvelope(AddRequest{A: 10, B: 20}.Encode())
	if err != nil {
		t.Fatalf("decode add envelope: %v", err)
	}
	if env.Kind() != KindAddRequest || env.Add == nil || env.Add.A != 10 || env.Add.B != 20 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestClientEnvelopeUnknownPayload(t *testing.T) {
	testlog.Start(t)
	if _, err := DecodeClientEnvelope([]byte("not a wire payload")); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
	// Well-formed TLV with an unassigned field id is still no known kind.
	if _, err := DecodeClientEnvelope(AddResponse{Result: 3}.Encode()); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage for add_response payload, got %v", err)
	}
}

func TestServerEnvelopeVariants(t *testing.T) {
	testlog.Start(t)
	env, err := DecodeServerEnvelope(AddResponse{Result: 30}.Encode())
	if err != nil {
		t.Fatalf("decode add_response envelope: %v", err)
	}
	if env.Kind() != KindAddResponse || env.AddResponse == nil || env.AddResponse.Result != 30 {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	env, err = DecodeServerEnvelope(EchoMessage{Content: "back"}.Encode())
	if err != nil {
		t.Fatalf("decode echo envelope: %v", err)
	}
	if env.Kind() != KindEcho || env.Echo == nil || env.Echo.Content != "back" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestEmptyEnvelopeEncodeFails(t *testing.T) {
	testlog.Start(t)
	if _, err := (ClientEnvelope{}).Encode(); !errors.Is(err, ErrEmptyEnvelope) {
		t.Fatalf("expected ErrEmptyEnvelope, got %v", err)
	}
	if _, err := (ServerEnvelope{}).Encode(); !errors.Is(err, ErrEmptyEnvelope) {
		t.Fatalf("expected ErrEmptyEnvelope, got %v", err)
	}
}

func TestStrictDecodeRejectsExtraAndDuplicateFields(t *testing.T) {
	testlog.Start(t)
	extra := append(EchoMessage{Content: "x"}.Encode(), AddResponse{Result: 1}.Encode()...)
	if _, err := DecodeEchoMessage(extra); !errors.Is(err, ErrUnexpectedField) {
		t.Fatalf("expected ErrUnexpectedField, got %v", err)
	}
	dup := append(EchoMessage{Content: "x"}.Encode(), EchoMessage{Content: "y"}.Encode()...)
	if _, err := DecodeEchoMessage(dup); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}
