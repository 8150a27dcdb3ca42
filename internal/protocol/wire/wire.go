package wire

import (
	"errors"
	"fmt"

	"github.com/danmuck/wirectl/internal/protocol/tlv"
)

// Field IDs from the wire contract.
const (
	FieldContent uint16 = 1
	FieldA       uint16 = 2
	FieldB       uint16 = 3
	FieldResult  uint16 = 4
)

var (
	ErrEmptyEnvelope   = errors.New("wire: envelope has no message")
	ErrUnknownMessage  = errors.New("wire: payload matches no known message kind")
	ErrMissingField    = errors.New("wire: missing required field")
	ErrUnexpectedField = errors.New("wire: unexpected field")
	ErrDuplicateField  = errors.New("wire: duplicate field")
)

// Kind identifies which variant an envelope carries.
type Kind uint8

const (
	KindNone Kind = iota
	KindEcho
	KindAddRequest
	KindAddResponse
)

func (k Kind) String() string {
	switch k {
	case KindEcho:
		return "echo"
	case KindAddRequest:
		return "add_request"
	case KindAddResponse:
		return "add_response"
	default:
		return "none"
	}
}

// EchoMessage carries text the server returns verbatim.
type EchoMessage struct {
	Content string
}

// AddRequest asks the server for a + b.
type AddRequest struct {
	A int32
	B int32
}

// AddResponse carries the sum for one AddRequest.
type AddResponse struct {
	Result int32
}

type requirement struct {
	id  uint16
	typ uint8
}

var (
	echoRequirements        = []requirement{{FieldContent, tlv.TypeString}}
	addRequestRequirements  = []requirement{{FieldA, tlv.TypeI32}, {FieldB, tlv.TypeI32}}
	addResponseRequirements = []requirement{{FieldResult, tlv.TypeI32}}
)

func (m EchoMessage) Encode() []byte {
	return tlv.EncodeFields([]tlv.Field{
		tlv.StringField(FieldContent, m.Content),
	})
}

func DecodeEchoMessage(payload []byte) (EchoMessage, error) {
	fields, err := matchFields(payload, echoRequirements)
	if err != nil {
		return EchoMessage{}, fmt.Errorf("wire: echo: %w", err)
	}
	content, _ := tlv.GetField(fields, FieldContent)
	return EchoMessage{Content: string(content.Value)}, nil
}

func (m AddRequest) Encode() []byte {
	return tlv.EncodeFields([]tlv.Field{
		tlv.I32Field(FieldA, m.A),
		tlv.I32Field(FieldB, m.B),
	})
}

func DecodeAddRequest(payload []byte) (AddRequest, error) {
	fields, err := matchFields(payload, addRequestRequirements)
	if err != nil {
		return AddRequest{}, fmt.Errorf("wire: add_request: %w", err)
	}
	a, _ := tlv.GetField(fields, FieldA)
	b, _ := tlv.GetField(fields, FieldB)
	av, err := tlv.I32FromBytes(a.Value)
	if err != nil {
		return AddRequest{}, fmt.Errorf("wire: add_request: %w", err)
	}
	bv, err := tlv.I32FromBytes(b.Value)
	if err != nil {
		return AddRequest{}, fmt.Errorf("wire: add_request: %w", err)
	}
	return AddRequest{A: av, B: bv}, nil
}

func (m AddResponse) Encode() []byte {
	return tlv.EncodeFields([]tlv.Field{
		tlv.I32Field(FieldResult, m.Result),
	})
}

func DecodeAddResponse(payload []byte) (AddResponse, error) {
	fields, err := matchFields(payload, addResponseRequirements)
	if err != nil {
		return AddResponse{}, fmt.Errorf("wire: add_response: %w", err)
	}
	result, _ := tlv.GetField(fields, FieldResult)
	v, err := tlv.I32FromBytes(result.Value)
	if err != nil {
		return AddResponse{}, fmt.Errorf("wire: add_response: %w", err)
	}
	return AddResponse{Result: v}, nil
}

// ClientEnvelope is the client-to-server tagged union. Exactly one variant is
// populated; the discriminant is the variant identity.
type ClientEnvelope struct {
	Echo *EchoMessage
	Add  *AddRequest
}

func (e ClientEnvelope) Kind() Kind {
	switch {
	case e.Echo != nil:
		return KindEcho
	case e.Add != nil:
		return KindAddRequest
	default:
		return KindNone
	}
}

func (e ClientEnvelope) Encode() ([]byte, error) {
	switch {
	case e.Echo != nil:
		return e.Echo.Encode(), nil
	case e.Add != nil:
		return e.Add.Encode(), nil
	default:
		return nil, ErrEmptyEnvelope
	}
}

// DecodeClientEnvelope classifies a payload by sequential decode trials in the
// fixed order echo, then add_request. The first successful decode wins.
func DecodeClientEnvelope(payload []byte) (ClientEnvelope, error) {
	if echo, err := DecodeEchoMessage(payload); err == nil {
		return ClientEnvelope{Echo: &echo}, nil
	}
	if add, err := DecodeAddRequest(payload); err == nil {
		return ClientEnvelope{Add: &add}, nil
	}
	return ClientEnvelope{}, ErrUnknownMessage
}

// ServerEnvelope is the server-to-client tagged union. Exactly one variant is
// populated; the discriminant is the variant identity.
type ServerEnvelope struct {
	Echo        *EchoMessage
	AddResponse *AddResponse
}

func (e ServerEnvelope) Kind() Kind {
	switch {
	case e.Echo != nil:
		return KindEcho
	case e.AddResponse != nil:
		return KindAddResponse
	default:
		return KindNone
	}
}

func (e ServerEnvelope) Encode() ([]byte, error) {
	switch {
	case e.Echo != nil:
		return e.Echo.Encode(), nil
	case e.AddResponse != nil:
		return e.AddResponse.Encode(), nil
	default:
		return nil, ErrEmptyEnvelope
	}
}

// DecodeServerEnvelope classifies a payload by sequential decode trials in the
// fixed order echo, then add_response.
func DecodeServerEnvelope(payload []byte) (ServerEnvelope, error) {
	if echo, err := DecodeEchoMessage(payload); err == nil {
		return ServerEnvelope{Echo: &echo}, nil
	}
	if resp, err := DecodeAddResponse(payload); err == nil {
		return ServerEnvelope{AddResponse: &resp}, nil
	}
	return ServerEnvelope{}, ErrUnknownMessage
}

// matchFields enforces the exact field set for one message kind: every
// required field present with its required type, no duplicates, no extras.
func matchFields(payload []byte, reqs []requirement) ([]tlv.Field, error) {
	fields, err := tlv.DecodeFields(payload)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint16]bool, len(fields))
	for _, f := range fields {
		if seen[f.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateField, f.ID)
		}
		seen[f.ID] = true
	}
	for _, r := range reqs {
		f, ok := tlv.GetField(fields, r.id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrMissingField, r.id)
		}
		if err := tlv.MustType(f, r.typ); err != nil {
			return nil, err
		}
	}
	for _, f := range fields {
		if !requires(reqs, f.ID) {
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedField, f.ID)
		}
	}
	return fields, nil
}

func requires(reqs []requirement, id uint16) bool {
	for _, r := range reqs {
		if r.id == id {
			return true
		}
	}
	return false
}
