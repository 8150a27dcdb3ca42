package tlv

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeFieldsRoundTrip(t *testing.T) {
	in := []Field{
		StringField(1, "Hello, World!"),
		I32Field(2, -42),
	}
	b := EncodeFields(in)
	out, err := DecodeFields(b)
	if err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(out))
	}
	if out[0].ID != 1 || out[0].Type != TypeString || !bytes.Equal(out[0].Value, []byte("Hello, World!")) {
		t.Fatalf("string field mangled: %+v", out[0])
	}
	v, err := I32FromBytes(out[1].Value)
	if err != nil {
		t.Fatalf("i32 from bytes: %v", err)
	}
	if v != -42 {
		t.Fatalf("expected -42, got %d", v)
	}
}

func TestDecodeFieldsMalformedHeaderIsDeterministic(t *testing.T) {
	_, err := DecodeFields([]byte{1, 2, 3})
	if !errors.Is(err, ErrShortFieldHeader) {
		t.Fatalf("expected ErrShortFieldHeader, got %v", err)
	}
}

func TestDecodeFieldsMalformedLengthIsDeterministic(t *testing.T) {
	// id=1, type=string, len=5, value only 2 bytes
	payload := []byte{0, 1, TypeString, 0, 0, 0, 5, 'a', 'b'}
	_, err := DecodeFields(payload)
	if !errors.Is(err, ErrShortFieldValue) {
		t.Fatalf("expected ErrShortFieldValue, got %v", err)
	}
}

func TestMustTypeRejectsMismatch(t *testing.T) {
	f := StringField(7, "x")
	if err := MustType(f, TypeI32); err == nil {
		t.Fatalf("expected type mismatch error")
	}
	if err := MustType(f, TypeString); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestI32FromBytesRejectsBadLength(t *testing.T) {
	if _, err := I32FromBytes([]byte{1, 2}); err == nil {
		t.Fatalf("expected length error")
	}
}
