// Package wire defines the messages spoken on a wirectl connection and their
// binary form.
//
// A payload is the TLV field set of exactly one message; there is no outer
// framing and the envelopes contribute no bytes of their own. Decoding an
// envelope attempts the candidate kinds in a fixed trial order (echo-kind
// before add-kind) and the first successful decode wins. Decodes are strict:
// a missing, duplicate, unexpected, or wrongly-typed field fails the trial,
// so the kinds cannot shadow each other on the wire.
package wire
