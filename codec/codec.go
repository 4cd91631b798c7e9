// Package codec defines the serialization policy that decouples a store
// from the binary layout of its records, plus two ready-made policies:
// a CRC-checked binary codec for string pairs (KVCodec) and a
// length-prefixed MessagePack codec for arbitrary structs (Msgpack).
package codec

import "io"

// Value is one record held by a store. A value exposes its own key; the
// store never keeps keys separately from the values they belong to.
type Value interface {
	Key() string
}

// Codec is the pluggable encode/decode capability pair injected into a
// store.
//
// Encode appends exactly one record to w. Decode reads exactly one record
// from r. The encoding must be self-delimiting — fixed width or carrying
// its own lengths — so that a decoder positioned at a record's first byte
// consumes that record and not a byte more. This is what lets the store
// decode a single record at a previously saved offset without any
// surrounding context.
//
// Decode returns io.EOF only when the stream ends cleanly before the first
// byte of a record. A record cut short partway through must surface as a
// different error (io.ErrUnexpectedEOF or a codec-specific one) so callers
// can tell truncation from normal termination.
type Codec interface {
	Encode(w io.Writer, v Value) error
	Decode(r io.Reader) (Value, error)
}
