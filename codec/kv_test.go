package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestKVRoundTrip(t *testing.T) {
	original := KV{K: "language", V: "go"}

	buf := &bytes.Buffer{}
	if err := (KVCodec{}).Encode(buf, original); err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	decoded, err := (KVCodec{}).Decode(buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	kv, ok := decoded.(KV)
	if !ok {
		t.Fatalf("expected codec.KV, got %T", decoded)
	}
	if kv.K != original.K {
		t.Errorf("key mismatch: got %q, want %q", kv.K, original.K)
	}
	if kv.V != original.V {
		t.Errorf("value mismatch: got %q, want %q", kv.V, original.V)
	}
}

func TestKVDecodeSignalsCleanEOF(t *testing.T) {
	_, err := (KVCodec{}).Decode(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestKVDecodeErrorsOnTruncatedData(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (KVCodec{}).Encode(buf, KV{K: "abc", V: "xy"}); err != nil {
		t.Fatal(err)
	}
	encoded := buf.Bytes()

	for i := 1; i < len(encoded); i++ {
		_, err := (KVCodec{}).Decode(bytes.NewReader(encoded[:i]))
		if err == nil {
			t.Fatalf("expected error when decoding truncated data of length %d, got nil", i)
		}
		if err == io.EOF {
			t.Fatalf("truncated data of length %d reported clean EOF", i)
		}
	}
}

func TestKVEncodedByteLayout(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (KVCodec{}).Encode(buf, KV{K: "a", V: "b"}); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	encoded := buf.Bytes()

	// Expected layout:
	// uint32 CRC | int64 Timestamp | uint32 KeySize | uint32 ValueSize | Key | Value
	if len(encoded) != kvHeaderSize+2 {
		t.Fatalf("expected %d bytes, got %d", kvHeaderSize+2, len(encoded))
	}

	if got, want := binary.LittleEndian.Uint32(encoded[0:4]), checksum([]byte("a"), []byte("b")); got != want {
		t.Errorf("CRC mismatch: got %v, want %v", got, want)
	}
	if ts := int64(binary.LittleEndian.Uint64(encoded[4:12])); ts <= 0 {
		t.Errorf("expected positive timestamp, got %v", ts)
	}
	if got := binary.LittleEndian.Uint32(encoded[12:16]); got != 1 {
		t.Errorf("KeySize mismatch: got %v, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(encoded[16:20]); got != 1 {
		t.Errorf("ValueSize mismatch: got %v, want 1", got)
	}
	if encoded[20] != 'a' {
		t.Errorf("expected key byte 'a', got %v", encoded[20])
	}
	if encoded[21] != 'b' {
		t.Errorf("expected value byte 'b', got %v", encoded[21])
	}
}

func TestKVDecodeRejectsBadChecksum(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (KVCodec{}).Encode(buf, KV{K: "key", V: "value"}); err != nil {
		t.Fatal(err)
	}

	encoded := buf.Bytes()
	encoded[len(encoded)-1] ^= 0xff

	_, err := (KVCodec{}).Decode(bytes.NewReader(encoded))
	if !errors.Is(err, ErrBadChecksum) {
		t.Fatalf("expected ErrBadChecksum, got %v", err)
	}
}

func TestKVEncodeRejectsEmptyKey(t *testing.T) {
	buf := &bytes.Buffer{}

	err := (KVCodec{}).Encode(buf, KV{K: "", V: "x"})
	if !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("rejected record still wrote %d bytes", buf.Len())
	}
}

func TestKVDecodeRejectsImpossibleHeader(t *testing.T) {
	header := make([]byte, kvHeaderSize)
	// KeySize of zero can never be produced by Encode.
	_, err := (KVCodec{}).Decode(bytes.NewReader(header))
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestKVSequentialDecodeVisitsRecordsInWriteOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	records := []KV{
		{K: "a", V: "1"},
		{K: "b", V: "2"},
		{K: "a", V: "3"},
	}
	for _, r := range records {
		if err := (KVCodec{}).Encode(buf, r); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range records {
		got, err := (KVCodec{}).Decode(buf)
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		if got.(KV) != want {
			t.Fatalf("record %d: got %+v, want %+v", i, got, want)
		}
	}

	if _, err := (KVCodec{}).Decode(buf); err != io.EOF {
		t.Fatalf("expected io.EOF after last record, got %v", err)
	}
}
