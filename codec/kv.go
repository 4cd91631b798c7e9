package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"
)

// KV is a plain string key/value record for use with KVCodec.
type KV struct {
	K string
	V string
}

func (kv KV) Key() string { return kv.K }

// On-disk layout, little-endian:
// CRC (4) + Timestamp (8) + KeySize (4) + ValueSize (4) + Key + Value
const kvHeaderSize = 20

// Sizes past this are treated as a corrupt header rather than honored.
const kvMaxFieldSize = 1 << 30

var (
	// ErrBadChecksum is returned by Decode when a record's CRC32 does not
	// match its key and value bytes.
	ErrBadChecksum = errors.New("codec: record checksum mismatch")

	// ErrBadHeader is returned by Decode when a record header carries
	// impossible sizes.
	ErrBadHeader = errors.New("codec: invalid record header")

	// ErrEmptyKey is returned by Encode for a record with an empty key.
	// Decode treats a zero key size as a corrupt header, so such a record
	// must never reach a segment in the first place.
	ErrEmptyKey = errors.New("codec: record key must not be empty")
)

// KVCodec encodes KV records as a fixed binary header followed by the raw
// key and value bytes. The header carries a CRC32 over key+value and both
// lengths, so records are self-delimiting and verifiable at any offset.
type KVCodec struct{}

func (KVCodec) Encode(w io.Writer, v Value) error {
	kv, ok := v.(KV)
	if !ok {
		return fmt.Errorf("codec: KVCodec got %T, want codec.KV", v)
	}
	if kv.K == "" {
		return ErrEmptyKey
	}

	keyBytes := []byte(kv.K)
	valueBytes := []byte(kv.V)

	buf := &bytes.Buffer{}

	if err := binary.Write(buf, binary.LittleEndian, checksum(keyBytes, valueBytes)); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, time.Now().UnixNano()); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(keyBytes))); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(valueBytes))); err != nil {
		return err
	}
	buf.Write(keyBytes)
	buf.Write(valueBytes)

	// One write, so a record never straddles two writes on the way out.
	_, err := w.Write(buf.Bytes())
	return err
}

// Decode reads one record. It returns io.EOF when the stream ends before
// the first header byte, and io.ErrUnexpectedEOF when a record is cut
// short after it began.
func (KVCodec) Decode(r io.Reader) (Value, error) {
	header := make([]byte, kvHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	crc := binary.LittleEndian.Uint32(header[0:4])
	keySize := binary.LittleEndian.Uint32(header[12:16])
	valueSize := binary.LittleEndian.Uint32(header[16:20])

	if keySize == 0 || keySize > kvMaxFieldSize || valueSize > kvMaxFieldSize {
		return nil, ErrBadHeader
	}

	keyBytes := make([]byte, keySize)
	if _, err := io.ReadFull(r, keyBytes); err != nil {
		return nil, unexpectedEOF(err)
	}

	valueBytes := make([]byte, valueSize)
	if _, err := io.ReadFull(r, valueBytes); err != nil {
		return nil, unexpectedEOF(err)
	}

	if checksum(keyBytes, valueBytes) != crc {
		return nil, ErrBadChecksum
	}

	return KV{K: string(keyBytes), V: string(valueBytes)}, nil
}

func checksum(key, value []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(key)
	h.Write(value)
	return h.Sum32()
}

// A clean EOF after the header still means a torn record.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
