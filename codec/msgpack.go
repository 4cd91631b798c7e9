package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

const msgpackMaxBodySize = 1 << 30

// Msgpack is a serialization policy that stores each record as a uint32
// big-endian length prefix followed by a MessagePack body. Because decoding
// produces a concrete type the codec cannot know about, callers supply a
// factory that returns a fresh (pointer) Value for each decoded record.
type Msgpack struct {
	factory func() Value
}

// NewMsgpack builds a Msgpack codec around the given value factory.
//
//	c := codec.NewMsgpack(func() codec.Value { return new(event) })
func NewMsgpack(factory func() Value) *Msgpack {
	return &Msgpack{factory: factory}
}

func (c *Msgpack) Encode(w io.Writer, v Value) error {
	body, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec: marshaling %T: %w", v, err)
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))

	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func (c *Msgpack) Decode(r io.Reader) (Value, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > msgpackMaxBodySize {
		return nil, ErrBadHeader
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, unexpectedEOF(err)
	}

	v := c.factory()
	if err := msgpack.Unmarshal(body, v); err != nil {
		return nil, fmt.Errorf("codec: unmarshaling %T: %w", v, err)
	}
	return v, nil
}
