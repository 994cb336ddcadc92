package codec

import (
	"io"

	"github.com/marmos91/someip/internal/wire"
	"github.com/marmos91/someip/pkg/options"
	"github.com/marmos91/someip/pkg/schema"
)

// Encode serializes v against root using o, returning a freshly
// allocated buffer (§6.2 encode).
func Encode(o options.Options, root *schema.Type, v Encodable) ([]byte, error) {
	return EncodeAppend(o, root, nil, v)
}

// EncodeAppend serializes v against root using o, appending to buf
// (which may be nil) and returning the extended slice (§6.2
// encode_append) — the entry point for callers building one larger
// message out of several values without an intermediate copy.
func EncodeAppend(o options.Options, root *schema.Type, buf []byte, v Encodable) ([]byte, error) {
	s := NewSerializer(o, buf)
	s.root = root
	if err := v.EncodeSomeIP(s); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

// DecodeSlice deserializes v's wire representation out of data
// against root using o (§6.2 decode_slice). data is never mutated, but
// no decoded value aliases it: byte-sequence fields are returned as
// copies and strings are converted to Go strings.
// It is an error for data to contain bytes past the end of v's
// encoding — callers decoding several values back to back should
// slice data themselves between calls.
func DecodeSlice(o options.Options, root *schema.Type, data []byte, v Decodable) error {
	d := NewDeserializer(o, data)
	d.root = root
	if err := v.DecodeSomeIP(d); err != nil {
		return err
	}
	if d.pos != len(d.data) {
		return wire.NotAllBytesConsumed(len(d.data) - d.pos)
	}
	return nil
}

// DecodeStream reads exactly declaredLength bytes from r and
// deserializes them the same way DecodeSlice does (§6.2
// decode_stream). SOME/IP has no transport-independent way to learn a
// message's length except being told it (by the RPC header this
// package does not implement), so the caller supplies it, the same
// role Options::declared_length plays for the reference streaming
// reader.
func DecodeStream(o options.Options, root *schema.Type, r io.Reader, declaredLength int, v Decodable) error {
	data := make([]byte, declaredLength)
	if _, err := io.ReadFull(r, data); err != nil {
		return wire.IoError(err)
	}
	return DecodeSlice(o, root, data, v)
}
