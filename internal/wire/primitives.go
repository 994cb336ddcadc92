package wire

import (
	"encoding/binary"
	"math"
)

// ByteOrder is the byte order used for every multi-byte primitive and,
// unless overridden by a string-specific encoding option, for UTF-16
// text. SOME/IP integers are plain fixed-width big- or little-endian
// values, so there is no need to reinvent what the standard library
// already provides: this combines binary.ByteOrder (fixed-buffer
// Put/read) with binary.AppendByteOrder (grow-the-slice Append), both
// of which binary.BigEndian/LittleEndian already implement, since the
// serializer wants to append and the deserializer wants to read.
//
// Adapted from the teacher's internal/protocol/xdr encode/decode
// helpers, which hard-coded binary.BigEndian; here the order is a
// runtime option (§6 Options.ByteOrder) instead of a protocol constant.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var (
	BigEndian    ByteOrder = binary.BigEndian
	LittleEndian ByteOrder = binary.LittleEndian
)

// AppendBool appends the one-byte wire encoding of a bool: 0 or 1.
func AppendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// ReadBool decodes a wire bool byte. In strict mode any value other
// than 0 or 1 is InvalidBool; otherwise zero is false and anything
// else is true.
func ReadBool(b byte, strict bool) (bool, error) {
	if strict && b > 1 {
		return false, InvalidBool(b)
	}
	return b != 0, nil
}

// AppendFloat32 appends the IEEE-754 bit pattern of v in the given byte order.
func AppendFloat32(buf []byte, order ByteOrder, v float32) []byte {
	return order.AppendUint32(buf, math.Float32bits(v))
}

// AppendFloat64 appends the IEEE-754 bit pattern of v in the given byte order.
func AppendFloat64(buf []byte, order ByteOrder, v float64) []byte {
	return order.AppendUint64(buf, math.Float64bits(v))
}

// Float32 decodes an IEEE-754 bit pattern into a float32.
func Float32(b []byte, order ByteOrder) float32 {
	return math.Float32frombits(order.Uint32(b))
}

// Float64 decodes an IEEE-754 bit pattern into a float64.
func Float64(b []byte, order ByteOrder) float64 {
	return math.Float64frombits(order.Uint64(b))
}
