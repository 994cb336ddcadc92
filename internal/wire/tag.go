package wire

// Type is the 3-bit wire-type code carried in bits 14-12 of a TLV tag
// (§4.2). It tells a decoder how much to read (or skip) without
// knowing the schema.
type Type uint8

const (
	TypeOneByte Type = iota
	TypeTwoBytes
	TypeFourBytes
	TypeEightBytes
	TypeLengthDelimitedFromConfig
	TypeLengthDelimitedOneByte
	TypeLengthDelimitedTwoBytes
	TypeLengthDelimitedFourBytes
)

func (t Type) String() string {
	switch t {
	case TypeOneByte:
		return "one byte(0)"
	case TypeTwoBytes:
		return "two bytes(1)"
	case TypeFourBytes:
		return "four bytes(2)"
	case TypeEightBytes:
		return "eight bytes(3)"
	case TypeLengthDelimitedFromConfig:
		return "length delimited from config(4)"
	case TypeLengthDelimitedOneByte:
		return "length delimited one byte(5)"
	case TypeLengthDelimitedTwoBytes:
		return "length delimited two bytes(6)"
	case TypeLengthDelimitedFourBytes:
		return "length delimited four bytes(7)"
	default:
		return "unknown wire type"
	}
}

// FixedSize returns the number of value bytes that follow a tag with
// this wire-type, for the four fixed-size types. ok is false for the
// four length-delimited types.
func (t Type) FixedSize() (size int, ok bool) {
	switch t {
	case TypeOneByte:
		return 1, true
	case TypeTwoBytes:
		return 2, true
	case TypeFourBytes:
		return 4, true
	case TypeEightBytes:
		return 8, true
	default:
		return 0, false
	}
}

// LengthFieldWidth returns the length field width implied by this
// wire-type when it is one of the three specific length-delimited
// codes. ok is false for TypeLengthDelimitedFromConfig and the
// fixed-size types.
func (t Type) LengthFieldWidth() (w Width, ok bool) {
	switch t {
	case TypeLengthDelimitedOneByte:
		return Width1, true
	case TypeLengthDelimitedTwoBytes:
		return Width2, true
	case TypeLengthDelimitedFourBytes:
		return Width4, true
	default:
		return 0, false
	}
}

// IsLengthDelimited reports whether t is any of the four
// length-delimited wire-types (used by Compatible).
func (t Type) IsLengthDelimited() bool {
	return t == TypeLengthDelimitedFromConfig ||
		t == TypeLengthDelimitedOneByte ||
		t == TypeLengthDelimitedTwoBytes ||
		t == TypeLengthDelimitedFourBytes
}

// TypeForWidth maps a length field width to the specific
// length-delimited wire-type used to tag it (§4.2 upgrade rule).
func TypeForWidth(w Width) Type {
	switch w {
	case Width1:
		return TypeLengthDelimitedOneByte
	case Width2:
		return TypeLengthDelimitedTwoBytes
	default:
		return TypeLengthDelimitedFourBytes
	}
}

// TypeForPrimitiveSize maps a primitive's fixed byte width (1, 2, 4 or
// 8) to its wire-type.
func TypeForPrimitiveSize(size int) Type {
	switch size {
	case 1:
		return TypeOneByte
	case 2:
		return TypeTwoBytes
	case 4:
		return TypeFourBytes
	default:
		return TypeEightBytes
	}
}

// PackTag builds the 16-bit big-endian TLV tag for a field: wire-type
// in bits 14-12, id in bits 11-0, bit 15 reserved and always zero.
// Adapted from the teacher's XDR discriminated-union discriminant
// pack/unpack (internal/protocol/xdr/union.go) — a TLV tag plays the
// same role as an XDR union discriminant, just narrower and combined
// with a payload-size hint.
func PackTag(t Type, id uint16) uint16 {
	return uint16(t)<<12 | (id & 0x0FFF)
}

// UnpackTag splits a 16-bit TLV tag into its wire-type and field id.
func UnpackTag(tag uint16) (Type, uint16) {
	return Type((tag >> 12) & 0x7), tag & 0x0FFF
}

// Check verifies that actual is wire-compatible with expected,
// returning InvalidWireType on mismatch (§4.2 compatibility table):
// fixed-size codes must match exactly, any two length-delimited codes
// are mutually compatible.
func Check(expected, actual Type) error {
	if expected.IsLengthDelimited() {
		if actual.IsLengthDelimited() {
			return nil
		}
		return InvalidWireType(expected.String(), actual.String())
	}
	if expected == actual {
		return nil
	}
	return InvalidWireType(expected.String(), actual.String())
}
