package codec

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/marmos91/someip/internal/wire"
	"github.com/marmos91/someip/pkg/options"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	utf16BE = []byte{0xFE, 0xFF}
	utf16LE = []byte{0xFF, 0xFE}
)

// stringByteOrder resolves the byte order a UTF-16 string is encoded
// with: Utf16Le/Utf16Be pin it, the native Utf16 encoding follows the
// configured primitive byte order (§4.3.2).
func stringByteOrder(o options.Options) wire.ByteOrder {
	switch o.StringEncoding {
	case options.Utf16Le:
		return wire.LittleEndian
	case options.Utf16Be:
		return wire.BigEndian
	default:
		return o.WireByteOrder()
	}
}

func utf16Encoding(order wire.ByteOrder) *unicode.Encoding {
	if order == wire.BigEndian {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

// encodeString renders v to its on-wire byte representation according
// to o, including any configured BOM/terminator (§4.3.2). It does not
// frame the result with a length field — callers handle that.
func encodeString(o options.Options, v string) ([]byte, error) {
	if o.StringEncoding.IsUTF16Variant() {
		return encodeUTF16String(o, v)
	}
	return encodeUTF8String(o, v)
}

func encodeUTF8String(o options.Options, v string) ([]byte, error) {
	if o.StringEncoding == options.Ascii {
		for i := 0; i < len(v); i++ {
			if v[i] > 0x7F {
				return nil, wire.CannotCodeString("encoding is ASCII but string contains non-ASCII characters")
			}
		}
	}
	var buf bytes.Buffer
	if o.StringWithBOM {
		buf.Write(utf8BOM)
	}
	buf.WriteString(v)
	if o.StringTerminator {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

func encodeUTF16String(o options.Options, v string) ([]byte, error) {
	order := stringByteOrder(o)
	body, err := utf16Encoding(order).NewEncoder().Bytes([]byte(v))
	if err != nil {
		return nil, wire.CannotCodeString("encoding string as UTF-16: " + err.Error())
	}
	var buf bytes.Buffer
	if o.StringWithBOM {
		if order == wire.BigEndian {
			buf.Write(utf16BE)
		} else {
			buf.Write(utf16LE)
		}
	}
	buf.Write(body)
	if o.StringTerminator {
		buf.Write([]byte{0, 0})
	}
	return buf.Bytes(), nil
}

// decodeString is encodeString's inverse. data is exactly the bytes of
// the length-delimited (or fixed-size) section; no trailing data is
// expected.
func decodeString(o options.Options, data []byte) (string, error) {
	if o.StringEncoding.IsUTF16Variant() {
		return decodeUTF16String(o, data)
	}
	return decodeUTF8String(o, data)
}

func decodeUTF8String(o options.Options, data []byte) (string, error) {
	if o.StringWithBOM {
		if len(data) < len(utf8BOM) {
			return "", wire.CannotCodeString("string must begin with a BOM and cannot be empty")
		}
		if !bytes.Equal(data[:len(utf8BOM)], utf8BOM) {
			return "", wire.CannotCodeString("string must begin with a BOM")
		}
		data = data[len(utf8BOM):]
	}
	if o.StringTerminator {
		if len(data) == 0 || data[len(data)-1] != 0 {
			return "", wire.CannotCodeString("string must end with a 0 terminator")
		}
		data = data[:len(data)-1]
	}
	if o.StringEncoding == options.Ascii {
		for _, b := range data {
			if b > 0x7F {
				return "", wire.CannotCodeString("string contained non-ASCII characters")
			}
		}
	} else if !utf8.Valid(data) {
		return "", wire.CannotCodeString("string is not valid UTF-8")
	}
	return string(data), nil
}

// decodeUTF16String peeks the byte order from the BOM, when configured
// to expect one, overriding the statically configured byte order for
// this call only — a deliberate asymmetry with encodeUTF16String,
// which always writes using the configured order. A decoder has to
// accept whatever a well-formed producer wrote; a encoder only ever
// produces one shape.
func decodeUTF16String(o options.Options, data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", wire.CannotCodeString("UTF-16 strings must have an even byte length")
	}

	order := stringByteOrder(o)
	if o.StringWithBOM {
		switch {
		case len(data) < 2:
			return "", wire.CannotCodeString("string must begin with a BOM and cannot be empty")
		case bytes.Equal(data[:2], utf16BE):
			order = wire.BigEndian
		case bytes.Equal(data[:2], utf16LE):
			order = wire.LittleEndian
		default:
			return "", wire.CannotCodeString("string must begin with a BOM")
		}
		data = data[2:]
	}

	body, err := utf16Encoding(order).NewDecoder().Bytes(data)
	if err != nil {
		return "", wire.CannotCodeString("decoding UTF-16 string: " + err.Error())
	}
	value := string(body)

	if o.StringTerminator {
		if len(value) == 0 || value[len(value)-1] != 0 {
			return "", wire.CannotCodeString("string must end with a 0 terminator")
		}
		value = value[:len(value)-1]
	}
	return value, nil
}
