// Package options holds the process-wide, immutable configuration used
// by both the serializer and the deserializer (§4.5 of the payload
// format). An Options value is built once from Default and then shared
// freely across goroutines and calls — it is never mutated after
// construction, the same way the teacher treats a frozen schema.
package options

import (
	"github.com/marmos91/someip/internal/wire"
)

// ByteOrder selects the endianness used for every multi-byte value.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (b ByteOrder) wire() wire.ByteOrder {
	if b == LittleEndian {
		return wire.LittleEndian
	}
	return wire.BigEndian
}

// StringEncoding selects the text codec used for String fields.
type StringEncoding int

const (
	Utf8 StringEncoding = iota
	Utf16
	Utf16Le
	Utf16Be
	Ascii
)

func (e StringEncoding) IsUTF16Variant() bool {
	return e == Utf16 || e == Utf16Le || e == Utf16Be
}

// LengthFieldSizeSelection controls §4.1's TLV branch: how the
// serializer picks a length field width when the measured length
// differs from the statically configured one.
type LengthFieldSizeSelection int

const (
	// Smallest always emits the narrowest length field that fits.
	Smallest LengthFieldSizeSelection = iota
	// AsConfigured keeps the configured width unless the data overflows it.
	AsConfigured
)

func (s LengthFieldSizeSelection) wire() wire.SizeSelection {
	if s == Smallest {
		return wire.Smallest
	}
	return wire.AsConfigured
}

// ActionOnTooMuchData controls what the deserializer does when a
// string or sequence exceeds its configured maximum.
type ActionOnTooMuchData int

const (
	// Fail returns a TooMuchData error.
	Fail ActionOnTooMuchData = iota
	// Discard keeps only the first max_size/max_elements worth of data
	// and silently drops the rest.
	Discard
	// Keep retains all the data even though it exceeds the configured maximum.
	Keep
)

// LengthFieldSize is an optional {1,2,4}-byte width, used both for
// schema-declared widths and for Options.DefaultLengthFieldSize.
type LengthFieldSize = wire.Width

const (
	OneByte   = wire.Width1
	TwoBytes  = wire.Width2
	FourBytes = wire.Width4
)

// Options is the immutable configuration for one de/serialization run.
// Build it from Default and then treat it as read-only; sharing a single
// Options across many calls and goroutines is the intended use.
type Options struct {
	ByteOrder       ByteOrder
	StringEncoding  StringEncoding
	StringWithBOM   bool
	StringTerminator bool

	// DefaultLengthFieldSize is used whenever a schema node omits its
	// own length field size. nil means "no default": a schema that
	// needs a length field and does not declare one is a fatal
	// schema-contract error (§4.1, §9 Design Notes).
	DefaultLengthFieldSize *LengthFieldSize

	SerializerUseLegacyWireType           bool
	SerializerLengthFieldSizeSelection LengthFieldSizeSelection

	DeserializerStrictBool              bool
	DeserializerActionOnTooMuchData ActionOnTooMuchData
}

// Default returns the Options implied by §4.5's documented defaults.
func Default() Options {
	four := FourBytes
	return Options{
		ByteOrder:                          BigEndian,
		StringEncoding:                     Utf8,
		StringWithBOM:                      false,
		StringTerminator:                   false,
		DefaultLengthFieldSize:             &four,
		SerializerUseLegacyWireType:        false,
		SerializerLengthFieldSizeSelection: Smallest,
		DeserializerStrictBool:             false,
		DeserializerActionOnTooMuchData:    Discard,
	}
}

// Validate enforces the one documented cross-field invariant: ASCII
// strings cannot require a BOM, since U+FEFF is not an ASCII code
// point. This is a fatal configuration error, caught once at startup
// rather than on every string encoded.
func (o Options) Validate() error {
	if o.StringEncoding == Ascii && o.StringWithBOM {
		return wire.Custom("string_with_bom is incompatible with ASCII encoding")
	}
	return nil
}

// WireByteOrder exposes the resolved encoding/binary.ByteOrder for
// packages in this module; it is not part of the public API surface
// callers are expected to touch directly.
func (o Options) WireByteOrder() wire.ByteOrder { return o.ByteOrder.wire() }

// WireSizeSelection exposes the resolved internal/wire selection policy.
func (o Options) WireSizeSelection() wire.SizeSelection {
	return o.SerializerLengthFieldSizeSelection.wire()
}
