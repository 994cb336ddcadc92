// Package schema describes the AUTOSAR SOME/IP wire layout of every
// representable type (§3 of the payload format): primitives, enums,
// strings, sequences and structs, plus their TLV variant.
//
// Schemas are build-time constants. Construct them once — either by
// hand as package-level *Type values (the primary, zero-allocation
// path) or through the Builder in builder.go — and then treat them as
// read-only for the lifetime of the process; the codec never mutates a
// schema and holds only stable references to it.
//
// This package intentionally does not import pkg/options: the wire
// layout of a type depends only on the schema and on the one option
// this package needs for section framing (a default length field
// width), passed explicitly to WantedLengthField. That keeps the
// dependency graph flat, as laid out in the format's component design:
// Error -> LengthFieldWidth -> WireTypeCodec -> SchemaModel -> Options.
package schema

import (
	"fmt"

	"github.com/marmos91/someip/internal/wire"
)

// PrimitiveKind is a tagged variant over the eleven primitive types
// SOME/IP can carry on the wire.
type PrimitiveKind int

const (
	Bool PrimitiveKind = iota
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64
)

func (k PrimitiveKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// Size returns the fixed wire width of this primitive in bytes.
func (k PrimitiveKind) Size() int {
	switch k {
	case Bool, U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	default:
		return 8
	}
}

// IsInteger reports whether k is one of the eight integer kinds
// allowed as an enum's raw_type (bool, f32 and f64 are disallowed).
func (k PrimitiveKind) IsInteger() bool {
	switch k {
	case U8, U16, U32, U64, I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

func (k PrimitiveKind) wireType() wire.Type { return wire.TypeForPrimitiveSize(k.Size()) }

// EnumValue is one (variant_name, primitive_value) pair of an Enum.
// Value holds the raw integer as an int64 for signed kinds or is
// reinterpreted as uint64 by callers that know the raw_type is
// unsigned; NewEnum and Verify check range and uniqueness at construction
// time so the codec itself never has to re-derive the kind from a bit
// pattern.
type EnumValue struct {
	Name  string
	Value int64
}

// Enum describes a SOME/IP enum: a named integer raw type plus an
// ordered set of named values.
type Enum struct {
	Name    string
	RawType PrimitiveKind
	Values  []EnumValue
}

// ByName looks up a variant by name.
func (e *Enum) ByName(name string) (EnumValue, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}
	return EnumValue{}, false
}

// ByValue looks up a variant by its raw value.
func (e *Enum) ByValue(value int64) (EnumValue, bool) {
	for _, v := range e.Values {
		if v.Value == value {
			return v, true
		}
	}
	return EnumValue{}, false
}

// verify checks the Enum invariants from §3: raw_type restricted to
// the eight integer kinds, unique variant names, unique values, each
// value within the raw type's range (any int64 is accepted for u64 and
// i64, a u64 value being read back as its uint64 bit pattern).
func (e *Enum) verify() error {
	if !e.RawType.IsInteger() {
		return fmt.Errorf("someip: schema: enum %q has disallowed raw type %s", e.Name, e.RawType)
	}
	names := make(map[string]struct{}, len(e.Values))
	values := make(map[int64]struct{}, len(e.Values))
	for _, v := range e.Values {
		if _, dup := names[v.Name]; dup {
			return fmt.Errorf("someip: schema: enum %q has duplicate variant name %q", e.Name, v.Name)
		}
		names[v.Name] = struct{}{}
		if _, dup := values[v.Value]; dup {
			return fmt.Errorf("someip: schema: enum %q has duplicate value %d", e.Name, v.Value)
		}
		values[v.Value] = struct{}{}
		if bits := uint(e.RawType.Size() * 8); bits < 64 {
			lo, hi := int64(0), int64(1)<<bits-1
			if e.RawType == I8 || e.RawType == I16 || e.RawType == I32 {
				lo, hi = -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
			}
			if v.Value < lo || v.Value > hi {
				return fmt.Errorf("someip: schema: enum %q value %d of variant %q does not fit raw type %s", e.Name, v.Value, v.Name, e.RawType)
			}
		}
	}
	return nil
}

// String describes a SOME/IP string: byte-count bounds on its encoded
// form and an optional length field width.
type String struct {
	MinSize         int
	MaxSize         int
	LengthFieldSize *wire.Width
}

func (s *String) isConstSize() bool { return s.MinSize == s.MaxSize }

func (s *String) verify() error {
	if s.MinSize < 0 || s.MinSize > s.MaxSize {
		return fmt.Errorf("someip: schema: string has invalid bounds min=%d max=%d", s.MinSize, s.MaxSize)
	}
	if uint64(s.MaxSize) > wire.Width4.Max() {
		return fmt.Errorf("someip: schema: string max_size %d exceeds 2^32-1", s.MaxSize)
	}
	if s.LengthFieldSize != nil && !s.LengthFieldSize.Valid() {
		return fmt.Errorf("someip: schema: string has invalid length_field_size %d", *s.LengthFieldSize)
	}
	return nil
}

// Sequence describes a SOME/IP sequence: element-count bounds, an
// element schema, and an optional length field width.
type Sequence struct {
	MinElements     int
	MaxElements     int
	ElementType     *Type
	LengthFieldSize *wire.Width
}

func (s *Sequence) isConstSize() bool {
	return s.MinElements == s.MaxElements && s.ElementType.IsConstSize()
}

// IsByteSequence reports whether this is a sequence of u8 — the fast
// path in §4.3.3/§4.4.4 that appends/copies the raw slice instead of
// looping element by element.
func (s *Sequence) IsByteSequence() bool {
	return s.ElementType.Kind == KindPrimitive && s.ElementType.Primitive == U8
}

func (s *Sequence) verify() error {
	if s.MinElements < 0 || s.MinElements > s.MaxElements {
		return fmt.Errorf("someip: schema: sequence has invalid bounds min=%d max=%d", s.MinElements, s.MaxElements)
	}
	if uint64(s.MaxElements) > wire.Width4.Max() {
		return fmt.Errorf("someip: schema: sequence max_elements %d exceeds 2^32-1", s.MaxElements)
	}
	if s.LengthFieldSize != nil && !s.LengthFieldSize.Valid() {
		return fmt.Errorf("someip: schema: sequence has invalid length_field_size %d", *s.LengthFieldSize)
	}
	return s.ElementType.verify()
}

// Field is one member of a Struct.
type Field struct {
	Name string
	// ID is the TLV field id in [0, 0xFFF]. Present iff the enclosing
	// struct uses TLV.
	ID         *uint16
	FieldType  *Type
	// Optional marks a field as present|absent on the wire. Only valid
	// inside a TLV struct (§3 Field schema invariant).
	Optional bool
}

// Struct describes a SOME/IP struct, either plain length-delimited or
// TLV-tagged.
type Struct struct {
	Name            string
	Fields          []Field
	UsesTLV         bool
	IsMessageWrapper bool
	LengthFieldSize *wire.Width
}

// FieldByID looks up a TLV field by its tag id.
func (s *Struct) FieldByID(id uint16) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].ID != nil && *s.Fields[i].ID == id {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// FieldByName looks up a field by name, used by the visitor bridge.
func (s *Struct) FieldByName(name string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

func (s *Struct) isConstSize() bool {
	if s.UsesTLV {
		return false
	}
	for _, f := range s.Fields {
		if !f.FieldType.IsConstSize() {
			return false
		}
	}
	return true
}

// verify checks the Struct invariants from §3: TLV iff all fields have
// ids, ids unique, optional fields only inside TLV structs.
func (s *Struct) verify() error {
	hasIDs := false
	hasNoIDs := false
	ids := make(map[uint16]struct{}, len(s.Fields))
	names := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("someip: schema: struct %q has duplicate field name %q", s.Name, f.Name)
		}
		names[f.Name] = struct{}{}

		if f.ID != nil {
			hasIDs = true
			if _, dup := ids[*f.ID]; dup {
				return fmt.Errorf("someip: schema: struct %q has duplicate field id %d", s.Name, *f.ID)
			}
			if *f.ID > 0x0FFF {
				return fmt.Errorf("someip: schema: struct %q field %q id %d exceeds 0xFFF", s.Name, f.Name, *f.ID)
			}
			ids[*f.ID] = struct{}{}
		} else {
			hasNoIDs = true
		}
		if f.Optional && !s.UsesTLV {
			return fmt.Errorf("someip: schema: struct %q field %q is optional but struct is not TLV", s.Name, f.Name)
		}
		if err := f.FieldType.verify(); err != nil {
			return err
		}
	}
	if s.UsesTLV && hasNoIDs {
		return fmt.Errorf("someip: schema: struct %q uses TLV but has a field without an id", s.Name)
	}
	if !s.UsesTLV && hasIDs {
		return fmt.Errorf("someip: schema: struct %q does not use TLV but has a field with an id", s.Name)
	}
	return nil
}

// Kind tags which alternative of Type is populated.
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindString
	KindSequence
	KindStruct
)

// Type is the tagged union over every representable SOME/IP type
// (§3). Build one with the Of* constructors below, or directly as a
// package-level struct literal — both are equally valid, the
// constructors just centralize the zero-value-is-ambiguous footgun.
type Type struct {
	Kind      Kind
	Primitive PrimitiveKind
	Enum      *Enum
	String    *String
	Sequence  *Sequence
	Struct    *Struct
}

func OfPrimitive(k PrimitiveKind) *Type { return &Type{Kind: KindPrimitive, Primitive: k} }
func OfEnum(e *Enum) *Type              { return &Type{Kind: KindEnum, Enum: e} }
func OfString(s *String) *Type          { return &Type{Kind: KindString, String: s} }
func OfSequence(s *Sequence) *Type      { return &Type{Kind: KindSequence, Sequence: s} }
func OfStruct(s *Struct) *Type          { return &Type{Kind: KindStruct, Struct: s} }

// Describe returns a short human-readable label for error messages and
// panics; it is not named String to avoid colliding with the String field.
func (t *Type) Describe() string {
	switch t.Kind {
	case KindPrimitive:
		return "Primitive(" + t.Primitive.String() + ")"
	case KindEnum:
		return "Enum(" + t.Enum.Name + ")"
	case KindString:
		return "String"
	case KindSequence:
		return "Sequence"
	case KindStruct:
		return "Struct(" + t.Struct.Name + ")"
	default:
		return "unknown"
	}
}

// WireType returns the TLV wire-type this node is tagged with. For
// String/Sequence/Struct the generic length-delimited code is
// returned; the serializer upgrades it to a specific width code when
// the actual length field width differs from the configured one and
// legacy wire types are off (§4.2).
func (t *Type) WireType() wire.Type {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.wireType()
	case KindEnum:
		return t.Enum.RawType.wireType()
	default:
		return wire.TypeLengthDelimitedFromConfig
	}
}

// IsConstSize reports whether every encoding of this type has the
// same byte length, which determines whether a length field is
// required outside of TLV context (§4.1, §3 Sequence/String
// "constant-size" definitions).
func (t *Type) IsConstSize() bool {
	switch t.Kind {
	case KindPrimitive, KindEnum:
		return true
	case KindString:
		return t.String.isConstSize()
	case KindSequence:
		return t.Sequence.isConstSize()
	case KindStruct:
		return t.Struct.isConstSize()
	default:
		return true
	}
}

// verify walks the type tree checking every invariant in §3.
func (t *Type) verify() error {
	switch t.Kind {
	case KindPrimitive:
		return nil
	case KindEnum:
		return t.Enum.verify()
	case KindString:
		return t.String.verify()
	case KindSequence:
		return t.Sequence.verify()
	case KindStruct:
		return t.Struct.verify()
	default:
		return fmt.Errorf("someip: schema: type has no kind set")
	}
}

// Verify validates a hand-built schema tree against every §3
// invariant. Schemas built through Builder call this automatically;
// schemas built as plain struct literals should call it once at
// package init so a malformed schema fails fast instead of producing
// confusing codec panics later.
func Verify(t *Type) error { return t.verify() }
