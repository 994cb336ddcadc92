package schema

import "github.com/marmos91/someip/internal/wire"

// The constructors below are the only supported way to obtain a
// non-primitive *Type: each one runs the invariants from §3 before
// handing back a value, so a schema that fails to construct can never
// reach the codec half-validated. Primitives need no constructor since
// OfPrimitive can never be invalid.

// NewEnum builds and validates an Enum type.
func NewEnum(name string, rawType PrimitiveKind, values []EnumValue) (*Type, error) {
	e := &Enum{Name: name, RawType: rawType, Values: values}
	if err := e.verify(); err != nil {
		return nil, err
	}
	return OfEnum(e), nil
}

// NewString builds and validates a String type.
func NewString(minSize, maxSize int, lengthFieldSize *wire.Width) (*Type, error) {
	s := &String{MinSize: minSize, MaxSize: maxSize, LengthFieldSize: lengthFieldSize}
	if err := s.verify(); err != nil {
		return nil, err
	}
	return OfString(s), nil
}

// NewSequence builds and validates a Sequence type.
func NewSequence(minElements, maxElements int, elementType *Type, lengthFieldSize *wire.Width) (*Type, error) {
	s := &Sequence{MinElements: minElements, MaxElements: maxElements, ElementType: elementType, LengthFieldSize: lengthFieldSize}
	if err := s.verify(); err != nil {
		return nil, err
	}
	return OfSequence(s), nil
}

// NewStruct builds and validates a Struct type, either TLV-tagged or
// plain depending on usesTLV.
func NewStruct(name string, fields []Field, usesTLV, isMessageWrapper bool, lengthFieldSize *wire.Width) (*Type, error) {
	s := &Struct{
		Name:             name,
		Fields:           fields,
		UsesTLV:          usesTLV,
		IsMessageWrapper: isMessageWrapper,
		LengthFieldSize:  lengthFieldSize,
	}
	if err := s.verify(); err != nil {
		return nil, err
	}
	return OfStruct(s), nil
}

// Builder accumulates fields for a Struct under construction, useful
// when a schema is assembled programmatically (e.g. from the YAML IDL
// in yaml.go) rather than written as a single literal.
type Builder struct {
	name             string
	fields           []Field
	usesTLV          bool
	isMessageWrapper bool
	lengthFieldSize  *wire.Width
}

// NewBuilder starts a Struct builder.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// WithTLV marks the struct as TLV-tagged; every field added afterwards
// must carry an id.
func (b *Builder) WithTLV() *Builder {
	b.usesTLV = true
	return b
}

// WithMessageWrapper marks the struct as a top-level message wrapper,
// which is never framed with its own length field, even inside TLV
// context.
func (b *Builder) WithMessageWrapper() *Builder {
	b.isMessageWrapper = true
	return b
}

// WithLengthFieldSize overrides the struct's own length field width.
func (b *Builder) WithLengthFieldSize(w wire.Width) *Builder {
	b.lengthFieldSize = &w
	return b
}

// Field appends a plain (non-TLV) field.
func (b *Builder) Field(name string, fieldType *Type) *Builder {
	b.fields = append(b.fields, Field{Name: name, FieldType: fieldType})
	return b
}

// TLVField appends a TLV field with an explicit tag id, optionally
// marked as optional.
func (b *Builder) TLVField(name string, id uint16, fieldType *Type, optional bool) *Builder {
	tag := id
	b.fields = append(b.fields, Field{Name: name, ID: &tag, FieldType: fieldType, Optional: optional})
	return b
}

// Build validates and returns the assembled Struct type.
func (b *Builder) Build() (*Type, error) {
	return NewStruct(b.name, b.fields, b.usesTLV, b.isMessageWrapper, b.lengthFieldSize)
}
