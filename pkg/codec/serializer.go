package codec

import (
	"math"
	"strconv"

	"github.com/marmos91/someip/internal/wire"
	"github.com/marmos91/someip/pkg/options"
	"github.com/marmos91/someip/pkg/schema"
)

// Encodable is implemented by values that know how to write themselves
// through a Serializer. It is the narrow bridge between caller types
// and the codec core: the core never reflects over a Go type, it only
// ever calls EncodeSomeIP and trusts the implementation to drive the
// Serializer in the shape its schema.Type describes.
type Encodable interface {
	EncodeSomeIP(s *Serializer) error
}

type openSection struct {
	pos      int
	reserved wire.Width
	wasInTLV bool
}

// Serializer writes a value's wire representation into an in-memory
// buffer, one field/element at a time, under the control of an
// Encodable implementation. It is not safe for concurrent use; create
// one per encode call.
type Serializer struct {
	opts  options.Options
	buf   []byte
	inTLV bool
	root  *schema.Type

	sections []openSection

	// lastLength records the width end-section last closed with plus
	// whether it matched the statically configured width, so a struct
	// field write can upgrade its just-written tag in place (§4.1/4.2).
	lastLength struct {
		width        wire.Width
		asConfigured bool
	}
}

// NewSerializer creates a Serializer that appends to an existing
// buffer (which may be nil or non-empty — EncodeAppend's use case).
func NewSerializer(o options.Options, buf []byte) *Serializer {
	return &Serializer{opts: o, buf: buf}
}

// Bytes returns the buffer written so far.
func (s *Serializer) Bytes() []byte { return s.buf }

// RootType returns the schema this encode call was started against,
// for callers (the CLI, debug tooling) that want to inspect it
// without having to close over it separately.
func (s *Serializer) RootType() *schema.Type { return s.root }

func (s *Serializer) order() wire.ByteOrder { return s.opts.WireByteOrder() }

// --- primitives -----------------------------------------------------

func (s *Serializer) Bool(v bool) error {
	s.buf = wire.AppendBool(s.buf, v)
	return nil
}

func (s *Serializer) U8(v uint8) error {
	s.buf = append(s.buf, v)
	return nil
}

func (s *Serializer) I8(v int8) error { return s.U8(uint8(v)) }

func (s *Serializer) U16(v uint16) error {
	s.buf = s.order().AppendUint16(s.buf, v)
	return nil
}

func (s *Serializer) I16(v int16) error { return s.U16(uint16(v)) }

func (s *Serializer) U32(v uint32) error {
	s.buf = s.order().AppendUint32(s.buf, v)
	return nil
}

func (s *Serializer) I32(v int32) error { return s.U32(uint32(v)) }

func (s *Serializer) U64(v uint64) error {
	s.buf = s.order().AppendUint64(s.buf, v)
	return nil
}

func (s *Serializer) I64(v int64) error { return s.U64(uint64(v)) }

func (s *Serializer) F32(v float32) error { return s.U32(math.Float32bits(v)) }

func (s *Serializer) F64(v float64) error { return s.U64(math.Float64bits(v)) }

// Enum writes an enum's raw integer value after checking it names a
// known variant.
func (s *Serializer) Enum(t *schema.Type, raw int64) error {
	e := t.Enum
	if _, ok := e.ByValue(raw); !ok {
		return wire.InvalidEnumValue(strconv.FormatInt(raw, 10), e.Name)
	}
	return s.writeRawPrimitive(e.RawType, raw)
}

func (s *Serializer) writeRawPrimitive(k schema.PrimitiveKind, raw int64) error {
	switch k {
	case schema.U8:
		return s.U8(uint8(raw))
	case schema.U16:
		return s.U16(uint16(raw))
	case schema.U32:
		return s.U32(uint32(raw))
	case schema.U64:
		return s.U64(uint64(raw))
	case schema.I8:
		return s.I8(int8(raw))
	case schema.I16:
		return s.I16(int16(raw))
	case schema.I32:
		return s.I32(int32(raw))
	default:
		return s.I64(raw)
	}
}

// --- length-delimited section framing --------------------------------

func (s *Serializer) beginLengthDelimitedSection(configured, maxNeeded wire.Width) {
	pos := len(s.buf)
	reserved := configured
	if maxNeeded > reserved {
		reserved = maxNeeded
	}
	s.sections = append(s.sections, openSection{pos: pos, reserved: reserved, wasInTLV: s.inTLV})
	s.buf = append(s.buf, make([]byte, int(reserved))...)
}

func (s *Serializer) endLengthDelimitedSection(configured wire.Width) error {
	n := len(s.sections) - 1
	sec := s.sections[n]
	s.sections = s.sections[:n]

	end := len(s.buf)
	length := end - sec.pos - int(sec.reserved)

	actual, err := wire.SelectActual(configured, uint64(length), sec.wasInTLV, s.opts.WireSizeSelection())
	if err != nil {
		return err
	}
	s.lastLength.width = actual
	s.lastLength.asConfigured = actual == configured

	switch {
	case actual < sec.reserved:
		valueStart := sec.pos + int(sec.reserved)
		newValueStart := sec.pos + int(actual)
		copy(s.buf[newValueStart:], s.buf[valueStart:end])
		s.buf = s.buf[:end-(int(sec.reserved)-int(actual))]
	case actual > sec.reserved:
		// The pre-reserved placeholder turned out too narrow — widen it
		// in place. reservedWidthFor never reserves less than
		// SelectActual can pick for the same node, so this branch is a
		// safeguard rather than a path the current sizing takes.
		grow := int(actual) - int(sec.reserved)
		s.buf = append(s.buf, make([]byte, grow)...)
		valueStart := sec.pos + int(sec.reserved)
		copy(s.buf[valueStart+grow:], s.buf[valueStart:end])
	}

	return s.writeLengthAt(sec.pos, uint64(length), actual)
}

// reservedWidthFor returns the length field width to pre-reserve for
// t. Width4 is always safe: SelectActual never returns a wider field,
// so reserving the maximum up front means end_length_delimited_section
// only ever needs to shrink, never grow. Using t's schema bounds to
// pick a narrower width when it is obviously safe (e.g. a short
// constant-bounded string) avoids the shrink entirely for the common
// case; composite types fall back to Width4 rather than replicate the
// options-dependent recursive sizing original_source/types.rs performs
// for every nesting level.
func reservedWidthFor(t *schema.Type) (wire.Width, error) {
	switch t.Kind {
	case schema.KindString:
		return wire.MinimumWidthFor(uint64(t.String.MaxSize))
	default:
		return wire.Width4, nil
	}
}

func (s *Serializer) writeLengthAt(pos int, length uint64, width wire.Width) error {
	switch width {
	case wire.Width1:
		s.buf[pos] = byte(length)
	case wire.Width2:
		s.order().PutUint16(s.buf[pos:], uint16(length))
	default:
		s.order().PutUint32(s.buf[pos:], uint32(length))
	}
	return nil
}

// --- strings and byte sequences --------------------------------------

func (s *Serializer) String(t *schema.Type, v string) error {
	st := t.String
	lfs := t.WantedLengthField(s.opts.DefaultLengthFieldSize, s.inTLV)
	if lfs != nil {
		minimum, err := reservedWidthFor(t)
		if err != nil {
			return err
		}
		s.beginLengthDelimitedSection(*lfs, minimum)
	}

	body, err := encodeString(s.opts, v)
	if err != nil {
		return err
	}
	if len(body) < st.MinSize {
		return wire.NotEnoughData(st.MinSize, len(body))
	}
	if len(body) > st.MaxSize {
		return wire.TooMuchData(st.MaxSize, len(body))
	}
	s.buf = append(s.buf, body...)

	if lfs != nil {
		return s.endLengthDelimitedSection(*lfs)
	}
	return nil
}

// BytesField writes a raw byte sequence using the fast path reserved for
// sequences whose element type is u8 (§4.3.3).
func (s *Serializer) BytesField(t *schema.Type, v []byte) error {
	sq := t.Sequence
	if len(v) < sq.MinElements {
		return wire.NotEnoughData(sq.MinElements, len(v))
	}
	if len(v) > sq.MaxElements {
		return wire.TooMuchData(sq.MaxElements, len(v))
	}

	lfs := t.WantedLengthField(s.opts.DefaultLengthFieldSize, s.inTLV)
	if lfs != nil {
		minimum, err := reservedWidthFor(t)
		if err != nil {
			return err
		}
		s.beginLengthDelimitedSection(*lfs, minimum)
	}
	s.buf = append(s.buf, v...)
	if lfs != nil {
		return s.endLengthDelimitedSection(*lfs)
	}
	return nil
}

// --- sequences ---------------------------------------------------------

// Sequence holds the state of one open sequence write, returned by
// BeginSequence and closed by its End method.
type Sequence struct {
	s       *Serializer
	t       *schema.Type
	lfs     *wire.Width
	count   int
	wasInTLV bool
}

// BeginSequence opens a sequence write. n is the number of elements
// the caller is about to write via Element.
func (s *Serializer) BeginSequence(t *schema.Type, n int) (*Sequence, error) {
	sq := t.Sequence
	if n < sq.MinElements {
		return nil, wire.NotEnoughData(sq.MinElements, n)
	}
	if n > sq.MaxElements {
		return nil, wire.TooMuchData(sq.MaxElements, n)
	}

	lfs := t.WantedLengthField(s.opts.DefaultLengthFieldSize, s.inTLV)
	wasInTLV := s.inTLV
	if lfs != nil {
		minimum, err := reservedWidthFor(t)
		if err != nil {
			return nil, err
		}
		s.beginLengthDelimitedSection(*lfs, minimum)
	}
	return &Sequence{s: s, t: t, lfs: lfs, wasInTLV: wasInTLV}, nil
}

// Element must be called once per element, driving encode against the
// element's own schema type with the sequence's in-TLV state cleared
// (an element is never itself a TLV-tagged field).
func (q *Sequence) Element(encode func(s *Serializer) error) error {
	q.count++
	q.s.inTLV = false
	return encode(q.s)
}

// End closes the sequence, validating the element count and, if a
// length field was opened, closing it.
func (q *Sequence) End() error {
	sq := q.t.Sequence
	if q.count < sq.MinElements {
		return wire.NotEnoughData(sq.MinElements, q.count)
	}
	if q.count > sq.MaxElements {
		return wire.TooMuchData(sq.MaxElements, q.count)
	}
	q.s.inTLV = q.wasInTLV
	if q.lfs != nil {
		return q.s.endLengthDelimitedSection(*q.lfs)
	}
	return nil
}

// --- structs -------------------------------------------------------

// Struct holds the state of one open struct write.
type Struct struct {
	s        *Serializer
	t        *schema.Type
	lfs      *wire.Width
	wasInTLV bool
}

// BeginStruct opens a struct write.
func (s *Serializer) BeginStruct(t *schema.Type) (*Struct, error) {
	lfs := t.WantedLengthField(s.opts.DefaultLengthFieldSize, s.inTLV)
	wasInTLV := s.inTLV
	if lfs != nil {
		minimum, err := reservedWidthFor(t)
		if err != nil {
			return nil, err
		}
		s.beginLengthDelimitedSection(*lfs, minimum)
	}
	return &Struct{s: s, t: t, lfs: lfs, wasInTLV: wasInTLV}, nil
}

// Field writes one struct field. When the struct uses TLV, name is
// looked up for its id/type and a tag is written before encode runs,
// then upgraded in place if the field turned out to be
// length-delimited and its actual width differs from what the tag
// initially assumed. When present is false the field is simply
// omitted — valid only for optional TLV fields.
func (st *Struct) Field(name string, present bool, encode func(s *Serializer) error) error {
	f, ok := st.t.Struct.FieldByName(name)
	if !ok {
		panic("someip: codec: struct " + st.t.Struct.Name + " has no field named " + name)
	}

	if !st.t.Struct.UsesTLV {
		st.s.inTLV = false
		return encode(st.s)
	}

	if !present {
		if !f.Optional {
			panic("someip: codec: field " + name + " of struct " + st.t.Struct.Name + " is required but was not provided")
		}
		return nil
	}

	wireType := f.FieldType.WireType()
	tagPos := len(st.s.buf)
	st.s.buf = append(st.s.buf, 0, 0)
	st.s.order().PutUint16(st.s.buf[tagPos:], wire.PackTag(wireType, *f.ID))

	st.s.inTLV = true
	if err := encode(st.s); err != nil {
		return err
	}

	if wireType == wire.TypeLengthDelimitedFromConfig {
		actual := st.s.lastLength
		if !actual.asConfigured && !st.s.opts.SerializerUseLegacyWireType {
			upgraded := wire.TypeForWidth(actual.width)
			st.s.order().PutUint16(st.s.buf[tagPos:], wire.PackTag(upgraded, *f.ID))
		}
	}
	return nil
}

// End closes the struct, restoring the enclosing in-TLV state.
func (st *Struct) End() error {
	st.s.inTLV = st.wasInTLV
	if st.lfs != nil {
		return st.s.endLengthDelimitedSection(*st.lfs)
	}
	return nil
}
