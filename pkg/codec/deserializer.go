package codec

import (
	"strconv"

	"github.com/marmos91/someip/internal/wire"
	"github.com/marmos91/someip/pkg/options"
	"github.com/marmos91/someip/pkg/schema"
)

// Decodable is implemented by values that know how to read themselves
// from a Deserializer. The core never reflects over a Go type; it only
// calls DecodeSomeIP and trusts the implementation to drive the
// Deserializer in the shape its schema.Type describes.
type Decodable interface {
	DecodeSomeIP(d *Deserializer) error
}

// Deserializer reads a value's wire representation out of an
// in-memory buffer, one field/element at a time, under the control of
// a Decodable implementation. It is not safe for concurrent use;
// create one per decode call.
type Deserializer struct {
	opts options.Options
	data []byte
	pos  int

	inTLV bool
	root  *schema.Type

	// sections holds the remaining unread byte count of every open
	// length-delimited section, innermost last.
	sections []int

	// nextOverrideLFS is set by Struct.NextField when a TLV tag names
	// a specific length field width, taking precedence over whatever
	// width the schema/options would otherwise pick for the field
	// about to be decoded. Consumed by openWidth.
	nextOverrideLFS *wire.Width
}

// NewDeserializer creates a Deserializer reading from data.
func NewDeserializer(o options.Options, data []byte) *Deserializer {
	return &Deserializer{opts: o, data: data}
}

// Remaining reports how many bytes are left to read in the innermost
// open section, or in the whole input if no section is open.
func (d *Deserializer) Remaining() int { return d.remaining() }

// RootType returns the schema this decode call was started against.
func (d *Deserializer) RootType() *schema.Type { return d.root }

func (d *Deserializer) remaining() int {
	if n := len(d.sections); n > 0 {
		return d.sections[n-1]
	}
	return len(d.data) - d.pos
}

func (d *Deserializer) order() wire.ByteOrder { return d.opts.WireByteOrder() }

// openWidth resolves the length field width to use when opening a
// section: a tag-derived override always wins over the schema/options
// width a caller computed, and is consumed at most once.
func (d *Deserializer) openWidth(schemaWidth wire.Width) wire.Width {
	if d.nextOverrideLFS != nil {
		w := *d.nextOverrideLFS
		d.nextOverrideLFS = nil
		return w
	}
	return schemaWidth
}

func (d *Deserializer) beforeRead(n int) error {
	if d.remaining() < n {
		return wire.TooShort()
	}
	if k := len(d.sections); k > 0 {
		d.sections[k-1] -= n
	}
	return nil
}

// readBytes returns the next n bytes without copying; callers that
// retain the result past the next mutating call must copy it first.
func (d *Deserializer) readBytes(n int) ([]byte, error) {
	if err := d.beforeRead(n); err != nil {
		return nil, err
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Deserializer) discard(n int) error {
	if err := d.beforeRead(n); err != nil {
		return err
	}
	d.pos += n
	return nil
}

// --- length-delimited section framing --------------------------------

func (d *Deserializer) beginKnownLengthDelimitedSection(n int) error {
	if err := d.beforeRead(n); err != nil {
		return err
	}
	d.sections = append(d.sections, n)
	return nil
}

func (d *Deserializer) beginLengthDelimitedSection(width wire.Width) (int, error) {
	var n uint64
	switch width {
	case wire.Width1:
		b, err := d.readBytes(1)
		if err != nil {
			return 0, err
		}
		n = uint64(b[0])
	case wire.Width2:
		b, err := d.readBytes(2)
		if err != nil {
			return 0, err
		}
		n = uint64(d.order().Uint16(b))
	default:
		b, err := d.readBytes(4)
		if err != nil {
			return 0, err
		}
		n = uint64(d.order().Uint32(b))
	}
	if err := d.beginKnownLengthDelimitedSection(int(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (d *Deserializer) endLengthDelimitedSection() error {
	n := len(d.sections) - 1
	if n < 0 {
		panic("someip: codec: ended more length-delimited sections than were started")
	}
	remaining := d.sections[n]
	d.sections = d.sections[:n]
	if remaining != 0 {
		return wire.NotAllBytesConsumed(remaining)
	}
	return nil
}

// readFramedBody reads the n bytes a just-opened section declared,
// applying the configured policy when n exceeds max (§4.4.3/4.4.4,
// §6.1 DeserializerActionOnTooMuchData): Fail errors, Discard reads
// only the first max bytes and drops the rest, Keep reads everything.
func (d *Deserializer) readFramedBody(n, min, max int) ([]byte, error) {
	if n < min {
		return nil, wire.NotEnoughData(min, n)
	}
	if n <= max {
		return d.readBytes(n)
	}
	switch d.opts.DeserializerActionOnTooMuchData {
	case options.Fail:
		return nil, wire.TooMuchData(max, n)
	case options.Discard:
		body, err := d.readBytes(max)
		if err != nil {
			return nil, err
		}
		if err := d.discard(n - max); err != nil {
			return nil, err
		}
		return body, nil
	default: // Keep
		return d.readBytes(n)
	}
}

// --- primitives -----------------------------------------------------

func (d *Deserializer) Bool() (bool, error) {
	b, err := d.readBytes(1)
	if err != nil {
		return false, err
	}
	return wire.ReadBool(b[0], d.opts.DeserializerStrictBool)
}

func (d *Deserializer) U8() (uint8, error) {
	b, err := d.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Deserializer) I8() (int8, error) {
	v, err := d.U8()
	return int8(v), err
}

func (d *Deserializer) U16() (uint16, error) {
	b, err := d.readBytes(2)
	if err != nil {
		return 0, err
	}
	return d.order().Uint16(b), nil
}

func (d *Deserializer) I16() (int16, error) {
	v, err := d.U16()
	return int16(v), err
}

func (d *Deserializer) U32() (uint32, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return d.order().Uint32(b), nil
}

func (d *Deserializer) I32() (int32, error) {
	v, err := d.U32()
	return int32(v), err
}

func (d *Deserializer) U64() (uint64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return d.order().Uint64(b), nil
}

func (d *Deserializer) I64() (int64, error) {
	v, err := d.U64()
	return int64(v), err
}

func (d *Deserializer) F32() (float32, error) {
	b, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return wire.Float32(b, d.order()), nil
}

func (d *Deserializer) F64() (float64, error) {
	b, err := d.readBytes(8)
	if err != nil {
		return 0, err
	}
	return wire.Float64(b, d.order()), nil
}

// Enum reads a raw primitive and checks it names a known variant.
func (d *Deserializer) Enum(t *schema.Type) (int64, error) {
	e := t.Enum
	raw, err := d.readRawPrimitive(e.RawType)
	if err != nil {
		return 0, err
	}
	if _, ok := e.ByValue(raw); !ok {
		return 0, wire.InvalidEnumValue(strconv.FormatInt(raw, 10), e.Name)
	}
	return raw, nil
}

func (d *Deserializer) readRawPrimitive(k schema.PrimitiveKind) (int64, error) {
	switch k {
	case schema.U8:
		v, err := d.U8()
		return int64(v), err
	case schema.U16:
		v, err := d.U16()
		return int64(v), err
	case schema.U32:
		v, err := d.U32()
		return int64(v), err
	case schema.U64:
		v, err := d.U64()
		return int64(v), err
	case schema.I8:
		v, err := d.I8()
		return int64(v), err
	case schema.I16:
		v, err := d.I16()
		return int64(v), err
	case schema.I32:
		v, err := d.I32()
		return int64(v), err
	default:
		return d.I64()
	}
}

// --- strings and byte sequences --------------------------------------

func (d *Deserializer) String(t *schema.Type) (string, error) {
	st := t.String
	n, err := d.openLengthDelimitedSection(t)
	if err != nil {
		return "", err
	}
	body, err := d.readFramedBody(n, st.MinSize, st.MaxSize)
	if err != nil {
		return "", err
	}
	if err := d.endLengthDelimitedSection(); err != nil {
		return "", err
	}
	return decodeString(d.opts, body)
}

// BytesField decodes the fast path reserved for sequences whose
// element type is u8 (§4.4.4). The returned slice is a copy, safe to
// retain past further Deserializer calls.
func (d *Deserializer) BytesField(t *schema.Type) ([]byte, error) {
	sq := t.Sequence
	n, err := d.openLengthDelimitedSection(t)
	if err != nil {
		return nil, err
	}
	body, err := d.readFramedBody(n, sq.MinElements, sq.MaxElements)
	if err != nil {
		return nil, err
	}
	if err := d.endLengthDelimitedSection(); err != nil {
		return nil, err
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

// openLengthDelimitedSection opens the section a String/Sequence/
// Struct value is framed in, using the node's own bound as the known
// section size when no length field is wanted at all (the constant-
// size, non-TLV case).
func (d *Deserializer) openLengthDelimitedSection(t *schema.Type) (int, error) {
	lfs := t.WantedLengthField(d.opts.DefaultLengthFieldSize, d.inTLV)
	if lfs != nil {
		return d.beginLengthDelimitedSection(d.openWidth(*lfs))
	}
	max, ok := t.MaxLen()
	if !ok {
		panic("someip: codec: " + t.Describe() + " needs a known size but has none")
	}
	if err := d.beginKnownLengthDelimitedSection(max); err != nil {
		return 0, err
	}
	return max, nil
}

// --- sequences ---------------------------------------------------------

// Sequence holds the state of one open sequence read, returned by
// BeginSequence and closed by its End method.
type Sequence struct {
	d        *Deserializer
	t        *schema.Type
	lfs      *wire.Width
	wasInTLV bool
	count    int
}

// BeginSequence opens a sequence read.
func (d *Deserializer) BeginSequence(t *schema.Type) (*Sequence, error) {
	lfs := t.WantedLengthField(d.opts.DefaultLengthFieldSize, d.inTLV)
	wasInTLV := d.inTLV
	if lfs != nil {
		if _, err := d.beginLengthDelimitedSection(d.openWidth(*lfs)); err != nil {
			return nil, err
		}
	} else {
		elemMax, ok := t.Sequence.ElementType.MaxLen()
		if !ok {
			panic("someip: codec: " + t.Describe() + " element type has no known size")
		}
		if err := d.beginKnownLengthDelimitedSection(t.Sequence.MaxElements * elemMax); err != nil {
			return nil, err
		}
	}
	return &Sequence{d: d, t: t, lfs: lfs, wasInTLV: wasInTLV}, nil
}

// HasNext reports whether the section has bytes left for another
// element. A caller should stop its loop as soon as this is false.
func (q *Sequence) HasNext() bool { return q.d.remaining() > 0 }

// Element decodes one element. keep is false when the element should
// be dropped: the DeserializerActionOnTooMuchData policy is Discard
// and this element pushed the count past max_elements, in which case
// the remaining section bytes have already been discarded and the
// caller should stop iterating (§4.4.2, §6.1). Under policy Fail, a
// call made once max_elements elements have been read returns
// TooMuchData without decoding anything.
func (q *Sequence) Element(decode func(d *Deserializer) error) (keep bool, err error) {
	if q.count >= q.t.Sequence.MaxElements && q.d.opts.DeserializerActionOnTooMuchData == options.Fail {
		return false, wire.TooMuchData(q.t.Sequence.MaxElements, q.count+1)
	}
	q.d.inTLV = false
	if err := decode(q.d); err != nil {
		return false, err
	}
	q.count++
	if q.count > q.t.Sequence.MaxElements {
		switch q.d.opts.DeserializerActionOnTooMuchData {
		case options.Fail:
			return false, wire.TooMuchData(q.t.Sequence.MaxElements, q.count)
		case options.Discard:
			if err := q.d.discard(q.d.remaining()); err != nil {
				return false, err
			}
			return false, nil
		}
	}
	return true, nil
}

// End closes the sequence, validating the element count and, if a
// length field was opened, closing it.
func (q *Sequence) End() error {
	if q.count < q.t.Sequence.MinElements {
		return wire.NotEnoughData(q.t.Sequence.MinElements, q.count)
	}
	q.d.inTLV = q.wasInTLV
	if q.lfs != nil {
		return q.d.endLengthDelimitedSection()
	}
	return nil
}

// --- structs -------------------------------------------------------

// Struct holds the state of one open struct read.
type Struct struct {
	d        *Deserializer
	t        *schema.Type
	lfs      *wire.Width
	wasInTLV bool
}

// BeginStruct opens a struct read.
func (d *Deserializer) BeginStruct(t *schema.Type) (*Struct, error) {
	lfs := t.WantedLengthField(d.opts.DefaultLengthFieldSize, d.inTLV)
	wasInTLV := d.inTLV
	if lfs != nil {
		if _, err := d.beginLengthDelimitedSection(d.openWidth(*lfs)); err != nil {
			return nil, err
		}
	}
	return &Struct{d: d, t: t, lfs: lfs, wasInTLV: wasInTLV}, nil
}

// Field reads one field of a plain, non-TLV struct in declaration
// order. Panics if name does not name a field of this struct or if
// the struct uses TLV — TLV structs are driven by NextField instead,
// since their fields arrive in wire order, not declaration order.
func (st *Struct) Field(name string, decode func(d *Deserializer) error) error {
	if st.t.Struct.UsesTLV {
		panic("someip: codec: Field called on TLV struct " + st.t.Struct.Name + ", use NextField")
	}
	if _, ok := st.t.Struct.FieldByName(name); !ok {
		panic("someip: codec: struct " + st.t.Struct.Name + " has no field named " + name)
	}
	st.d.inTLV = false
	return decode(st.d)
}

// NextField reads the next TLV tag, skipping and discarding tags for
// unknown field ids as it goes (§4.2, §7 "unknown tag" handling), and
// returns the field it names. ok is false once the struct's section
// is exhausted. The caller must decode exactly one value of the
// returned field's type before calling NextField again.
func (st *Struct) NextField() (*schema.Field, bool, error) {
	if !st.t.Struct.UsesTLV {
		panic("someip: codec: NextField called on non-TLV struct " + st.t.Struct.Name)
	}
	for st.d.remaining() > 0 {
		tag, err := st.readTag()
		if err != nil {
			return nil, false, err
		}
		wireType, id := wire.UnpackTag(tag)

		field, ok := st.t.Struct.FieldByID(id)
		if ok {
			if err := wire.Check(field.FieldType.WireType(), wireType); err != nil {
				return nil, false, err
			}
			if w, ok := wireType.LengthFieldWidth(); ok {
				st.d.nextOverrideLFS = &w
			}
			st.d.inTLV = true
			return field, true, nil
		}

		if size, ok := wireType.FixedSize(); ok {
			if err := st.d.discard(size); err != nil {
				return nil, false, err
			}
			continue
		}
		width, ok := wireType.LengthFieldWidth()
		if !ok {
			width = st.fallbackLengthFieldSize()
		}
		n, err := st.d.beginLengthDelimitedSection(width)
		if err != nil {
			return nil, false, err
		}
		if err := st.d.discard(n); err != nil {
			return nil, false, err
		}
		if err := st.d.endLengthDelimitedSection(); err != nil {
			return nil, false, err
		}
	}
	return nil, false, nil
}

func (st *Struct) readTag() (uint16, error) {
	b, err := st.d.readBytes(2)
	if err != nil {
		return 0, err
	}
	return st.d.order().Uint16(b), nil
}

// fallbackLengthFieldSize picks the width used to skip an unknown
// field whose tag did not itself carry a specific width (the
// TypeLengthDelimitedFromConfig code): the struct's own declared
// width, or the options default. Neither being set is a
// schema-contract violation, not a data error.
func (st *Struct) fallbackLengthFieldSize() wire.Width {
	if st.t.Struct.LengthFieldSize != nil {
		return *st.t.Struct.LengthFieldSize
	}
	if st.d.opts.DefaultLengthFieldSize != nil {
		return *st.d.opts.DefaultLengthFieldSize
	}
	panic("someip: codec: struct " + st.t.Struct.Name + " has an unknown TLV field with no length field size to skip it with")
}

// End closes the struct, restoring the enclosing in-TLV state.
func (st *Struct) End() error {
	st.d.inTLV = st.wasInTLV
	if st.lfs != nil {
		return st.d.endLengthDelimitedSection()
	}
	return nil
}
