package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/someip/internal/wire"
	"github.com/marmos91/someip/pkg/codec"
	"github.com/marmos91/someip/pkg/options"
	"github.com/marmos91/someip/pkg/schema"
)

func widthPtr(w wire.Width) *wire.Width { return &w }

// --- enum: §8 "encode Third → FA C7" ---------------------------------

type speedValue struct {
	ty  *schema.Type
	raw int64
}

func (v speedValue) EncodeSomeIP(s *codec.Serializer) error { return s.Enum(v.ty, v.raw) }

func (v *speedValue) DecodeSomeIP(d *codec.Deserializer) error {
	raw, err := d.Enum(v.ty)
	if err != nil {
		return err
	}
	v.raw = raw
	return nil
}

func speedSchema(t *testing.T) *schema.Type {
	t.Helper()
	ty, err := schema.NewEnum("Speed", schema.I16, []schema.EnumValue{
		{Name: "First", Value: 0},
		{Name: "Second", Value: 42},
		{Name: "Third", Value: -1337},
	})
	require.NoError(t, err)
	return ty
}

func TestEnumEncodeDecode(t *testing.T) {
	ty := speedSchema(t)
	o := options.Default()

	out, err := codec.Encode(o, ty, speedValue{ty: ty, raw: -1337})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFA, 0xC7}, out)

	got := speedValue{ty: ty}
	require.NoError(t, codec.DecodeSlice(o, ty, out, &got))
	assert.Equal(t, int64(-1337), got.raw)
}

func TestEnumRejectsUnknownValue(t *testing.T) {
	ty := speedSchema(t)
	o := options.Default()
	_, err := codec.Encode(o, ty, speedValue{ty: ty, raw: 7})
	require.Error(t, err)
	k, ok := codec.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, codec.KindInvalidEnumValue, k)
}

// --- non-TLV struct: §8 "first:i16, second:u32, third:Sequence(u8,1,5,lf=1)" ---

func frameSchema(t *testing.T, outerLFS *wire.Width) *schema.Type {
	t.Helper()
	seq, err := schema.NewSequence(1, 5, schema.OfPrimitive(schema.U8), widthPtr(wire.Width1))
	require.NoError(t, err)

	b := schema.NewBuilder("Frame").
		Field("first", schema.OfPrimitive(schema.I16)).
		Field("second", schema.OfPrimitive(schema.U32)).
		Field("third", seq)
	if outerLFS != nil {
		b = b.WithLengthFieldSize(*outerLFS)
	}
	ty, err := b.Build()
	require.NoError(t, err)
	return ty
}

func encodeFrame(t *testing.T, o options.Options, ty *schema.Type, first int16, second uint32, third []byte) []byte {
	t.Helper()
	s := codec.NewSerializer(o, nil)
	st, err := s.BeginStruct(ty)
	require.NoError(t, err)

	thirdField, ok := ty.Struct.FieldByName("third")
	require.True(t, ok)

	require.NoError(t, st.Field("first", true, func(s *codec.Serializer) error { return s.I16(first) }))
	require.NoError(t, st.Field("second", true, func(s *codec.Serializer) error { return s.U32(second) }))
	require.NoError(t, st.Field("third", true, func(s *codec.Serializer) error {
		return s.BytesField(thirdField.FieldType, third)
	}))
	require.NoError(t, st.End())
	return s.Bytes()
}

func decodeFrame(t *testing.T, o options.Options, ty *schema.Type, data []byte) (int16, uint32, []byte) {
	t.Helper()
	d := codec.NewDeserializer(o, data)
	st, err := d.BeginStruct(ty)
	require.NoError(t, err)

	thirdField, ok := ty.Struct.FieldByName("third")
	require.True(t, ok)

	var first int16
	var second uint32
	var third []byte
	require.NoError(t, st.Field("first", func(d *codec.Deserializer) (err error) { first, err = d.I16(); return }))
	require.NoError(t, st.Field("second", func(d *codec.Deserializer) (err error) { second, err = d.U32(); return }))
	require.NoError(t, st.Field("third", func(d *codec.Deserializer) (err error) {
		third, err = d.BytesField(thirdField.FieldType)
		return
	}))
	require.NoError(t, st.End())
	assert.Equal(t, 0, d.Remaining())
	return first, second, third
}

func TestNonTLVStructNoOuterLengthField(t *testing.T) {
	o := options.Default()
	ty := frameSchema(t, nil)

	out := encodeFrame(t, o, ty, -1, 42, []byte{1, 2, 3})
	assert.Equal(t, []byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x2A, 0x03, 0x01, 0x02, 0x03}, out)

	first, second, third := decodeFrame(t, o, ty, out)
	assert.Equal(t, int16(-1), first)
	assert.Equal(t, uint32(42), second)
	assert.Equal(t, []byte{1, 2, 3}, third)
}

func TestNonTLVStructWithOuterLengthField(t *testing.T) {
	o := options.Default()
	ty := frameSchema(t, widthPtr(wire.Width2))

	out := encodeFrame(t, o, ty, -1, 42, []byte{1, 2, 3})
	assert.Equal(t, []byte{0x00, 0x0A, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x2A, 0x03, 0x01, 0x02, 0x03}, out)

	first, second, third := decodeFrame(t, o, ty, out)
	assert.Equal(t, int16(-1), first)
	assert.Equal(t, uint32(42), second)
	assert.Equal(t, []byte{1, 2, 3}, third)
}

// --- TLV struct: §8 "TLV variant of the same struct with ids {1,2,3}" ---

func tlvFrameSchema(t *testing.T, outerLFS wire.Width) *schema.Type {
	t.Helper()
	seq, err := schema.NewSequence(1, 5, schema.OfPrimitive(schema.U8), widthPtr(wire.Width1))
	require.NoError(t, err)

	ty, err := schema.NewBuilder("Frame").
		WithTLV().
		TLVField("first", 1, schema.OfPrimitive(schema.I16), false).
		TLVField("second", 2, schema.OfPrimitive(schema.U32), false).
		TLVField("third", 3, seq, false).
		WithLengthFieldSize(outerLFS).
		Build()
	require.NoError(t, err)
	return ty
}

func TestTLVStructEncodeDecode(t *testing.T) {
	o := options.Default()
	ty := tlvFrameSchema(t, wire.Width2)

	s := codec.NewSerializer(o, nil)
	st, err := s.BeginStruct(ty)
	require.NoError(t, err)

	thirdField, ok := ty.Struct.FieldByName("third")
	require.True(t, ok)

	require.NoError(t, st.Field("first", true, func(s *codec.Serializer) error { return s.I16(-1) }))
	require.NoError(t, st.Field("second", true, func(s *codec.Serializer) error { return s.U32(42) }))
	require.NoError(t, st.Field("third", true, func(s *codec.Serializer) error {
		return s.BytesField(thirdField.FieldType, []byte{1, 2, 3})
	}))
	require.NoError(t, st.End())

	// §8: the third field's length field happens to already equal its
	// configured width (1 byte holds a measured length of 3), so its
	// tag stays TypeLengthDelimitedFromConfig(4) rather than being
	// upgraded to a specific-width code.
	want := []byte{
		0x00, 0x10, // outer length = 16
		0x10, 0x01, 0xFF, 0xFF, // first: tag(TwoBytes,id=1) -1
		0x20, 0x02, 0x00, 0x00, 0x00, 0x2A, // second: tag(FourBytes,id=2) 42
		0x40, 0x03, 0x03, 0x01, 0x02, 0x03, // third: tag(FromConfig,id=3) len=3 [1,2,3]
	}
	assert.Equal(t, want, s.Bytes())

	d := codec.NewDeserializer(o, s.Bytes())
	dst, err := d.BeginStruct(ty)
	require.NoError(t, err)

	var first int16
	var second uint32
	var third []byte
	for {
		f, ok, err := dst.NextField()
		require.NoError(t, err)
		if !ok {
			break
		}
		switch f.Name {
		case "first":
			first, err = d.I16()
		case "second":
			second, err = d.U32()
		case "third":
			third, err = d.BytesField(f.FieldType)
		}
		require.NoError(t, err)
	}
	require.NoError(t, dst.End())

	assert.Equal(t, int16(-1), first)
	assert.Equal(t, uint32(42), second)
	assert.Equal(t, []byte{1, 2, 3}, third)
}

func TestTLVStructUnknownTagIsSkipped(t *testing.T) {
	o := options.Default()
	ty := tlvFrameSchema(t, wire.Width2)

	s := codec.NewSerializer(o, nil)
	st, err := s.BeginStruct(ty)
	require.NoError(t, err)
	require.NoError(t, st.Field("first", true, func(s *codec.Serializer) error { return s.I16(-1) }))
	require.NoError(t, st.End())
	encoded := s.Bytes()

	// Splice an unknown tag/value pair (id=9, fixed OneByte wire-type)
	// into the section, growing the outer length field to match.
	unknown := []byte{0x00, 0x09, 0x7F}
	withUnknown := append(append([]byte{}, encoded[2:]...), unknown...)
	framed := make([]byte, 2+len(withUnknown))
	o.WireByteOrder().PutUint16(framed, uint16(len(withUnknown)))
	copy(framed[2:], withUnknown)

	d := codec.NewDeserializer(o, framed)
	dst, err := d.BeginStruct(ty)
	require.NoError(t, err)

	var first int16
	var sawFirst bool
	for {
		f, ok, err := dst.NextField()
		require.NoError(t, err)
		if !ok {
			break
		}
		require.Equal(t, "first", f.Name)
		first, err = d.I16()
		require.NoError(t, err)
		sawFirst = true
	}
	require.NoError(t, dst.End())

	assert.True(t, sawFirst)
	assert.Equal(t, int16(-1), first)
}

// --- TLV optional field: §8 "a:u32 (id=0), length_field_size=1" ---

func optionalFrameSchema(t *testing.T) *schema.Type {
	t.Helper()
	ty, err := schema.NewBuilder("Optional").
		WithTLV().
		TLVField("a", 0, schema.OfPrimitive(schema.U32), true).
		WithLengthFieldSize(wire.Width1).
		Build()
	require.NoError(t, err)
	return ty
}

func TestTLVOptionalFieldPresent(t *testing.T) {
	o := options.Default()
	ty := optionalFrameSchema(t)

	s := codec.NewSerializer(o, nil)
	st, err := s.BeginStruct(ty)
	require.NoError(t, err)
	require.NoError(t, st.Field("a", true, func(s *codec.Serializer) error { return s.U32(42) }))
	require.NoError(t, st.End())
	assert.Equal(t, []byte{0x06, 0x20, 0x00, 0x00, 0x00, 0x00, 0x2A}, s.Bytes())

	d := codec.NewDeserializer(o, s.Bytes())
	dst, err := d.BeginStruct(ty)
	require.NoError(t, err)
	f, ok, err := dst.NextField()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", f.Name)
	v, err := d.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)
	_, ok, err = dst.NextField()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, dst.End())
}

func TestTLVOptionalFieldAbsent(t *testing.T) {
	o := options.Default()
	ty := optionalFrameSchema(t)

	s := codec.NewSerializer(o, nil)
	st, err := s.BeginStruct(ty)
	require.NoError(t, err)
	require.NoError(t, st.Field("a", false, nil))
	require.NoError(t, st.End())
	assert.Equal(t, []byte{0x00}, s.Bytes())

	d := codec.NewDeserializer(o, s.Bytes())
	dst, err := d.BeginStruct(ty)
	require.NoError(t, err)
	_, ok, err := dst.NextField()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, dst.End())
}

func TestTLVOptionalFieldRequiredButAbsentPanics(t *testing.T) {
	o := options.Default()
	ty, err := schema.NewBuilder("Required").
		WithTLV().
		TLVField("a", 0, schema.OfPrimitive(schema.U32), false).
		WithLengthFieldSize(wire.Width1).
		Build()
	require.NoError(t, err)

	s := codec.NewSerializer(o, nil)
	st, err := s.BeginStruct(ty)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_ = st.Field("a", false, nil)
	})
}

// --- UTF-16 strings: §8 BE/LE scenarios ------------------------------

func TestUTF16BEStringNoBOM(t *testing.T) {
	o := options.Default()
	o.StringEncoding = options.Utf16Be
	ty, err := schema.NewString(0, 32, widthPtr(wire.Width1))
	require.NoError(t, err)

	s := codec.NewSerializer(o, nil)
	require.NoError(t, s.String(ty, "hi"))
	assert.Equal(t, []byte{0x04, 0x00, 0x68, 0x00, 0x69}, s.Bytes())

	d := codec.NewDeserializer(o, s.Bytes())
	got, err := d.String(ty)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestUTF16LEStringWithBOM(t *testing.T) {
	o := options.Default()
	o.StringEncoding = options.Utf16Le
	o.StringWithBOM = true
	ty, err := schema.NewString(0, 32, widthPtr(wire.Width1))
	require.NoError(t, err)

	s := codec.NewSerializer(o, nil)
	require.NoError(t, s.String(ty, "hi"))
	assert.Equal(t, []byte{0x06, 0xFF, 0xFE, 0x68, 0x00, 0x69, 0x00}, s.Bytes())

	d := codec.NewDeserializer(o, s.Bytes())
	got, err := d.String(ty)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

// --- decode_slice: trailing bytes are an error -----------------------

func TestDecodeSliceRejectsTrailingBytes(t *testing.T) {
	ty := speedSchema(t)
	o := options.Default()
	var got speedValue
	got.ty = ty
	err := codec.DecodeSlice(o, ty, []byte{0xFA, 0xC7, 0x00}, &got)
	require.Error(t, err)
	k, ok := codec.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, codec.KindNotAllBytesConsumed, k)
}
