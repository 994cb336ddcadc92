// Package dynamic lets someipctl encode and decode payloads against a
// schema loaded at runtime (schema.LoadYAML), without a compile-time Go
// type for every message. It bridges plain Go values — the same shapes
// encoding/json produces, map[string]any/[]any/string/json.Number/bool
// — to the codec's schema-driven Serializer/Deserializer, the way a
// reflection-free IDL runtime walks a descriptor instead of a generated
// struct.
package dynamic

import (
	"encoding/base64"
	"fmt"

	"github.com/marmos91/someip/internal/wire"
	"github.com/marmos91/someip/pkg/codec"
	"github.com/marmos91/someip/pkg/options"
	"github.com/marmos91/someip/pkg/schema"
)

// Encode serializes data against root, producing the same bytes a
// generated Encodable implementation of the same schema would.
func Encode(o options.Options, root *schema.Type, data any) ([]byte, error) {
	return codec.Encode(o, root, &encodable{t: root, data: data})
}

// Decode deserializes raw against root into plain Go values: structs
// become map[string]any, sequences become []any (or a []byte for a
// byte sequence), enums become their variant name, everything else its
// natural Go type.
func Decode(o options.Options, root *schema.Type, raw []byte) (any, error) {
	dec := &decodable{t: root}
	if err := codec.DecodeSlice(o, root, raw, dec); err != nil {
		return nil, err
	}
	return dec.result, nil
}

type encodable struct {
	t    *schema.Type
	data any
}

func (e *encodable) EncodeSomeIP(s *codec.Serializer) error {
	return encodeValue(s, e.t, e.data)
}

type decodable struct {
	t      *schema.Type
	result any
}

func (d *decodable) DecodeSomeIP(ds *codec.Deserializer) error {
	v, err := decodeValue(ds, d.t)
	if err != nil {
		return err
	}
	d.result = v
	return nil
}

func encodeValue(s *codec.Serializer, t *schema.Type, data any) error {
	switch t.Kind {
	case schema.KindPrimitive:
		return encodePrimitive(s, t.Primitive, data)
	case schema.KindEnum:
		raw, err := resolveEnumValue(t.Enum, data)
		if err != nil {
			return err
		}
		return s.Enum(t, raw)
	case schema.KindString:
		str, ok := data.(string)
		if !ok {
			return typeMismatch(t, "a string", data)
		}
		return s.String(t, str)
	case schema.KindSequence:
		return encodeSequence(s, t, data)
	case schema.KindStruct:
		return encodeStruct(s, t, data)
	default:
		return wire.Custom("dynamic: type has no kind set")
	}
}

func decodeValue(d *codec.Deserializer, t *schema.Type) (any, error) {
	switch t.Kind {
	case schema.KindPrimitive:
		return decodePrimitive(d, t.Primitive)
	case schema.KindEnum:
		raw, err := d.Enum(t)
		if err != nil {
			return nil, err
		}
		if ev, ok := t.Enum.ByValue(raw); ok {
			return ev.Name, nil
		}
		return raw, nil
	case schema.KindString:
		return d.String(t)
	case schema.KindSequence:
		return decodeSequence(d, t)
	case schema.KindStruct:
		return decodeStruct(d, t)
	default:
		return nil, wire.Custom("dynamic: type has no kind set")
	}
}

func typeMismatch(t *schema.Type, want string, got any) error {
	return wire.Custom(fmt.Sprintf("dynamic: %s expects %s, got %T", t.Describe(), want, got))
}

// --- sequences --------------------------------------------------------

func encodeSequence(s *codec.Serializer, t *schema.Type, data any) error {
	if t.Sequence.IsByteSequence() {
		b, err := asByteSlice(t, data)
		if err != nil {
			return err
		}
		return s.BytesField(t, b)
	}

	elems, ok := data.([]any)
	if !ok {
		return typeMismatch(t, "an array", data)
	}
	seq, err := s.BeginSequence(t, len(elems))
	if err != nil {
		return err
	}
	for _, el := range elems {
		if err := seq.Element(func(es *codec.Serializer) error {
			return encodeValue(es, t.Sequence.ElementType, el)
		}); err != nil {
			return err
		}
	}
	return seq.End()
}

func decodeSequence(d *codec.Deserializer, t *schema.Type) (any, error) {
	if t.Sequence.IsByteSequence() {
		return d.BytesField(t)
	}

	seq, err := d.BeginSequence(t)
	if err != nil {
		return nil, err
	}
	elems := make([]any, 0)
	for seq.HasNext() {
		var el any
		keep, err := seq.Element(func(ed *codec.Deserializer) error {
			v, err := decodeValue(ed, t.Sequence.ElementType)
			if err != nil {
				return err
			}
			el = v
			return nil
		})
		if err != nil {
			return nil, err
		}
		if keep {
			elems = append(elems, el)
		}
	}
	if err := seq.End(); err != nil {
		return nil, err
	}
	return elems, nil
}

// asByteSlice accepts either a base64-encoded string (the JSON-safe
// representation a prior Decode call would have produced) or a JSON
// array of small integers.
func asByteSlice(t *schema.Type, data any) ([]byte, error) {
	switch v := data.(type) {
	case string:
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("dynamic: %s: invalid base64: %w", t.Describe(), err)
		}
		return b, nil
	case []byte:
		return v, nil
	case []any:
		out := make([]byte, len(v))
		for i, el := range v {
			n, err := toUint64(el)
			if err != nil || n > 0xFF {
				return nil, typeMismatch(t, "a byte array", data)
			}
			out[i] = byte(n)
		}
		return out, nil
	default:
		return nil, typeMismatch(t, "a base64 string or byte array", data)
	}
}

// --- structs ------------------------------------------------------------

func encodeStruct(s *codec.Serializer, t *schema.Type, data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return typeMismatch(t, "an object", data)
	}

	st, err := s.BeginStruct(t)
	if err != nil {
		return err
	}
	for _, f := range t.Struct.Fields {
		fv, present := m[f.Name]
		if !present {
			if t.Struct.UsesTLV && f.Optional {
				if err := st.Field(f.Name, false, func(*codec.Serializer) error { return nil }); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("dynamic: struct %q is missing required field %q", t.Struct.Name, f.Name)
		}
		fieldType := f.FieldType
		fieldValue := fv
		if err := st.Field(f.Name, true, func(fs *codec.Serializer) error {
			return encodeValue(fs, fieldType, fieldValue)
		}); err != nil {
			return err
		}
	}
	return st.End()
}

func decodeStruct(d *codec.Deserializer, t *schema.Type) (any, error) {
	st, err := d.BeginStruct(t)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any, len(t.Struct.Fields))

	if t.Struct.UsesTLV {
		for {
			field, ok, err := st.NextField()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			v, err := decodeValue(d, field.FieldType)
			if err != nil {
				return nil, err
			}
			result[field.Name] = v
		}
	} else {
		for _, f := range t.Struct.Fields {
			fieldType := f.FieldType
			if err := st.Field(f.Name, func(fd *codec.Deserializer) error {
				v, err := decodeValue(fd, fieldType)
				if err != nil {
					return err
				}
				result[f.Name] = v
				return nil
			}); err != nil {
				return nil, err
			}
		}
	}

	if err := st.End(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- enums --------------------------------------------------------------

func resolveEnumValue(e *schema.Enum, data any) (int64, error) {
	if name, ok := data.(string); ok {
		ev, ok := e.ByName(name)
		if !ok {
			return 0, wire.InvalidEnumValue(name, e.Name)
		}
		return ev.Value, nil
	}
	return toInt64(data)
}
