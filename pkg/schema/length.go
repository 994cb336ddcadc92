package schema

import "github.com/marmos91/someip/internal/wire"

// declaredLengthFieldSize returns the length field width this node
// declares for itself, if any. Primitives, enums and structs without
// an explicit width have none; String/Sequence/Struct each carry an
// optional *wire.Width.
func (t *Type) declaredLengthFieldSize() *wire.Width {
	switch t.Kind {
	case KindString:
		return t.String.LengthFieldSize
	case KindSequence:
		return t.Sequence.LengthFieldSize
	case KindStruct:
		return t.Struct.LengthFieldSize
	default:
		return nil
	}
}

// needsLengthField reports whether this node requires a length field
// on the wire: either it is not constant-size, or it sits directly
// inside a TLV struct (where every field is length-delimited so the
// deserializer can skip unknown tags). A struct marked as a top-level
// message wrapper is the one exception to both rules: it never emits
// its own leading length field, even when TLV-tagged, since the
// transport framing (not the struct itself) is what bounds a message.
func (t *Type) needsLengthField(inTLV bool) bool {
	if t.Kind == KindStruct && t.Struct.IsMessageWrapper {
		return false
	}
	return !t.IsConstSize() || inTLV
}

// WantedLengthField resolves the length field width this node will be
// framed with, falling back to defaultLFS when the node itself
// declares none. It returns nil when no length field is needed at
// all.
//
// A node that needs a length field but has neither a declared one nor
// a usable default is a schema-contract violation, not a data error:
// it panics, the same way the codec treats any other malformed-schema
// condition that should have been caught by schema.Verify before the
// first byte was ever encoded.
func (t *Type) WantedLengthField(defaultLFS *wire.Width, inTLV bool) *wire.Width {
	if !t.needsLengthField(inTLV) {
		return nil
	}
	if w := t.declaredLengthFieldSize(); w != nil {
		return w
	}
	if defaultLFS != nil {
		return defaultLFS
	}
	panic("someip: schema: " + t.Describe() + " needs a length field but declares none and no default is configured")
}

// MaxLen returns the upper bound, in bytes, on this node's own encoded
// representation, not counting any length field framing it. Used by
// the deserializer to pre-validate a length prefix against the
// schema's bounds before it allocates or reads anything (§4.4.3,
// §4.4.4).
//
// ok is false when the node has no finite bound (e.g. a struct field
// whose own length field already constrains it, so no further check
// is meaningful at this level).
func (t *Type) MaxLen() (n int, ok bool) {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.Size(), true
	case KindEnum:
		return t.Enum.RawType.Size(), true
	case KindString:
		return t.String.MaxSize, true
	case KindSequence:
		if t.Sequence.IsByteSequence() {
			return t.Sequence.MaxElements, true
		}
		elemMax, ok := t.Sequence.ElementType.MaxLen()
		if !ok {
			return 0, false
		}
		return t.Sequence.MaxElements * elemMax, true
	case KindStruct:
		if t.Struct.UsesTLV {
			return 0, false
		}
		total := 0
		for _, f := range t.Struct.Fields {
			m, ok := f.FieldType.MaxLen()
			if !ok {
				return 0, false
			}
			total += m
		}
		return total, true
	default:
		return 0, false
	}
}

// MinLen is MaxLen's lower-bound counterpart, used by the deserializer
// to reject an under-length prefix early (§7 NotEnoughData).
func (t *Type) MinLen() (n int, ok bool) {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.Size(), true
	case KindEnum:
		return t.Enum.RawType.Size(), true
	case KindString:
		return t.String.MinSize, true
	case KindSequence:
		if t.Sequence.IsByteSequence() {
			return t.Sequence.MinElements, true
		}
		elemMin, ok := t.Sequence.ElementType.MinLen()
		if !ok {
			return 0, false
		}
		return t.Sequence.MinElements * elemMin, true
	case KindStruct:
		if t.Struct.UsesTLV {
			return 0, true
		}
		total := 0
		for _, f := range t.Struct.Fields {
			if f.Optional {
				continue
			}
			m, ok := f.FieldType.MinLen()
			if !ok {
				return 0, false
			}
			total += m
		}
		return total, true
	default:
		return 0, false
	}
}
