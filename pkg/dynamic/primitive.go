package dynamic

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/marmos91/someip/pkg/codec"
	"github.com/marmos91/someip/pkg/schema"
)

func encodePrimitive(s *codec.Serializer, k schema.PrimitiveKind, data any) error {
	if k == schema.Bool {
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("dynamic: primitive bool expects a boolean, got %T", data)
		}
		return s.Bool(b)
	}

	if k == schema.F32 || k == schema.F64 {
		f, err := toFloat64(data)
		if err != nil {
			return err
		}
		if k == schema.F32 {
			return s.F32(float32(f))
		}
		return s.F64(f)
	}

	if k == schema.U64 {
		v, err := toUint64(data)
		if err != nil {
			return err
		}
		return s.U64(v)
	}

	v, err := toInt64(data)
	if err != nil {
		return err
	}
	switch k {
	case schema.U8:
		return s.U8(uint8(v))
	case schema.U16:
		return s.U16(uint16(v))
	case schema.U32:
		return s.U32(uint32(v))
	case schema.I8:
		return s.I8(int8(v))
	case schema.I16:
		return s.I16(int16(v))
	case schema.I32:
		return s.I32(int32(v))
	default:
		return s.I64(v)
	}
}

func decodePrimitive(d *codec.Deserializer, k schema.PrimitiveKind) (any, error) {
	switch k {
	case schema.Bool:
		return d.Bool()
	case schema.U8:
		return d.U8()
	case schema.U16:
		return d.U16()
	case schema.U32:
		return d.U32()
	case schema.U64:
		return d.U64()
	case schema.I8:
		return d.I8()
	case schema.I16:
		return d.I16()
	case schema.I32:
		return d.I32()
	case schema.I64:
		return d.I64()
	case schema.F32:
		return d.F32()
	default:
		return d.F64()
	}
}

// toInt64 and toUint64 accept the shapes a JSON decoder can hand back —
// float64 from the stdlib decoder, json.Number from one configured with
// UseNumber, plus the native Go integer kinds a caller might pass
// directly — so schema-driven encoding works the same whether data came
// off the wire, off disk, or out of a test.
func toInt64(data any) (int64, error) {
	switch v := data.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("dynamic: %q is not an integer: %w", v, err)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("dynamic: %q is not an integer: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("dynamic: expected an integer, got %T", data)
	}
}

func toUint64(data any) (uint64, error) {
	switch v := data.(type) {
	case uint64:
		return v, nil
	case int64:
		return uint64(v), nil
	case int:
		return uint64(v), nil
	case float64:
		return uint64(v), nil
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("dynamic: %q is not an unsigned integer: %w", v, err)
		}
		return n, nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("dynamic: %q is not an unsigned integer: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("dynamic: expected an unsigned integer, got %T", data)
	}
}

func toFloat64(data any) (float64, error) {
	switch v := data.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("dynamic: expected a number, got %T", data)
	}
}
