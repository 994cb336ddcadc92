package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/someip/internal/wire"
)

// LoadYAML parses a minimal schema IDL and returns every named type it
// defines, keyed by name. It is the concrete realization of the
// "code generation from an IDL" / "builder API" option for producing
// schemas without writing Go: someipctl's encode/decode/schema
// commands all load a file through this function.
//
// The IDL is deliberately small — one YAML document, a top-level
// `types` map, each entry one of `primitive`, `enum`, `string`,
// `sequence` or `struct` — because the codec's job is to serialize
// values against a schema, not to be a general purpose IDL compiler.
// A document that cannot be resolved (unknown reference, cyclic
// struct, invalid invariant) is rejected by this loader before it
// ever reaches pkg/codec.
func LoadYAML(data []byte) (map[string]*Type, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("someip: schema: parsing YAML: %w", err)
	}

	resolved := make(map[string]*Type, len(doc.Types))
	resolving := make(map[string]bool, len(doc.Types))

	var resolve func(name string) (*Type, error)
	resolve = func(name string) (*Type, error) {
		if t, ok := resolved[name]; ok {
			return t, nil
		}
		if resolving[name] {
			return nil, fmt.Errorf("someip: schema: cyclic type reference involving %q", name)
		}
		node, ok := doc.Types[name]
		if !ok {
			return nil, fmt.Errorf("someip: schema: undefined type %q", name)
		}
		resolving[name] = true
		t, err := buildType(name, node, resolve)
		delete(resolving, name)
		if err != nil {
			return nil, err
		}
		resolved[name] = t
		return t, nil
	}

	for name := range doc.Types {
		if _, err := resolve(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

type yamlDocument struct {
	Types map[string]yamlType `yaml:"types"`
}

type yamlType struct {
	Kind string `yaml:"kind"`

	// primitive
	Primitive string `yaml:"primitive"`

	// enum
	RawType string            `yaml:"raw_type"`
	Values  map[string]int64 `yaml:"values"`

	// string / sequence shared bounds
	MinSize         *int `yaml:"min_size"`
	MaxSize         *int `yaml:"max_size"`
	LengthFieldSize *int `yaml:"length_field_size"`

	// sequence
	MinElements *int   `yaml:"min_elements"`
	MaxElements *int   `yaml:"max_elements"`
	Element     string `yaml:"element"`

	// struct
	TLV            bool            `yaml:"tlv"`
	MessageWrapper bool            `yaml:"message_wrapper"`
	Fields         []yamlStructField `yaml:"fields"`
}

type yamlStructField struct {
	Name     string `yaml:"name"`
	ID       *int   `yaml:"id"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
}

func buildType(name string, node yamlType, resolve func(string) (*Type, error)) (*Type, error) {
	switch node.Kind {
	case "primitive":
		k, err := primitiveKindFromString(node.Primitive)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		return OfPrimitive(k), nil

	case "enum":
		raw, err := primitiveKindFromString(node.RawType)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		values := make([]EnumValue, 0, len(node.Values))
		for vname, v := range node.Values {
			values = append(values, EnumValue{Name: vname, Value: v})
		}
		t, err := NewEnum(name, raw, values)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		return t, nil

	case "string":
		lfs, err := lengthFieldSizeFromYAML(node.LengthFieldSize)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		t, err := NewString(intOr(node.MinSize, 0), intOr(node.MaxSize, 0), lfs)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		return t, nil

	case "sequence":
		elem, err := resolve(node.Element)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: element %w", name, err)
		}
		lfs, err := lengthFieldSizeFromYAML(node.LengthFieldSize)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		t, err := NewSequence(intOr(node.MinElements, 0), intOr(node.MaxElements, 0), elem, lfs)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		return t, nil

	case "struct":
		lfs, err := lengthFieldSizeFromYAML(node.LengthFieldSize)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		fields := make([]Field, 0, len(node.Fields))
		for _, fn := range node.Fields {
			ft, err := resolve(fn.Type)
			if err != nil {
				return nil, fmt.Errorf("someip: schema: type %q: field %q: %w", name, fn.Name, err)
			}
			f := Field{Name: fn.Name, FieldType: ft, Optional: fn.Optional}
			if fn.ID != nil {
				id := uint16(*fn.ID)
				f.ID = &id
			}
			fields = append(fields, f)
		}
		t, err := NewStruct(name, fields, node.TLV, node.MessageWrapper, lfs)
		if err != nil {
			return nil, fmt.Errorf("someip: schema: type %q: %w", name, err)
		}
		return t, nil

	default:
		return nil, fmt.Errorf("someip: schema: type %q has unknown kind %q", name, node.Kind)
	}
}

func primitiveKindFromString(s string) (PrimitiveKind, error) {
	switch s {
	case "bool":
		return Bool, nil
	case "u8":
		return U8, nil
	case "u16":
		return U16, nil
	case "u32":
		return U32, nil
	case "u64":
		return U64, nil
	case "i8":
		return I8, nil
	case "i16":
		return I16, nil
	case "i32":
		return I32, nil
	case "i64":
		return I64, nil
	case "f32":
		return F32, nil
	case "f64":
		return F64, nil
	default:
		return 0, fmt.Errorf("unknown primitive kind %q", s)
	}
}

func lengthFieldSizeFromYAML(n *int) (*wire.Width, error) {
	if n == nil {
		return nil, nil
	}
	w := wire.Width(*n)
	if !w.Valid() {
		return nil, fmt.Errorf("invalid length_field_size %d, must be 1, 2 or 4", *n)
	}
	return &w, nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
