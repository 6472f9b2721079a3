package linkml

import (
	"io"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/goccy/go-yaml"
)

// OrderedMap is an insertion-ordered string-keyed map, used everywhere the
// schema model or instance data model needs to preserve declaration order
// (classes, slots, enum values, object properties) per spec.md §3 and §5's
// determinism requirement that "generators that iterate maps must iterate in
// insertion order".
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty OrderedMap ready for use.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set inserts or updates the value for key, appending key to the insertion
// order only the first time it is seen.
func (m *OrderedMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, preserving the relative order of the remaining keys.
func (m *OrderedMap) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each key in insertion order, stopping early if fn
// returns false.
func (m *OrderedMap) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// decodeJSONNode reads one JSON value from dec into the Node representation
// (nil, bool, json Number via float64, string, []any, or *OrderedMap),
// preserving object key order. This is the JSON-equivalent decode path
// referenced by spec.md §6; it mirrors the teacher's token-level handling of
// "items" polymorphism in schema.go's UnmarshalJSON, generalized to an
// arbitrary value tree instead of a single struct.
func decodeJSONNode(dec *jsontext.Decoder) (any, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 'f':
		return false, nil
	case 't':
		return true, nil
	case '"':
		return tok.String(), nil
	case '0':
		return tok.Float(), nil
	case '[':
		var arr []any
		for dec.PeekKind() != ']' {
			v, err := decodeJSONNode(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.ReadToken(); err != nil { // consume ']'
			return nil, err
		}
		return arr, nil
	case '{':
		om := NewOrderedMap()
		for dec.PeekKind() != '}' {
			keyTok, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			v, err := decodeJSONNode(dec)
			if err != nil {
				return nil, err
			}
			om.Set(keyTok.String(), v)
		}
		if _, err := dec.ReadToken(); err != nil { // consume '}'
			return nil, err
		}
		return om, nil
	default:
		return nil, ErrNodeDecode
	}
}

// DecodeJSON parses JSON-equivalent bytes into the order-preserving Node
// representation used throughout schema and instance loading.
func DecodeJSON(data []byte) (any, error) {
	dec := jsontext.NewDecoder(bytesReader(data))
	return decodeJSONNode(dec)
}

// DecodeYAML parses YAML-equivalent bytes into the order-preserving Node
// representation, converting goccy/go-yaml's order-preserving yaml.MapSlice
// into OrderedMap so the resulting tree is format-agnostic from here on,
// exactly as the teacher's compiler.go treats "application/yaml" as just
// another decode path onto the same `any` shape it uses for JSON.
func DecodeYAML(data []byte) (any, error) {
	var raw yaml.MapSlice
	if err := yaml.Unmarshal(data, &raw); err == nil {
		return convertYAMLMapSlice(raw), nil
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, ErrYAMLUnmarshal
	}
	return convertYAMLValue(generic), nil
}

func convertYAMLMapSlice(ms yaml.MapSlice) *OrderedMap {
	om := NewOrderedMap()
	for _, item := range ms {
		key, ok := item.Key.(string)
		if !ok {
			key = toString(item.Key)
		}
		om.Set(key, convertYAMLValue(item.Value))
	}
	return om
}

func convertYAMLValue(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		return convertYAMLMapSlice(val)
	case yaml.MapItem:
		om := NewOrderedMap()
		key, ok := val.Key.(string)
		if !ok {
			key = toString(val.Key)
		}
		om.Set(key, convertYAMLValue(val.Value))
		return om
	case map[string]any:
		om := NewOrderedMap()
		for k, vv := range val {
			om.Set(k, convertYAMLValue(vv))
		}
		return om
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = convertYAMLValue(e)
		}
		return out
	default:
		return val
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

type byteReaderAt struct {
	data []byte
	pos  int
}

func (b *byteReaderAt) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

func bytesReader(data []byte) *byteReaderAt {
	return &byteReaderAt{data: data}
}
