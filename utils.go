package linkml

import (
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-json-experiment/json"
)

// replace substitutes "{key}" placeholders in template with the string form
// of the matching entry in params, the same substitution style the i18n
// message catalogs assume when no Localizer is supplied.
func replace(template string, params map[string]any) string {
	for key, value := range params {
		placeholder := "{" + key + "}"
		template = strings.ReplaceAll(template, placeholder, fmt.Sprint(value))
	}
	return template
}

// getDataType classifies a decoded instance value into one of the base
// range-type families named in spec.md §3: null, boolean, integer, number,
// string, array, object.
func getDataType(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		if _, ok := new(big.Int).SetString(string(val), 10); ok {
			return "integer"
		}
		if bigFloat, ok := new(big.Float).SetString(string(val)); ok {
			if _, acc := bigFloat.Int(nil); acc == big.Exact {
				return "integer"
			}
			return "number"
		}
		return "unknown"
	case float32, float64:
		bigFloat := new(big.Float).SetFloat64(reflect.ValueOf(val).Float())
		if _, acc := bigFloat.Int(nil); acc == big.Exact {
			return "integer"
		}
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case string:
		return "string"
	case []any:
		return "array"
	case *OrderedMap:
		return "object"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

// isAbsoluteURI reports whether urlStr parses as an absolute URI with both
// a scheme and a host, used when distinguishing a CURIE from a full IRI.
func isAbsoluteURI(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// expandCURIE expands "prefix:local" using the schema's prefix map,
// returning the input unchanged if it has no ':' or its prefix is
// undeclared and permissive is true; otherwise an error.
func expandCURIE(curie string, prefixes *OrderedMap, permissive bool) (string, error) {
	if isAbsoluteURI(curie) {
		return curie, nil
	}
	idx := strings.IndexByte(curie, ':')
	if idx <= 0 {
		return curie, nil
	}
	prefix, local := curie[:idx], curie[idx+1:]
	v, ok := prefixes.Get(prefix)
	if !ok {
		if permissive {
			return curie, nil
		}
		return "", fmt.Errorf("%w: %s", ErrPrefixUndefined, prefix)
	}
	base, _ := v.(string)
	return base + local, nil
}
