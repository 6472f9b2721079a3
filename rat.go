package linkml

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/go-json-experiment/json"
)

// Rat wraps a big.Rat so numeric minimum_value/maximum_value boundaries can
// be compared exactly rather than through float64 epsilon, per spec.md §8's
// boundary-value properties ("min <= v <= max using exact rational
// comparison where the declared range is itself exact").
type Rat struct {
	*big.Rat
}

// UnmarshalJSON implements json.Unmarshaler for Rat.
func (r *Rat) UnmarshalJSON(data []byte) error {
	var tmp any
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	converted, err := convertToBigRat(tmp)
	if err != nil {
		return err
	}

	r.Rat = converted
	return nil
}

// MarshalJSON implements json.Marshaler for Rat.
func (r *Rat) MarshalJSON() ([]byte, error) {
	formatted := FormatRat(r)
	if strings.Contains(formatted, "/") {
		return json.Marshal(formatted)
	}
	return []byte(formatted), nil
}

func convertToBigRat(data any) (*big.Rat, error) {
	var str string
	switch v := data.(type) {
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		str = fmt.Sprint(v)
	case string:
		str = v
	default:
		return nil, ErrUnsupportedRatType
	}

	numRat := new(big.Rat)
	if _, ok := numRat.SetString(str); !ok {
		return nil, ErrRatConversion
	}
	return numRat, nil
}

// NewRat builds a Rat from a numeric or numeric-string value, returning nil
// if the value cannot be parsed.
func NewRat(value any) *Rat {
	converted, err := convertToBigRat(value)
	if err != nil {
		return nil
	}
	return &Rat{converted}
}

// CompareRat reports -1, 0, or 1 comparing a to b, or an error if either
// side is nil.
func CompareRat(a, b *Rat) (int, error) {
	if a == nil || b == nil {
		return 0, ErrNilRatOperand
	}
	return a.Cmp(b.Rat), nil
}

// FormatRat renders r as a plain decimal string, trimming trailing zeros.
func FormatRat(r *Rat) string {
	if r == nil {
		return "null"
	}

	if r.IsInt() {
		return r.Num().String()
	}

	dec := r.FloatString(10)
	trimmed := strings.TrimRight(dec, "0")
	trimmed = strings.TrimRight(trimmed, ".")

	if trimmed == "" {
		return "0"
	}

	return trimmed
}
