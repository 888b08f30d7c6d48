// Package flex provides JSON scalar types that tolerate the loose typing of
// the upstream bibliographic APIs (numbers sent as strings and vice versa).
package flex

import (
	"fmt"
	"strconv"

	"github.com/segmentio/encoding/json"
)

// String can unmarshal from either string or number JSON values.
// A JSON null decodes to the empty string.
type String string

func (f *String) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = String(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = String(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = String(strconv.FormatBool(b))
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into flex.String", string(data))
}

func (f String) String() string {
	return string(f)
}

// Int parses the value as a base-10 integer. Floats with no fractional
// part ("2019.0") are accepted.
func (f String) Int() (int, bool) {
	if i, err := strconv.Atoi(string(f)); err == nil {
		return i, true
	}
	if v, err := strconv.ParseFloat(string(f), 64); err == nil && v == float64(int(v)) {
		return int(v), true
	}
	return 0, false
}
