package domain

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Amount is a quantity or price as submitted by the client. Forms post numbers
// as strings, so both JSON numbers and numeric strings are accepted; anything
// else (absent, null, non-numeric text) decodes as zero.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case string:
		parsed, err := cast.ToFloat64E(strings.TrimSpace(x))
		if err != nil {
			parsed = 0
		}
		v = parsed
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	*a = Amount(v)
	return nil
}

// Float64 returns the amount as a float64
func (a Amount) Float64() float64 {
	return float64(a)
}
