package models

import (
	"encoding/json"
	"strconv"
)

// Numeric accepts a JSON number or a quoted numeric string. Clients of the
// old API sent grades both ways, so both keep working.
type Numeric string

func (n *Numeric) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = Numeric(num.String())
	return nil
}

// Float parses the raw value as a float64.
func (n Numeric) Float() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// IsNumber reports whether the raw value parses as a number.
func (n Numeric) IsNumber() bool {
	_, err := n.Float()
	return err == nil
}

func (n Numeric) String() string { return string(n) }
