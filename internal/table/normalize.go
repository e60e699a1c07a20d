package table

import (
	"strings"

	"missviz/internal/model"
)

// flagValues lists every accepted raw encoding, keyed by its trimmed,
// lower-cased form.
var flagValues = map[string]bool{
	"true":  true,
	"1":     true,
	"1.0":   true,
	"false": false,
	"0":     false,
	"0.0":   false,
}

// ParseFlag converts one raw cell to a boolean.
func ParseFlag(raw string) (bool, bool) {
	v, ok := flagValues[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

// FormatFlag is the canonical text form of a flag, accepted by ParseFlag.
func FormatFlag(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// Normalize coerces every flag cell of raw to a boolean. The first value
// outside the accepted set aborts with a DataContractViolation.
func Normalize(raw *model.RawTable) (*model.Table, error) {
	t := &model.Table{
		Records: append([]model.Record(nil), raw.Records...),
		Columns: append([]model.FlagColumn(nil), raw.Columns...),
		Flags:   make([][]bool, len(raw.Values)),
	}
	for row, values := range raw.Values {
		if len(values) != len(raw.Columns) {
			return nil, &model.InternalInvariantError{Detail: "raw row width does not match column count"}
		}
		flags := make([]bool, len(values))
		for col, v := range values {
			b, ok := ParseFlag(v)
			if !ok {
				return nil, &model.DataContractViolation{
					Column: raw.Columns[col].Name,
					Row:    row + 1,
					Link:   raw.Records[row].Link,
					Value:  v,
					Reason: "not a recognized boolean (true/false/1/0)",
				}
			}
			flags[col] = b
		}
		t.Flags[row] = flags
	}
	return t, nil
}

// Denormalize renders t back into raw form using FormatFlag.
func Denormalize(t *model.Table) *model.RawTable {
	raw := &model.RawTable{
		Records: append([]model.Record(nil), t.Records...),
		Columns: append([]model.FlagColumn(nil), t.Columns...),
		Values:  make([][]string, len(t.Flags)),
	}
	for row, flags := range t.Flags {
		values := make([]string, len(flags))
		for col, f := range flags {
			values[col] = FormatFlag(f)
		}
		raw.Values[row] = values
	}
	return raw
}
