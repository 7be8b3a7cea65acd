package schema

import (
	"encoding/json"
	"strings"
)

// Text is a string that decodes from whatever JSON a model decided to put there.
// Numbers and booleans are formatted, arrays are joined with "; ", null is empty.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) (err error) {
	var value any
	err = json.Unmarshal(data, &value)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			part := strings.TrimSpace(stringify(item))
			if part != "" {
				parts = append(parts, part)
			}
		}
		*t = Text(strings.Join(parts, "; "))
	default:
		*t = Text(stringify(v))
	}

	return err
}

// String returns the plain string.
func (t Text) String() (s string) {
	s = string(t)
	return s
}

// List is a []string that also decodes from a lone scalar or from arrays of mixed values.
type List []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) (err error) {
	var value any
	err = json.Unmarshal(data, &value)
	if err != nil {
		return err
	}

	*l = List(Record{"v": value}.Strings("v"))

	return err
}
