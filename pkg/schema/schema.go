// Package schema fills documented defaults into loosely typed model output and reads values back leniently.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind describes the expected shape of a field.
type Kind int

const (
	// KindString is a scalar text value.
	KindString Kind = iota
	// KindInt is an integer value.
	KindInt
	// KindFloat is a numeric value.
	KindFloat
	// KindStrings is a list of text values.
	KindStrings
	// KindAny is any JSON value, typically a nested list of objects.
	KindAny
)

// Field is one key a model is asked to produce, plus what to use when it doesn't.
type Field struct {
	Name    string
	Kind    Kind
	Default any
	// ReplaceEmpty also applies the default when the model returned an empty string.
	ReplaceEmpty bool
}

// Schema is an ordered set of fields.
type Schema []Field

// String declares a text field.
func String(name, def string) (field Field) {
	field = Field{Name: name, Kind: KindString, Default: def}
	return field
}

// NonEmptyString declares a text field whose default also replaces an empty value.
func NonEmptyString(name, def string) (field Field) {
	field = Field{Name: name, Kind: KindString, Default: def, ReplaceEmpty: true}
	return field
}

// Int declares an integer field.
func Int(name string, def int) (field Field) {
	field = Field{Name: name, Kind: KindInt, Default: def}
	return field
}

// Float declares a numeric field.
func Float(name string, def float64) (field Field) {
	field = Field{Name: name, Kind: KindFloat, Default: def}
	return field
}

// Strings declares a list field defaulting to an empty list.
func Strings(name string) (field Field) {
	field = Field{Name: name, Kind: KindStrings, Default: []any{}}
	return field
}

// Any declares a free-form field.
func Any(name string, def any) (field Field) {
	field = Field{Name: name, Kind: KindAny, Default: def}
	return field
}

// Apply returns a copy of values with every absent field set to its default.
// Keys not named by the schema are kept as they are.
func (s Schema) Apply(values map[string]any) (record Record) {
	record = make(Record, len(values)+len(s))
	for k, v := range values {
		record[k] = v
	}

	for _, field := range s {
		value, ok := record[field.Name]
		missing := !ok || value == nil
		if !missing && field.ReplaceEmpty {
			if str, isStr := value.(string); isStr && strings.TrimSpace(str) == "" {
				missing = true
			}
		}
		if missing {
			record[field.Name] = field.Default
		}
	}

	return record
}

// Record is model output after defaults have been applied.
type Record map[string]any

// Has reports whether the key is present with a non-null value.
func (r Record) Has(name string) (ok bool) {
	value, present := r[name]
	ok = present && value != nil
	return ok
}

// String returns the value as text. Numbers are formatted and lists joined with ", ".
func (r Record) String(name string) (value string) {
	value = stringify(r[name])
	return value
}

// IntOK returns the value as an integer, and false when it isn't numeric.
// Values outside the int range saturate at math.MaxInt or math.MinInt.
func (r Record) IntOK(name string) (value int, ok bool) {
	var f float64
	f, ok = toFloat(r[name])
	if !ok {
		return value, ok
	}
	switch {
	case f >= float64(math.MaxInt):
		value = math.MaxInt
	case f <= float64(math.MinInt):
		value = math.MinInt
	default:
		value = int(f)
	}
	return value, ok
}

// Int returns the value as an integer, or zero when it isn't numeric.
func (r Record) Int(name string) (value int) {
	value, _ = r.IntOK(name)
	return value
}

// Float returns the value as a float, or zero when it isn't numeric.
func (r Record) Float(name string) (value float64) {
	value, _ = toFloat(r[name])
	return value
}

// Strings returns the value as a list of non-blank strings. A lone scalar becomes a one-item list.
func (r Record) Strings(name string) (values []string) {
	values = []string{}
	switch v := r[name].(type) {
	case nil:
	case []any:
		for _, item := range v {
			s := strings.TrimSpace(stringify(item))
			if s != "" {
				values = append(values, s)
			}
		}
	case []string:
		for _, item := range v {
			s := strings.TrimSpace(item)
			if s != "" {
				values = append(values, s)
			}
		}
	default:
		s := strings.TrimSpace(stringify(v))
		if s != "" {
			values = append(values, s)
		}
	}
	return values
}

// Decode round-trips the value through JSON into dst. On failure dst is left untouched and the error returned.
func (r Record) Decode(name string, dst any) (err error) {
	value, ok := r[name]
	if !ok || value == nil {
		return err
	}

	var data []byte
	data, err = json.Marshal(value)
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, dst)
	return err
}

func stringify(value any) (s string) {
	switch v := value.(type) {
	case nil:
		s = ""
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case json.Number:
		s = v.String()
	case bool:
		s = strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			part := stringify(item)
			if part != "" {
				parts = append(parts, part)
			}
		}
		s = strings.Join(parts, ", ")
	case map[string]any:
		data, err := json.Marshal(v)
		if err == nil {
			s = string(data)
		}
	default:
		s = fmt.Sprint(v)
	}
	return s
}

func toFloat(value any) (f float64, ok bool) {
	switch v := value.(type) {
	case float64:
		f, ok = v, true
	case float32:
		f, ok = float64(v), true
	case int:
		f, ok = float64(v), true
	case int64:
		f, ok = float64(v), true
	case json.Number:
		var err error
		f, err = v.Float64()
		ok = err == nil
	case string:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		ok = err == nil
	}
	if ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		f, ok = 0, false
	}
	return f, ok
}
