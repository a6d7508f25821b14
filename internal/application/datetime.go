package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// inputLayouts are tried in order. Layouts without a zone are read as UTC.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// DateTime is a timestamp that accepts zone-less ISO 8601 input and is
// always rendered as RFC 3339 in UTC.
type DateTime struct {
	time.Time
}

// ParseDateTime parses raw using the accepted layouts.
func ParseDateTime(raw string) (DateTime, error) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateTime{Time: t.UTC()}, nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid datetime %q, expected ISO 8601", raw)
}

// UnmarshalJSON implements json.Unmarshaler. Rejected input is reported as
// a *json.UnmarshalTypeError so the decoder attaches the field name.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return invalidValue(data, reflect.TypeOf(d).Elem())
	}
	parsed, err := ParseDateTime(raw)
	if err != nil {
		return invalidValue(data, reflect.TypeOf(d).Elem())
	}
	*d = parsed
	return nil
}

func invalidValue(data []byte, t reflect.Type) *json.UnmarshalTypeError {
	return &json.UnmarshalTypeError{Value: string(data), Type: t}
}

// MarshalJSON implements json.Marshaler.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(time.RFC3339Nano))
}
