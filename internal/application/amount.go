package application

import (
	"bytes"
	"reflect"

	"github.com/shopspring/decimal"
)

// Amount is a decimal accepted as a JSON number or a numeric string.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return invalidValue(data, reflect.TypeOf(a).Elem())
	}
	a.Decimal = d
	return nil
}
