// fieldmap.go
/*
fixdecoder — FIX protocol decoder tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package decoder

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// Locale-free numeric grammar: optional sign, digits, '.' as the only
// decimal point. Doubles may carry an exponent.
var (
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
	doublePattern  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// FieldMap is one flat scope of FIX fields: the top level of a message or a
// single repeating-group instance. Values are kept as the raw text from the
// wire and only converted when a typed getter asks for them.
//
// A FieldMap is immutable once decoding has finished and is safe for
// concurrent readers. The zero value is an empty map.
type FieldMap struct {
	values map[int]string
	order  []int
}

func (m *FieldMap) set(tag int, value string) {
	if m.values == nil {
		m.values = make(map[int]string)
	}
	if _, seen := m.values[tag]; !seen {
		m.order = append(m.order, tag)
	}
	m.values[tag] = value
}

// Len returns the number of distinct tags.
func (m FieldMap) Len() int { return len(m.values) }

// Has reports whether tag is present.
func (m FieldMap) Has(tag int) bool {
	_, ok := m.values[tag]
	return ok
}

// Tags returns the tags in order of first appearance.
func (m FieldMap) Tags() []int { return slices.Clone(m.order) }

// Fields returns the tag/value pairs in order of first appearance.
func (m FieldMap) Fields() []FieldValue {
	out := make([]FieldValue, 0, len(m.order))
	for _, tag := range m.order {
		out = append(out, FieldValue{Tag: tag, Value: m.values[tag]})
	}
	return out
}

// Equal reports whether both maps hold the same tag/value pairs.
func (m FieldMap) Equal(other FieldMap) bool {
	if len(m.values) != len(other.values) {
		return false
	}
	for tag, v := range m.values {
		if ov, ok := other.values[tag]; !ok || ov != v {
			return false
		}
	}
	return true
}

// GetString returns the raw value of tag.
func (m FieldMap) GetString(tag int) (string, bool) {
	v, ok := m.values[tag]
	return v, ok
}

// GetInt parses tag as a base-10 signed 32-bit integer.
func (m FieldMap) GetInt(tag int) (int, error) {
	return required(m, tag, "int", parseInt)
}

// GetNullableInt is GetInt, but an absent tag reports false instead of an error.
func (m FieldMap) GetNullableInt(tag int) (int, bool, error) {
	return nullable(m, tag, "int", parseInt)
}

// GetLong parses tag as a base-10 signed 64-bit integer.
func (m FieldMap) GetLong(tag int) (int64, error) {
	return required(m, tag, "int64", parseLong)
}

// GetNullableLong is GetLong, but an absent tag reports false instead of an error.
func (m FieldMap) GetNullableLong(tag int) (int64, bool, error) {
	return nullable(m, tag, "int64", parseLong)
}

// GetDecimal parses tag as an exact decimal, e.g. "12.50". Exponents and
// any separator other than '.' are rejected.
func (m FieldMap) GetDecimal(tag int) (decimal.Decimal, error) {
	return required(m, tag, "decimal", parseDecimal)
}

// GetNullableDecimal is GetDecimal, but an absent tag reports false instead of an error.
func (m FieldMap) GetNullableDecimal(tag int) (decimal.Decimal, bool, error) {
	return nullable(m, tag, "decimal", parseDecimal)
}

// GetDouble parses tag as a float64 with an optional exponent.
func (m FieldMap) GetDouble(tag int) (float64, error) {
	return required(m, tag, "float64", parseDouble)
}

// GetNullableDouble is GetDouble, but an absent tag reports false instead of an error.
func (m FieldMap) GetNullableDouble(tag int) (float64, bool, error) {
	return nullable(m, tag, "float64", parseDouble)
}

// GetBoolean accepts exactly "Y" and "N".
func (m FieldMap) GetBoolean(tag int) (bool, error) {
	return required(m, tag, "bool", parseBoolean)
}

// GetNullableBoolean is GetBoolean, but an absent tag reports false instead of an error.
func (m FieldMap) GetNullableBoolean(tag int) (bool, bool, error) {
	return nullable(m, tag, "bool", parseBoolean)
}

func required[T any](m FieldMap, tag int, typ string, parse func(string) (T, error)) (T, error) {
	v, ok := m.values[tag]
	if !ok {
		var zero T
		return zero, &ConversionError{Tag: tag, Type: typ, Err: ErrTagNotFound}
	}
	return convert(tag, typ, v, parse)
}

func nullable[T any](m FieldMap, tag int, typ string, parse func(string) (T, error)) (T, bool, error) {
	v, ok := m.values[tag]
	if !ok {
		var zero T
		return zero, false, nil
	}
	out, err := convert(tag, typ, v, parse)
	if err != nil {
		return out, false, err
	}
	return out, true, nil
}

func convert[T any](tag int, typ, v string, parse func(string) (T, error)) (T, error) {
	out, err := parse(v)
	if err != nil {
		var zero T
		return zero, &ConversionError{Tag: tag, Type: typ, Value: v, Err: fmt.Errorf("%w: %w", ErrInvalidValue, err)}
	}
	return out, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	return int(n), err
}

func parseLong(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if !decimalPattern.MatchString(s) {
		return decimal.Decimal{}, errors.New("not a decimal literal")
	}
	return decimal.NewFromString(s)
}

func parseDouble(s string) (float64, error) {
	if !doublePattern.MatchString(s) {
		return 0, errors.New("not a floating point literal")
	}
	return strconv.ParseFloat(s, 64)
}

func parseBoolean(s string) (bool, error) {
	switch s {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, errors.New("want Y or N")
}
