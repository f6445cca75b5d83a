// fixparser.go
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
	"strconv"
	"strings"

	"github.com/stephenlclarke/fixfields/fix"
)

// FieldValue is one decoded tag=value pair. Offset is the byte offset of the
// field in the message it was scanned from.
type FieldValue struct {
	Tag    int    `json:"tag" yaml:"tag"`
	Value  string `json:"value" yaml:"value"`
	Offset int    `json:"-" yaml:"-"`
}

// ParseFix scans msg left to right and returns its fields in input order.
// Text after the last SOH is not a complete field and is dropped. The first
// malformed field stops the scan with a *MalformedFieldError.
func ParseFix(msg string) ([]FieldValue, error) {
	out := make([]FieldValue, 0, strings.Count(msg, fix.SOH))

	for offset := 0; ; {
		end := strings.IndexByte(msg[offset:], fix.SOHByte)
		if end < 0 {
			break
		}

		fv, err := parseField(msg[offset:offset+end], offset)
		if err != nil {
			return nil, err
		}

		out = append(out, fv)
		offset += end + 1
	}

	return out, nil
}

func parseField(field string, offset int) (FieldValue, error) {
	tagStr, value, ok := strings.Cut(field, "=")
	if !ok {
		return FieldValue{}, &MalformedFieldError{Tag: field, Offset: offset, Err: ErrMissingEquals}
	}

	if !isDigits(tagStr) {
		return FieldValue{}, &MalformedFieldError{Tag: tagStr, Offset: offset, Err: ErrInvalidTag}
	}

	tag, err := strconv.Atoi(tagStr)
	if err != nil {
		// only reachable on overflow
		return FieldValue{}, &MalformedFieldError{Tag: tagStr, Offset: offset, Err: err}
	}

	return FieldValue{Tag: tag, Value: value, Offset: offset}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// scope is the fold accumulator: the top-level map, the groups opened so
// far and the index of the group receiving fields (-1 for none).
type scope struct {
	body    FieldMap
	groups  []FieldMap
	current int
}

func (s *scope) add(fv FieldValue) {
	if fv.Tag == fix.TagRptSeq {
		s.groups = append(s.groups, FieldMap{})
		s.current = len(s.groups) - 1
	}

	switch {
	case fv.Tag == fix.TagCheckSum:
		s.body.set(fv.Tag, fv.Value)
	case s.current >= 0:
		s.groups[s.current].set(fv.Tag, fv.Value)
	default:
		s.body.set(fv.Tag, fv.Value)
	}
}

// Decode splits raw into its top-level fields and the repeating groups
// opened by each RptSeq (83). CheckSum (10) always lands at the top level.
func Decode(raw string) (FieldMap, []FieldMap, error) {
	fields, err := ParseFix(raw)
	if err != nil {
		return FieldMap{}, nil, err
	}

	s := scope{current: -1}
	for _, fv := range fields {
		s.add(fv)
	}

	return s.body, s.groups, nil
}
