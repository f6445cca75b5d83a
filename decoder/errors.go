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
)

var (
	// ErrMissingEquals is reported for a field with no '=' separator.
	ErrMissingEquals = errors.New("missing '='")
	// ErrInvalidTag is reported for a tag that is not a run of decimal digits.
	ErrInvalidTag = errors.New("invalid tag")
	// ErrTagNotFound is reported by non-nullable getters on an absent tag.
	ErrTagNotFound = errors.New("tag not found")
	// ErrInvalidValue is reported when a stored value does not parse as the requested type.
	ErrInvalidValue = errors.New("invalid value")
)

// MalformedFieldError aborts a decode. Tag holds the text before the first
// '=' (the whole segment when there is none) and Offset the byte offset of
// the segment in the raw message.
type MalformedFieldError struct {
	Tag    string
	Offset int
	Err    error
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed field %q at offset %d: %v", e.Tag, e.Offset, e.Err)
}

func (e *MalformedFieldError) Unwrap() error { return e.Err }

// ConversionError is returned by the typed getters. It is scoped to one call
// and leaves the FieldMap usable.
type ConversionError struct {
	Tag   int
	Type  string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	if errors.Is(e.Err, ErrTagNotFound) {
		return fmt.Sprintf("tag %d: cannot convert to %s: %v", e.Tag, e.Type, e.Err)
	}
	return fmt.Sprintf("tag %d: cannot convert %q to %s: %v", e.Tag, e.Value, e.Type, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
