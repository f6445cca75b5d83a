// message.go
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

import "slices"

// Message is a decoded FIX message. The embedded FieldMap is the top level,
// so the typed getters read top-level fields directly. The promoted Len,
// Has, Tags and Fields likewise see only the top level; groups are reached
// through Groups and Group, and Equal compares the whole tree.
type Message struct {
	FieldMap
	raw    string
	groups []FieldMap
}

// NewMessage decodes raw. A malformed field yields no Message.
func NewMessage(raw string) (*Message, error) {
	body, groups, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return &Message{FieldMap: body, raw: raw, groups: groups}, nil
}

// Raw returns the text the message was decoded from.
func (m *Message) Raw() string { return m.raw }

// Groups returns the repeating-group instances in input order.
func (m *Message) Groups() []FieldMap { return slices.Clone(m.groups) }

// NumGroups returns the number of repeating-group instances.
func (m *Message) NumGroups() int { return len(m.groups) }

// Equal reports whether both messages hold the same top-level fields and
// the same groups in the same order.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.FieldMap.Equal(other.FieldMap) &&
		slices.EqualFunc(m.groups, other.groups, FieldMap.Equal)
}

// Group returns the i-th repeating-group instance.
func (m *Message) Group(i int) (FieldMap, bool) {
	if i < 0 || i >= len(m.groups) {
		return FieldMap{}, false
	}
	return m.groups[i], true
}
