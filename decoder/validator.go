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
	"fmt"
	"strings"

	"github.com/stephenlclarke/fixfields/fix"
)

// ValidateMessage checks the BodyLength and CheckSum fields of a decoded
// message against its raw text. It returns one line per problem found.
func ValidateMessage(m *Message) []string {
	var errors []string

	errors = append(errors, validateBodyLengthField(m)...)
	errors = append(errors, validateChecksumField(m)...)

	return errors
}

func validateBodyLengthField(m *Message) []string {
	declared, present, err := m.GetNullableInt(fix.TagBodyLength)
	if !present && err == nil {
		return []string{"Missing required tag 9 (BodyLength)"}
	}
	if err != nil {
		return []string{fmt.Sprintf("Invalid BodyLength: %v", err)}
	}

	actual := CalculateBodyLength(m.Raw())
	if actual < 0 {
		return []string{"BodyLength cannot be verified without tag 9 and tag 10"}
	}
	if declared != actual {
		return []string{fmt.Sprintf("BodyLength mismatch: got %d, expected %d", declared, actual)}
	}
	return nil
}

func validateChecksumField(m *Message) []string {
	checkVal, ok := m.GetString(fix.TagCheckSum)
	if !ok {
		return []string{"Missing required checksum tag 10"}
	}
	if len(checkVal) != 3 {
		return []string{fmt.Sprintf("Invalid CheckSum %q: expected 3 digits", checkVal)}
	}

	declared, err := m.GetInt(fix.TagCheckSum)
	if err != nil {
		return []string{fmt.Sprintf("Invalid CheckSum: %v", err)}
	}

	expected := CalculateChecksum(m.Raw())
	if declared != expected {
		return []string{fmt.Sprintf("Checksum mismatch: got %s, expected %03d", checkVal, expected)}
	}
	return nil
}

// CalculateChecksum sums every byte up to and including the SOH before
// "10=", modulo 256. It returns -1 when the message has no CheckSum field.
func CalculateChecksum(msg string) int {
	cutoff := strings.Index(msg, fix.SOH+"10=")
	if cutoff == -1 {
		return -1
	}

	fragment := msg[:cutoff+1]
	sum := 0
	for i := 0; i < len(fragment); i++ {
		sum += int(fragment[i])
	}
	return sum % 256
}

// CalculateBodyLength counts the bytes after the BodyLength field up to and
// including the SOH before "10=". It returns -1 when either field is missing.
func CalculateBodyLength(msg string) int {
	start := strings.Index(msg, fix.SOH+"9=")
	if start == -1 {
		return -1
	}
	start++

	end := strings.IndexByte(msg[start:], fix.SOHByte)
	if end == -1 {
		return -1
	}
	bodyStart := start + end + 1

	cutoff := strings.Index(msg, fix.SOH+"10=")
	if cutoff == -1 || cutoff+1 < bodyStart {
		return -1
	}

	return cutoff + 1 - bodyStart
}
