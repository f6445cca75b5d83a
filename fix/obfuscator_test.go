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
package fix

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func fixLine(pairs ...string) string {
	return strings.Join(pairs, SOH) + SOH
}

// testLogger records log output so tests can assert on first-use events.
func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestSplitTrailingDigits(t *testing.T) {
	cases := []struct {
		in     string
		prefix string
		digits string
	}{
		{"49", "", "49"},
		{"INFO 8", "INFO ", "8"},
		{"ABC", "ABC", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		p, d := splitTrailingDigits(c.in)
		if p != c.prefix || d != c.digits {
			t.Fatalf("splitTrailingDigits(%q)=(%q,%q), want (%q,%q)", c.in, p, d, c.prefix, c.digits)
		}
	}
}

func TestObfuscatorDisabledReturnsUnchanged(t *testing.T) {
	o := CreateObfuscator(SensitiveTags, false, nil)
	in := fixLine("8=FIX.4.4", "49=ABC", "56=DEF", "1=ACC")

	if out := o.Line(in); out != in {
		t.Fatalf("disabled obfuscator changed input:\n got: %q\nwant: %q", out, in)
	}
	if got := o.Value(49, "ABC"); got != "ABC" {
		t.Fatalf("Value() = %q, want unchanged", got)
	}
}

func TestNilObfuscatorIsDisabled(t *testing.T) {
	var o *Obfuscator
	if o.Enabled() {
		t.Fatal("nil obfuscator reported enabled")
	}
	if got := o.Line("49=ABC" + SOH); got != "49=ABC"+SOH {
		t.Fatalf("nil obfuscator changed input: %q", got)
	}
}

func TestObfuscatorNoSensitiveTagsReturnsUnchanged(t *testing.T) {
	o := CreateObfuscator(map[int]string{}, true, nil)
	in := fixLine("8=FIX.4.4", "11=OID1", "38=100", "40=2")

	if out := o.Line(in); out != in {
		t.Fatalf("no-sensitive obfuscator changed input:\n got: %q\nwant: %q", out, in)
	}
}

func TestObfuscatorObfuscatesSensitiveValuesWithStableAliases(t *testing.T) {
	sensitive := map[int]string{
		49: "SenderCompID",
		56: "TargetCompID",
		1:  "Account",
	}
	log, buf := testLogger()
	o := CreateObfuscator(sensitive, true, log)

	out1 := o.Line(fixLine("8=FIX.4.4", "49=ABC", "56=DEF", "1=ACC123", "11=OID1"))

	if !strings.Contains(out1, "49=SenderCompID0001"+SOH) ||
		!strings.Contains(out1, "56=TargetCompID0001"+SOH) ||
		!strings.Contains(out1, "1=Account0001"+SOH) ||
		!strings.Contains(out1, "11=OID1"+SOH) {
		t.Fatalf("unexpected obfuscation result:\n%s", repr(out1))
	}

	out2 := o.Line(fixLine("49=ABC", "56=NEWDEF", "1=ACC999", "11=OID2"))

	if !strings.Contains(out2, "49=SenderCompID0001"+SOH) {
		t.Fatalf("expected reuse of alias for 49=ABC; got:\n%s", repr(out2))
	}
	if !strings.Contains(out2, "56=TargetCompID0002"+SOH) {
		t.Fatalf("expected incremented alias for 56=NEWDEF; got:\n%s", repr(out2))
	}
	if !strings.Contains(out2, "1=Account0002"+SOH) {
		t.Fatalf("expected incremented alias for 1=ACC999; got:\n%s", repr(out2))
	}
	if !strings.Contains(out2, "11=OID2"+SOH) {
		t.Fatalf("expected non-sensitive field unchanged; got:\n%s", repr(out2))
	}

	// five distinct tag/value pairs were seen for the first time
	if n := strings.Count(buf.String(), "first use of sensitive value"); n != 5 {
		t.Fatalf("expected 5 first-use log records, got %d:\n%s", n, buf.String())
	}
}

func TestObfuscatorKeepsLogPrefix(t *testing.T) {
	o := CreateObfuscator(map[int]string{8: "Begin"}, true, nil)

	out := o.Line("INFO 8=FIX.4.4" + SOH)
	if out != "INFO 8=Begin0001"+SOH {
		t.Fatalf("unexpected result %s", repr(out))
	}
}

func TestObfuscatorIgnoresMalformedAndNonNumericTags(t *testing.T) {
	o := CreateObfuscator(map[int]string{49: "SenderCompID"}, true, nil)

	in := strings.Join([]string{
		"8=FIX.4.4",
		"=NOVALUE", // no key
		"NOEQUALS", // no '='
		"ABC=XYZ",  // non-numeric tag
		"49=",      // empty value (still sensitive; alias should be generated)
		"49=REAL",  // normal sensitive
	}, SOH) + SOH

	out := o.Line(in)

	if !strings.Contains(out, SOH+"=NOVALUE"+SOH) || !strings.Contains(out, SOH+"NOEQUALS"+SOH) || !strings.Contains(out, SOH+"ABC=XYZ"+SOH) {
		t.Fatalf("expected malformed/non-numeric pairs left intact; got:\n%s", repr(out))
	}
	if !strings.Contains(out, SOH+"49=SenderCompID0001"+SOH) {
		t.Fatalf("expected alias for empty sensitive value; got:\n%s", repr(out))
	}
	if !strings.Contains(out, SOH+"49=SenderCompID0002"+SOH) {
		t.Fatalf("expected incremented alias for second 49 value; got:\n%s", repr(out))
	}
}

func TestDefaultSensitiveTagsIsACopy(t *testing.T) {
	tags := DefaultSensitiveTags()
	tags[9999] = "Custom"

	if _, ok := SensitiveTags[9999]; ok {
		t.Fatal("DefaultSensitiveTags returned the package map")
	}
	if tags[1] != "Account" {
		t.Fatalf("expected Account for tag 1, got %q", tags[1])
	}
}

// repr provides a human-friendly escaped string for diagnostics
func repr(s string) string {
	return strings.ReplaceAll(s, SOH, "|SOH|")
}
