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
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/stephenlclarke/fixfields/fix"
	"gopkg.in/yaml.v3"
)

// Format selects how decoded messages are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a -format value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// MessageView is the structured form written by the json and yaml formats.
type MessageView struct {
	Raw    string         `json:"raw" yaml:"raw"`
	Fields []FieldValue   `json:"fields" yaml:"fields"`
	Groups [][]FieldValue `json:"groups,omitempty" yaml:"groups,omitempty"`
	Errors []string       `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewMessageView flattens m into ordered field lists. Values of tags that o
// treats as sensitive are replaced by their aliases; o may be nil.
func NewMessageView(m *Message, problems []string, o *fix.Obfuscator) MessageView {
	v := MessageView{
		Raw:    o.Line(m.Raw()),
		Fields: maskFields(m.Fields(), o),
		Errors: problems,
	}
	for _, g := range m.Groups() {
		v.Groups = append(v.Groups, maskFields(g.Fields(), o))
	}
	return v
}

func renderMessage(out io.Writer, m *Message, problems []string, separator string, format Format, o *fix.Obfuscator) error {
	switch format {
	case FormatJSON:
		// one document per line
		return json.NewEncoder(out).Encode(NewMessageView(m, problems, o))

	case FormatYAML:
		data, err := yaml.Marshal(NewMessageView(m, problems, o))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "---\n%s", data)
		return err

	default:
		fmt.Fprint(out, prettify(m, o))

		if len(problems) > 0 {
			fmt.Fprint(out, separator)
			for _, p := range problems {
				fmt.Fprintf(out, "%s== %s%s\n", ColourError, p, ColourReset)
			}
		}

		_, err := fmt.Fprint(out, separator)
		return err
	}
}
