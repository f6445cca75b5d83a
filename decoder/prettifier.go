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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/stephenlclarke/fixfields/fix"
	"golang.org/x/net/html/charset"
	"golang.org/x/term"
)

var (
	decodeMessage = NewMessage
	streamLogFunc = streamLog
	getTermSize   = term.GetSize // allow override in tests
)

var fixMessagePattern = regexp.MustCompile(`8=FIX.*?10=\d{3}\x01`)

const maxLineBytes = 1 << 20

var (
	ColourReset = "\033[0m"
	ColourLine  = "\033[38;5;244m"
	ColourTag   = "\033[38;5;81m"
	ColourGroup = "\033[38;5;151m"
	ColourValue = "\033[38;5;228m"
	ColourFile  = "\033[95m"
	ColourError = "\033[31m"
	ColourMsg   = "\033[97m"
	ColourTitle = "\033[31m"
)

func DisableColours() {
	ColourReset = ""
	ColourLine = ""
	ColourTag = ""
	ColourGroup = ""
	ColourValue = ""
	ColourFile = ""
	ColourError = ""
	ColourMsg = ""
	ColourTitle = ""
}

// StreamOptions controls how PrettifyFiles reads and renders its input.
type StreamOptions struct {
	Format     Format
	Charset    string // IANA label of the input encoding; empty means UTF-8
	Validate   bool
	Obfuscator *fix.Obfuscator
	Logger     *slog.Logger
}

func (o StreamOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o StreamOptions) text() bool {
	return o.Format == "" || o.Format == FormatText
}

// PrettifySimple decodes a single message and renders it as text.
func PrettifySimple(msg string) (string, error) {
	m, err := decodeMessage(msg)
	if err != nil {
		return "", err
	}
	return Prettify(m), nil
}

// Prettify renders the top-level fields of m followed by one block per
// repeating group.
func Prettify(m *Message) string {
	return prettify(m, nil)
}

// prettify is Prettify with sensitive values replaced by o.
func prettify(m *Message, o *fix.Obfuscator) string {
	var sb strings.Builder

	writeFields(&sb, maskFields(m.Fields(), o), "    ")

	for i, g := range m.Groups() {
		fmt.Fprintf(&sb, "  %sGroup %d%s\n", ColourGroup, i+1, ColourReset)
		writeFields(&sb, maskFields(g.Fields(), o), "      ")
	}

	return sb.String()
}

func maskFields(fields []FieldValue, o *fix.Obfuscator) []FieldValue {
	if !o.Enabled() {
		return fields
	}
	for i := range fields {
		fields[i].Value = o.Value(fields[i].Tag, fields[i].Value)
	}
	return fields
}

func writeFields(sb *strings.Builder, fields []FieldValue, indent string) {
	for _, fv := range fields {
		fmt.Fprintf(sb, "%s%s%4d%s: %s%s%s\n",
			indent,
			ColourTag, fv.Tag, ColourReset,
			ColourValue, fv.Value, ColourReset,
		)
	}
}

// PrettifyFiles decodes every FIX message found in the given files and
// writes them to out. "-" (or no paths at all) reads stdin. It returns 1 if
// any file could not be read or any message failed to decode.
func PrettifyFiles(paths []string, out io.Writer, errOut io.Writer, opts StreamOptions) int {
	hadError := false

	if len(paths) == 0 {
		paths = []string{"-"}
	}

	for _, path := range paths {
		var (
			r io.Reader
			c io.Closer // nil when reading stdin
		)

		if path == "-" {
			if opts.text() {
				fmt.Fprint(out, "Processing: (stdin)\n\n")
			}
			r = os.Stdin
		} else {
			if opts.text() {
				fmt.Fprint(out, "Processing: ", ColourFile, path, ColourReset, "\n\n")
			}

			f, err := os.Open(path)
			if err != nil {
				fmt.Fprintln(errOut, ColourError+"Cannot open file:"+err.Error()+ColourReset)
				hadError = true
				continue
			}

			r, c = f, f
		}

		failed, err := streamLogFunc(r, out, opts)
		if err != nil {
			fmt.Fprintln(errOut, ColourError+"Error reading input:"+err.Error()+ColourReset)
			hadError = true
		}
		if failed > 0 {
			opts.logger().Warn("messages failed to decode", "path", path, "count", failed)
			hadError = true
		}

		if c != nil {
			c.Close()
		}
	}

	if hadError {
		return 1
	}

	return 0
}

// streamLog processes in line by line and returns how many embedded FIX
// messages failed to decode.
func streamLog(in io.Reader, out io.Writer, opts StreamOptions) (int, error) {
	if opts.Charset != "" {
		decoded, err := charset.NewReaderLabel(opts.Charset, in)
		if err != nil {
			return 0, fmt.Errorf("charset %q: %w", opts.Charset, err)
		}
		in = decoded
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	separator := ColourTitle + strings.Repeat("=", getTerminalWidth()) + ColourReset + "\n"
	failed := 0

	for scanner.Scan() {
		failed += handleLogLine(scanner.Text(), out, separator, opts)
	}

	return failed, scanner.Err()
}

// handleLogLine decodes and validates the messages of the unmasked line.
// Obfuscation applies to output only.
func handleLogLine(line string, out io.Writer, separator string, opts StreamOptions) int {
	matches := findFixMessageIndices(line)
	shown := opts.Obfuscator.Line(line)

	if len(matches) == 0 {
		if opts.text() {
			fmt.Fprint(out, ColourLine, shown, ColourReset, "\n")
		}
		return 0
	}

	fixMessages, _ := extractFixMessagesAndFormat(line, matches)
	if opts.text() {
		_, colouredLine := extractFixMessagesAndFormat(shown, findFixMessageIndices(shown))
		fmt.Fprint(out, colouredLine)
		fmt.Fprint(out, separator)
	}

	failed := 0
	for _, msg := range fixMessages {
		if !processFixMessage(msg, out, separator, opts) {
			failed++
		}
	}
	return failed
}

func processFixMessage(raw string, out io.Writer, separator string, opts StreamOptions) bool {
	log := opts.logger()

	m, err := decodeMessage(raw)
	if err != nil {
		attrs := []any{"error", err}
		var mf *MalformedFieldError
		if errors.As(err, &mf) {
			attrs = append(attrs, "tag", mf.Tag, "offset", mf.Offset)
		}
		log.Error("decode failed", attrs...)

		if opts.text() {
			fmt.Fprintf(out, "%s== %v%s\n", ColourError, err, ColourReset)
			fmt.Fprint(out, separator)
		}
		return false
	}

	log.Debug("decoded message", "fields", m.Len(), "groups", m.NumGroups())

	var problems []string
	if opts.Validate {
		problems = ValidateMessage(m)
		for _, p := range problems {
			log.Warn("validation failed", "problem", p)
		}
	}

	if err := renderMessage(out, m, problems, separator, opts.Format, opts.Obfuscator); err != nil {
		log.Error("render failed", "format", string(opts.Format), "error", err)
	}

	return true
}

func getTerminalWidth() int {
	if w, _, err := getTermSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func findFixMessageIndices(line string) [][]int {
	return fixMessagePattern.FindAllStringIndex(line, -1)
}

func extractFixMessagesAndFormat(line string, matches [][]int) ([]string, string) {
	var (
		output      strings.Builder
		lastIndex   int
		fixMessages []string
	)

	for _, match := range matches {
		start, end := match[0], match[1]
		before := line[lastIndex:start]
		fixPart := line[start:end]

		output.WriteString(ColourLine + before + ColourMsg + fixPart)
		fixMessages = append(fixMessages, fixPart)
		lastIndex = end
	}

	// Append remaining part of the line after last FIX message
	output.WriteString(ColourLine + line[lastIndex:] + ColourReset + "\n")

	return fixMessages, output.String()
}
