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
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"sync"
)

// Obfuscator replaces values of sensitive FIX tags with stable aliases.
// It is safe for concurrent use.
type Obfuscator struct {
	enabled bool
	tags    map[int]string // tag -> alias prefix
	log     *slog.Logger

	mu      sync.Mutex
	aliases map[int]map[string]string // tag -> value -> alias
	counter map[int]int               // per-tag, for zero-padded suffixes
}

// CreateObfuscator constructs an Obfuscator for the given tag map.
// A disabled Obfuscator returns every line and value unchanged.
// First use of an alias is logged to log when it is non-nil.
func CreateObfuscator(tags map[int]string, enabled bool, log *slog.Logger) *Obfuscator {
	cp := make(map[int]string, len(tags))
	maps.Copy(cp, tags)

	return &Obfuscator{
		enabled: enabled,
		tags:    cp,
		log:     log,
		aliases: make(map[int]map[string]string),
		counter: make(map[int]int),
	}
}

// Enabled reports whether values will be replaced.
func (o *Obfuscator) Enabled() bool {
	return o != nil && o.enabled
}

// Line rewrites a single SOH-delimited FIX line, replacing values for
// sensitive tags. Fragments that are not tag=value pairs are left alone.
func (o *Obfuscator) Line(line string) string {
	if !o.Enabled() {
		return line
	}

	fields := strings.Split(line, SOH)

	for i, f := range fields {
		tagStr, val, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}

		// Log prefixes end up glued to the first tag ("INFO 8=FIX.4.4"),
		// so only the trailing digits count as the tag.
		prefix, digits := splitTrailingDigits(tagStr)
		tag, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}

		if masked := o.Value(tag, val); masked != val {
			fields[i] = prefix + digits + "=" + masked
		}
	}

	return strings.Join(fields, SOH)
}

// Value returns the alias for val when tag is sensitive, val otherwise.
func (o *Obfuscator) Value(tag int, val string) string {
	if !o.Enabled() {
		return val
	}

	name, sensitive := o.tags[tag]
	if !sensitive {
		return val
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	byValue, ok := o.aliases[tag]
	if !ok {
		byValue = make(map[string]string)
		o.aliases[tag] = byValue
	}

	alias, exists := byValue[val]
	if !exists {
		o.counter[tag]++
		alias = fmt.Sprintf("%s%04d", name, o.counter[tag])
		byValue[val] = alias

		if o.log != nil {
			o.log.Info("first use of sensitive value", "tag", tag, "name", name, "alias", alias)
		}
	}

	return alias
}

func splitTrailingDigits(s string) (prefix, digits string) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}
