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
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/stephenlclarke/fixfields/fix"
)

// fileConfig mirrors the command-line flags. Flags given explicitly on the
// command line win over the file.
type fileConfig struct {
	Validate      bool              `toml:"validate"`
	Obfuscate     bool              `toml:"obfuscate"`
	Debug         bool              `toml:"debug"`
	Colour        string            `toml:"colour"`
	Format        string            `toml:"format"`
	Charset       string            `toml:"charset"`
	SensitiveTags map[string]string `toml:"sensitive_tags"`
}

func loadConfigFile(path string, opts *CLIOptions) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("validate") && !opts.isExplicit("validate") {
		opts.Validate = raw.Validate
	}

	if meta.IsDefined("obfuscate") && !opts.isExplicit("obfuscate") {
		opts.Obfuscate = raw.Obfuscate
	}

	if meta.IsDefined("debug") && !opts.isExplicit("debug") {
		opts.Debug = raw.Debug
	}

	if meta.IsDefined("format") && !opts.isExplicit("format") {
		opts.Format = strings.TrimSpace(raw.Format)
	}

	if meta.IsDefined("charset") && !opts.isExplicit("charset") {
		opts.Charset = strings.TrimSpace(raw.Charset)
	}

	if meta.IsDefined("colour") && !opts.isExplicit("colour") {
		if err := opts.Colour.Set(strings.TrimSpace(raw.Colour)); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	if meta.IsDefined("sensitive_tags") {
		if opts.SensitiveTags == nil {
			opts.SensitiveTags = fix.DefaultSensitiveTags()
		}
		if err := mergeSensitiveTags(opts.SensitiveTags, raw.SensitiveTags); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	return nil
}

// mergeSensitiveTags adds tag = "Alias" entries to dst. An empty alias
// removes the tag.
func mergeSensitiveTags(dst map[int]string, src map[string]string) error {
	for key, name := range src {
		tag, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || tag <= 0 {
			return fmt.Errorf("sensitive_tags: invalid tag %q", key)
		}

		name = strings.TrimSpace(name)
		if name == "" {
			delete(dst, tag)
			continue
		}
		dst[tag] = name
	}
	return nil
}
