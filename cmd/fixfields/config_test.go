package main

import (
	"io"
	"strings"
	"testing"
)

func TestLoadConfigFileAppliesValues(t *testing.T) {
	path := writeTemp(t, "fixfields.toml", `
validate = true
obfuscate = true
debug = true
colour = "no"
format = "json"
charset = "latin1"

[sensitive_tags]
"5001" = "Desk"
"11" = ""
`)

	opts, err := parseFlagsArgs(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if err := loadConfigFile(path, &opts); err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}

	if !opts.Validate || !opts.Obfuscate || !opts.Debug || opts.Format != "json" || opts.Charset != "latin1" {
		t.Errorf("config values not applied: %+v", opts)
	}
	if !opts.Colour.isSet || opts.Colour.value {
		t.Error("Expected colour forced off by config")
	}
	if opts.SensitiveTags[5001] != "Desk" {
		t.Error("Expected tag 5001 added to sensitive tags")
	}
	if _, ok := opts.SensitiveTags[11]; ok {
		t.Error("Expected empty alias to remove tag 11")
	}
	if opts.SensitiveTags[1] != "Account" {
		t.Error("Expected defaults kept")
	}
}

func TestLoadConfigFileFlagsWin(t *testing.T) {
	path := writeTemp(t, "fixfields.toml", "format = \"yaml\"\nvalidate = true\ncolour = \"yes\"\n")

	opts, err := parseFlagsArgs([]string{"-format=json", "-validate=false", "-colour=no"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if err := loadConfigFile(path, &opts); err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}

	if opts.Format != "json" || opts.Validate || opts.Colour.value {
		t.Errorf("Expected command-line flags to win, got %+v", opts)
	}
}

func TestLoadConfigFileUndefinedKeysKeepDefaults(t *testing.T) {
	path := writeTemp(t, "fixfields.toml", "debug = true\n")

	opts, err := parseFlagsArgs(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if err := loadConfigFile(path, &opts); err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}

	if opts.Format != "text" || opts.Colour.isSet {
		t.Errorf("Expected defaults for keys missing from the file, got %+v", opts)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "colour = \"no\"\nverbose = true\n",
		"bad colour":     "colour = \"sometimes\"\n",
		"bad tag":        "[sensitive_tags]\n\"abc\" = \"X\"\n",
		"negative tag":   "[sensitive_tags]\n\"-1\" = \"X\"\n",
		"wrong type":     "validate = \"yes\"\n",
		"invalid syntax": "format = \n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeTemp(t, "fixfields.toml", content)
			opts, err := parseFlagsArgs(nil, io.Discard)
			if err != nil {
				t.Fatal(err)
			}

			err = loadConfigFile(path, &opts)
			if err == nil || !strings.HasPrefix(err.Error(), "load config") {
				t.Errorf("Expected load config error, got %v", err)
			}
		})
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	var opts CLIOptions
	if err := loadConfigFile("/path/does/not/exist.toml", &opts); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestMergeSensitiveTagsIntoNilOptions(t *testing.T) {
	path := writeTemp(t, "fixfields.toml", "[sensitive_tags]\n\"7\" = \"Seven\"\n")

	var opts CLIOptions
	if err := loadConfigFile(path, &opts); err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}
	if opts.SensitiveTags[7] != "Seven" || opts.SensitiveTags[1] != "Account" {
		t.Errorf("unexpected sensitive tags %v", opts.SensitiveTags)
	}
}
