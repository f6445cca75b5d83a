// main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/stephenlclarke/fixfields/decoder"
	"github.com/stephenlclarke/fixfields/fix"
	"golang.org/x/term"
)

// Version, Branch, GitUrl, Sha are injected at build time via -ldflags
var (
	Version = "0.0.0"
	Branch  = "main"
	GitUrl  = "git@github.com:stephenlclarke/fixfields.git"
	Sha     = "0000000"
)

var isTerminal = term.IsTerminal // allow override in tests

type colourFlag struct {
	isSet bool
	value bool
}

func (c *colourFlag) String() string {
	if c.value {
		return "true"
	}
	return "false"
}

func (c *colourFlag) Set(s string) error {
	c.isSet = true
	s = strings.ToLower(s)
	switch s {
	case "", "true", "yes":
		c.value = true
	case "false", "no":
		c.value = false
	case "auto":
		c.isSet, c.value = false, false
	default:
		return fmt.Errorf("invalid value for -colour: %q", s)
	}
	return nil
}

func (c *colourFlag) IsBoolFlag() bool {
	return true
}

// CLIOptions holds all parsed flag values.
type CLIOptions struct {
	ConfigPath    string
	Validate      bool
	Obfuscate     bool
	Debug         bool
	Format        string
	Charset       string
	Colour        colourFlag
	SensitiveTags map[int]string
	Files         []string

	explicit map[string]bool // flags given on the command line
}

func (o CLIOptions) isExplicit(name string) bool {
	return o.explicit[name]
}

// parseFlagsArgs parses command-line arguments using a fresh FlagSet.
func parseFlagsArgs(args []string, errOut io.Writer) (CLIOptions, error) {
	var colour colourFlag

	fs := flag.NewFlagSet("fixfields", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "Path to a TOML config file")
	validate := fs.Bool("validate", false, "Check BodyLength and CheckSum of each message")
	obfuscate := fs.Bool("obfuscate", false, "Replace values of sensitive tags with aliases")
	debug := fs.Bool("debug", false, "Log every decoded message")
	format := fs.String("format", "text", "Output format (text|json|yaml)")
	charsetLabel := fs.String("charset", "", "Encoding of the input, e.g. latin1 (default UTF-8)")
	fs.Var(&colour, "colour", "Force coloured output (yes|no|auto). Default: auto-detect based on stdout")

	fs.Usage = func() {
		PrintUsage(errOut)
		fmt.Fprintln(errOut, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return CLIOptions{}, err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	return CLIOptions{
		ConfigPath:    *configPath,
		Validate:      *validate,
		Obfuscate:     *obfuscate,
		Debug:         *debug,
		Format:        *format,
		Charset:       *charsetLabel,
		Colour:        colour,
		SensitiveTags: fix.DefaultSensitiveTags(),
		Files:         extractFileArgsOrStdin(fs.Args()),
		explicit:      explicit,
	}, nil
}

// PrintUsage prints the program usage.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "fixfields %s (branch:%s, commit:%s)\n\n", Version, Branch, Sha)
	fmt.Fprintf(w, "  git clone %s\n\n", GitUrl)
	fmt.Fprintln(w, "Usage: fixfields [-config=FILE] [-validate] [-obfuscate] [-format=text|json|yaml]")
	fmt.Fprintln(w, "                 [-charset=LABEL] [-colour=yes|no|auto] [-debug] [file1.log file2.log ...]")
}

// extractFileArgsOrStdin returns the positional arguments, or []{"-"} when
// there are none, which decoder.PrettifyFiles reads as os.Stdin.
func extractFileArgsOrStdin(args []string) []string {
	var files []string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") || a == "-" {
			files = append(files, a)
		}
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	return files
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Process is the entry point: parses flags and config, decodes the inputs
// and returns an exit code.
func Process(args []string, out, errOut io.Writer) int {
	opts, err := parseFlagsArgs(args, errOut)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	if opts.ConfigPath != "" {
		if err := loadConfigFile(opts.ConfigPath, &opts); err != nil {
			fmt.Fprintln(errOut, decoder.ColourError+err.Error()+decoder.ColourReset)
			return 1
		}
	}

	format, err := decoder.ParseFormat(opts.Format)
	if err != nil {
		fmt.Fprintln(errOut, decoder.ColourError+err.Error()+decoder.ColourReset)
		return 1
	}

	if !opts.Colour.isSet {
		if !isTerminal(int(os.Stdout.Fd())) {
			decoder.DisableColours()
		}
	} else if !opts.Colour.value {
		decoder.DisableColours()
	}

	logger := newLogger(errOut, opts.Debug)

	return decoder.PrettifyFiles(opts.Files, out, errOut, decoder.StreamOptions{
		Format:     format,
		Charset:    opts.Charset,
		Validate:   opts.Validate,
		Obfuscator: fix.CreateObfuscator(opts.SensitiveTags, opts.Obfuscate, logger),
		Logger:     logger,
	})
}

func main() {
	os.Exit(Process(os.Args[1:], os.Stdout, os.Stderr))
}
