// Command xgrammar compiles a JSON Schema document into an EBNF grammar.
//
// Usage:
//
//	xgrammar [flags] <schema-file>
//
// Flags:
//
//	--strict          Reject unrecognized keywords instead of ignoring them
//	--any-whitespace  Allow arbitrary whitespace between tokens
//	--indent int      Pretty-print with N-space indentation (ignored when --any-whitespace is set)
//	--format string   Input format: json or yaml (default: auto-detect by extension)
//	--verbose         Verbose output
//	--stats           Print grammar size statistics to stderr
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-json-experiment/json"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/kaptinlin/xgrammar"
)

var stageHeader = color.New(color.FgCyan, color.Bold).SprintFunc()

var (
	strict        = pflag.Bool("strict", false, "reject unrecognized schema keywords")
	anyWhitespace = pflag.Bool("any-whitespace", false, "allow arbitrary whitespace between tokens")
	indent        = pflag.Int("indent", -1, "pretty-print with N-space indentation (-1 disables)")
	format        = pflag.String("format", "", "input format: json or yaml (default: auto-detect by extension)")
	verbose       = pflag.Bool("verbose", false, "verbose output")
	stats         = pflag.Bool("stats", false, "print grammar size statistics to stderr")
	help          = pflag.Bool("help", false, "show help message")
)

func main() {
	pflag.Parse()

	if *help || pflag.NArg() != 1 {
		showHelp()
		if *help {
			return
		}
		os.Exit(2)
	}

	path := pflag.Arg(0)
	runID := uuid.NewString()

	if *verbose {
		log.Printf("%s run %s", stageHeader("🚀 Starting"), runID)
		log.Printf("📄 input schema: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("❌ failed to read %s: %v", path, err)
	}

	schemaJSON, err := toJSON(path, raw)
	if err != nil {
		log.Fatalf("❌ failed to load schema: %v", err)
	}

	opts := xgrammar.Options{
		AnyWhitespace: *anyWhitespace,
		StrictMode:    *strict,
	}
	if *indent >= 0 {
		v := *indent
		opts.Indent = &v
	}

	if *verbose {
		log.Printf("%s strict=%v any_whitespace=%v indent=%v", stageHeader("⚙️  Compiling"), opts.StrictMode, opts.AnyWhitespace, opts.Indent)
	}

	text, err := xgrammar.CompileToEBNF(schemaJSON, opts)
	if err != nil {
		log.Fatalf("❌ compilation failed: %v", err)
	}

	if *verbose {
		log.Printf("%s", stageHeader("✅ Done"))
	}

	fmt.Print(text)

	if *stats {
		lines := strings.Count(text, "\n")
		fmt.Fprintf(os.Stderr, "📊 grammar: %s rules, %s bytes\n",
			humanize.Comma(int64(lines)), humanize.Bytes(uint64(len(text))))
	}
}

// toJSON normalizes the input document to JSON bytes, detecting YAML input
// either from --format or the file extension.
func toJSON(path string, raw []byte) ([]byte, error) {
	useYAML := *format == "yaml"
	if *format == "" {
		useYAML = strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
	}
	if !useYAML {
		return raw, nil
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return json.Marshal(doc)
}

func showHelp() {
	fmt.Fprintln(os.Stderr, "Usage: xgrammar [flags] <schema-file>")
	pflag.PrintDefaults()
}
