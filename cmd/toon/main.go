// Command toon converts between TOON and JSON on the command line,
// reading from a file or stdin and writing JSON or TOON to a file or stdout.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/toon-format/go-toon"
	"github.com/toon-format/go-toon/internal/clierr"
	"github.com/toon-format/go-toon/internal/config"
)

var CLI struct {
	Decode decodeCmd `cmd:"" help:"Convert TOON to JSON."`
	Encode encodeCmd `cmd:"" help:"Convert JSON to TOON."`
}

type decodeCmd struct {
	Input       string `help:"Path to input TOON file. Reads stdin if omitted." short:"i" type:"path"`
	Output      string `help:"Path to output JSON file. Writes stdout if omitted." short:"o" type:"path"`
	Lenient     bool   `help:"Use best-effort recovery instead of strict validation."`
	ExpandPaths bool   `help:"Expand dotted keys into nested objects."`
	Config      string `help:"Path to a .toon.yml config file." type:"path"`
}

type encodeCmd struct {
	Input      string `help:"Path to input JSON file. Reads stdin if omitted." short:"i" type:"path"`
	Output     string `help:"Path to output TOON file. Writes stdout if omitted." short:"o" type:"path"`
	Indent     int    `help:"Spaces per indent level." default:"2"`
	Delimiter  string `help:"Field delimiter: comma, tab, or pipe."`
	KeyFolding bool   `help:"Fold single-key object chains into dotted keys."`
	KeyCase    string `help:"Naming convention for Go struct fields without a toon tag: asis, camel, snake, or kebab. Keys of the JSON input are not rewritten."`
	Config     string `help:"Path to a .toon.yml config file." type:"path"`
}

func main() {
	parser := kong.Must(&CLI,
		kong.Name("toon"),
		kong.Description("Convert between TOON and JSON."),
		kong.UsageOnError(),
	)
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	if err := ctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, clierr.Report(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.Find()
	}
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, clierr.New(clierr.CategoryConfig, "failed to load "+path, err)
	}
	return cfg, nil
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, clierr.New(clierr.CategoryInput, "failed to read "+path, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, clierr.New(clierr.CategoryInput, "failed to read stdin", err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return clierr.New(clierr.CategoryOutput, "failed to write "+path, err)
		}
		return nil
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return clierr.New(clierr.CategoryOutput, "failed to write stdout", err)
	}
	return nil
}

func (c *decodeCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	raw, err := readInput(c.Input)
	if err != nil {
		return err
	}

	opts := toon.Options{
		Indent:      cfg.Decode.Indent,
		Strict:      cfg.Decode.Strict && !c.Lenient,
		ExpandPaths: cfg.Decode.ExpandPaths,
	}
	if c.ExpandPaths {
		opts.ExpandPaths = "safe"
	}

	val, err := toon.Decode(string(raw), opts)
	if err != nil {
		return clierr.New(clierr.CategoryDecode, "failed to decode TOON", err)
	}

	out, err := json.MarshalIndent(toGoJSON(val), "", "  ")
	if err != nil {
		return clierr.New(clierr.CategoryDecode, "failed to render JSON", err)
	}
	out = append(out, '\n')
	return writeOutput(c.Output, out)
}

func (c *encodeCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	raw, err := readInput(c.Input)
	if err != nil {
		return err
	}

	var val any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&val); err != nil {
		return clierr.New(clierr.CategoryInput, "failed to parse JSON", err)
	}

	delim := cfg.DelimiterByte()
	switch c.Delimiter {
	case "tab":
		delim = '\t'
	case "pipe":
		delim = '|'
	case "comma":
		delim = ','
	}
	keyFolding := cfg.Encode.KeyFolding
	if c.KeyFolding {
		keyFolding = "safe"
	}
	if c.KeyCase != "" {
		cfg.Naming.Case = c.KeyCase
	}
	toon.SetFieldNameCaser(cfg.ApplyFieldCase)

	opts := toon.EncodeOptions{
		Indent:       c.Indent,
		Delimiter:    delim,
		KeyFolding:   keyFolding,
		FlattenDepth: cfg.Encode.FlattenDepth,
	}
	text, err := toon.Encode(val, opts)
	if err != nil {
		return clierr.New(clierr.CategoryEncode, "failed to encode TOON", err)
	}
	return writeOutput(c.Output, []byte(text+"\n"))
}

// toGoJSON converts a *toon.Object into an ordinary map[string]any so
// encoding/json can render it; key order is lost in JSON output, which
// has no ordered-object convention of its own.
func toGoJSON(v any) any {
	switch val := v.(type) {
	case *toon.Object:
		m := make(map[string]any, val.Len())
		for _, k := range val.Keys() {
			fv, _ := val.Get(k)
			m[k] = toGoJSON(fv)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = toGoJSON(e)
		}
		return out
	default:
		return val
	}
}
