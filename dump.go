package envcast

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	asJSON bool   // Output as JSON instead of text format
	indent string // Indentation for JSON output (default: "  ")
}

// AsJSON outputs variables as a JSON object instead of text lines.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  "); empty means compact.
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// Dump writes every variable yielded by e.All.
// Schema entries marked Secret are written as "***redacted***".
// The first lookup or write error aborts the dump.
func Dump(w io.Writer, e *Env, opts ...DumpOption) error {
	if e == nil {
		return errors.New("envcast: env is nil")
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return dumpAsJSON(w, e, config)
	}
	return dumpAsText(w, e)
}

// dumpAsText outputs one "NAME: value" line per variable.
func dumpAsText(w io.Writer, e *Env) error {
	for v, err := range e.All() {
		if err != nil {
			return err
		}

		display := redacted
		if !e.isSecret(v.Name) {
			display = formatValue(v.Value)
		}

		if _, err := fmt.Fprintf(w, "%s: %s\n", v.Name, display); err != nil {
			return errors.Wrap(err, "write error")
		}
	}
	return nil
}

// dumpAsJSON outputs a single JSON object keyed by variable name.
func dumpAsJSON(w io.Writer, e *Env, config dumpConfig) error {
	result := make(map[string]any)
	for v, err := range e.All() {
		if err != nil {
			return err
		}
		if e.isSecret(v.Name) {
			result[v.Name] = redacted
			continue
		}
		result[v.Name] = jsonValue(v.Value)
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return errors.Wrap(err, "json marshal error")
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "write error")
	}
	return nil
}

func (e *Env) isSecret(name string) bool {
	return e.schema[name].Secret
}

// formatValue renders a resolved value for text output.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", v)
	case *url.URL:
		return v.String()
	case []any:
		return "[" + joinItems(v) + "]"
	case Tuple:
		return "(" + joinItems(v) + ")"
	case Set:
		return "{" + joinItems(v.Sorted()) + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func joinItems(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatValue(item)
	}
	return strings.Join(parts, ", ")
}

// jsonValue converts cast results JSON cannot encode directly.
func jsonValue(value any) any {
	switch v := value.(type) {
	case *url.URL:
		return v.String()
	case Set:
		return jsonItems(v.Sorted())
	case Tuple:
		return jsonItems(v)
	case []any:
		return jsonItems(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = jsonValue(item)
		}
		return out
	default:
		return v
	}
}

func jsonItems(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = jsonValue(item)
	}
	return out
}
