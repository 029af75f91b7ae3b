package sourceenv

import (
	"os"
	"strings"

	"github.com/Azhovan/envcast/internal/varname"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix restricts the source to vars starting with prefix (stripped from names).
	// Empty = all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	// When true, prefix must match exactly.
	// Names after the prefix are always matched exactly.
	CaseSensitive bool
}

// Source is a live, read-only view over the OS environment.
type Source struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) *Source {
	return &Source{opts: opts}
}

// Lookup returns the value of prefix+name.
func (s *Source) Lookup(name string) (string, bool) {
	if value, ok := os.LookupEnv(s.opts.Prefix + name); ok {
		return value, true
	}
	if s.opts.Prefix == "" || s.opts.CaseSensitive {
		return "", false
	}

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if stripped, ok := varname.StripPrefix(key, s.opts.Prefix, false); ok && stripped == name {
			return value, true
		}
	}
	return "", false
}

// Keys lists variable names (prefix stripped) in os.Environ order.
func (s *Source) Keys() []string {
	var keys []string
	for _, env := range os.Environ() {
		key, _, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		key, ok = varname.StripPrefix(key, s.opts.Prefix, s.opts.CaseSensitive)
		if !ok || key == "" {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
