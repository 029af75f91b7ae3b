package sourcefile

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Azhovan/envcast/internal/varname"
)

// DefaultName is the file looked up when no path is given.
const DefaultName = ".env"

// ErrNotFound is returned when neither the path nor any parent directory holds the file.
var ErrNotFound = errors.New("sourcefile: env file not found")

var escapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

// Options configures .env parsing.
type Options struct {
	// Overrides fill names the file does not define. File values win.
	Overrides map[string]string

	// Logger receives debug output about the lookup and skipped lines. Default: no-op.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// File is a parsed .env file. It is never written back to the OS environment.
type File struct {
	path   string
	keys   []string
	values map[string]string
}

// Lookup returns the value parsed for name.
func (f *File) Lookup(name string) (string, bool) {
	value, ok := f.values[name]
	return value, ok
}

// Keys lists names in file order, followed by overrides in sorted order.
func (f *File) Keys() []string {
	return slices.Clone(f.keys)
}

// Path returns the file the values were read from; empty for Parse.
func (f *File) Path() string {
	return f.path
}

// Map returns a copy of the parsed values.
func (f *File) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Load reads and parses the file at path. When the file is missing it retries
// with the same file name in each parent directory up to the filesystem root,
// returning ErrNotFound if none exists.
func Load(path string, opts Options) (*File, error) {
	logger := opts.logger()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve env file path %s", path)
	}
	dir, name := filepath.Dir(abs), filepath.Base(abs)

	for {
		candidate := filepath.Join(dir, name)
		data, err := os.ReadFile(candidate)
		if err == nil {
			logger.Debug("reading environment variables", zap.String("path", candidate))
			f := parse(string(data), opts, logger)
			f.path = candidate
			return f, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read env file %s", candidate)
		}

		logger.Debug("env file not found, looking in parent dir", zap.String("path", candidate))
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, errors.Wrapf(ErrNotFound, "%s", name)
		}
		dir = parent
	}
}

// Parse reads .env content from r.
func Parse(r io.Reader, opts Options) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read env content")
	}
	return parse(string(data), opts, opts.logger()), nil
}

func parse(content string, opts Options, logger *zap.Logger) *File {
	f := &File{values: make(map[string]string)}

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		name, value, ok := parseLine(line, logger.With(zap.Int("line", i+1)))
		if !ok {
			continue
		}
		f.setDefault(name, value)
	}

	names := make([]string, 0, len(opts.Overrides))
	for name := range opts.Overrides {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f.setDefault(name, opts.Overrides[name])
	}

	return f
}

func (f *File) setDefault(name, value string) {
	if _, exists := f.values[name]; exists {
		return
	}
	f.keys = append(f.keys, name)
	f.values[name] = value
}

// parseLine tokenizes one assignment. ok is false for comments, blank and
// malformed lines.
func parseLine(line string, logger *zap.Logger) (name, value string, ok bool) {
	tokens, err := shlex.Split(protectEscapes(line))
	if err != nil {
		logger.Debug("skipping unparsable line", zap.Error(err))
		return "", "", false
	}
	tokens = splitAssignment(tokens)

	// The lexer drops empty quotes, so an empty value only counts when it was quoted.
	if len(tokens) == 3 && tokens[1] == "=" && tokens[2] == "" {
		tokens = tokens[:2]
	}
	if len(tokens) == 2 && tokens[1] == "=" && quotedValue(line) {
		tokens = append(tokens, "")
	}

	if len(tokens) < 3 || tokens[1] != "=" {
		return "", "", false
	}
	if !varname.Valid(tokens[0]) {
		logger.Debug("skipping invalid variable name", zap.String("name", tokens[0]))
		return "", "", false
	}

	value = escapes.Replace(strings.Join(tokens[2:], ""))
	return tokens[0], value, true
}

// splitAssignment separates the "=" operator from words like NAME=value or
// =value.
func splitAssignment(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}

	if first := tokens[0]; first != "=" && strings.Contains(first, "=") {
		name, rest, _ := strings.Cut(first, "=")
		return append([]string{name, "=", rest}, tokens[1:]...)
	}

	if len(tokens) >= 2 && tokens[1] != "=" && strings.HasPrefix(tokens[1], "=") {
		return append([]string{tokens[0], "=", tokens[1][1:]}, tokens[2:]...)
	}

	return tokens
}

// protectEscapes doubles the backslash of \n and \t outside single quotes so
// the lexer keeps them for escapes to replace. Other escaped pairs are copied
// unchanged.
func protectEscapes(line string) string {
	if !strings.Contains(line, `\`) {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 4)
	var quote byte

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote == '\'':
			if ch == '\'' {
				quote = 0
			}
		case ch == '\'' && quote == 0:
			quote = ch
		case ch == '"':
			if quote == '"' {
				quote = 0
			} else {
				quote = ch
			}
		case ch == '\\' && i+1 < len(line):
			next := line[i+1]
			if next == 'n' || next == 't' {
				b.WriteByte('\\')
			}
			b.WriteByte(ch)
			b.WriteByte(next)
			i++
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// quotedValue reports whether the text after the first "=" starts with a quote.
func quotedValue(line string) bool {
	_, rest, _ := strings.Cut(line, "=")
	rest = strings.TrimSpace(rest)
	return strings.HasPrefix(rest, "'") || strings.HasPrefix(rest, `"`)
}
