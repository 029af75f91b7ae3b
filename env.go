package envcast

import (
	"fmt"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Azhovan/envcast/internal/varname"
	"github.com/Azhovan/envcast/sourceenv"
	"github.com/Azhovan/envcast/sourcefile"
)

// maxProxyDepth bounds {{NAME}} chains so cycles terminate.
const maxProxyDepth = 32

// Env looks up and casts environment variables with an optional schema.
// Each Env owns its source; replacing it never touches other instances or the OS environment.
// Safe for concurrent lookups; the safety of an injected map is the caller's concern.
type Env struct {
	schema Schema
	logger *zap.Logger

	mu     sync.RWMutex
	source Source
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the logger for lookups and file loading. Default: no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Env) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSource sets the initial source. Default: the live OS environment.
func WithSource(src Source) Option {
	return func(e *Env) {
		if src != nil {
			e.source = src
		}
	}
}

// New creates an Env reading the OS environment. The schema is copied.
func New(schema Schema, opts ...Option) *Env {
	e := &Env{
		schema: maps.Clone(schema),
		logger: zap.NewNop(),
		source: sourceenv.New(sourceenv.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source returns the active source.
func (e *Env) Source() Source {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.source
}

func (e *Env) replace(src Source) {
	e.mu.Lock()
	e.source = src
	e.mu.Unlock()
}

// LoadMap replaces the active source with m. The map is used by reference,
// so later changes to m are visible to lookups.
func (e *Env) LoadMap(m map[string]string) *Env {
	e.replace(MapSource(m))
	return e
}

// LoadFile replaces the active source with a parsed .env file.
// An empty path means DefaultName in the working directory. A missing file is
// looked up in parent directories; if none is found a warning is logged and
// the active source is left unchanged. Overrides fill names the file lacks.
func (e *Env) LoadFile(path string, overrides map[string]string) (*Env, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return e, errors.Wrap(err, "resolve working directory")
		}
		path = filepath.Join(wd, sourcefile.DefaultName)
	}

	file, err := sourcefile.Load(path, sourcefile.Options{
		Overrides: overrides,
		Logger:    e.logger,
	})
	if errors.Is(err, sourcefile.ErrNotFound) {
		e.logger.Warn("could not find any env file", zap.String("path", path))
		return e, nil
	}
	if err != nil {
		return e, err
	}

	e.replace(file)
	return e, nil
}

type lookupConfig struct {
	def     Optional[any]
	cast    Optional[Cast]
	subcast Optional[Cast]
	force   bool
	pre     Processor
	post    Processor
}

// LookupOption configures a single lookup.
type LookupOption func(*lookupConfig)

// WithDefault returns v when the variable is not set. A value equal to v is
// returned uncast unless Force is given; nil is a valid default.
func WithDefault(v any) LookupOption {
	return func(cfg *lookupConfig) {
		cfg.def = Some(v)
	}
}

// WithCast sets the cast, overriding the schema.
func WithCast(c Cast) LookupOption {
	return func(cfg *lookupConfig) {
		cfg.cast = Some(c)
	}
}

// WithSubcast sets the element cast for list, tuple, set and dict, overriding the schema.
func WithSubcast(c Cast) LookupOption {
	return func(cfg *lookupConfig) {
		cfg.subcast = Some(c)
	}
}

// Force casts the default too.
func Force() LookupOption {
	return func(cfg *lookupConfig) {
		cfg.force = true
	}
}

// WithPreprocessor runs p on the value before casting.
func WithPreprocessor(p Processor) LookupOption {
	return func(cfg *lookupConfig) {
		cfg.pre = p
	}
}

// WithPostprocessor runs p on the cast value; its result is returned.
func WithPostprocessor(p Processor) LookupOption {
	return func(cfg *lookupConfig) {
		cfg.post = p
	}
}

// Get returns the value of name cast per the options and the schema.
// Missing variables without a default and failed casts return *ConfigurationError.
func (e *Env) Get(name string, opts ...LookupOption) (any, error) {
	var cfg lookupConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return e.resolve(name, cfg, 0)
}

func (e *Env) resolve(name string, cfg lookupConfig, depth int) (any, error) {
	if entry, ok := e.schema[name]; ok {
		if !cfg.cast.Set && !entry.Cast.IsZero() {
			cfg.cast = Some(entry.Cast)
		}
		if !cfg.subcast.Set && !entry.Subcast.IsZero() {
			cfg.subcast = Some(entry.Subcast)
		}
		if !cfg.def.Set {
			cfg.def = entry.Default
		}
	}
	// Most values are plain strings.
	cast := cfg.cast.OrDefault(AsString)
	cfg.cast = Some(cast)

	e.logger.Debug("get variable",
		zap.String("name", name),
		zap.Stringer("cast", cast),
		zap.Stringer("subcast", cfg.subcast.Value),
		zap.Bool("has_default", cfg.def.Set),
	)

	var value any
	def, hasDefault := cfg.def.Get()
	if raw, ok := e.Source().Lookup(name); ok {
		value = raw
	} else if hasDefault {
		value = def
	} else {
		return nil, notSet(name)
	}

	if s, ok := value.(string); ok {
		if target, ok := varname.ProxyTarget(s); ok {
			if depth >= maxProxyDepth {
				return nil, &ConfigurationError{
					Name:    name,
					Code:    ErrCodeProxyDepth,
					Message: fmt.Sprintf("proxy chain through %q exceeds %d levels", target, maxProxyDepth),
				}
			}
			e.logger.Debug("resolving proxied value", zap.String("name", name), zap.String("target", target))
			return e.resolve(target, cfg, depth+1)
		}
	}

	var err error
	if cfg.pre != nil {
		if value, err = cfg.pre(value); err != nil {
			return nil, processorError(name, "preprocessor", err)
		}
	}

	// A value equal to the default is returned as is unless forced.
	if cfg.force || !hasDefault || !reflect.DeepEqual(value, def) {
		if value, err = Convert(value, cast, cfg.subcast.Value); err != nil {
			return nil, withName(err, name)
		}
	}

	if cfg.post != nil {
		if value, err = cfg.post(value); err != nil {
			return nil, processorError(name, "postprocessor", err)
		}
	}

	return value, nil
}

func processorError(name, stage string, err error) error {
	return &ConfigurationError{
		Name:    name,
		Code:    ErrCodeProcessor,
		Message: stage + " failed",
		Err:     err,
	}
}

// All yields every variable resolved with Get: the schema's names in sorted
// order when a schema is declared, otherwise the source's names. Values are
// re-read on every iteration; errors are yielded in place.
func (e *Env) All() iter.Seq2[Var, error] {
	return func(yield func(Var, error) bool) {
		for _, name := range e.names() {
			value, err := e.Get(name)
			if !yield(Var{Name: name, Value: value}, err) {
				return
			}
		}
	}
}

func (e *Env) names() []string {
	if len(e.schema) > 0 {
		return slices.Sorted(maps.Keys(e.schema))
	}
	return e.Source().Keys()
}
