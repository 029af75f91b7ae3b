package schemafile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Azhovan/envcast"
)

// Options configures schema file loading.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty schema).
	Required bool
}

// Load reads and decodes the schema file at path.
func Load(path string, opts Options) (envcast.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if opts.Required {
				return nil, errors.Wrapf(err, "required schema file not found: %s", path)
			}
			return envcast.Schema{}, nil
		}
		return nil, errors.Wrapf(err, "read schema file %s", path)
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	raw, err := decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "parse schema file %s", path)
	}
	return Build(raw)
}

func decode(data []byte, format string) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "YAML")
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "JSON")
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "TOML")
		}
	default:
		return nil, errors.Errorf("unsupported file format: %q (supported: yaml, json, toml)", format)
	}
	return raw, nil
}

// Build converts decoded declarations into a schema. Values are declaration
// strings or tables with cast, subcast, default and secret keys.
func Build(raw map[string]any) (envcast.Schema, error) {
	schema := make(envcast.Schema, len(raw))
	for name, decl := range raw {
		entry, err := buildEntry(decl)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %s", name)
		}
		schema[name] = entry
	}
	return schema, nil
}

func buildEntry(decl any) (envcast.Entry, error) {
	switch v := decl.(type) {
	case nil:
		return envcast.Entry{}, nil
	case string:
		return envcast.ParseEntry(v)
	case map[string]any:
		return buildTable(v)
	case map[any]any:
		table := make(map[string]any, len(v))
		for k, val := range v {
			key, ok := k.(string)
			if !ok {
				return envcast.Entry{}, errors.Errorf("non-string key %v", k)
			}
			table[key] = val
		}
		return buildTable(table)
	default:
		return envcast.Entry{}, errors.Errorf("unsupported declaration of type %T", decl)
	}
}

func buildTable(table map[string]any) (envcast.Entry, error) {
	var entry envcast.Entry
	for key, val := range table {
		switch strings.ToLower(key) {
		case "cast", "subcast":
			name, ok := val.(string)
			if !ok {
				return envcast.Entry{}, errors.Errorf("%s must be a string, got %T", key, val)
			}
			c, err := envcast.ParseCast(name)
			if err != nil {
				return envcast.Entry{}, err
			}
			if strings.EqualFold(key, "cast") {
				entry.Cast = c
			} else {
				entry.Subcast = c
			}
		case "default":
			// Typed defaults (numbers, booleans) are returned uncast.
			entry.Default = envcast.Some(val)
		case "secret":
			secret, ok := val.(bool)
			if !ok {
				return envcast.Entry{}, errors.Errorf("secret must be a boolean, got %T", val)
			}
			entry.Secret = secret
		default:
			return envcast.Entry{}, errors.Errorf("unknown key %q", key)
		}
	}
	return entry, nil
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
