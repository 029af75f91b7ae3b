// Package schemafile loads envcast schemas from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .yml, .json, .toml).
// Each top-level key names a variable; its value is a declaration string
// (see envcast.ParseEntry) or a table with cast, subcast, default and secret.
//
// Defaults read from a file are strings or plain YAML/JSON/TOML values and are
// returned uncast, so use Get or Force for them rather than a typed shortcut
// such as List.
//
// Example (YAML):
//
//	PORT: int
//	HOSTS: list,subcast:str,default:localhost
//	DEBUG:
//	  cast: bool
//	  default: false
//	API_TOKEN:
//	  secret: true
//
// Usage:
//
//	schema, err := schemafile.Load("schema.yaml", schemafile.Options{Required: true})
//	env := envcast.New(schema)
package schemafile
