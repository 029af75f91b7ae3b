package schemafile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azhovan/envcast"
)

var expectedSchema = envcast.Schema{
	"PORT":  envcast.Declare(envcast.AsInt),
	"HOSTS": {Cast: envcast.AsList, Subcast: envcast.AsString, Default: envcast.Some[any]("a,b")},
	"DEBUG": {Cast: envcast.AsBool, Default: envcast.Some[any](false)},
	"TOKEN": {Secret: true},
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{
			name:     "yaml",
			filename: "schema.yaml",
			content: `
PORT: int
HOSTS: list,subcast:str,default:a,b
DEBUG:
  cast: bool
  default: false
TOKEN:
  secret: true
`,
		},
		{
			name:     "json",
			filename: "schema.json",
			content: `{
  "PORT": "int",
  "HOSTS": "list,subcast:str,default:a,b",
  "DEBUG": {"cast": "bool", "default": false},
  "TOKEN": {"secret": true}
}`,
		},
		{
			name:     "toml",
			filename: "schema.toml",
			content: `
PORT = "int"
HOSTS = "list,subcast:str,default:a,b"
DEBUG = { cast = "bool", default = false }

[TOKEN]
secret = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := Load(writeFile(t, tt.filename, tt.content), Options{})
			require.NoError(t, err)
			assert.Equal(t, expectedSchema, schema)
		})
	}
}

func TestLoad_ExplicitFormat(t *testing.T) {
	path := writeFile(t, "schema.txt", "PORT: int\n")

	schema, err := Load(path, Options{Format: "yaml"})
	require.NoError(t, err)
	assert.Equal(t, envcast.Schema{"PORT": envcast.Declare(envcast.AsInt)}, schema)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "schema.ini", "PORT=int\n")

	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestLoad_MissingFile_NotRequired(t *testing.T) {
	schema, err := Load("/nonexistent/schema.yaml", Options{Required: false})
	require.NoError(t, err)
	assert.Empty(t, schema, "should return empty schema for missing non-required file")
}

func TestLoad_MissingFile_Required(t *testing.T) {
	schema, err := Load("/nonexistent/schema.yaml", Options{Required: true})
	assert.Error(t, err)
	assert.Nil(t, schema)
	assert.Contains(t, err.Error(), "required schema file not found")
}

func TestLoad_UnsupportedCast(t *testing.T) {
	path := writeFile(t, "schema.yaml", "PORT: port_number\n")

	_, err := Load(path, Options{})
	require.Error(t, err)

	var ce *envcast.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, envcast.ErrCodeUnsupportedCast, ce.Code)
	assert.Contains(t, err.Error(), "variable PORT")
}

func TestBuild_InvalidTables(t *testing.T) {
	tests := []struct {
		name string
		decl any
	}{
		{name: "cast is not a string", decl: map[string]any{"cast": 1}},
		{name: "secret is not a boolean", decl: map[string]any{"secret": "yes"}},
		{name: "unknown key", decl: map[string]any{"required": true}},
		{name: "unsupported declaration", decl: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(map[string]any{"VAR": tt.decl})
			assert.Error(t, err)
		})
	}
}

func TestBuild_TypedDefaultIsReturnedUncast(t *testing.T) {
	schema, err := Build(map[string]any{"RETRIES": map[string]any{"cast": "int", "default": 3}})
	require.NoError(t, err)

	env := envcast.New(schema).LoadMap(map[string]string{})
	value, err := env.Get("RETRIES")
	require.NoError(t, err)
	assert.Equal(t, 3, value)
}
