package envcast

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Bool(t *testing.T) {
	tests := []struct {
		input    any
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"On", true},
		{"ok", true},
		{"y", true},
		{"Yes", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"anything", false},
		{true, true},
		{false, false},
		{1, true},
	}

	for _, tt := range tests {
		got, err := Convert(tt.input, AsBool, Cast{})
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "input %v", tt.input)
	}
}

func TestConvert_Int(t *testing.T) {
	got, err := Convert("42", AsInt, Cast{})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = Convert(" -7 ", AsInt, Cast{})
	require.NoError(t, err)
	assert.Equal(t, -7, got)

	got, err = Convert(int64(9), AsInt, Cast{})
	require.NoError(t, err)
	assert.Equal(t, 9, got)

	_, err = Convert("4.2", AsInt, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)

	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestConvert_Float(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"33.3", 33.3},
		{"1.234", 1.234},
		{"1,5", 1.5},
		{"1.234,5", 1234.5},
		{"1,234.5", 1234.5},
		{"$ 12.50", 12.5},
		{"7", 7},
	}

	for _, tt := range tests {
		got, err := Convert(tt.input, AsFloat, Cast{})
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}

	_, err := Convert("abc", AsFloat, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)
}

func TestConvert_List(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		subcast  Cast
		expected []any
	}{
		{name: "strings", input: "foo,bar", expected: []any{"foo", "bar"}},
		{name: "trims segments", input: " foo,  bar", expected: []any{"foo", "bar"}},
		{name: "skips empty segments", input: "a,,b,", expected: []any{"a", "b"}},
		{name: "empty", input: "", expected: []any{}},
		{name: "whitespace only", input: "   ", expected: []any{}},
		{name: "int subcast", input: "1, 2,3", subcast: AsInt, expected: []any{1, 2, 3}},
		{name: "bool subcast", input: "yes,no", subcast: AsBool, expected: []any{true, false}},
		{name: "string slice", input: []string{"x", "y"}, expected: []any{"x", "y"}},
		{name: "already a list", input: []any{"1"}, subcast: AsInt, expected: []any{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.input, AsList, tt.subcast)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Convert("1,x", AsList, AsInt)
	requireCode(t, err, ErrCodeInvalidValue)
}

func TestConvert_Tuple(t *testing.T) {
	got, err := Convert("1,2", AsTuple, AsInt)
	require.NoError(t, err)
	assert.Equal(t, Tuple{1, 2}, got)
}

func TestConvert_Set(t *testing.T) {
	got, err := Convert("b,a,b", AsSet, Cast{})
	require.NoError(t, err)

	set, ok := got.(Set)
	require.True(t, ok)
	assert.Len(t, set, 2)
	assert.True(t, set.Contains("a"))
	assert.False(t, set.Contains("c"))
	assert.Equal(t, []any{"a", "b"}, set.Sorted())

	_, err = Convert([]any{[]any{1}}, AsSet, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)
}

func TestConvert_Dict(t *testing.T) {
	got, err := Convert("key1=val1, key2=val2", AsDict, Cast{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key1": "val1", "key2": "val2"}, got)

	got, err = Convert("a=1,b=2", AsDict, AsInt)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, got)

	got, err = Convert("q=a=b", AsDict, Cast{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q": "a=b"}, got, "splits on the first equals sign")

	_, err = Convert("a=1,broken", AsDict, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)
}

func TestConvert_JSON(t *testing.T) {
	got, err := Convert(`[1, "two", null]`, AsJSON, Cast{})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), "two", nil}, got)

	_, err = Convert(`{"open":`, AsJSON, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)

	_, err = Convert(3, AsJSON, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)
}

func TestConvert_URL(t *testing.T) {
	got, err := Convert("postgres://user:pw@db:5432/app?sslmode=disable", AsURL, Cast{})
	require.NoError(t, err)

	u, ok := got.(*url.URL)
	require.True(t, ok)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/app", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	_, err = Convert("http://[::1", AsURL, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)
}

func TestConvert_String(t *testing.T) {
	got, err := Convert(42, AsString, Cast{})
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	got, err = Convert("x", Cast{}, Cast{})
	require.NoError(t, err)
	assert.Equal(t, "x", got, "zero cast behaves like string")
}

func TestConvert_Func(t *testing.T) {
	port := Func("port", func(v any) (any, error) {
		n, err := strconv.Atoi(v.(string))
		if err != nil {
			return nil, err
		}
		if n < 1 || n > 65535 {
			return nil, errors.Errorf("port %d out of range", n)
		}
		return uint16(n), nil
	})

	assert.Equal(t, KindFunc, port.Kind())
	assert.Equal(t, "func:port", port.String())

	got, err := Convert("8080", port, Cast{})
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), got)

	_, err = Convert("70000", port, Cast{})
	requireCode(t, err, ErrCodeInvalidValue)
	assert.Contains(t, err.Error(), "out of range")

	got, err = Convert("80,443", AsList, port)
	require.NoError(t, err)
	assert.Equal(t, []any{uint16(80), uint16(443)}, got)

	_, err = Convert("x", Func("nil", nil), Cast{})
	requireCode(t, err, ErrCodeUnsupportedCast)
}

func TestParseCast(t *testing.T) {
	tests := []struct {
		name     string
		expected Cast
	}{
		{"str", AsString},
		{"string", AsString},
		{"bool", AsBool},
		{"Boolean", AsBool},
		{"int", AsInt},
		{"integer", AsInt},
		{"float", AsFloat},
		{"list", AsList},
		{"tuple", AsTuple},
		{"set", AsSet},
		{"dict", AsDict},
		{" json ", AsJSON},
		{"URL", AsURL},
	}

	for _, tt := range tests {
		got, err := ParseCast(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.expected.Kind(), got.Kind(), tt.name)
	}

	_, err := ParseCast("decimal")
	requireCode(t, err, ErrCodeUnsupportedCast)
	assert.Contains(t, err.Error(), `"decimal"`)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "none", Cast{}.String())
	assert.Equal(t, "dict", AsDict.String())
	assert.Equal(t, "unknown", Kind(200).String())
	assert.True(t, Cast{}.IsZero())
	assert.False(t, AsString.IsZero())
}
