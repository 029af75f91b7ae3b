package envcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name     string
		decl     string
		expected Entry
	}{
		{
			name:     "bare cast",
			decl:     "int",
			expected: Entry{Cast: AsInt},
		},
		{
			name:     "explicit cast directive",
			decl:     "cast:url",
			expected: Entry{Cast: AsURL},
		},
		{
			name:     "subcast",
			decl:     "list,subcast:int",
			expected: Entry{Cast: AsList, Subcast: AsInt},
		},
		{
			name:     "default keeps commas",
			decl:     "list,subcast:int,default:1,2,3",
			expected: Entry{Cast: AsList, Subcast: AsInt, Default: Some[any]("1,2,3")},
		},
		{
			name:     "directive after default ends it",
			decl:     "list,default:a,b,secret",
			expected: Entry{Cast: AsList, Default: Some[any]("a,b"), Secret: true},
		},
		{
			name:     "empty default",
			decl:     "str,default:",
			expected: Entry{Cast: AsString, Default: Some[any]("")},
		},
		{
			name:     "secret only",
			decl:     "secret",
			expected: Entry{Secret: true},
		},
		{
			name:     "secret false",
			decl:     "str,secret:false",
			expected: Entry{Cast: AsString},
		},
		{
			name:     "whitespace around directives",
			decl:     " dict , subcast: bool ",
			expected: Entry{Cast: AsDict, Subcast: AsBool},
		},
		{
			name:     "empty declaration",
			decl:     "",
			expected: Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ParseEntry(tt.decl)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, entry)
		})
	}
}

func TestParseEntry_Errors(t *testing.T) {
	tests := []struct {
		name string
		decl string
		code string
	}{
		{name: "unknown cast", decl: "decimal", code: ErrCodeUnsupportedCast},
		{name: "unknown subcast", decl: "list,subcast:decimal", code: ErrCodeUnsupportedCast},
		{name: "second bare cast", decl: "int,str", code: ErrCodeInvalidValue},
		{name: "unknown directive", decl: "int,required:true", code: ErrCodeInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntry(tt.decl)
			requireCode(t, err, tt.code)
		})
	}
}
