package envcast

import (
	"fmt"
	"strings"
)

// Entry declares how a variable is cast when it is looked up without
// explicit options. Caller-supplied options always win over the entry.
type Entry struct {
	Cast    Cast
	Subcast Cast
	Default Optional[any]
	Secret  bool // Redacted by Dump
}

// Schema maps variable names to their declarations.
type Schema map[string]Entry

// Declare returns an Entry holding only a cast.
func Declare(c Cast) Entry {
	return Entry{Cast: c}
}

// ParseEntry parses a declaration string into an Entry.
// Format: "cast[,subcast:K][,default:V][,secret]", for example
// "list,subcast:int,default:1,2,3". Commas after default: belong to the
// default value until another directive follows.
func ParseEntry(decl string) (Entry, error) {
	var entry Entry

	for _, directive := range splitDirectives(decl) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		name, value, hasValue := strings.Cut(directive, ":")
		name = strings.TrimSpace(name)

		switch {
		case name == "cast" && hasValue:
			c, err := ParseCast(value)
			if err != nil {
				return Entry{}, err
			}
			entry.Cast = c
		case name == "subcast" && hasValue:
			c, err := ParseCast(value)
			if err != nil {
				return Entry{}, err
			}
			entry.Subcast = c
		case name == "default" && hasValue:
			entry.Default = Some[any](value)
		case name == "secret":
			// Boolean directive: no value or anything but "false" means true
			entry.Secret = !hasValue || strings.TrimSpace(value) != "false"
		case !hasValue && entry.Cast.IsZero():
			c, err := ParseCast(name)
			if err != nil {
				return Entry{}, err
			}
			entry.Cast = c
		default:
			return Entry{}, &ConfigurationError{
				Code:    ErrCodeInvalidValue,
				Message: fmt.Sprintf("unknown schema directive %q in %q", directive, decl),
			}
		}
	}

	return entry, nil
}

// splitDirectives splits a declaration into directives, keeping commas that
// are part of a default value.
func splitDirectives(decl string) []string {
	var directives []string
	var current strings.Builder
	inDefault := false

	for i := 0; i < len(decl); i++ {
		ch := decl[i]

		if !inDefault && strings.HasPrefix(decl[i:], "default:") {
			inDefault = true
			current.WriteString("default:")
			i += len("default:") - 1
			continue
		}

		if ch != ',' {
			current.WriteByte(ch)
			continue
		}

		if inDefault && !startsWithDirective(decl[i+1:]) {
			current.WriteByte(ch)
			continue
		}

		inDefault = false
		directives = append(directives, current.String())
		current.Reset()
	}

	if current.Len() > 0 {
		directives = append(directives, current.String())
	}

	return directives
}

// startsWithDirective checks if a string starts with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	for _, d := range []string{"cast:", "subcast:", "default:", "secret:", "secret,"} {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return s == "secret"
}
