package envcast

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies a cast variant.
type Kind uint8

const (
	kindNone Kind = iota
	KindString
	KindBool
	KindInt
	KindFloat
	KindList
	KindTuple
	KindSet
	KindDict
	KindJSON
	KindURL
	KindFunc
)

var kindNames = [...]string{
	kindNone:   "none",
	KindString: "str",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindList:   "list",
	KindTuple:  "tuple",
	KindSet:    "set",
	KindDict:   "dict",
	KindJSON:   "json",
	KindURL:    "url",
	KindFunc:   "func",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Cast describes how a raw value is converted. The zero Cast means "no cast".
type Cast struct {
	kind Kind
	name string
	fn   func(any) (any, error)
}

// Built-in casts.
var (
	AsString = Cast{kind: KindString}
	AsBool   = Cast{kind: KindBool}
	AsInt    = Cast{kind: KindInt}
	AsFloat  = Cast{kind: KindFloat}
	AsList   = Cast{kind: KindList}
	AsTuple  = Cast{kind: KindTuple}
	AsSet    = Cast{kind: KindSet}
	AsDict   = Cast{kind: KindDict}
	AsJSON   = Cast{kind: KindJSON}
	AsURL    = Cast{kind: KindURL}
)

// Func wraps a custom conversion. The name is used in logs and error messages.
func Func(name string, fn func(value any) (any, error)) Cast {
	return Cast{kind: KindFunc, name: name, fn: fn}
}

// Kind returns the cast variant.
func (c Cast) Kind() Kind { return c.kind }

// IsZero reports whether c is the empty cast.
func (c Cast) IsZero() bool { return c.kind == kindNone }

func (c Cast) String() string {
	if c.kind == KindFunc && c.name != "" {
		return "func:" + c.name
	}
	return c.kind.String()
}

var castNames = map[string]Cast{
	"str":     AsString,
	"string":  AsString,
	"bool":    AsBool,
	"boolean": AsBool,
	"int":     AsInt,
	"integer": AsInt,
	"float":   AsFloat,
	"list":    AsList,
	"tuple":   AsTuple,
	"set":     AsSet,
	"dict":    AsDict,
	"json":    AsJSON,
	"url":     AsURL,
}

// ParseCast resolves a cast by name (e.g. "int", "list", "url").
func ParseCast(name string) (Cast, error) {
	c, ok := castNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Cast{}, &ConfigurationError{
			Code:    ErrCodeUnsupportedCast,
			Message: fmt.Sprintf("unsupported cast type %q", name),
		}
	}
	return c, nil
}

// Tuple is the result of the tuple cast.
type Tuple []any

// Set is the result of the set cast.
type Set map[any]struct{}

// Contains reports whether v is a member of the set.
func (s Set) Contains(v any) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members ordered by their formatted representation.
func (s Set) Sorted() []any {
	items := make([]any, 0, len(s))
	for v := range s {
		items = append(items, v)
	}
	sort.Slice(items, func(i, j int) bool {
		return fmt.Sprint(items[i]) < fmt.Sprint(items[j])
	})
	return items
}

// BooleanTrueStrings lists the lower-cased values the bool cast treats as true.
var BooleanTrueStrings = []string{"true", "on", "ok", "y", "yes", "1"}

var floatSeparators = regexp.MustCompile(`[,.]`)

// Convert casts value according to cast. Subcast applies to collection
// elements (list, tuple, set) and dict values; pass the zero Cast for none.
func Convert(value any, cast Cast, subcast Cast) (any, error) {
	switch cast.kind {
	case kindNone, KindString:
		return toString(value), nil
	case KindBool:
		return castBool(value), nil
	case KindInt:
		return castInt(value)
	case KindFloat:
		return castFloat(value)
	case KindList:
		return castItems(value, subcast)
	case KindTuple:
		items, err := castItems(value, subcast)
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case KindSet:
		return castSet(value, subcast)
	case KindDict:
		return castDict(value, subcast)
	case KindJSON:
		return castJSON(value)
	case KindURL:
		return castURL(value)
	case KindFunc:
		if cast.fn == nil {
			return nil, &ConfigurationError{Code: ErrCodeUnsupportedCast, Message: "custom cast has no function"}
		}
		out, err := cast.fn(value)
		if err != nil {
			var ce *ConfigurationError
			if errors.As(err, &ce) {
				return nil, err
			}
			return nil, invalidValue(cast, err)
		}
		return out, nil
	}
	return nil, &ConfigurationError{
		Code:    ErrCodeUnsupportedCast,
		Message: fmt.Sprintf("unsupported cast type %q", cast.String()),
	}
}

func invalidValue(cast Cast, err error) *ConfigurationError {
	return &ConfigurationError{
		Code:    ErrCodeInvalidValue,
		Message: "cannot cast value to " + cast.String(),
		Err:     err,
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case *url.URL:
		return v.String()
	default:
		return fmt.Sprint(value)
	}
}

func castBool(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	s := strings.ToLower(toString(value))
	for _, t := range BooleanTrueStrings {
		if s == t {
			return true
		}
	}
	return false
}

func castInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float32:
		return int(v), nil
	case float64:
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(toString(value)))
	if err != nil {
		return nil, invalidValue(AsInt, err)
	}
	return n, nil
}

// castFloat keeps digits and separators only; the last separator-delimited
// group is the fractional part ("1.234,5" and "1,234.5" both give 1234.5).
func castFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			return r
		}
		return -1
	}, toString(value))

	parts := floatSeparators.Split(cleaned, -1)
	if len(parts) > 1 {
		cleaned = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, invalidValue(AsFloat, err)
	}
	return f, nil
}

func castItems(value any, subcast Cast) ([]any, error) {
	var raw []any
	switch v := value.(type) {
	case []any:
		raw = v
	case Tuple:
		raw = v
	case []string:
		raw = make([]any, len(v))
		for i, s := range v {
			raw[i] = s
		}
	default:
		s := toString(value)
		raw = make([]any, 0)
		if strings.TrimSpace(s) == "" {
			return raw, nil
		}
		for _, segment := range strings.Split(s, ",") {
			if segment == "" {
				continue
			}
			raw = append(raw, strings.TrimSpace(segment))
		}
	}

	items := make([]any, 0, len(raw))
	for _, item := range raw {
		if !subcast.IsZero() {
			cast, err := Convert(item, subcast, Cast{})
			if err != nil {
				return nil, err
			}
			item = cast
		}
		items = append(items, item)
	}
	return items, nil
}

func castSet(value any, subcast Cast) (any, error) {
	if s, ok := value.(Set); ok {
		return s, nil
	}
	items, err := castItems(value, subcast)
	if err != nil {
		return nil, err
	}
	set := make(Set, len(items))
	for _, item := range items {
		if item != nil && !reflect.TypeOf(item).Comparable() {
			return nil, invalidValue(AsSet, errors.Errorf("element of type %T cannot be a set member", item))
		}
		set[item] = struct{}{}
	}
	return set, nil
}

func castDict(value any, subcast Cast) (any, error) {
	if m, ok := value.(map[string]any); ok {
		return m, nil
	}

	out := make(map[string]any)
	s := toString(value)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	for _, segment := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(segment, "=")
		if !ok {
			return nil, invalidValue(AsDict, errors.Errorf("segment %q is not key=value", segment))
		}
		key = strings.TrimSpace(key)
		var item any = strings.TrimSpace(val)
		if !subcast.IsZero() {
			cast, err := Convert(item, subcast, Cast{})
			if err != nil {
				return nil, err
			}
			item = cast
		}
		out[key] = item
	}
	return out, nil
}

func castJSON(value any) (any, error) {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, invalidValue(AsJSON, errors.Errorf("expected JSON text, got %T", value))
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, invalidValue(AsJSON, err)
	}
	return out, nil
}

func castURL(value any) (any, error) {
	if u, ok := value.(*url.URL); ok {
		return u, nil
	}
	u, err := url.Parse(toString(value))
	if err != nil {
		return nil, invalidValue(AsURL, err)
	}
	return u, nil
}
