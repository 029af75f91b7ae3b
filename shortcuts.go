package envcast

import (
	"fmt"
	"net/url"
)

// Str returns name as a string.
func (e *Env) Str(name string, opts ...LookupOption) (string, error) {
	return lookupAs[string](e, name, AsString, opts)
}

// Bool returns name as a boolean. See BooleanTrueStrings.
func (e *Env) Bool(name string, opts ...LookupOption) (bool, error) {
	return lookupAs[bool](e, name, AsBool, opts)
}

// Int returns name as an int.
func (e *Env) Int(name string, opts ...LookupOption) (int, error) {
	return lookupAs[int](e, name, AsInt, opts)
}

// Float returns name as a float64.
func (e *Env) Float(name string, opts ...LookupOption) (float64, error) {
	return lookupAs[float64](e, name, AsFloat, opts)
}

// List returns name split on commas.
func (e *Env) List(name string, opts ...LookupOption) ([]any, error) {
	return lookupAs[[]any](e, name, AsList, opts)
}

// Tuple returns name split on commas.
func (e *Env) Tuple(name string, opts ...LookupOption) (Tuple, error) {
	return lookupAs[Tuple](e, name, AsTuple, opts)
}

// Set returns the distinct comma-separated members of name.
func (e *Env) Set(name string, opts ...LookupOption) (Set, error) {
	return lookupAs[Set](e, name, AsSet, opts)
}

// Dict returns name parsed as comma-separated key=value pairs.
func (e *Env) Dict(name string, opts ...LookupOption) (map[string]any, error) {
	return lookupAs[map[string]any](e, name, AsDict, opts)
}

// JSON returns name decoded as JSON.
func (e *Env) JSON(name string, opts ...LookupOption) (any, error) {
	return lookupAs[any](e, name, AsJSON, opts)
}

// URL returns name parsed as a URL.
func (e *Env) URL(name string, opts ...LookupOption) (*url.URL, error) {
	return lookupAs[*url.URL](e, name, AsURL, opts)
}

// lookupAs runs Get with cast preset. A nil result (nil default) yields the
// zero value; a result of another type (uncast default, postprocessor output)
// is an invalid_type error, use Get for those.
func lookupAs[T any](e *Env, name string, cast Cast, opts []LookupOption) (T, error) {
	var zero T

	opts = append(opts[:len(opts):len(opts)], WithCast(cast))
	value, err := e.Get(name, opts...)
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		return zero, &ConfigurationError{
			Name:    name,
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("value of type %T is not %s", value, cast),
		}
	}
	return typed, nil
}
