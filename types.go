package envcast

// Source provides raw environment values (OS environment, injected map, parsed .env file).
type Source interface {
	// Lookup returns the raw value for name and whether it is present.
	Lookup(name string) (string, bool)

	// Keys lists the names the source holds, in the source's natural order.
	Keys() []string
}

// Optional distinguishes "not set" from "zero value".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrDefault returns the wrapped value or the provided default.
func (o Optional[T]) OrDefault(defaultVal T) T {
	if o.Set {
		return o.Value
	}
	return defaultVal
}

// Processor transforms a value before or after casting.
type Processor func(value any) (any, error)

// Var is a resolved name/value pair produced by Env.All.
type Var struct {
	Name  string
	Value any
}
