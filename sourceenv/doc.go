// Package sourceenv exposes the process environment as an envcast source.
//
// Lookups read the live environment on every call; nothing is cached.
//
// Example:
//
//	env := envcast.New(nil, envcast.WithSource(sourceenv.New(sourceenv.Options{Prefix: "APP_"})))
//	port, err := env.Int("PORT") // reads APP_PORT
package sourceenv
