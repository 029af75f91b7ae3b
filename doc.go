// Package envcast reads environment variables and casts them to typed values.
//
// Quick Start:
//
//	env := envcast.New(envcast.Schema{
//	    "PORT":  envcast.Declare(envcast.AsInt),
//	    "HOSTS": {Cast: envcast.AsList, Default: envcast.Some[any]([]any{"localhost"})},
//	})
//
//	port, err := env.Int("PORT")
//	debug, err := env.Bool("DEBUG", envcast.WithDefault(false))
//
// Sources: the OS environment (default), an injected map (LoadMap) or a
// parsed .env file (LoadFile). A value of the form {{NAME}} is resolved by
// looking up NAME with the same options.
//
// Casts: str, bool, int, float, list, tuple, set, dict, json, url and
// custom casts built with Func. Defaults are returned uncast unless Force is
// given, so a typed shortcut such as List needs a default of its result type
// ([]any here); Get accepts any default.
//
// Schema declarations can be written as strings, see ParseEntry:
// cast[,subcast:K][,default:V][,secret]
//
// See example_test.go for detailed usage.
package envcast
