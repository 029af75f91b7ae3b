// Command envcast prints environment variables cast to typed values.
//
//	envcast get PORT --cast int --default 8080
//	envcast --env-file .env --schema schema.yaml dump --json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Azhovan/envcast"
	"github.com/Azhovan/envcast/internal/logging"
	"github.com/Azhovan/envcast/schemafile"
	"github.com/Azhovan/envcast/sourceenv"
)

var newLogger = logging.New

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	app := kingpin.New("envcast", "Read environment variables and cast them to typed values")
	envFile := app.Flag("env-file", "Read variables from a .env file (searched in parent directories) instead of the process environment").String()
	schemaPath := app.Flag("schema", "Schema file (yaml, json or toml) declaring casts and defaults").String()
	prefix := app.Flag("prefix", "Only read process variables starting with this prefix").String()
	verbose := app.Flag("verbose", "Enable debug logging").Short('v').Bool()

	getCmd := app.Command("get", "Print one variable")
	getName := getCmd.Arg("name", "Variable name").Required().String()
	getCast := getCmd.Flag("cast", "Cast type (str, bool, int, float, list, tuple, set, dict, json, url)").String()
	getSubcast := getCmd.Flag("subcast", "Element cast for list, tuple, set and dict").String()
	var hasDefault bool
	getDefault := getCmd.Flag("default", "Value printed when the variable is not set").IsSetByUser(&hasDefault).String()
	getForce := getCmd.Flag("force", "Cast the default too").Bool()

	dumpCmd := app.Command("dump", "Print every variable")
	dumpJSON := dumpCmd.Flag("json", "Write a JSON object instead of text lines").Bool()

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	var schema envcast.Schema
	if *schemaPath != "" {
		schema, err = schemafile.Load(*schemaPath, schemafile.Options{Required: true})
		if err != nil {
			return err
		}
	}

	env := envcast.New(schema,
		envcast.WithLogger(logger),
		envcast.WithSource(sourceenv.New(sourceenv.Options{Prefix: *prefix})),
	)
	if *envFile != "" {
		if _, err := env.LoadFile(*envFile, nil); err != nil {
			return err
		}
	}

	switch command {
	case getCmd.FullCommand():
		var opts []envcast.LookupOption
		if *getCast != "" {
			c, err := envcast.ParseCast(*getCast)
			if err != nil {
				return err
			}
			opts = append(opts, envcast.WithCast(c))
		}
		if *getSubcast != "" {
			c, err := envcast.ParseCast(*getSubcast)
			if err != nil {
				return err
			}
			opts = append(opts, envcast.WithSubcast(c))
		}
		if hasDefault {
			opts = append(opts, envcast.WithDefault(*getDefault))
		}
		if *getForce {
			opts = append(opts, envcast.Force())
		}

		value, err := env.Get(*getName, opts...)
		if err != nil {
			return err
		}
		logger.Debug("resolved variable", zap.String("name", *getName), zap.Any("value", value))
		return printValue(stdout, value)

	case dumpCmd.FullCommand():
		var opts []envcast.DumpOption
		if *dumpJSON {
			opts = append(opts, envcast.AsJSON())
		}
		return envcast.Dump(stdout, env, opts...)
	}

	return nil
}

// printValue writes strings and URLs as-is and everything else as JSON.
func printValue(w io.Writer, value any) error {
	switch v := value.(type) {
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case *url.URL:
		_, err := fmt.Fprintln(w, v.String())
		return err
	case envcast.Set:
		value = v.Sorted()
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encode value")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
