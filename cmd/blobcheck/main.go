// Command blobcheck verifies that every FILENAME listed in a CSV file
// exists in a storage container.
//
// Usage:
//
//	blobcheck <connection_string> <container> <csv_path> [-export csv]
//
// Environment overrides (viper, prefix BLOBCHECK_):
//
//	BLOBCHECK_CONCURRENCY  probe concurrency ceiling (default 100)
//	BLOBCHECK_NO_COLOR     disable colored output
//	BLOBCHECK_VERBOSE      enable JSON diagnostics on stderr
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/input-output-hk/blobcheck"
	"github.com/input-output-hk/blobcheck/checktypes"
	"github.com/input-output-hk/blobcheck/internal/report"
)

const usage = `Usage: blobcheck <connection_string> <container> <csv_path> [-export csv]

Checks every FILENAME listed in the CSV file against the container and
reports which objects are missing.

Arguments:
  connection_string   Key=Value pairs joined by ";" (AccessKey, SecretKey,
                      Endpoint, Region, UsePathStyle); pass "" to use the
                      default credential chain
  container           name of the container to probe
  csv_path            path to a CSV file with a FILENAME column

Flags:
  -export csv         write the full result set next to the input file
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("blobcheck", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	exportFormat := flags.String("export", "", `export results ("csv")`)

	if err := flags.Parse(args); err != nil {
		return 2
	}

	// flag stops at the first positional argument, so a second parse
	// picks up flags given after the three positionals, as in the
	// synopsis order "blobcheck conn container input.csv -export csv".
	positional := flags.Args()
	if len(positional) > 3 {
		if err := flags.Parse(positional[3:]); err != nil {
			return 2
		}
		positional = append(positional[:3:3], flags.Args()...)
	}
	if len(positional) != 3 {
		flags.Usage()
		return 2
	}
	connectionString, container, csvPath := positional[0], positional[1], positional[2]

	export := checktypes.ExportFormat(*exportFormat)
	if export != checktypes.ExportNone && export != checktypes.ExportCSV {
		fmt.Fprintf(stderr, "blobcheck: unsupported export format %q\n\n", *exportFormat)
		flags.Usage()
		return 2
	}

	env := viper.New()
	env.SetEnvPrefix("BLOBCHECK")
	env.AutomaticEnv()

	if env.GetBool("no_color") {
		color.NoColor = true
	}

	// The client's filesystem is rooted at /, so relative input paths
	// must be absolutized here.
	absPath, err := filepath.Abs(csvPath)
	if err != nil {
		fmt.Fprintf(stderr, "blobcheck: %v\n", err)
		return 1
	}

	opts := []checktypes.Option{
		blobcheck.WithReporter(report.NewConsole(stdout)),
		blobcheck.WithExport(export),
	}
	if connectionString != "" {
		opts = append(opts, blobcheck.WithConnectionString(connectionString))
	}
	if concurrency := env.GetInt("concurrency"); concurrency > 0 {
		opts = append(opts, blobcheck.WithConcurrency(concurrency))
	}
	if env.GetBool("verbose") {
		// Diagnostics go to stderr so they never interleave with the
		// report on stdout.
		opts = append(opts, blobcheck.WithLogger(slog.New(slog.NewJSONHandler(stderr, nil))))
	}

	client, err := blobcheck.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "blobcheck: %v\n", err)
		return 1
	}
	defer client.Close()

	if _, err := client.Check(context.Background(), container, absPath); err != nil {
		fmt.Fprintf(stderr, "blobcheck: %v\n", err)
		return 1
	}

	return 0
}
