// Command apetag inspects and builds APEv2 tags.
//
// Usage:
//
//	apetag dump [--output text|yaml] FILE...
//	apetag render --props PROPS.yaml --out FILE
//	apetag version
//
// Every command accepts --config, --log-level, --strict-version, and
// --separator. Settings can also be given as APETAG_* environment
// variables (APETAG_LOG_LEVEL=debug) or in a YAML config file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/simonhull/apetag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// command is a subcommand: it registers its flags, then runs with the
// resolved configuration and the remaining arguments.
type command struct {
	name  string
	usage string
	flags func(fs *pflag.FlagSet)
	run   func(cfg *config, args []string, stdout io.Writer, logger *slog.Logger) error
}

var commands = []command{
	{
		name:  "dump",
		usage: "dump [--output text|yaml] FILE...",
		flags: func(fs *pflag.FlagSet) {
			fs.StringP("output", "o", "text", "output format: text or yaml")
		},
		run: runDump,
	},
	{
		name:  "render",
		usage: "render --props PROPS.yaml --out FILE",
		flags: func(fs *pflag.FlagSet) {
			fs.String("props", "", "YAML file with properties and binary items")
			fs.String("out", "", "file to write the rendered tag to")
			fs.String("backup", "", "suffix for a backup of an existing output file")
			fs.Bool("validate", false, "re-read the written tag and compare")
		},
		run: runRender,
	},
	{
		name:  "version",
		usage: "version",
		flags: func(*pflag.FlagSet) {},
		run: func(_ *config, _ []string, stdout io.Writer, _ *slog.Logger) error {
			_, err := fmt.Fprintln(stdout, apetag.GetVersionInfo())
			return err
		},
	},
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "apetag: unknown command %q\n", args[0])
		printUsage(stderr)
		return 2
	}

	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	addCommonFlags(fs)
	cmd.flags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "apetag: %v\n", err)
		return 2
	}

	level, _ := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := cmd.run(cfg, fs.Args(), stdout, logger); err != nil {
		logger.Error(cmd.name+" failed", "error", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  apetag %s\n", cmd.usage)
	}
}

// tagOptions maps the configuration onto library options.
func tagOptions(cfg *config, logger *slog.Logger) []apetag.Option {
	opts := []apetag.Option{
		apetag.WithLogger(logger),
		apetag.WithSeparator(cfg.Separator),
	}
	if cfg.StrictVersion {
		opts = append(opts, apetag.WithStrictVersion())
	}
	return opts
}
