package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ekaya-inc/pgformat/pkg/argfile"
	"github.com/ekaya-inc/pgformat/pkg/audit"
	"github.com/ekaya-inc/pgformat/pkg/config"
	"github.com/ekaya-inc/pgformat/pkg/logging"
	"github.com/ekaya-inc/pgformat/pkg/sql"
)

// Version is set at build time via ldflags
var Version = "dev"

const usage = `Usage: pgformat [flags] TEMPLATE [ARG...]

Formats TEMPLATE, substituting each placeholder with the next argument:

  %s  raw text, no escaping
  %I  identifier, quoted when needed
  %L  literal, quoted and escaped; NULL when missing
  %Q  dollar-quoted string
  %%  a literal percent sign

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pgformat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config.yaml", "path to YAML config file (optional)")
	argsPath := fs.String("args", "", "JSON or YAML file with typed arguments, appended after positional ARGs")
	statement := fs.Bool("statement", false, "require the result to be a single SQL statement")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		_, _ = io.WriteString(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if *version {
		fmt.Fprintln(stdout, Version)
		return 0
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath, Version)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	out, err := format(cfg, logger, fs.Arg(0), fs.Args()[1:], *argsPath, *statement)
	if err != nil {
		fmt.Fprintf(stderr, "pgformat: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, out)
	return 0
}

func format(cfg *config.Config, logger *zap.Logger, template string, positional []string, argsPath string, statement bool) (string, error) {
	reserved, err := cfg.ReservedWords()
	if err != nil {
		return "", err
	}

	opts, err := cfg.FormatterOptions()
	if err != nil {
		return "", err
	}
	opts = append(opts,
		sql.WithLogger(logger.Named("formatter")),
		sql.WithAuditor(audit.NewSecurityAuditor(logger)))

	f, err := sql.NewFormatter(reserved, opts...)
	if err != nil {
		return "", err
	}

	args := make([]any, 0, len(positional))
	for _, a := range positional {
		args = append(args, a)
	}
	if argsPath != "" {
		fileArgs, err := argfile.Load(argsPath)
		if err != nil {
			return "", err
		}
		args = append(args, fileArgs...)
	}

	logger.Debug("Formatting template",
		zap.String("version", cfg.Version),
		zap.Int("reserved_words", reserved.Len()),
		zap.Int("args", len(args)),
		zap.Bool("statement", statement))

	if statement {
		return f.FormatStatement(template, args...)
	}
	return f.Format(template, args...)
}
