package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/saylorsolutions/softassert"
	"github.com/saylorsolutions/softassert/checkfile"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	exitOK       = 0
	exitFailures = 1
	exitUsage    = 2
)

const usage = `Runs every check in the given YAML check files, and reports all failures together.

USAGE:
softassert [FLAGS...] FILE...

Values referenced with actual_env are read from the environment first, then from any --env-file in the order given.
Collector settings may be changed with the SOFTASSERT_HEADER, SOFTASSERT_SEPARATOR, and SOFTASSERT_CALLER environment variables.
With SOFTASSERT_CALLER set, each failure shows the check file and line where the check is declared.
SOFTASSERT_DISABLE is ignored, since checks are always evaluated by this command.

EXIT CODES
  0  All checks passed
  1  One or more checks failed
  2  Usage, file, or value errors

FLAGS
`

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, os.LookupEnv))
}

type config struct {
	envFiles []string
	noColor  bool
	verbose  bool
	files    []string
}

func parseFlags(args []string, out io.Writer) (*config, error) {
	var cfg config
	fs := flag.NewFlagSet("softassert", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.SetInterspersed(false)
	fs.StringArrayVarP(&cfg.envFiles, "env-file", "e", nil, "Dotenv file used to resolve actual_env values, may be repeated")
	fs.BoolVar(&cfg.noColor, "no-color", false, "Disables colored output")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "Enables debug logging")
	fs.Usage = func() {
		_, _ = fmt.Fprint(out, usage+fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		fs.Usage()
		return nil, errors.New("at least one check file is required")
	}
	return &cfg, nil
}

func run(args []string, stderr io.Writer, lookupEnv checkfile.LookupFunc) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))

	lookup, err := envLookup(lookupEnv, cfg.envFiles)
	if err != nil {
		log.Error("Failed to read env file", "error", err)
		return exitUsage
	}

	files := make([]*checkfile.File, 0, len(cfg.files))
	for _, path := range cfg.files {
		file, err := checkfile.LoadFile(path)
		if err != nil {
			log.Error("Failed to load checks", "error", err)
			return exitUsage
		}
		log.Debug("Loaded check file", "path", path, "checks", len(file.Checks))
		files = append(files, file)
	}

	// Disabling would turn the whole run into a no-op, so SOFTASSERT_DISABLE is overridden.
	c := softassert.New(append(softassert.FromEnv(), softassert.WithLogger(log), softassert.WithDisabled(false))...)
	code := exitOK
	for _, file := range files {
		if err := file.Run(c, lookup); err != nil {
			log.Error("Failed to run checks", "error", err)
			code = exitUsage
		}
	}

	if err := c.Report(); err != nil {
		_, _ = fmt.Fprint(stderr, render(err.Error(), useColor(cfg, stderr, lookupEnv)))
		return exitFailures
	}
	if code == exitOK {
		log.Info("All checks passed", "files", len(files))
	}
	return code
}

// envLookup resolves from lookupEnv first, so dotenv files never override the real environment.
func envLookup(lookupEnv checkfile.LookupFunc, envFiles []string) (checkfile.LookupFunc, error) {
	if len(envFiles) == 0 {
		return lookupEnv, nil
	}
	dotenv, err := godotenv.Read(envFiles...)
	if err != nil {
		return nil, err
	}
	return func(key string) (string, bool) {
		if val, ok := lookupEnv(key); ok {
			return val, true
		}
		val, ok := dotenv[key]
		return val, ok
	}, nil
}

func useColor(cfg *config, out io.Writer, lookupEnv checkfile.LookupFunc) bool {
	if cfg.noColor {
		return false
	}
	if _, set := lookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

func render(report string, color bool) string {
	if !color {
		return report
	}
	lines := strings.Split(report, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "[Assertion "):
			lines[i] = ansiRed + line + ansiReset
		case i == 0:
			lines[i] = ansiBold + line + ansiReset
		}
	}
	return strings.Join(lines, "\n")
}
