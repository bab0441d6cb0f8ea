package softassert

import (
	"log/slog"
	"os"
	"strings"
)

type options struct {
	log       *slog.Logger
	header    string
	separator string
	disabled  bool
	caller    bool
}

func defaultOptions() options {
	return options{
		header:    DefaultHeader,
		separator: DefaultSeparator,
	}
}

// Option configures a [Collector].
type Option func(*options)

// WithLogger sets a logger that will receive diagnostic messages when failures are reported.
// A nil logger disables logging, which is the default.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithHeader changes the first line of the report from [DefaultHeader].
func WithHeader(header string) Option {
	return func(o *options) {
		o.header = header
	}
}

// WithSeparator changes the string written between report entries from [DefaultSeparator].
func WithSeparator(separator string) Option {
	return func(o *options) {
		o.separator = separator
	}
}

// WithDisabled turns every check into a no-op when disabled is true.
// Report will always return nil for a disabled [Collector].
func WithDisabled(disabled bool) Option {
	return func(o *options) {
		o.disabled = disabled
	}
}

// WithCallerDetails records the file and line of each failed check in the report.
func WithCallerDetails(enabled bool) Option {
	return func(o *options) {
		o.caller = enabled
	}
}

const (
	EnvDisable   = "SOFTASSERT_DISABLE"   // EnvDisable is a boolean that maps to [WithDisabled].
	EnvSeparator = "SOFTASSERT_SEPARATOR" // EnvSeparator maps to [WithSeparator]. The escape sequences \n and \t are honored.
	EnvHeader    = "SOFTASSERT_HEADER"    // EnvHeader maps to [WithHeader].
	EnvCaller    = "SOFTASSERT_CALLER"    // EnvCaller is a boolean that maps to [WithCallerDetails].
)

var (
	envTrue  = []string{"1", "yes", "true", "on"}
	envFalse = []string{"0", "no", "false", "off"}

	escapeReplacer = strings.NewReplacer(`\n`, "\n", `\t`, "\t")
)

// FromEnv reads [Option] settings from the environment.
// Keys are matched case-insensitive, and variables that are unset or blank are skipped.
// Options passed to [New] after these will override them.
func FromEnv() []Option {
	env := getEnv()
	var opts []Option
	if val, ok := envBool(env, EnvDisable); ok {
		opts = append(opts, WithDisabled(val))
	}
	if val, ok := envVal(env, EnvSeparator); ok {
		opts = append(opts, WithSeparator(escapeReplacer.Replace(val)))
	}
	if val, ok := envVal(env, EnvHeader); ok {
		opts = append(opts, WithHeader(val))
	}
	if val, ok := envBool(env, EnvCaller); ok {
		opts = append(opts, WithCallerDetails(val))
	}
	return opts
}

func getEnv() map[string]string {
	envMap := map[string]string{}
	environ := os.Environ()
	for i := 0; i < len(environ); i++ {
		key, val, found := strings.Cut(environ[i], "=")
		if !found {
			continue
		}
		envMap[strings.ToLower(key)] = val
	}
	return envMap
}

func envVal(env map[string]string, key string) (string, bool) {
	val, ok := env[strings.ToLower(key)]
	if !ok || len(val) == 0 {
		return "", false
	}
	// The separator is used verbatim, whitespace included.
	if key == EnvSeparator {
		return val, true
	}
	val = strings.TrimSpace(val)
	if len(val) == 0 {
		return "", false
	}
	return val, true
}

func envBool(env map[string]string, key string) (bool, bool) {
	sval, ok := envVal(env, key)
	if !ok {
		return false, false
	}
	sval = strings.ToLower(sval)
	for _, t := range envTrue {
		if sval == t {
			return true, true
		}
	}
	for _, f := range envFalse {
		if sval == f {
			return false, true
		}
	}
	return false, false
}
