package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TRUTHORDARE"

type Config struct {
	bind           string
	corsOrigins    []string
	database       string
	port           int
	prefix         string
	profile        bool
	seedScenarios  bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if strings.TrimSpace(c.database) == "" {
		return errors.New("--database must not be empty")
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// loadEnvFile reads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

// bindEnv lets TRUTHORDARE_* variables supply any flag not given on the
// command line.
func bindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "truthordare",
		Short:         "A truth or dare party game, with a JSON API for hosting games.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServeAPI(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TRUTHORDARE_BIND)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origin", nil, "origins allowed to call the API from a browser, or * for any (env: TRUTHORDARE_CORS_ORIGIN)")
	fs.StringVarP(&cfg.database, "database", "d", "truthordare.db", "path to the sqlite database (env: TRUTHORDARE_DATABASE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TRUTHORDARE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TRUTHORDARE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: TRUTHORDARE_PROFILE)")
	fs.BoolVar(&cfg.seedScenarios, "seed-scenarios", true, "add the built-in scenarios to an empty database (env: TRUTHORDARE_SEED_SCENARIOS)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game feeds are closed (env: TRUTHORDARE_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: TRUTHORDARE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: TRUTHORDARE_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TRUTHORDARE_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: TRUTHORDARE_VERSION)")

	bindEnv(fs)

	cmd.AddCommand(newPlayCmd())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("truthordare v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func envFile() string {
	return os.Getenv(envPrefix + "_ENV_FILE")
}
