// Package commands implements the speedrun CLI on top of the speedrun package.
package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

const (
	envPrefix      = "SPEEDRUN"
	configDirName  = ".speedrun"
	configFileName = "config"
	userAgent      = "speedrun-go-cli"
)

// Config of the CLI, loaded from flags, SPEEDRUN_* environment variables and the config file, in this order.
type Config struct {
	APIKey    string `mapstructure:"api-key"`
	BaseURL   string `mapstructure:"base-url"`
	Output    string `mapstructure:"output"`
	Verbose   bool   `mapstructure:"verbose"`
	RateLimit bool   `mapstructure:"rate-limit"`
}

// APIFactory creates the API for a loaded Config.
type APIFactory func(cfg Config, logger zerolog.Logger) *speedrun.API

// NewAPI is the default APIFactory.
func NewAPI(cfg Config, logger zerolog.Logger) *speedrun.API {
	opts := []speedrun.APIOption{
		speedrun.WithBaseURL(cfg.BaseURL),
		speedrun.WithUserAgent(userAgent),
		speedrun.WithLogger(logger),
	}
	if cfg.APIKey != "" {
		opts = append(opts, speedrun.WithAPIKey(cfg.APIKey))
	}
	if cfg.RateLimit {
		opts = append(opts, speedrun.WithRateLimit(speedrun.NewRateLimiter()))
	}
	return speedrun.NewAPI(opts...)
}

// app is shared by all commands, the config is loaded before a command runs.
type app struct {
	viper  *viper.Viper
	newAPI APIFactory
	cfg    Config
	logger zerolog.Logger
}

func (a *app) api() *speedrun.API {
	return a.newAPI(a.cfg, a.logger)
}

// NewRootCommand creates the "speedrun" command with all subcommands.
func NewRootCommand(v *viper.Viper, newAPI APIFactory) *cobra.Command {
	a := &app{viper: v, newAPI: newAPI, logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "speedrun",
		Short: "speedrun.com API v1 CLI",
		Long: `A command-line interface for the speedrun.com API v1.

Read commands work without an API key, the runs write commands require one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.speedrun/config.yml)")
	flags.String("api-key", "", "API key")
	flags.String("base-url", speedrun.DefaultBaseURL, "API base URL")
	flags.StringP("output", "o", OutputFormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "log HTTP requests to stderr")
	flags.Bool("rate-limit", true, "respect the API rate limit of 100 requests per minute")
	for _, name := range []string{"config", "api-key", "base-url", "output", "verbose", "rate-limit"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(
		newGamesCommand(a),
		newGenresCommand(a),
		newLeaderboardCommand(a),
		newRunsCommand(a),
		newUsersCommand(a),
	)
	return cmd
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	if file := a.viper.GetString("config"); file != "" {
		a.viper.SetConfigFile(file)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.viper.AddConfigPath(filepath.Join(home, configDirName))
		a.viper.SetConfigType("yml")
		a.viper.SetConfigName(configFileName)
	}

	a.viper.SetEnvPrefix(envPrefix)
	a.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.viper.AutomaticEnv()

	if err := a.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("cannot read config file: %w", err)
		}
	}

	if err := a.viper.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("cannot decode config: %w", err)
	}

	switch a.cfg.Output {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
	default:
		return fmt.Errorf(`unexpected output format "%s", expected one of table, json, yaml`, a.cfg.Output)
	}

	if a.cfg.Verbose {
		a.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	}
	return nil
}
