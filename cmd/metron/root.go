package main

import (
	"fmt"
	"os"

	"github.com/aretw0/metron/internal/config"
	"github.com/aretw0/metron/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "metron",
	Short: "Metron converts values between units of measurement",
	Long: `Metron converts values between units of length, weight, temperature, volume,
time, speed, electric current and currency. Currency rates are fetched live.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(termenv.EnvColorProfile(), err.Error()))
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file loaded before reading METRON_* variables")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig resolves the configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.Source{
		Path:     path,
		Required: cmd.Flags().Changed("config"),
		EnvFile:  envFile,
	})
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
