package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/symptom-assist/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Symptom analysis backend",
	Long: `api serves the diagnose, chat, analyses and models endpoints,
forwarding prompts to the configured language-model provider.

Run without a subcommand it behaves like "api serve".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default $CONFIG_PATH or config.yaml)")

	rootCmd.AddCommand(serveCmd, migrateCmd, modelsCmd)
}

// Execute loads .env, then runs the root command with signal handling
func Execute(ctx context.Context) error {
	loadDotEnv()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadDotEnv must run before any flag default or env lookup
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

// resolveConfigPath picks the --config flag, then CONFIG_PATH, then config.yaml
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.yaml"
}

// loadConfig reads the YAML file and environment
func loadConfig() (*config.Config, error) {
	return config.Load(resolveConfigPath(configPath))
}
