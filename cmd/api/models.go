package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/symptom-assist/internal/infra/ai/openai"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Print the model ids the provider offers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config load: %w", err)
		}
		ids, err := openai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.MaxTokens).ListModels(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}
