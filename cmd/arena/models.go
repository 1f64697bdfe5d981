package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mingyuli/debate-arena/internal/moonshot"
	"github.com/mingyuli/debate-arena/internal/output"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available to the configured credential",
		RunE:  runModels,
	}
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := moonshot.NewClientWithBaseURL(cfg.APIKey, cfg.BaseURL)
	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("models: %w", err)
	}

	output.PrintModels(models, cfg.Model)
	return nil
}
