package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mingyuli/debate-arena/internal/battle"
	"github.com/mingyuli/debate-arena/internal/config"
	"github.com/mingyuli/debate-arena/internal/moonshot"
	"github.com/mingyuli/debate-arena/internal/output"
	"github.com/mingyuli/debate-arena/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the arena HTTP server",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides ARENA_ADDR env var)")
	return cmd
}

// loadConfig merges CLI flag overrides into the environment-derived
// configuration. Flags win over env vars.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	apiKey, _ := cmd.Root().PersistentFlags().GetString("api-key")
	baseURL, _ := cmd.Root().PersistentFlags().GetString("base-url")
	model, _ := cmd.Root().PersistentFlags().GetString("model")

	cfg, err := config.Load()
	if err != nil {
		if apiKey == "" {
			return nil, err
		}
		cfg = &config.Config{Addr: ":3000", Model: "moonshot-v1-8k", BaseURL: moonshot.DefaultBaseURL}
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model != "" {
		cfg.Model = model
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	client := moonshot.NewClientWithBaseURL(cfg.APIKey, cfg.BaseURL)
	// shared by every request goroutine; the source is mutex-locked
	rng := battle.NewLockedRand(time.Now().UnixNano())

	engine := battle.NewEngine(client, cfg.Model, rng)
	suggester := battle.NewSuggester(client, cfg.Model, rng)
	srv := server.New(engine, suggester)

	output.PrintServeBanner(cfg.Addr, cfg.Model)
	if err := srv.Listen(cfg.Addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
