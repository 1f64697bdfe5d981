package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "arena",
		Short: "LLM debate battle server",
		Long:  "Serves turn-based adversarial debates between two LLM personas, judged into damage, score and victory, streamed to the client as server-sent events.",
	}

	root.PersistentFlags().String("api-key", "", "Moonshot API key (overrides MOONSHOT_API_KEY env var)")
	root.PersistentFlags().String("base-url", "", "Provider base URL (overrides ARENA_BASE_URL env var)")
	root.PersistentFlags().String("model", "", "Model ID for debaters and judge (overrides ARENA_MODEL env var)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newModelsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
