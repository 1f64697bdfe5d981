// Package output renders CLI output with light ANSI styling.
package output

import (
	"fmt"

	"github.com/mingyuli/debate-arena/internal/moonshot"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// Colorize wraps s with an ANSI color code and reset.
func Colorize(color, s string) string { return color + s + ansiReset }

// Bold wraps s with ANSI bold and reset.
func Bold(s string) string { return ansiBold + s + ansiReset }

// PrintServeBanner prints the startup banner for the serve command.
func PrintServeBanner(addr, model string) {
	fmt.Printf("%s listening on %s (model %s)\n",
		Colorize(ansiBold+ansiCyan, "Rhetoric Arena"),
		Bold(addr),
		Colorize(ansiYellow, model),
	)
}

// PrintModels prints the provider's model list, marking the configured one.
func PrintModels(models []moonshot.Model, current string) {
	for _, m := range models {
		marker := "  "
		id := m.ID
		if m.ID == current {
			marker = Colorize(ansiGreen, "* ")
			id = Bold(id)
		}
		if m.OwnedBy != "" {
			fmt.Printf("%s%s (%s)\n", marker, id, m.OwnedBy)
		} else {
			fmt.Printf("%s%s\n", marker, id)
		}
	}
}
