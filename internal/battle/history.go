package battle

import (
	"fmt"
	"regexp"
	"strings"
)

// maxHistory bounds how many past turns are exposed to generation, to
// keep prompt size flat over long battles. The full log stays with the
// client for display.
const maxHistory = 6

const summaryLimit = 60

// thinkingRe matches parenthesized asides, which the debater prompts use
// for private thinking and which never enter another model's context.
var thinkingRe = regexp.MustCompile(`\([^)]*\)`)

// TrimHistory returns the most recent maxHistory entries.
func TrimHistory(history []HistoryEntry) []HistoryEntry {
	if len(history) <= maxHistory {
		return history
	}
	return history[len(history)-maxHistory:]
}

// LastSideContent returns the most recent entry spoken by side, or "".
func LastSideContent(history []HistoryEntry, side Side) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == side {
			return history[i].Content
		}
	}
	return ""
}

// CleanThinking strips private thinking annotations from a turn's text.
func CleanThinking(content string) string {
	return strings.TrimSpace(thinkingRe.ReplaceAllString(content, ""))
}

// Summarize produces the one-line opponent summary used in prompts:
// thinking stripped, then cut to summaryLimit runes with a truncation
// marker. Rune-based so multibyte text never splits mid-character.
func Summarize(content string) string {
	cleaned := CleanThinking(content)
	runes := []rune(cleaned)
	if len(runes) <= summaryLimit {
		return cleaned
	}
	return string(runes[:summaryLimit]) + "…"
}

// Snippet collapses whitespace and cuts content to limit runes with a
// truncation marker. Used for the compact history shown to the option
// suggester.
func Snippet(content string, limit int) string {
	text := strings.Join(strings.Fields(content), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

// formatHistoryForPro renders the pro debater's user prompt from the
// trimmed history and the opponent's latest words.
func formatHistoryForPro(history []HistoryEntry, opponentLastWords string) string {
	if len(history) == 0 && opponentLastWords == "" {
		return "This is the first round. Open the debate with the proponent's case."
	}
	lines := make([]string, len(history))
	for i, h := range history {
		label := "[Theirs]"
		if h.Role == Pro {
			label = "[Ours]"
		}
		lines[i] = label + " " + CleanThinking(h.Content)
	}
	text := strings.Join(lines, "\n\n")
	if opponentLastWords != "" {
		summary := Summarize(opponentLastWords)
		return text + "\n\nOpponent's point, summarized: " + summary + "\nMake your argument."
	}
	return text + "\nMake your argument."
}

// formatHistoryForCon renders the con debater's user prompt. The pro
// side always moves first, so there is always something to strike back at.
func formatHistoryForCon(history []HistoryEntry, proLastWords string) string {
	summary := Summarize(proLastWords)
	if len(history) == 0 {
		return "Opponent's point, summarized: " + summary + "\nStrike back."
	}
	lines := make([]string, len(history))
	for i, h := range history {
		label := "[Theirs]"
		if h.Role == Con {
			label = "[Ours]"
		}
		lines[i] = label + " " + CleanThinking(h.Content)
	}
	return strings.Join(lines, "\n\n") + "\n\nOpponent's point, summarized: " + summary + "\nStrike back."
}

// formatHistoryForOptions renders the compact two-entry history shown to
// the option suggester, each entry cut to snippetLimit runes.
func formatHistoryForOptions(history []HistoryEntry) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, len(history))
	for i, h := range history {
		label := "[Con]"
		if h.Role == Pro {
			label = "[Pro]"
		}
		lines[i] = fmt.Sprintf("%s %s", label, Snippet(h.Content, snippetLimit))
	}
	return strings.Join(lines, "\n")
}
