package battle

import (
	"context"
	"encoding/json"
	"math/rand"
	"slices"
	"strings"

	"github.com/mingyuli/debate-arena/internal/moonshot"
)

const (
	snippetLimit   = 40
	optionsHistory = 2
	maxOptions     = 3
	presetOdds     = 0.6
)

// presetOptions is the fixed catalog of suggested reply directions. A
// preset set is served for the first two rounds and, probabilistically,
// in later rounds - a deliberate cost/latency/variety tradeoff.
var presetOptions = [][]string{
	{"Question the data source", "Answer from an ethical angle", "Raise a counterexample"},
	{"Rebut the chain of logic", "Stress practical results", "Cite an authority"},
	{"Weigh costs against benefits", "Point out a flawed premise", "Draw an analogy to another case"},
	{"Stress the long-term impact", "Question feasibility", "Clarify the definition"},
	{"Rebut from a historical angle", "Stress the risks", "Offer an alternative path"},
	{"Point out a double standard", "Stress social consensus", "Analyze the interests at stake"},
}

// Suggester produces short suggested reply directions for the
// human-controlled side. It never fails: every error path degrades to a
// preset set.
type Suggester struct {
	llm   LLMClient
	model string
	rng   *rand.Rand
}

// NewSuggester creates a new Suggester.
func NewSuggester(llm LLMClient, model string, rng *rand.Rand) *Suggester {
	return &Suggester{llm: llm, model: model, rng: rng}
}

// Suggest returns up to maxOptions non-empty directions for side's next
// turn.
func (s *Suggester) Suggest(ctx context.Context, topic string, round int, history []HistoryEntry, side Side) []string {
	if round <= 2 || s.rng.Float64() < presetOdds {
		return s.preset()
	}

	if len(history) > optionsHistory {
		history = history[len(history)-optionsHistory:]
	}
	resp, err := s.llm.ChatCompletion(ctx, moonshot.ChatRequest{
		Model: s.model,
		Messages: []moonshot.Message{
			{Role: "user", Content: optionsPrompt(topic, round, formatHistoryForOptions(history), side)},
		},
		ResponseFormat: moonshot.JSONObjectFormat(),
		Temperature:    0.8,
		MaxTokens:      100,
	})
	if err != nil {
		return s.preset()
	}

	cleaned := strings.TrimSpace(codeBlockRe.ReplaceAllString(resp.Content(), "$1"))
	var parsed struct {
		Options []string `json:"options"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return s.preset()
	}

	options := parsed.Options
	if len(options) > maxOptions {
		options = options[:maxOptions]
	}
	if len(options) == 0 {
		return s.preset()
	}
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return s.preset()
		}
	}
	return options
}

func (s *Suggester) preset() []string {
	return slices.Clone(presetOptions[s.rng.Intn(len(presetOptions))])
}
