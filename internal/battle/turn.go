package battle

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mingyuli/debate-arena/internal/moonshot"
)

const turnMaxTokens = 600

// Placeholders shown when a debater produces nothing but whitespace.
// Substituted locally, never treated as an error.
const (
	proPlaceholder = "(the proponent stands silent this turn)"
	conPlaceholder = "(the opponent stands silent this turn)"
)

// Bonus sentences appended after a critical hit. Cosmetic: they are
// added post-judgement and never re-judged.
var (
	critBonusPro = []string{
		"More to the point, this is exactly where the opponent's argument comes apart.",
		"Which is why our position carries the greater explanatory power here.",
	}
	critBonusCon = []string{
		"Which shows precisely how little the opponent's conclusion rests on.",
		"In the end, the opponent's premise simply does not hold.",
	}
)

// Placeholder returns the side's no-content fallback string.
func Placeholder(side Side) string {
	if side == Pro {
		return proPlaceholder
	}
	return conPlaceholder
}

// CriticalBonus draws one bonus sentence from the side's fixed pool.
func CriticalBonus(rng *rand.Rand, side Side) string {
	pool := critBonusPro
	if side == Con {
		pool = critBonusCon
	}
	return pool[rng.Intn(len(pool))]
}

// TurnInput carries everything needed to generate one side's turn.
// History must already be trimmed.
type TurnInput struct {
	Topic        string
	Side         Side
	Style        AttackStyle
	Choice       string
	UseChoice    bool
	HP           int
	Round        int
	History      []HistoryEntry
	OpponentLast string
}

// Generator requests rhetorical content from the debater model, in
// either buffered or token-streamed form.
type Generator struct {
	llm   LLMClient
	model string
}

// NewGenerator creates a new Generator.
func NewGenerator(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) messages(in TurnInput) []moonshot.Message {
	var system, user string
	if in.Side == Pro {
		if in.UseChoice {
			system = proSystemPromptByChoice(in.Topic, in.Choice, in.HP, in.Round)
		} else {
			system = proSystemPrompt(in.Topic, in.Style, in.HP, in.Round)
		}
		user = formatHistoryForPro(in.History, in.OpponentLast)
	} else {
		if in.UseChoice {
			system = conSystemPromptByChoice(in.Topic, in.Choice, in.HP, in.Round)
		} else {
			system = conSystemPrompt(in.Topic, in.Style, in.HP, in.Round)
		}
		user = formatHistoryForCon(in.History, in.OpponentLast)
	}
	return []moonshot.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// Generate requests the turn as one completed text block, trimmed.
func (g *Generator) Generate(ctx context.Context, in TurnInput) (string, error) {
	resp, err := g.llm.ChatCompletion(ctx, moonshot.ChatRequest{
		Model:     g.model,
		Messages:  g.messages(in),
		MaxTokens: turnMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("turn %s: %w", in.Side, err)
	}
	return strings.TrimSpace(resp.Content()), nil
}

// GenerateStream requests the turn as an ordered fragment stream,
// forwarding every fragment to onToken, and returns the trimmed
// concatenation of all fragments.
func (g *Generator) GenerateStream(ctx context.Context, in TurnInput, onToken func(string) error) (string, error) {
	var sb strings.Builder
	err := g.llm.ChatCompletionStream(ctx, moonshot.ChatRequest{
		Model:     g.model,
		Messages:  g.messages(in),
		MaxTokens: turnMaxTokens,
	}, func(piece string) error {
		sb.WriteString(piece)
		return onToken(piece)
	})
	if err != nil {
		return "", fmt.Errorf("turn %s: %w", in.Side, err)
	}
	return strings.TrimSpace(sb.String()), nil
}
