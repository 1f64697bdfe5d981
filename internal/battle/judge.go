package battle

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/mingyuli/debate-arena/internal/moonshot"
)

const (
	defaultSubScore    = 70
	fallbackCommentary = "The judge's notes were illegible this round; the exchange stands as scored."
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// Judge sends a turn's content to the judge model, parses the structured
// verdict and merges it with the scoring model into a complete
// JudgeResult. Parse failures never fail the battle: they degrade to a
// fixed default verdict.
type Judge struct {
	llm   LLMClient
	model string
	rng   *rand.Rand
}

// NewJudge creates a new Judge. The random source drives the critical
// draw and the score jitter; inject a seeded one for deterministic replay.
func NewJudge(llm LLMClient, model string, rng *rand.Rand) *Judge {
	return &Judge{llm: llm, model: model, rng: rng}
}

// JudgeInput is one turn to be judged, with the state it applies to.
type JudgeInput struct {
	Topic          string
	Round          int
	Attacker       Side
	Style          string
	Content        string
	State          State
	PrevTotalScore int
}

// judgePayload is the request shape sent to the judge model.
type judgePayload struct {
	Topic    string `json:"topic"`
	Round    int    `json:"round"`
	Attacker Side   `json:"attacker"`
	Style    string `json:"type"`
	Content  string `json:"content"`
}

// verdict is the judge model's raw response shape. The sub-scores are
// pointers so a missing field can fall back to the default rather than
// reading as zero. Legacy fields are tolerated and ignored.
type verdict struct {
	LogicScore    *int   `json:"logicScore"`
	RhetoricScore *int   `json:"rhetoricScore"`
	CounterScore  *int   `json:"counterScore"`
	IsOffTopic    *bool  `json:"isOffTopic"`
	Commentary    string `json:"commentary"`
	CritReason    string `json:"critReason"`
}

// Evaluate judges one turn. It returns an error only when the provider
// call itself fails; an unparseable verdict degrades to the default and
// still advances the state deterministically.
func (j *Judge) Evaluate(ctx context.Context, in JudgeInput) (*JudgeResult, error) {
	userContent, err := json.Marshal(judgePayload{
		Topic:    in.Topic,
		Round:    in.Round,
		Attacker: in.Attacker,
		Style:    in.Style,
		Content:  in.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("judge: %w", err)
	}

	resp, err := j.llm.ChatCompletion(ctx, moonshot.ChatRequest{
		Model: j.model,
		Messages: []moonshot.Message{
			{Role: "system", Content: judgeSystemPrompt},
			{Role: "user", Content: string(userContent)},
		},
		ResponseFormat: moonshot.JSONObjectFormat(),
		Temperature:    0.7,
		MaxTokens:      150,
	})
	if err != nil {
		return nil, fmt.Errorf("judge: %w", err)
	}

	v, ok := parseVerdict(resp.Content())
	if !ok {
		return j.fallbackResult(in), nil
	}

	logic := subScore(v.LogicScore)
	rhetoric := subScore(v.RhetoricScore)
	counter := subScore(v.CounterScore)
	offTopic := v.IsOffTopic != nil && *v.IsOffTopic

	isCritical := j.rng.Float64() < CritProbability(logic, rhetoric, counter)
	damage := ComputeDamage(j.rng, isCritical, offTopic)
	hp := ApplyDamage(in.Attacker, in.State, damage)

	return &JudgeResult{
		Damage:        damage,
		IsCritical:    isCritical,
		IsOffTopic:    offTopic,
		CritReason:    v.CritReason,
		LogicScore:    logic,
		RhetoricScore: rhetoric,
		CounterScore:  counter,
		CurrentHP:     hp,
		TotalScore:    in.PrevTotalScore + ComputeScoreDelta(j.rng, damage),
		ComboCount:    in.State.Combo + 1,
		BattleStatus:  statusFor(hp),
		Commentary:    v.Commentary,
	}, nil
}

// fallbackResult is the deterministic default verdict: fixed sub-scores,
// no critical, no off-topic discount, generic commentary. Damage and
// state still advance so a bad judge response cannot stall the battle.
func (j *Judge) fallbackResult(in JudgeInput) *JudgeResult {
	damage := ComputeDamage(j.rng, false, false)
	hp := ApplyDamage(in.Attacker, in.State, damage)
	return &JudgeResult{
		Damage:        damage,
		IsCritical:    false,
		IsOffTopic:    false,
		LogicScore:    defaultSubScore,
		RhetoricScore: defaultSubScore,
		CounterScore:  defaultSubScore,
		CurrentHP:     hp,
		TotalScore:    in.PrevTotalScore + ComputeScoreDelta(j.rng, damage),
		ComboCount:    in.State.Combo + 1,
		BattleStatus:  statusFor(hp),
		Commentary:    fallbackCommentary,
	}
}

func subScore(p *int) int {
	if p == nil {
		return defaultSubScore
	}
	return *p
}

// parseVerdict tries to extract a verdict from model output: a direct
// parse first, then the contents of a markdown code block, then the
// outermost brace-delimited object.
func parseVerdict(raw string) (*verdict, bool) {
	var v verdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err == nil {
		return &v, true
	}

	if matches := codeBlockRe.FindStringSubmatch(raw); len(matches) > 1 {
		if err := json.Unmarshal([]byte(strings.TrimSpace(matches[1])), &v); err == nil {
			return &v, true
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err == nil {
			return &v, true
		}
	}

	return nil, false
}
