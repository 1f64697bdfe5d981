// Package battle implements the debate battle state machine: scoring,
// judging, turn generation and round orchestration.
package battle

import (
	"context"

	"github.com/mingyuli/debate-arena/internal/moonshot"
)

// InitialHP is each side's starting health.
const InitialHP = 1000

// Side identifies a debater.
type Side string

const (
	Pro Side = "pro"
	Con Side = "con"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Pro {
		return Con
	}
	return Pro
}

// Status is the battle's lifecycle state. Once a win status is reached
// no further turns are processed.
type Status string

const (
	Ongoing Status = "ongoing"
	ProWin  Status = "pro_win"
	ConWin  Status = "con_win"
)

// AttackStyle is one of the legacy three-category attack styles.
type AttackStyle string

const (
	StyleSarcastic AttackStyle = "A"
	StyleObjective AttackStyle = "B"
	StyleOblique   AttackStyle = "C"
)

// IsLegacyStyle reports whether choice is one of the fixed A/B/C styles,
// as opposed to a free-text attack direction.
func IsLegacyStyle(choice string) bool {
	return choice == "A" || choice == "B" || choice == "C"
}

// CounterStyle returns the style that counters the given one. The
// rotation is fixed (A→B, B→C, C→A) so no static strategy dominates.
func CounterStyle(style AttackStyle) AttackStyle {
	switch style {
	case StyleSarcastic:
		return StyleObjective
	case StyleObjective:
		return StyleOblique
	default:
		return StyleSarcastic
	}
}

// HPState holds both sides' health.
type HPState struct {
	Pro int `json:"pro"`
	Con int `json:"con"`
}

// State is the mutable battle state a round starts from. It is supplied
// by the caller and returned through JudgeResults; the server holds no
// cross-request state.
type State struct {
	ProHP      int `json:"proHP"`
	ConHP      int `json:"conHP"`
	Combo      int `json:"combo"`
	TotalScore int `json:"totalScore"`
}

// HistoryEntry is one resolved turn as seen by future prompts.
type HistoryEntry struct {
	Role    Side   `json:"role"`
	Content string `json:"content"`
}

// JudgeResult is the complete outcome of one judged turn: the verdict
// fields returned by the judge model merged with the computed damage and
// resulting state.
type JudgeResult struct {
	Damage        int     `json:"damage"`
	IsCritical    bool    `json:"isCritical"`
	IsOffTopic    bool    `json:"isOffTopic"`
	CritReason    string  `json:"critReason,omitempty"`
	LogicScore    int     `json:"logicScore"`
	RhetoricScore int     `json:"rhetoricScore"`
	CounterScore  int     `json:"counterScore"`
	CurrentHP     HPState `json:"currentHP"`
	TotalScore    int     `json:"totalScore"`
	ComboCount    int     `json:"comboCount"`
	BattleStatus  Status  `json:"battleStatus"`
	Commentary    string  `json:"commentary"`
}

// LogEntry is one turn in the display log. Content grows while the turn
// streams; the judgement fields are filled in once the turn is judged.
type LogEntry struct {
	Side       Side   `json:"side"`
	Content    string `json:"content"`
	Damage     int    `json:"damage,omitempty"`
	IsCritical bool   `json:"isCritical,omitempty"`
	IsOffTopic bool   `json:"isOffTopic,omitempty"`
	Commentary string `json:"commentary,omitempty"`
}

// LLMClient is the provider capability the battle consumes. Both methods
// map onto the moonshot client; the interface exists so tests can mock it.
type LLMClient interface {
	ChatCompletion(ctx context.Context, req moonshot.ChatRequest) (*moonshot.ChatResponse, error)
	ChatCompletionStream(ctx context.Context, req moonshot.ChatRequest, onDelta func(string) error) error
}
