package battle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
)

// Phase restricts which side acts within a round. The values are part of
// the request contract.
type Phase string

const (
	PhaseFull    Phase = "full"
	PhaseProOnly Phase = "kimi_only"     // first turn only; round ends after its judgement
	PhaseConOnly Phase = "deepseek_only" // resume: second turn against caller-supplied state
)

// ErrBadRequest reports a round request missing required input. It is
// raised before any generation call, so a rejected request has no side
// effects.
var ErrBadRequest = errors.New("battle: missing required request input")

// RoundRequest describes one round to run.
type RoundRequest struct {
	Topic    string
	Round    int
	Choice   string
	State    State
	History  []HistoryEntry
	UserSide Side
	Phase    Phase
	Stream   bool
}

// TurnOutcome is one side's finalized turn: the visible content
// (placeholder-substituted, critical bonus included) and its judgement.
type TurnOutcome struct {
	Content string
	Result  *JudgeResult
}

// RoundResult is what a completed round produced. Final is the judgement
// carrying the round's resulting state: the last one applied.
type RoundResult struct {
	Pro    *TurnOutcome
	Con    *TurnOutcome
	Winner Side
	Final  *JudgeResult
}

// Engine drives one full round: pro turn, judgement, early-exit check,
// con turn, judgement. One engine serves both the buffered and the
// streaming entry points; the sink decides what happens to the events.
type Engine struct {
	judge *Judge
	gen   *Generator
	rng   *rand.Rand
}

// NewEngine creates an Engine on the given provider client and model.
// The random source is shared by scoring, critical draws and bonus
// selection; inject a seeded one for deterministic replay.
func NewEngine(llm LLMClient, model string, rng *rand.Rand) *Engine {
	return &Engine{
		judge: NewJudge(llm, model, rng),
		gen:   NewGenerator(llm, model),
		rng:   rng,
	}
}

// RunRound executes one round against the supplied state, emitting
// events into sink as it progresses. Turn generation and judging are
// strictly sequential; the con turn starts only after the pro turn is
// fully judged. A provider failure aborts the round with no retry.
func (e *Engine) RunRound(ctx context.Context, req RoundRequest, sink EventSink) (*RoundResult, error) {
	if req.Topic == "" || req.Choice == "" {
		return nil, ErrBadRequest
	}
	if req.UserSide == "" {
		req.UserSide = Pro
	}
	if req.Phase == "" {
		req.Phase = PhaseFull
	}

	legacy := IsLegacyStyle(req.Choice)
	trimmed := TrimHistory(req.History)
	res := &RoundResult{}

	state := req.State
	history := trimmed
	opponentLast := LastSideContent(trimmed, Pro)

	if req.Phase != PhaseConOnly {
		pro, err := e.runProTurn(ctx, req, trimmed, legacy, sink)
		if err != nil {
			return nil, err
		}
		res.Pro = pro

		if pro.Result.BattleStatus != Ongoing {
			res.Winner = Pro
			res.Final = pro.Result
			return res, sink.Emit(Event{Type: EventDone, Winner: Pro})
		}
		if req.Phase == PhaseProOnly {
			res.Final = pro.Result
			return res, sink.Emit(Event{Type: EventDone})
		}

		state = State{
			ProHP:      pro.Result.CurrentHP.Pro,
			ConHP:      pro.Result.CurrentHP.Con,
			Combo:      pro.Result.ComboCount,
			TotalScore: pro.Result.TotalScore,
		}
		history = append(slices.Clone(trimmed), HistoryEntry{Role: Pro, Content: pro.Content})
		opponentLast = pro.Content
	}

	con, err := e.runConTurn(ctx, req, state, history, opponentLast, legacy, sink)
	if err != nil {
		return nil, err
	}
	res.Con = con
	res.Final = con.Result
	if con.Result.BattleStatus == ConWin {
		res.Winner = Con
	}
	return res, sink.Emit(Event{Type: EventDone, Winner: res.Winner})
}

func (e *Engine) runProTurn(ctx context.Context, req RoundRequest, trimmed []HistoryEntry, legacy bool, sink EventSink) (*TurnOutcome, error) {
	style := StyleObjective
	if req.UserSide != Con && legacy {
		style = AttackStyle(req.Choice)
	}
	in := TurnInput{
		Topic:        req.Topic,
		Side:         Pro,
		Style:        style,
		Choice:       req.Choice,
		UseChoice:    req.UserSide != Con && !legacy && req.Phase != PhaseProOnly,
		HP:           req.State.ProHP,
		Round:        req.Round,
		History:      trimmed,
		OpponentLast: LastSideContent(trimmed, Con),
	}

	judgeStyle := string(style)
	if !legacy && req.Phase != PhaseProOnly {
		judgeStyle = req.Choice
	}

	return e.runTurn(ctx, req, in, judgeStyle, req.State, req.State.TotalScore, sink)
}

func (e *Engine) runConTurn(ctx context.Context, req RoundRequest, state State, history []HistoryEntry, opponentLast string, legacy bool, sink EventSink) (*TurnOutcome, error) {
	style := StyleObjective
	if legacy {
		if req.UserSide == Con {
			style = AttackStyle(req.Choice)
		} else {
			style = CounterStyle(AttackStyle(req.Choice))
		}
	}
	in := TurnInput{
		Topic:        req.Topic,
		Side:         Con,
		Style:        style,
		Choice:       req.Choice,
		UseChoice:    !legacy,
		HP:           state.ConHP,
		Round:        req.Round,
		History:      history,
		OpponentLast: opponentLast,
	}

	judgeStyle := string(style)
	if !legacy {
		judgeStyle = req.Choice
	}

	return e.runTurn(ctx, req, in, judgeStyle, state, state.TotalScore, sink)
}

// runTurn generates, judges and finalizes one side's turn, emitting the
// side's start/token/end/judge events in order.
func (e *Engine) runTurn(ctx context.Context, req RoundRequest, in TurnInput, judgeStyle string, state State, prevTotal int, sink EventSink) (*TurnOutcome, error) {
	if err := sink.Emit(startEvent(in.Side)); err != nil {
		return nil, err
	}

	var content string
	var err error
	if req.Stream {
		content, err = e.gen.GenerateStream(ctx, in, func(piece string) error {
			return sink.Emit(tokenEvent(in.Side, piece))
		})
	} else {
		content, err = e.gen.Generate(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	if err := sink.Emit(endEvent(in.Side)); err != nil {
		return nil, err
	}

	if content == "" {
		content = Placeholder(in.Side)
	}

	result, err := e.judge.Evaluate(ctx, JudgeInput{
		Topic:          req.Topic,
		Round:          req.Round,
		Attacker:       in.Side,
		Style:          judgeStyle,
		Content:        content,
		State:          state,
		PrevTotalScore: prevTotal,
	})
	if err != nil {
		return nil, fmt.Errorf("battle: %w", err)
	}

	if result.IsCritical {
		bonus := CriticalBonus(e.rng, in.Side)
		content = strings.TrimSpace(content + " " + bonus)
		if err := sink.Emit(tokenEvent(in.Side, " "+bonus)); err != nil {
			return nil, err
		}
	}

	if err := sink.Emit(judgeEvent(in.Side, result)); err != nil {
		return nil, err
	}
	return &TurnOutcome{Content: content, Result: result}, nil
}
