package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mingyuli/debate-arena/internal/battle"
	"github.com/mingyuli/debate-arena/internal/moonshot"
)

// Stable machine-readable error codes on the HTTP boundary.
const (
	codeBadRequest = "BAD_REQUEST"
	codeAuthFailed = "AUTH_FAILED"
	codeModelError = "MODEL_ERROR"
)

type debateRequest struct {
	Topic        string                `json:"topic"`
	Round        int                   `json:"round"`
	UserChoice   string                `json:"userChoice"`
	CurrentState *battle.State         `json:"currentState"`
	History      []battle.HistoryEntry `json:"history"`
	UserSide     battle.Side           `json:"userSide"`
	Phase        battle.Phase          `json:"phase"`
}

func (r *debateRequest) roundRequest(stream bool) battle.RoundRequest {
	var state battle.State
	if r.CurrentState != nil {
		state = *r.CurrentState
	}
	return battle.RoundRequest{
		Topic:    r.Topic,
		Round:    r.Round,
		Choice:   r.UserChoice,
		State:    state,
		History:  r.History,
		UserSide: r.UserSide,
		Phase:    r.Phase,
		Stream:   stream,
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// turnPayload is one side's slice of the buffered response.
type turnPayload struct {
	Content      string         `json:"content"`
	Damage       int            `json:"damage"`
	IsCritical   bool           `json:"isCritical"`
	IsOffTopic   bool           `json:"isOffTopic"`
	CurrentHP    battle.HPState `json:"currentHP"`
	TotalScore   int            `json:"totalScore"`
	ComboCount   int            `json:"comboCount"`
	BattleStatus battle.Status  `json:"battleStatus"`
	Commentary   string         `json:"commentary"`
}

func toTurnPayload(t *battle.TurnOutcome) *turnPayload {
	return &turnPayload{
		Content:      t.Content,
		Damage:       t.Result.Damage,
		IsCritical:   t.Result.IsCritical,
		IsOffTopic:   t.Result.IsOffTopic,
		CurrentHP:    t.Result.CurrentHP,
		TotalScore:   t.Result.TotalScore,
		ComboCount:   t.Result.ComboCount,
		BattleStatus: t.Result.BattleStatus,
		Commentary:   t.Result.Commentary,
	}
}

type debateResponse struct {
	Kimi      *turnPayload        `json:"kimi"`
	DeepSeek  *turnPayload        `json:"deepseek,omitempty"`
	State     *battle.JudgeResult `json:"state,omitempty"`
	Winner    battle.Side         `json:"winner,omitempty"`
	FinalData *battle.JudgeResult `json:"finalData,omitempty"`
}

// errorStatus maps a round error onto an HTTP status, a code and a
// user-facing message. An unset or rejected credential is called out
// specifically so the operator knows what to fix.
func errorStatus(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, battle.ErrBadRequest):
		return fiber.StatusBadRequest, errorResponse{
			Error: "Missing topic, userChoice or currentState",
			Code:  codeBadRequest,
		}
	case errors.Is(err, moonshot.ErrAuthFailed):
		return fiber.StatusInternalServerError, errorResponse{
			Error: "Moonshot rejected the credential: set MOONSHOT_API_KEY in the environment or .env",
			Code:  codeAuthFailed,
		}
	default:
		return fiber.StatusInternalServerError, errorResponse{
			Error: err.Error(),
			Code:  codeModelError,
		}
	}
}

func (s *Server) handleDebate(c *fiber.Ctx) error {
	var req debateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error(), Code: codeBadRequest})
	}
	if req.Topic == "" || req.UserChoice == "" || req.CurrentState == nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: "Missing topic, userChoice or currentState",
			Code:  codeBadRequest,
		})
	}

	battleID := uuid.NewString()
	res, err := s.runner.RunRound(c.Context(), req.roundRequest(false), battle.DiscardSink{})
	if err != nil {
		log.Printf("battle %s: round %d failed: %v", battleID, req.Round, err)
		status, body := errorStatus(err)
		return c.Status(status).JSON(body)
	}

	resp := debateResponse{}
	if res.Pro != nil {
		resp.Kimi = toTurnPayload(res.Pro)
	}
	if res.Winner == battle.Pro {
		resp.Winner = battle.Pro
		resp.FinalData = res.Final
	} else if res.Con != nil {
		resp.DeepSeek = toTurnPayload(res.Con)
		resp.State = res.Final
	}
	log.Printf("battle %s: round %d resolved, status=%s", battleID, req.Round, res.Final.BattleStatus)
	return c.JSON(resp)
}

func (s *Server) handleOptions(c *fiber.Ctx) error {
	var req struct {
		Topic   string                `json:"topic"`
		Round   int                   `json:"round"`
		History []battle.HistoryEntry `json:"history"`
		Side    battle.Side           `json:"side"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error(), Code: codeBadRequest})
	}
	if req.Topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Missing topic", Code: codeBadRequest})
	}
	side := req.Side
	if side == "" {
		side = battle.Pro
	}
	options := s.suggester.Suggest(c.Context(), req.Topic, req.Round, req.History, side)
	return c.JSON(fiber.Map{"options": options})
}
