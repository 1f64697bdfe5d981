package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/mingyuli/debate-arena/internal/battle"
)

// sseSink writes battle events as server-sent-event frames, flushing
// after each one so the consumer sees tokens as they arrive. A flush
// failure means the consumer is gone and aborts the round.
type sseSink struct {
	w *bufio.Writer
}

func (s *sseSink) Emit(ev battle.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *Server) handleDebateStream(c *fiber.Ctx) error {
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

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	battleID := uuid.NewString()
	roundReq := req.roundRequest(true)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		sink := &sseSink{w: w}
		res, err := s.runner.RunRound(context.Background(), roundReq, sink)
		if err != nil {
			log.Printf("battle %s: stream round %d failed: %v", battleID, roundReq.Round, err)
			_, body := errorStatus(err)
			// best effort: the consumer may already be gone
			_ = sink.Emit(battle.Event{Type: battle.EventError, Error: body.Error})
			return
		}
		log.Printf("battle %s: stream round %d resolved, status=%s", battleID, roundReq.Round, res.Final.BattleStatus)
	}))
	return nil
}
