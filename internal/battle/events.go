package battle

// Event type strings are part of the wire contract with existing
// clients: the pro side streams under the "kimi" persona and the con
// side under "deepseek".
const (
	EventProStart = "kimi_start"
	EventProToken = "kimi_token"
	EventProEnd   = "kimi_end"
	EventProJudge = "judge_kimi"
	EventConStart = "deepseek_start"
	EventConToken = "deepseek_token"
	EventConEnd   = "deepseek_end"
	EventConJudge = "judge_deepseek"
	EventDone     = "done"
	EventError    = "error"
)

// Event is one wire-level unit of round progress.
type Event struct {
	Type    string       `json:"type"`
	Content string       `json:"content,omitempty"`
	Payload *JudgeResult `json:"payload,omitempty"`
	Winner  Side         `json:"winner,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// EventSink consumes the orchestrator's event stream. Emit returning an
// error aborts the round (the consumer is gone).
type EventSink interface {
	Emit(Event) error
}

// DiscardSink drops all events. The buffered handler uses it and builds
// its response from the RoundResult instead.
type DiscardSink struct{}

func (DiscardSink) Emit(Event) error { return nil }

func startEvent(side Side) Event {
	if side == Pro {
		return Event{Type: EventProStart}
	}
	return Event{Type: EventConStart}
}

func tokenEvent(side Side, content string) Event {
	if side == Pro {
		return Event{Type: EventProToken, Content: content}
	}
	return Event{Type: EventConToken, Content: content}
}

func endEvent(side Side) Event {
	if side == Pro {
		return Event{Type: EventProEnd}
	}
	return Event{Type: EventConEnd}
}

func judgeEvent(side Side, result *JudgeResult) Event {
	if side == Pro {
		return Event{Type: EventProJudge, Payload: result}
	}
	return Event{Type: EventConJudge, Payload: result}
}
