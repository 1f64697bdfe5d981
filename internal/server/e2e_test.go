package server

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mingyuli/debate-arena/internal/battle"
	"github.com/mingyuli/debate-arena/internal/moonshot"
)

// fakeMoonshot stands in for the provider: judge calls (json_object)
// get a fixed verdict, streamed generation gets SSE fragments, buffered
// generation gets a plain reply.
func fakeMoonshot(t *testing.T) *httptest.Server {
	t.Helper()
	const verdict = `{"logicScore": 60, "rhetoricScore": 60, "counterScore": 60, "isOffTopic": false, "commentary": "an even exchange"}`

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req moonshot.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("upstream decode: %v", err)
			return
		}

		reply := func(content string) {
			resp := moonshot.ChatResponse{Choices: []moonshot.Choice{{
				Message: moonshot.Message{Role: "assistant", Content: content},
			}}}
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				t.Errorf("upstream encode: %v", err)
			}
		}

		switch {
		case req.ResponseFormat != nil:
			reply(verdict)
		case req.Stream:
			w.Header().Set("Content-Type", "text/event-stream")
			for _, piece := range []string{"streamed ", "argument"} {
				fmt.Fprintf(w, "data: {\"choices\": [{\"delta\": {\"content\": %q}}]}\n\n", piece)
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
		default:
			reply("a buffered argument")
		}
	}))
}

func arenaServer(upstreamURL string) *Server {
	client := moonshot.NewClientWithBaseURL("test-key", upstreamURL)
	rng := rand.New(rand.NewSource(7))
	engine := battle.NewEngine(client, "moonshot-v1-8k", rng)
	suggester := battle.NewSuggester(client, "moonshot-v1-8k", rng)
	return New(engine, suggester)
}

func TestEndToEndBufferedRound(t *testing.T) {
	upstream := fakeMoonshot(t)
	defer upstream.Close()
	s := arenaServer(upstream.URL)

	resp := postJSON(t, s, "/debate", validDebateBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body debateResponse
	decodeBody(t, resp, &body)
	if body.Kimi == nil || body.Kimi.Content != "a buffered argument" {
		t.Fatalf("kimi = %+v", body.Kimi)
	}
	if body.DeepSeek == nil {
		t.Fatal("expected a deepseek turn")
	}

	// fixed 60s verdict: no critical, damage within the base range
	if body.Kimi.IsCritical {
		t.Error("unexpected critical")
	}
	conHP := body.Kimi.CurrentHP.Con
	if conHP < 800 || conHP > 900 {
		t.Errorf("con HP = %d, want base damage off 1000", conHP)
	}
	if body.State == nil || body.State.ComboCount != 2 || body.State.BattleStatus != battle.Ongoing {
		t.Errorf("state = %+v", body.State)
	}
	if body.State.TotalScore <= body.Kimi.TotalScore {
		t.Error("score must grow across the round")
	}
}

func TestEndToEndStreamedRound(t *testing.T) {
	upstream := fakeMoonshot(t)
	defer upstream.Close()
	s := arenaServer(upstream.URL)

	resp := postJSON(t, s, "/debate/stream", validDebateBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}

	var types []string
	var proText strings.Builder
	for _, frame := range strings.Split(strings.TrimSpace(string(raw)), "\n\n") {
		var ev battle.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &ev); err != nil {
			t.Fatalf("frame %q: %v", frame, err)
		}
		types = append(types, ev.Type)
		if ev.Type == battle.EventProToken {
			proText.WriteString(ev.Content)
		}
		if ev.Type == battle.EventProJudge {
			if ev.Payload == nil || ev.Payload.CurrentHP.Con >= 1000 {
				t.Errorf("pro judge payload = %+v", ev.Payload)
			}
		}
	}

	want := []string{
		battle.EventProStart, battle.EventProToken, battle.EventProToken,
		battle.EventProEnd, battle.EventProJudge,
		battle.EventConStart, battle.EventConToken, battle.EventConToken,
		battle.EventConEnd, battle.EventConJudge,
		battle.EventDone,
	}
	if len(types) != len(want) {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event types = %v, want %v", types, want)
		}
	}
	if proText.String() != "streamed argument" {
		t.Errorf("pro text = %q", proText.String())
	}
}

func TestEndToEndOptionsPreset(t *testing.T) {
	upstream := fakeMoonshot(t)
	defer upstream.Close()
	s := arenaServer(upstream.URL)

	resp := postJSON(t, s, "/debate/options", `{"topic": "Should cities ban private cars?", "round": 1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Options []string `json:"options"`
	}
	decodeBody(t, resp, &body)
	if len(body.Options) != 3 {
		t.Fatalf("options = %v, want a preset triple", body.Options)
	}
	for _, opt := range body.Options {
		if strings.TrimSpace(opt) == "" {
			t.Error("empty option in preset set")
		}
	}
}

func TestEndToEndAuthFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid key"}`, http.StatusUnauthorized)
	}))
	defer upstream.Close()
	s := arenaServer(upstream.URL)

	resp := postJSON(t, s, "/debate", validDebateBody)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Code != codeAuthFailed {
		t.Errorf("code = %q, want %q", body.Code, codeAuthFailed)
	}
	if !strings.Contains(body.Error, "MOONSHOT_API_KEY") {
		t.Errorf("error %q should name the credential variable", body.Error)
	}
}
