package battle

import (
	"strings"
	"testing"
)

func TestTrimHistory(t *testing.T) {
	var history []HistoryEntry
	for i := 0; i < 10; i++ {
		side := Pro
		if i%2 == 1 {
			side = Con
		}
		history = append(history, HistoryEntry{Role: side, Content: strings.Repeat("x", i+1)})
	}

	trimmed := TrimHistory(history)
	if len(trimmed) != maxHistory {
		t.Fatalf("trimmed length = %d, want %d", len(trimmed), maxHistory)
	}
	if trimmed[len(trimmed)-1].Content != history[len(history)-1].Content {
		t.Error("trim dropped the most recent entry")
	}

	short := history[:3]
	if got := TrimHistory(short); len(got) != 3 {
		t.Errorf("short history trimmed to %d entries", len(got))
	}
}

func TestLastSideContent(t *testing.T) {
	history := []HistoryEntry{
		{Role: Pro, Content: "first pro"},
		{Role: Con, Content: "first con"},
		{Role: Pro, Content: "second pro"},
	}
	if got := LastSideContent(history, Pro); got != "second pro" {
		t.Errorf("LastSideContent(pro) = %q", got)
	}
	if got := LastSideContent(history, Con); got != "first con" {
		t.Errorf("LastSideContent(con) = %q", got)
	}
	if got := LastSideContent(nil, Con); got != "" {
		t.Errorf("LastSideContent(empty) = %q, want empty", got)
	}
}

func TestCleanThinking(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain argument", "plain argument"},
		{"argument (private aside) continues", "argument  continues"},
		{"(all thinking)", ""},
		{"a (one) b (two) c", "a  b  c"},
	}
	for _, tt := range tests {
		if got := CleanThinking(tt.in); got != tt.want {
			t.Errorf("CleanThinking(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummarizeBoundary(t *testing.T) {
	exact := strings.Repeat("a", 60)
	if got := Summarize(exact); got != exact {
		t.Errorf("60 runes should pass through unmodified, got %q", got)
	}

	over := strings.Repeat("a", 61)
	got := Summarize(over)
	if runes := []rune(got); len(runes) != 61 {
		t.Errorf("61-rune input should yield a 61-rune summary, got %d runes", len(runes))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated summary missing marker: %q", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("a", 60)) {
		t.Errorf("summary does not keep the 60-rune prefix: %q", got)
	}
}

func TestSummarizeMultibyte(t *testing.T) {
	// 70 CJK runes; a byte-based cut would split mid-character.
	in := strings.Repeat("思", 70)
	got := Summarize(in)
	if runes := []rune(got); len(runes) != 61 {
		t.Fatalf("summary has %d runes, want 61", len(runes))
	}
	if !strings.HasPrefix(got, strings.Repeat("思", 60)) {
		t.Error("multibyte summary corrupted")
	}
}

func TestSummarizeStripsThinkingFirst(t *testing.T) {
	in := "(inner monologue) " + strings.Repeat("b", 58)
	got := Summarize(in)
	if strings.Contains(got, "monologue") {
		t.Errorf("thinking leaked into summary: %q", got)
	}
	if strings.HasSuffix(got, "…") {
		t.Errorf("cleaned text fits the limit, should not truncate: %q", got)
	}
}

func TestSnippet(t *testing.T) {
	in := "word   spaced\n\tout " + strings.Repeat("z", 50)
	got := Snippet(in, 40)
	if runes := []rune(got); len(runes) != 41 {
		t.Errorf("snippet has %d runes, want 41", len(runes))
	}
	if strings.ContainsAny(got, "\n\t") {
		t.Errorf("snippet kept raw whitespace: %q", got)
	}

	if got := Snippet("short", 40); got != "short" {
		t.Errorf("Snippet(short) = %q", got)
	}
}

func TestFormatHistoryForProFirstRound(t *testing.T) {
	got := formatHistoryForPro(nil, "")
	if got == "" || !strings.Contains(got, "first round") {
		t.Errorf("unexpected first-round prompt: %q", got)
	}
}

func TestFormatHistoryForProWithOpponent(t *testing.T) {
	history := []HistoryEntry{
		{Role: Pro, Content: "our opening"},
		{Role: Con, Content: "their reply"},
	}
	got := formatHistoryForPro(history, "their reply")
	if !strings.Contains(got, "[Ours] our opening") {
		t.Errorf("missing own line: %q", got)
	}
	if !strings.Contains(got, "[Theirs] their reply") {
		t.Errorf("missing opponent line: %q", got)
	}
	if !strings.Contains(got, "summarized: their reply") {
		t.Errorf("missing opponent summary: %q", got)
	}
}

func TestFormatHistoryForConFlipsLabels(t *testing.T) {
	history := []HistoryEntry{
		{Role: Pro, Content: "pro words"},
		{Role: Con, Content: "con words"},
	}
	got := formatHistoryForCon(history, "pro words")
	if !strings.Contains(got, "[Theirs] pro words") {
		t.Errorf("pro entry should read as theirs: %q", got)
	}
	if !strings.Contains(got, "[Ours] con words") {
		t.Errorf("con entry should read as ours: %q", got)
	}
	if !strings.Contains(got, "Strike back.") {
		t.Errorf("missing counterattack instruction: %q", got)
	}
}
