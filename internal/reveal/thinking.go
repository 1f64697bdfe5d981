package reveal

import (
	"fmt"
	"strings"

	"github.com/mingyuli/debate-arena/internal/battle"
)

// A short "thinking" line opens each turn in the projection, before the
// first token is revealed. Purely presentational.

const (
	thinkingPrefix  = "[thinking] "
	lowHPLineCutoff = 250
	opponentSnipLen = 12
)

var proThinkingLines = []string{
	"Find the weak joint in their argument first, then come back to the motion.",
	"This motion turns on a value tradeoff; lay the scale out plainly.",
	"Answer with a cleaner structure; do not get dragged off course.",
	"This step needs the causal chain spelled out, not just a stance.",
}

var conThinkingLines = []string{
	"They are swapping concepts; draw the boundary first.",
	"Take their chain of evidence apart and answer it link by link.",
	"This is a fight over standards; state the standard clearly.",
	"Stay cold, follow the logic, do not chase the emotion.",
}

var lowHPLines = []string{
	"Not much health left; every counter has to land.",
	"It is tense now; the key point has to hit in one stroke.",
}

func isThinkingOnly(content string) bool {
	return strings.HasPrefix(content, thinkingPrefix) && !strings.Contains(content, "\n")
}

// thinkingLine picks the line that opens side's next turn. Low health
// widens the pool with desperate variants; the last opponent entry, if
// any, contributes a short quoted snippet. Caller holds s.mu.
func (s *Scheduler) thinkingLine(side battle.Side, hp int) string {
	base := proThinkingLines
	if side == battle.Con {
		base = conThinkingLines
	}
	pool := base
	if hp < lowHPLineCutoff {
		pool = append(append([]string{}, base...), lowHPLines...)
	}
	line := pool[s.rng.Intn(len(pool))]

	if snippet := s.lastOpponentSnippet(side); snippet != "" {
		return fmt.Sprintf("%sThey said %q… %s", thinkingPrefix, snippet, line)
	}
	return fmt.Sprintf("%sBack to the motion (%s): %s", thinkingPrefix, s.topic, line)
}

func (s *Scheduler) lastOpponentSnippet(side battle.Side) string {
	opponent := side.Opponent()
	for i := len(s.proj.Logs) - 1; i >= 0; i-- {
		if s.proj.Logs[i].Side != opponent {
			continue
		}
		text := s.proj.Logs[i].Content
		// the thinking line is presentation, not argument
		if strings.HasPrefix(text, thinkingPrefix) {
			idx := strings.Index(text, "\n")
			if idx < 0 {
				continue
			}
			text = text[idx+1:]
		}
		text = strings.Join(strings.Fields(text), " ")
		runes := []rune(text)
		if len(runes) > opponentSnipLen {
			return string(runes[:opponentSnipLen])
		}
		return text
	}
	return ""
}
