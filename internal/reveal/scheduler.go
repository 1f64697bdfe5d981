// Package reveal reconstructs a client-side projection of the battle
// from the orchestrator's event stream and paces the visual reveal of
// each side's text independently of network arrival timing.
package reveal

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/mingyuli/debate-arena/internal/battle"
)

// Reveal pacing bounds. The inter-token delay derives from the
// user-adjustable speed multiplier, inversely, with a floor so extreme
// speeds never collapse the reveal entirely.
const (
	minSpeed     = 0.1
	maxSpeed     = 3.0
	baseDelay    = 30 * time.Millisecond
	minDelay     = 8 * time.Millisecond
	defaultSpeed = 1.0
)

// Projection is the client's reconstructed copy of the battle state. It
// has no authority: the server-computed state carried in judge events is
// canonical.
type Projection struct {
	ProHP      int
	ConHP      int
	TotalScore int
	Combo      int
	Round      int
	Status     battle.Status
	Logs       []battle.LogEntry
	Err        string
}

// Scheduler consumes stream events and replays each side's tokens
// through an ordered per-side chain, guaranteeing in-order, gap-free
// reconstruction while display and arrival rates differ.
type Scheduler struct {
	mu    sync.Mutex
	proj  Projection
	topic string
	rng   *rand.Rand
	speed float64
	sleep func(time.Duration)

	chains map[battle.Side]*chain
}

type chain struct {
	queue chan string
	wg    sync.WaitGroup
}

// NewScheduler creates a Scheduler for one battle with the default
// reveal speed. The sleep function is injectable for deterministic
// tests; pass nil for real pacing.
func NewScheduler(topic string, rng *rand.Rand, sleep func(time.Duration)) *Scheduler {
	if sleep == nil {
		sleep = time.Sleep
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Scheduler{
		topic: topic,
		rng:   rng,
		proj: Projection{
			ProHP:  battle.InitialHP,
			ConHP:  battle.InitialHP,
			Round:  1,
			Status: battle.Ongoing,
		},
		speed:  defaultSpeed,
		sleep:  sleep,
		chains: make(map[battle.Side]*chain),
	}
	for _, side := range []battle.Side{battle.Pro, battle.Con} {
		c := &chain{queue: make(chan string, 1024)}
		s.chains[side] = c
		go s.replay(side, c)
	}
	return s
}

func (s *Scheduler) replay(side battle.Side, c *chain) {
	for chunk := range c.queue {
		s.sleep(s.delay())
		s.appendToLast(side, chunk)
		c.wg.Done()
	}
}

// SetSpeed adjusts the reveal speed multiplier, clamped to [0.1, 3].
func (s *Scheduler) SetSpeed(speed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = math.Min(maxSpeed, math.Max(minSpeed, speed))
}

func (s *Scheduler) delay() time.Duration {
	s.mu.Lock()
	speed := s.speed
	s.mu.Unlock()
	d := time.Duration(math.Round(float64(baseDelay) / speed))
	if d < minDelay {
		d = minDelay
	}
	return d
}

// HandleEvent applies one stream event to the projection. Token events
// are enqueued for paced reveal; end events block until the side's chain
// has drained, so judgement fields never land on half-revealed text.
func (s *Scheduler) HandleEvent(ev battle.Event) {
	switch ev.Type {
	case battle.EventProStart:
		s.openTurn(battle.Pro)
	case battle.EventConStart:
		s.openTurn(battle.Con)
	case battle.EventProToken:
		s.enqueue(battle.Pro, ev.Content)
	case battle.EventConToken:
		s.enqueue(battle.Con, ev.Content)
	case battle.EventProEnd:
		s.Wait(battle.Pro)
	case battle.EventConEnd:
		s.Wait(battle.Con)
	case battle.EventProJudge:
		s.applyProJudge(ev.Payload)
	case battle.EventConJudge:
		s.applyConJudge(ev.Payload)
	case battle.EventError:
		s.mu.Lock()
		s.proj.Err = ev.Error
		s.mu.Unlock()
	}
}

func (s *Scheduler) openTurn(side battle.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hp := s.proj.ProHP
	if side == battle.Con {
		hp = s.proj.ConHP
	}
	entry := battle.LogEntry{Side: side}
	if line := s.thinkingLine(side, hp); line != "" {
		entry.Content = line
	}
	s.proj.Logs = append(s.proj.Logs, entry)
}

func (s *Scheduler) enqueue(side battle.Side, chunk string) {
	if chunk == "" {
		return
	}
	c := s.chains[side]
	c.wg.Add(1)
	c.queue <- chunk
}

// Wait blocks until every queued token for side has been revealed.
func (s *Scheduler) Wait(side battle.Side) {
	s.chains[side].wg.Wait()
}

// appendToLast appends a revealed chunk to side's most recent log entry.
// A thinking line occupies the entry's first line; the first real chunk
// starts a new one.
func (s *Scheduler) appendToLast(side battle.Side, chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.proj.Logs) - 1; i >= 0; i-- {
		if s.proj.Logs[i].Side != side {
			continue
		}
		prev := s.proj.Logs[i].Content
		if isThinkingOnly(prev) {
			s.proj.Logs[i].Content = prev + "\n" + chunk
		} else {
			s.proj.Logs[i].Content = prev + chunk
		}
		return
	}
}

func (s *Scheduler) applyProJudge(p *battle.JudgeResult) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizeLast(battle.Pro, p)
	s.proj.ConHP = p.CurrentHP.Con
	s.proj.TotalScore = p.TotalScore
	s.proj.Combo = p.ComboCount
	if s.proj.Status == battle.Ongoing {
		s.proj.Status = p.BattleStatus
	}
}

func (s *Scheduler) applyConJudge(p *battle.JudgeResult) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizeLast(battle.Con, p)
	s.proj.ProHP = p.CurrentHP.Pro
	s.proj.TotalScore = p.TotalScore
	s.proj.Combo = p.ComboCount
	s.proj.Round++
	if s.proj.Status == battle.Ongoing {
		s.proj.Status = p.BattleStatus
	}
}

func (s *Scheduler) finalizeLast(side battle.Side, p *battle.JudgeResult) {
	for i := len(s.proj.Logs) - 1; i >= 0; i-- {
		if s.proj.Logs[i].Side != side {
			continue
		}
		s.proj.Logs[i].Damage = p.Damage
		s.proj.Logs[i].IsCritical = p.IsCritical
		s.proj.Logs[i].IsOffTopic = p.IsOffTopic
		s.proj.Logs[i].Commentary = p.Commentary
		return
	}
}

// Snapshot returns a copy of the current projection.
func (s *Scheduler) Snapshot() Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	proj := s.proj
	proj.Logs = append([]battle.LogEntry(nil), s.proj.Logs...)
	return proj
}

// Close stops the replay chains. Pending tokens are still revealed.
func (s *Scheduler) Close() {
	for _, c := range s.chains {
		c.wg.Wait()
		close(c.queue)
	}
}
