package battle

import (
	"math"
	"math/rand"
)

// Damage bounds before modifiers.
const (
	DamageMin = 100
	DamageMax = 200
)

const critThreshold = 85

func randInt(rng *rand.Rand, min, max int) int {
	return rng.Intn(max-min+1) + min
}

// ComputeDamage draws a base value uniformly from [DamageMin, DamageMax]
// and applies the modifiers in fixed order: a critical hit doubles the
// damage, an off-topic turn then halves it (rounded). When both apply
// the net multiplier collapses to 1; that interaction is part of the
// compatibility contract and is kept exactly.
func ComputeDamage(rng *rand.Rand, isCritical, isOffTopic bool) int {
	damage := randInt(rng, DamageMin, DamageMax)
	if isCritical {
		damage *= 2
	}
	if isOffTopic {
		damage = int(math.Round(float64(damage) * 0.5))
	}
	return damage
}

// ComputeScoreDelta converts damage into a score increment with random
// jitter: round(damage*1000*mult + bonus) with mult in [0.3, 2.0) and
// bonus in [1, 1000), floored at 1. It is never zero or negative.
func ComputeScoreDelta(rng *rand.Rand, damage int) int {
	mult := 0.3 + rng.Float64()*(2-0.3)
	base := float64(damage) * 1000 * mult
	bonus := 1 + rng.Float64()*999
	delta := int(math.Round(base + bonus))
	if delta < 1 {
		delta = 1
	}
	return delta
}

// ApplyDamage subtracts damage from the defending side, clamped at 0.
// The attacker's own HP is never touched by its attack.
func ApplyDamage(attacker Side, state State, damage int) HPState {
	if attacker == Pro {
		return HPState{
			Pro: state.ProHP,
			Con: max(0, state.ConHP-damage),
		}
	}
	return HPState{
		Pro: max(0, state.ProHP-damage),
		Con: state.ConHP,
	}
}

// CritProbability maps the mean of the three verdict sub-scores onto a
// critical-hit probability. Below an average of 85 a critical is
// impossible; even a perfect 100 average caps out at 0.75.
func CritProbability(logicScore, rhetoricScore, counterScore int) float64 {
	avg := float64(logicScore+rhetoricScore+counterScore) / 3
	return math.Max(0, (avg-critThreshold)*0.05)
}

// statusFor derives the battle status from post-damage health. The pro
// side wins exactly when the con side's HP reaches 0, and vice versa.
func statusFor(hp HPState) Status {
	switch {
	case hp.Pro <= 0:
		return ConWin
	case hp.Con <= 0:
		return ProWin
	default:
		return Ongoing
	}
}
