// Package buzz decides which team answers first on an oral question. Each
// contender supplies one latency sample per race; the race itself holds no
// state, so a seeded random source makes outcomes reproducible.
package buzz

import (
	"math/rand"
	"time"
)

// DefaultTolerance is the window within which two buzzes are considered a
// dead heat and resolved by weighted chance instead of strict ordering.
const DefaultTolerance = 50 * time.Millisecond

// Contender is one team entered in the race. Sample returns the team's
// reaction time for this question, or ok=false if the team declines to
// buzz. The player's sample is the externally observed reaction time;
// opponents draw from their simulators.
type Contender struct {
	TeamID string
	Sample func() (latency time.Duration, ok bool)
}

// Result reports the race winner. TieBreak is set when the win was decided
// inside the tolerance window by weighted random choice.
type Result struct {
	TeamID   string
	Latency  time.Duration
	TieBreak bool
}

type entry struct {
	teamID  string
	latency time.Duration
}

// Race samples every contender once and picks the fastest buzz. Entries
// within tolerance of the fastest are resolved by random choice weighted
// inversely by latency, which avoids a deterministic bias toward earlier
// slice positions. Returns ok=false if every team declines.
func Race(rng *rand.Rand, contenders []Contender, tolerance time.Duration) (Result, bool) {
	var entries []entry
	for _, c := range contenders {
		if lat, ok := c.Sample(); ok {
			entries = append(entries, entry{teamID: c.TeamID, latency: lat})
		}
	}
	if len(entries) == 0 {
		return Result{}, false
	}

	fastest := entries[0]
	for _, e := range entries[1:] {
		if e.latency < fastest.latency {
			fastest = e
		}
	}

	var contested []entry
	for _, e := range entries {
		if e.latency-fastest.latency <= tolerance {
			contested = append(contested, e)
		}
	}
	if len(contested) == 1 {
		return Result{TeamID: fastest.teamID, Latency: fastest.latency}, true
	}

	winner := weightedPick(rng, contested)
	return Result{TeamID: winner.teamID, Latency: winner.latency, TieBreak: true}, true
}

func weightedPick(rng *rand.Rand, contested []entry) entry {
	weights := make([]float64, len(contested))
	var total float64
	for i, e := range contested {
		w := 1.0 / float64(max(e.latency, time.Millisecond))
		weights[i] = w
		total += w
	}
	roll := rng.Float64() * total
	for i, w := range weights {
		roll -= w
		if roll <= 0 {
			return contested[i]
		}
	}
	return contested[len(contested)-1]
}
