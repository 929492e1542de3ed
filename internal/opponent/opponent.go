// Package opponent models AI-controlled teams. Behavior is fully derived
// from (question, profile, injected random source), so a seeded simulator
// replays identically — nothing is carried between calls.
package opponent

import (
	"math/rand"
	"strings"
	"time"

	"github.com/kbowl/knowledge-bowl-backend/internal/answer"
	"github.com/kbowl/knowledge-bowl-backend/internal/question"
)

type Strength string

const (
	Novice       Strength = "novice"
	Intermediate Strength = "intermediate"
	Expert       Strength = "expert"
)

// stats are the per-difficulty behavior knobs for one strength tier.
type stats struct {
	Correct       float64
	Decline       float64
	LatencyMean   time.Duration
	LatencyStddev time.Duration
}

var tierTable = map[Strength]map[question.Difficulty]stats{
	Novice: {
		question.DifficultyEasy:   {Correct: 0.55, Decline: 0.25, LatencyMean: 2800 * time.Millisecond, LatencyStddev: 900 * time.Millisecond},
		question.DifficultyMedium: {Correct: 0.35, Decline: 0.40, LatencyMean: 3400 * time.Millisecond, LatencyStddev: 1100 * time.Millisecond},
		question.DifficultyHard:   {Correct: 0.15, Decline: 0.60, LatencyMean: 4000 * time.Millisecond, LatencyStddev: 1300 * time.Millisecond},
	},
	Intermediate: {
		question.DifficultyEasy:   {Correct: 0.75, Decline: 0.10, LatencyMean: 1900 * time.Millisecond, LatencyStddev: 700 * time.Millisecond},
		question.DifficultyMedium: {Correct: 0.55, Decline: 0.20, LatencyMean: 2400 * time.Millisecond, LatencyStddev: 800 * time.Millisecond},
		question.DifficultyHard:   {Correct: 0.35, Decline: 0.35, LatencyMean: 3000 * time.Millisecond, LatencyStddev: 1000 * time.Millisecond},
	},
	Expert: {
		question.DifficultyEasy:   {Correct: 0.92, Decline: 0.03, LatencyMean: 1100 * time.Millisecond, LatencyStddev: 400 * time.Millisecond},
		question.DifficultyMedium: {Correct: 0.80, Decline: 0.08, LatencyMean: 1500 * time.Millisecond, LatencyStddev: 500 * time.Millisecond},
		question.DifficultyHard:   {Correct: 0.60, Decline: 0.15, LatencyMean: 2000 * time.Millisecond, LatencyStddev: 700 * time.Millisecond},
	},
}

const (
	// domainBoost is added to the correctness probability when the question
	// falls in one of the profile's declared strong domains.
	domainBoost    = 0.15
	maxCorrectProb = 0.97
	minLatency     = 150 * time.Millisecond
)

// Profile describes one AI team as configured for a match.
type Profile struct {
	Name            string
	Strength        Strength
	DomainStrengths []string
}

type Simulator struct {
	profile Profile
	rng     *rand.Rand
}

// New builds a seeded simulator. The same seed and profile replay the same
// decisions question for question.
func New(p Profile, seed int64) *Simulator {
	return NewWithRand(p, rand.New(rand.NewSource(seed)))
}

func NewWithRand(p Profile, rng *rand.Rand) *Simulator {
	if _, ok := tierTable[p.Strength]; !ok {
		p.Strength = Intermediate
	}
	return &Simulator{profile: p, rng: rng}
}

func (s *Simulator) Profile() Profile { return s.profile }

func (s *Simulator) questionStats(q question.Question) stats {
	tier := tierTable[s.profile.Strength]
	st, ok := tier[q.Difficulty]
	if !ok {
		st = tier[question.DifficultyMedium]
	}
	return st
}

func (s *Simulator) correctProb(q question.Question) float64 {
	p := s.questionStats(q).Correct
	for _, d := range s.profile.DomainStrengths {
		if strings.EqualFold(d, q.Domain) {
			p += domainBoost
			break
		}
	}
	return min(p, maxCorrectProb)
}

// AnswerOral samples whether this opponent answers the question correctly.
func (s *Simulator) AnswerOral(q question.Question) bool {
	return s.rng.Float64() < s.correctProb(q)
}

// SampleLatency draws a buzz reaction time for the question. The second
// return is false when the opponent declines to buzz at all.
func (s *Simulator) SampleLatency(q question.Question) (time.Duration, bool) {
	st := s.questionStats(q)
	if s.rng.Float64() < st.Decline {
		return 0, false
	}
	lat := st.LatencyMean + time.Duration(s.rng.NormFloat64()*float64(st.LatencyStddev))
	if lat < minLatency {
		lat = minLatency
	}
	return lat, true
}

// fallbackWrong is used when no plausible near-miss can be produced without
// accidentally grading correct.
var fallbackWrong = []string{
	"I'll guess... no idea",
	"pass",
	"something else entirely",
	"we had it backwards",
}

// SimulatedAnswer produces the text the opponent says aloud. Correct
// answers use the canonical form (or an alternate) so the opponent looks
// plausible; incorrect answers are near-misses that are guaranteed not to
// grade as correct.
func (s *Simulator) SimulatedAnswer(q question.Question, correct bool) string {
	forms := q.Answer.AcceptedForms()
	if correct {
		return forms[s.rng.Intn(len(forms))]
	}

	for _, cand := range s.wrongCandidates(q) {
		if !answer.Validate(cand, q.Answer).Correct {
			return cand
		}
	}
	return fallbackWrong[s.rng.Intn(len(fallbackWrong))]
}

func (s *Simulator) wrongCandidates(q question.Question) []string {
	var cands []string
	// For multiple choice, a wrong option is the natural miss.
	if len(q.Options) > 0 {
		for _, off := range s.rng.Perm(len(q.Options)) {
			cands = append(cands, q.Options[off])
		}
	}
	// Otherwise perturb the canonical answer into a near-miss.
	words := strings.Fields(q.Answer.Primary)
	if len(words) > 1 {
		cands = append(cands, strings.Join(words[:len(words)-1], " "))
		cands = append(cands, words[len(words)-1]+" "+words[0])
	}
	return cands
}
