// Package match orchestrates a Knowledge Bowl match: phase transitions,
// team and score bookkeeping, the written round, and buzz-driven oral
// rounds. The engine is synchronous and single-caller; a coordinating
// layer (the lobby) serializes access to one engine per live match.
package match

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kbowl/knowledge-bowl-backend/internal/buzz"
	"github.com/kbowl/knowledge-bowl-backend/internal/opponent"
	"github.com/kbowl/knowledge-bowl-backend/internal/question"
	"github.com/kbowl/knowledge-bowl-backend/internal/rules"
)

var (
	ErrNotSetup              = errors.New("match not set up")
	ErrAlreadySetup          = errors.New("match already set up")
	ErrWrongPhase            = errors.New("operation invalid in current phase")
	ErrUnknownRegion         = errors.New("unknown region")
	ErrUnknownFormat         = errors.New("unknown match format")
	ErrInsufficientQuestions = errors.New("not enough questions for format")
	ErrWrittenIncomplete     = errors.New("written round not complete")
	ErrUnknownTeam           = errors.New("unknown team")
	ErrNoCurrentQuestion     = errors.New("no current question")
)

// Config describes one match: the region rule set, the format preset, the
// opponent lineup, and an optional seed for reproducible runs (zero means
// seed from the clock).
type Config struct {
	Region    rules.Region
	Format    rules.Format
	Opponents []opponent.Profile
	Practice  bool
	Seed      int64
}

type Engine struct {
	cfg    Config
	region rules.RegionRules
	format rules.FormatSpec

	phase Phase
	teams []Team
	sims  map[string]*opponent.Simulator

	written    []question.Question
	oral       []question.Question
	writtenIdx int
	oralIdx    int

	reboundPending bool
	reboundBarred  map[string]bool
	lastBuzz       *buzz.Result

	domains map[string]map[string]*domainStat

	startedAt   time.Time
	completedAt time.Time
	rng         *rand.Rand

	writtenSimulated bool
}

func New() *Engine {
	return &Engine{phase: phaseNotStarted()}
}

// Setup constructs teams and partitions the question pool. Calling Setup
// on an engine that already holds a match is rejected; Reset first.
func (e *Engine) Setup(cfg Config, pool []question.Question, playerTeamName string) error {
	if e.teams != nil {
		return fmt.Errorf("%w: reset before setting up again", ErrAlreadySetup)
	}

	region, ok := rules.ForRegion(cfg.Region)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, cfg.Region)
	}
	format, ok := rules.ForFormat(cfg.Format)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
	if err := question.ValidatePool(pool); err != nil {
		return err
	}
	if need := rules.MinQuestions(region, format); len(pool) < need {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientQuestions, need, len(pool))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(seed))

	shuffled := append([]question.Question(nil), pool...)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	e.written = shuffled[:format.WrittenQuestions]
	oralCount := region.OralRounds * format.OralQuestionsPerRound
	e.oral = shuffled[format.WrittenQuestions : format.WrittenQuestions+oralCount]

	if playerTeamName == "" {
		playerTeamName = "Player Team"
	}
	e.teams = []Team{{ID: uuid.NewString(), Name: playerTeamName, IsPlayer: true}}
	e.sims = make(map[string]*opponent.Simulator, len(cfg.Opponents))
	for i, p := range cfg.Opponents {
		if p.Name == "" {
			p.Name = fmt.Sprintf("Opponent %d", i+1)
		}
		id := uuid.NewString()
		e.teams = append(e.teams, Team{ID: id, Name: p.Name})
		e.sims[id] = opponent.New(p, e.rng.Int63())
	}

	e.domains = make(map[string]map[string]*domainStat, len(e.teams))
	for _, t := range e.teams {
		e.domains[t.ID] = make(map[string]*domainStat)
	}
	e.reboundBarred = make(map[string]bool)

	e.cfg = cfg
	e.region = region
	e.format = format
	return nil
}

// Start moves the match from NotStarted into the written round.
func (e *Engine) Start() error {
	if e.teams == nil {
		return ErrNotSetup
	}
	if e.phase.Kind != KindNotStarted {
		return fmt.Errorf("%w: cannot start from %s", ErrWrongPhase, e.phase)
	}
	e.phase = phaseWritten()
	e.startedAt = time.Now()
	return nil
}

func (e *Engine) Phase() Phase { return e.phase }

// Teams returns a copy of the team list; engine-held state is never
// handed out by reference.
func (e *Engine) Teams() []Team {
	return append([]Team(nil), e.teams...)
}

func (e *Engine) IsPlayerTeam(id string) bool {
	t := e.team(id)
	return t != nil && t.IsPlayer
}

// OpponentSimulator returns the simulator bound to an opponent team, or
// false for the player team and unknown ids.
func (e *Engine) OpponentSimulator(id string) (*opponent.Simulator, bool) {
	s, ok := e.sims[id]
	return s, ok
}

func (e *Engine) team(id string) *Team {
	for i := range e.teams {
		if e.teams[i].ID == id {
			return &e.teams[i]
		}
	}
	return nil
}

func (e *Engine) playerTeam() *Team {
	for i := range e.teams {
		if e.teams[i].IsPlayer {
			return &e.teams[i]
		}
	}
	return nil
}

// CurrentWrittenQuestion returns the question at the written-round cursor,
// or false once the round is exhausted.
func (e *Engine) CurrentWrittenQuestion() (question.Question, bool) {
	if e.phase.Kind != KindWritten || e.writtenIdx >= len(e.written) {
		return question.Question{}, false
	}
	return e.written[e.writtenIdx], true
}

// SubmitWrittenAnswer records one written-round result for the player team
// and advances the cursor. Correctness is decided by the caller (the
// written round is multiple choice, graded at the UI boundary).
func (e *Engine) SubmitWrittenAnswer(correct bool, responseTime time.Duration) error {
	if e.phase.Kind != KindWritten {
		return fmt.Errorf("%w: written answers only during the written round, not %s", ErrWrongPhase, e.phase)
	}
	if e.writtenIdx >= len(e.written) {
		return fmt.Errorf("%w: written round exhausted", ErrNoCurrentQuestion)
	}
	q := e.written[e.writtenIdx]
	player := e.playerTeam()
	e.tally(player.ID, q.Domain, correct)
	player.WrittenTime += responseTime
	if correct {
		player.Score += e.region.WrittenPoints
		player.WrittenCorrect++
	}
	e.writtenIdx++
	return nil
}

// WrittenProgress reports (answered, total) for the written round.
func (e *Engine) WrittenProgress() (answered, total int) {
	return e.writtenIdx, len(e.written)
}

// StartOralRounds transitions from the written round into OralRound(0).
// Regions that require the full written round gate the transition unless
// practice mode is on. Opponent teams play their written round here, from
// their correctness models, so the scoreboard reflects a full contest.
func (e *Engine) StartOralRounds() error {
	if e.phase.Kind != KindWritten {
		return fmt.Errorf("%w: oral rounds follow the written round, not %s", ErrWrongPhase, e.phase)
	}
	if e.region.RequireWrittenDone && !e.cfg.Practice && e.writtenIdx < len(e.written) {
		return fmt.Errorf("%w: %d of %d answered", ErrWrittenIncomplete, e.writtenIdx, len(e.written))
	}
	e.simulateOpponentWritten()
	e.phase = phaseOral(0)
	return nil
}

func (e *Engine) simulateOpponentWritten() {
	if e.writtenSimulated {
		return
	}
	e.writtenSimulated = true
	for i := range e.teams {
		t := &e.teams[i]
		sim, ok := e.sims[t.ID]
		if !ok {
			continue
		}
		for _, q := range e.written {
			correct := sim.AnswerOral(q)
			e.tally(t.ID, q.Domain, correct)
			if correct {
				t.Score += e.region.WrittenPoints
				t.WrittenCorrect++
			}
		}
	}
}

// CurrentOralQuestion returns the question at the oral cursor, or false
// once the current round is exhausted.
func (e *Engine) CurrentOralQuestion() (question.Question, bool) {
	if e.phase.Kind != KindOral {
		return question.Question{}, false
	}
	roundEnd := (e.phase.OralRound + 1) * e.format.OralQuestionsPerRound
	if e.oralIdx >= roundEnd || e.oralIdx >= len(e.oral) {
		return question.Question{}, false
	}
	return e.oral[e.oralIdx], true
}

// SimulateBuzz races all eligible teams on the current oral question. The
// player's reaction time is observed externally and passed in; opponents
// sample their own. During a rebound, barred teams sit out. The race does
// not touch scores — RecordOralResult does.
func (e *Engine) SimulateBuzz(playerLatency time.Duration, playerBuzzed bool) (buzz.Result, bool, error) {
	q, ok := e.CurrentOralQuestion()
	if !ok {
		return buzz.Result{}, false, fmt.Errorf("%w in %s", ErrNoCurrentQuestion, e.phase)
	}

	var contenders []buzz.Contender
	for _, t := range e.teams {
		if e.reboundBarred[t.ID] {
			continue
		}
		if t.IsPlayer {
			lat, buzzed := playerLatency, playerBuzzed
			contenders = append(contenders, buzz.Contender{
				TeamID: t.ID,
				Sample: func() (time.Duration, bool) { return lat, buzzed },
			})
			continue
		}
		sim := e.sims[t.ID]
		contenders = append(contenders, buzz.Contender{
			TeamID: t.ID,
			Sample: func() (time.Duration, bool) { return sim.SampleLatency(q) },
		})
	}

	res, ok := buzz.Race(e.rng, contenders, buzz.DefaultTolerance)
	if !ok {
		e.lastBuzz = nil
		return buzz.Result{}, false, nil
	}
	e.lastBuzz = &res
	return res, true, nil
}

// RecordOralResult applies scoring for the team that actually answered and
// advances, except that a first incorrect answer under a rebound-granting
// region holds the question open for the remaining teams. An empty team id
// means nobody answered: the question is discarded unscored.
func (e *Engine) RecordOralResult(teamID string, correct bool, responseTime time.Duration) error {
	if _, ok := e.CurrentOralQuestion(); !ok {
		return fmt.Errorf("%w in %s", ErrNoCurrentQuestion, e.phase)
	}
	if teamID == "" {
		e.advanceOral()
		return nil
	}
	t := e.team(teamID)
	if t == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTeam, teamID)
	}

	q := e.oral[e.oralIdx]
	e.tally(teamID, q.Domain, correct)
	t.OralTime += responseTime

	if correct {
		if e.reboundPending {
			t.Score += e.region.ReboundPoints
		} else {
			t.Score += e.region.OralPoints
		}
		t.OralCorrect++
		e.advanceOral()
		return nil
	}

	if !e.reboundPending && e.region.ReboundAllowed {
		// Hold the question open for a rebound attempt.
		e.reboundPending = true
		if e.region.ReboundBarsFirstTeam {
			e.reboundBarred[teamID] = true
		}
		t.Score -= e.region.ReboundPenalty
		return nil
	}

	e.advanceOral()
	return nil
}

func (e *Engine) advanceOral() {
	e.oralIdx++
	e.reboundPending = false
	clear(e.reboundBarred)
	e.lastBuzz = nil
}

// ReboundPending reports whether the current oral question is being held
// open after an incorrect first answer.
func (e *Engine) ReboundPending() bool { return e.reboundPending }

// ReboundCandidates lists teams still allowed to attempt the current
// question.
func (e *Engine) ReboundCandidates() []string {
	var ids []string
	for _, t := range e.teams {
		if !e.reboundBarred[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// OralProgress reports the oral cursor and round position.
func (e *Engine) OralProgress() OralProgress {
	perRound := e.format.OralQuestionsPerRound
	completed := 0
	if perRound > 0 {
		completed = e.oralIdx / perRound
	}
	if completed > e.region.OralRounds {
		completed = e.region.OralRounds
	}
	return OralProgress{
		CurrentIndex:    e.oralIdx,
		TotalQuestions:  len(e.oral),
		RoundsCompleted: completed,
		RoundsRemaining: e.region.OralRounds - completed,
	}
}

// StartNextOralRound advances to the next oral round, or completes the
// match when the region's rounds are used up. Unplayed questions in the
// current round are skipped.
func (e *Engine) StartNextOralRound() error {
	if e.phase.Kind != KindOral {
		return fmt.Errorf("%w: not in an oral round (%s)", ErrWrongPhase, e.phase)
	}
	next := e.phase.OralRound + 1
	e.reboundPending = false
	clear(e.reboundBarred)
	e.lastBuzz = nil
	if next >= e.region.OralRounds {
		e.phase = phaseCompleted()
		e.completedAt = time.Now()
		return nil
	}
	e.oralIdx = next * e.format.OralQuestionsPerRound
	e.phase = phaseOral(next)
	return nil
}

func (e *Engine) tally(teamID, domain string, correct bool) {
	stats := e.domains[teamID]
	if stats == nil {
		return
	}
	st := stats[domain]
	if st == nil {
		st = &domainStat{}
		stats[domain] = st
	}
	st.Attempted++
	if correct {
		st.Correct++
	}
}

// Reset discards all match state and returns the engine to NotStarted.
func (e *Engine) Reset() {
	*e = Engine{phase: phaseNotStarted()}
}
