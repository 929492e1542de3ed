package match

import (
	"time"

	"github.com/kbowl/knowledge-bowl-backend/internal/buzz"
)

// OralProgress mirrors the oral-round cursor for the presentation layer.
type OralProgress struct {
	CurrentIndex    int `json:"current_index"`
	TotalQuestions  int `json:"total_questions"`
	RoundsCompleted int `json:"rounds_completed"`
	RoundsRemaining int `json:"rounds_remaining"`
}

// DomainAccuracy is a per-domain correct/attempted tally.
type DomainAccuracy struct {
	Correct   int `json:"correct"`
	Attempted int `json:"attempted"`
}

type TeamResult struct {
	TeamID      string                    `json:"team_id"`
	Name        string                    `json:"name"`
	IsPlayer    bool                      `json:"is_player"`
	Score       int                       `json:"score"`
	WrittenTime time.Duration             `json:"written_time"`
	OralTime    time.Duration             `json:"oral_time"`
	Domains     map[string]DomainAccuracy `json:"domains,omitempty"`
}

// Summary is the final match report. It can be computed in any phase but
// only means anything once the match is Completed.
type Summary struct {
	Teams     []TeamResult  `json:"teams"`
	WinnerIDs []string      `json:"winner_ids,omitempty"`
	Tie       bool          `json:"tie"`
	Duration  time.Duration `json:"duration"`
}

// Summary computes the final scores, winner(s), and per-domain accuracy.
func (e *Engine) Summary() Summary {
	var s Summary
	if len(e.teams) == 0 {
		return s
	}

	best := e.teams[0].Score
	for _, t := range e.teams {
		if t.Score > best {
			best = t.Score
		}
		res := TeamResult{
			TeamID:      t.ID,
			Name:        t.Name,
			IsPlayer:    t.IsPlayer,
			Score:       t.Score,
			WrittenTime: t.WrittenTime,
			OralTime:    t.OralTime,
		}
		if stats := e.domains[t.ID]; len(stats) > 0 {
			res.Domains = make(map[string]DomainAccuracy, len(stats))
			for d, st := range stats {
				res.Domains[d] = DomainAccuracy{Correct: st.Correct, Attempted: st.Attempted}
			}
		}
		s.Teams = append(s.Teams, res)
	}
	for _, t := range e.teams {
		if t.Score == best {
			s.WinnerIDs = append(s.WinnerIDs, t.ID)
		}
	}
	s.Tie = len(s.WinnerIDs) > 1

	switch {
	case e.startedAt.IsZero():
	case e.completedAt.IsZero():
		s.Duration = time.Since(e.startedAt)
	default:
		s.Duration = e.completedAt.Sub(e.startedAt)
	}
	return s
}

// Snapshot is the observable engine state broadcast to clients. Buzz holds
// the latest race result for the current oral question, if any.
type Snapshot struct {
	Phase           Phase        `json:"phase"`
	Teams           []Team       `json:"teams"`
	WrittenAnswered int          `json:"written_answered"`
	WrittenTotal    int          `json:"written_total"`
	Oral            OralProgress `json:"oral"`
	ReboundPending  bool         `json:"rebound_pending"`
	Buzz            *buzz.Result `json:"buzz,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	answered, total := e.WrittenProgress()
	snap := Snapshot{
		Phase:           e.phase,
		Teams:           e.Teams(),
		WrittenAnswered: answered,
		WrittenTotal:    total,
		Oral:            e.OralProgress(),
		ReboundPending:  e.reboundPending,
	}
	if e.lastBuzz != nil {
		b := *e.lastBuzz
		snap.Buzz = &b
	}
	return snap
}
