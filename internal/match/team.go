package match

import "time"

// Team is owned by the engine: callers only ever see copies, and scores
// change exclusively through engine operations.
type Team struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	IsPlayer       bool          `json:"is_player"`
	Score          int           `json:"score"`
	WrittenCorrect int           `json:"written_correct"`
	OralCorrect    int           `json:"oral_correct"`
	WrittenTime    time.Duration `json:"written_time"`
	OralTime       time.Duration `json:"oral_time"`
}

type domainStat struct {
	Correct   int
	Attempted int
}
