package match

import "fmt"

type Kind string

const (
	KindNotStarted Kind = "not_started"
	KindWritten    Kind = "written_round"
	KindOral       Kind = "oral_round"
	KindCompleted  Kind = "completed"
)

// Phase is a tagged value: the oral round number only exists while the
// match is in an oral round, so states like "oral round with no round
// number" are unrepresentable.
type Phase struct {
	Kind      Kind `json:"kind"`
	OralRound int  `json:"oral_round,omitempty"`
}

func phaseNotStarted() Phase { return Phase{Kind: KindNotStarted} }
func phaseWritten() Phase    { return Phase{Kind: KindWritten} }
func phaseOral(n int) Phase  { return Phase{Kind: KindOral, OralRound: n} }
func phaseCompleted() Phase  { return Phase{Kind: KindCompleted} }

func (p Phase) String() string {
	if p.Kind == KindOral {
		return fmt.Sprintf("oral_round(%d)", p.OralRound)
	}
	return string(p.Kind)
}
