// Package rules holds the region rule table and match format presets.
// Region variation is data, not control flow: the engine reads the table
// and never branches on a region name, so adding a region is a table edit.
package rules

type Region string

const (
	RegionWashington Region = "washington"
	RegionColorado   Region = "colorado"
	RegionMinnesota  Region = "minnesota"
	RegionNational   Region = "national"
)

// RegionRules captures everything a region is allowed to vary: point
// weights, rebound policy, round structure, and whether the written round
// must be fully answered before oral play begins. Points are plain ints;
// cumulative scores stay in integer math.
type RegionRules struct {
	WrittenPoints int
	OralPoints    int
	// ReboundPoints is awarded for a correct answer on a rebound attempt.
	ReboundPoints int
	// ReboundPenalty is subtracted from the first team on an incorrect
	// buzz. Zero for every region that doesn't penalize.
	ReboundPenalty       int
	ReboundAllowed       bool
	ReboundBarsFirstTeam bool
	RequireWrittenDone   bool
	OralRounds           int
}

var regionTable = map[Region]RegionRules{
	RegionWashington: {
		WrittenPoints:        1,
		OralPoints:           5,
		ReboundPoints:        5,
		ReboundAllowed:       true,
		ReboundBarsFirstTeam: true,
		RequireWrittenDone:   true,
		OralRounds:           4,
	},
	RegionColorado: {
		WrittenPoints:        1,
		OralPoints:           5,
		ReboundPoints:        3,
		ReboundAllowed:       true,
		ReboundBarsFirstTeam: true,
		RequireWrittenDone:   false,
		OralRounds:           3,
	},
	RegionMinnesota: {
		WrittenPoints:      1,
		OralPoints:         5,
		ReboundAllowed:     false,
		RequireWrittenDone: true,
		OralRounds:         3,
	},
	RegionNational: {
		WrittenPoints:        2,
		OralPoints:           10,
		ReboundPoints:        5,
		ReboundPenalty:       2,
		ReboundAllowed:       true,
		ReboundBarsFirstTeam: false,
		RequireWrittenDone:   true,
		OralRounds:           5,
	},
}

// ForRegion looks up the rule set for a region.
func ForRegion(r Region) (RegionRules, bool) {
	rr, ok := regionTable[r]
	return rr, ok
}

// Regions returns the known region tags, for config validation surfaces.
func Regions() []Region {
	out := make([]Region, 0, len(regionTable))
	for r := range regionTable {
		out = append(out, r)
	}
	return out
}

type Format string

const (
	FormatStandard  Format = "standard"
	FormatShort     Format = "short"
	FormatScrimmage Format = "scrimmage"
)

// FormatSpec sizes the question subsets drawn from the pool. Oral rounds
// come from the region table; the format fixes how many questions each
// round consumes.
type FormatSpec struct {
	WrittenQuestions      int
	OralQuestionsPerRound int
}

var formatTable = map[Format]FormatSpec{
	FormatStandard:  {WrittenQuestions: 30, OralQuestionsPerRound: 10},
	FormatShort:     {WrittenQuestions: 10, OralQuestionsPerRound: 5},
	FormatScrimmage: {WrittenQuestions: 5, OralQuestionsPerRound: 3},
}

// ForFormat looks up a match format preset.
func ForFormat(f Format) (FormatSpec, bool) {
	fs, ok := formatTable[f]
	return fs, ok
}

// MinQuestions is the smallest pool that can cover a full match under the
// given region and format.
func MinQuestions(rr RegionRules, fs FormatSpec) int {
	return fs.WrittenQuestions + rr.OralRounds*fs.OralQuestionsPerRound
}
