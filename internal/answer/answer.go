// Package answer grades submitted answers against canonical ones. Grading
// is a pure function of its inputs: a submission, the canonical answer, and
// the answer-type tag that picks the normalization strategy. A malformed
// submission is a wrong answer, never an error — the grader always produces
// a verdict.
package answer

import (
	"strings"

	"github.com/kbowl/knowledge-bowl-backend/internal/question"
)

// Result carries the verdict and the normalized form of the submission,
// which presentation layers show back to the player.
type Result struct {
	Correct    bool
	Normalized string
}

type grader func(submitted string, canonical question.Answer) Result

var graders = map[question.AnswerType]grader{
	question.TypeText:           gradeText,
	question.TypePerson:         gradePerson,
	question.TypePlace:          gradePlace,
	question.TypeNumber:         gradeNumber,
	question.TypeDate:           gradeDate,
	question.TypeTitle:          gradeTitle,
	question.TypeScientific:     gradeScientific,
	question.TypeMultipleChoice: gradeMultipleChoice,
}

// Validate grades a submission. Unknown answer types fall back to plain
// text comparison.
func Validate(submitted string, canonical question.Answer) Result {
	g, ok := graders[canonical.Type]
	if !ok {
		g = gradeText
	}
	return g(submitted, canonical)
}

func gradeText(submitted string, canonical question.Answer) Result {
	norm := normalize(submitted)
	for _, form := range canonical.AcceptedForms() {
		if norm == normalize(form) {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

// personTitles are honorifics stripped before comparing names.
var personTitles = map[string]bool{
	"dr": true, "mr": true, "mrs": true, "ms": true, "miss": true,
	"sir": true, "dame": true, "lord": true, "lady": true,
	"president": true, "general": true, "king": true, "queen": true,
	"saint": true, "st": true,
}

func gradePerson(submitted string, canonical question.Answer) Result {
	sub := stripTokens(tokens(submitted), personTitles)
	norm := strings.Join(sub, " ")
	if len(sub) == 0 {
		return Result{Normalized: norm}
	}
	for _, form := range canonical.AcceptedForms() {
		can := stripTokens(tokens(form), personTitles)
		if len(can) == 0 {
			continue
		}
		// Full match, any token order.
		if sameTokenSet(sub, can) {
			return Result{Correct: true, Normalized: norm}
		}
		// Last name alone is enough against a "First Last" canonical.
		if len(sub) == 1 && sub[0] == can[len(can)-1] {
			return Result{Correct: true, Normalized: norm}
		}
		// And the reverse: a full name matches a last-name-only canonical.
		if len(can) == 1 && can[0] == sub[len(sub)-1] {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

// placeAbbrevs maps common place abbreviations to the form they expand to,
// applied token-wise to both sides before comparing.
var placeAbbrevs = map[string]string{
	"usa": "united states",
	"us":  "united states",
	"uk":  "united kingdom",
	"st":  "saint",
	"mt":  "mount",
	"ft":  "fort",
}

func gradePlace(submitted string, canonical question.Answer) Result {
	norm := normalizePlace(submitted)
	if norm == "" {
		return Result{Normalized: norm}
	}
	for _, form := range canonical.AcceptedForms() {
		can := normalizePlace(form)
		if norm == can {
			return Result{Correct: true, Normalized: norm}
		}
		// "Denver" qualifies against "Denver, Colorado": the canonical's
		// leading comma segment stands on its own.
		if head, _, found := strings.Cut(form, ","); found && norm == normalizePlace(head) {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

func normalizePlace(s string) string {
	toks := tokens(strings.ReplaceAll(s, ",", " "))
	if len(toks) > 0 && toks[0] == "the" {
		toks = toks[1:]
	}
	for i, t := range toks {
		if exp, ok := placeAbbrevs[t]; ok {
			toks[i] = exp
		}
	}
	return strings.Join(toks, " ")
}

func gradeNumber(submitted string, canonical question.Answer) Result {
	norm := normalize(submitted)
	subVal, ok := parseNumber(submitted)
	if !ok {
		// Unparseable input degrades to incorrect.
		return Result{Normalized: norm}
	}
	for _, form := range canonical.AcceptedForms() {
		if canVal, ok := parseNumber(form); ok && numbersEqual(subVal, canVal) {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

func gradeDate(submitted string, canonical question.Answer) Result {
	norm := normalize(submitted)
	sub, ok := parseDate(submitted)
	if !ok {
		return Result{Normalized: norm}
	}
	for _, form := range canonical.AcceptedForms() {
		if can, ok := parseDate(form); ok && sub == can {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

func gradeTitle(submitted string, canonical question.Answer) Result {
	norm := stripArticle(normalize(submitted))
	for _, form := range canonical.AcceptedForms() {
		if norm == stripArticle(normalize(form)) {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

func stripArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if rest, found := strings.CutPrefix(s, art); found {
			return rest
		}
	}
	return s
}

func gradeScientific(submitted string, canonical question.Answer) Result {
	norm := normalizeFormula(submitted)
	for _, form := range canonical.AcceptedForms() {
		if norm == normalizeFormula(form) {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

// subscriptDigits maps unicode subscript digits to plain digits so H₂O and
// H2O compare equal.
var subscriptDigits = strings.NewReplacer(
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
)

func normalizeFormula(s string) string {
	s = subscriptDigits.Replace(s)
	s = strings.ToLower(foldAccents(s))
	return strings.Join(strings.Fields(s), "")
}

func gradeMultipleChoice(submitted string, canonical question.Answer) Result {
	norm := normalize(submitted)
	subIdx, ok := parseChoice(submitted)
	if !ok {
		return Result{Normalized: norm}
	}
	for _, form := range canonical.AcceptedForms() {
		if canIdx, ok := parseChoice(form); ok && subIdx == canIdx {
			return Result{Correct: true, Normalized: norm}
		}
	}
	return Result{Normalized: norm}
}

// parseChoice resolves an option reference to a zero-based index. Letters
// count from A; bare digits are one-based option numbers, so "B" and "2"
// refer to the same option.
func parseChoice(s string) (int, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ")"))
	s = strings.TrimSuffix(s, ".")
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), true
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	}
	return 0, false
}
