package opponent

import (
	"testing"
	"time"

	"github.com/kbowl/knowledge-bowl-backend/internal/answer"
	"github.com/kbowl/knowledge-bowl-backend/internal/question"
)

var testQuestion = question.Question{
	ID:     "q1",
	Prompt: "Who wrote The Odyssey?",
	Answer: question.Answer{
		Primary: "Homer",
		Type:    question.TypePerson,
	},
	Domain:     "literature",
	Difficulty: question.DifficultyMedium,
}

func TestSeededSimulatorIsDeterministic(t *testing.T) {
	a := New(Profile{Name: "A", Strength: Intermediate}, 42)
	b := New(Profile{Name: "A", Strength: Intermediate}, 42)

	for i := 0; i < 50; i++ {
		if a.AnswerOral(testQuestion) != b.AnswerOral(testQuestion) {
			t.Fatalf("diverged at call %d", i)
		}
		la, oka := a.SampleLatency(testQuestion)
		lb, okb := b.SampleLatency(testQuestion)
		if la != lb || oka != okb {
			t.Fatalf("latency diverged at call %d: %v/%v vs %v/%v", i, la, oka, lb, okb)
		}
	}
}

func TestExpertOutperformsNovice(t *testing.T) {
	novice := New(Profile{Strength: Novice}, 7)
	expert := New(Profile{Strength: Expert}, 7)

	const trials = 2000
	var noviceCorrect, expertCorrect int
	for i := 0; i < trials; i++ {
		if novice.AnswerOral(testQuestion) {
			noviceCorrect++
		}
		if expert.AnswerOral(testQuestion) {
			expertCorrect++
		}
	}
	if expertCorrect <= noviceCorrect {
		t.Errorf("expert correct %d should exceed novice %d over %d trials", expertCorrect, noviceCorrect, trials)
	}
}

func TestDomainStrengthBoostsCorrectness(t *testing.T) {
	plain := New(Profile{Strength: Novice}, 3)
	boosted := New(Profile{Strength: Novice, DomainStrengths: []string{"Literature"}}, 3)

	if got, want := boosted.correctProb(testQuestion), plain.correctProb(testQuestion)+domainBoost; got != want {
		t.Errorf("boosted prob = %v, want %v", got, want)
	}
}

func TestSampleLatencyHasFloor(t *testing.T) {
	s := New(Profile{Strength: Expert}, 99)
	for i := 0; i < 500; i++ {
		lat, ok := s.SampleLatency(testQuestion)
		if ok && lat < 150*time.Millisecond {
			t.Fatalf("latency %v below floor", lat)
		}
	}
}

func TestSimulatedAnswerCorrectUsesAcceptedForm(t *testing.T) {
	s := New(Profile{Strength: Expert}, 1)
	q := testQuestion
	q.Answer.Alternates = []string{"the poet Homer"}

	for i := 0; i < 20; i++ {
		got := s.SimulatedAnswer(q, true)
		if !answer.Validate(got, q.Answer).Correct {
			t.Fatalf("correct simulated answer %q does not grade correct", got)
		}
	}
}

func TestSimulatedAnswerIncorrectNeverGradesCorrect(t *testing.T) {
	s := New(Profile{Strength: Novice}, 5)
	questions := []question.Question{
		testQuestion,
		{
			ID:         "q2",
			Prompt:     "What is the chemical formula for table salt?",
			Answer:     question.Answer{Primary: "NaCl", Alternates: []string{"sodium chloride"}, Type: question.TypeScientific},
			Domain:     "science",
			Difficulty: question.DifficultyEasy,
		},
		{
			ID:         "q3",
			Prompt:     "Capital of France?",
			Answer:     question.Answer{Primary: "B", Type: question.TypeMultipleChoice},
			Domain:     "geography",
			Difficulty: question.DifficultyEasy,
			Options:    []string{"London", "Paris", "Rome", "Berlin"},
		},
	}
	for _, q := range questions {
		for i := 0; i < 50; i++ {
			got := s.SimulatedAnswer(q, false)
			if answer.Validate(got, q.Answer).Correct {
				t.Fatalf("question %s: wrong simulated answer %q grades correct", q.ID, got)
			}
		}
	}
}

func TestUnknownStrengthDefaultsToIntermediate(t *testing.T) {
	s := New(Profile{Strength: Strength("varsity")}, 11)
	if s.Profile().Strength != Intermediate {
		t.Errorf("got %q, want intermediate", s.Profile().Strength)
	}
}
