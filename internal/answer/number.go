package answer

import (
	"math"
	"strconv"
	"strings"
)

var numberUnits = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19,
}

var numberTens = map[string]float64{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var numberScales = map[string]float64{
	"hundred": 100, "thousand": 1e3, "million": 1e6, "billion": 1e9,
}

// parseNumber accepts digit forms ("1,024", "-3.5") and written-word forms
// ("twenty-one", "four hundred and six").
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return v, true
	}
	return parseNumberWords(s)
}

func parseNumberWords(s string) (float64, bool) {
	words := tokens(strings.ReplaceAll(strings.ToLower(s), "-", " "))
	if len(words) == 0 {
		return 0, false
	}
	sign := 1.0
	if words[0] == "negative" || words[0] == "minus" {
		sign = -1
		words = words[1:]
	}
	var total, current float64
	seen := false
	for _, w := range words {
		switch {
		case w == "and":
			continue
		case numberUnits[w] != 0 || w == "zero":
			current += numberUnits[w]
			seen = true
		case numberTens[w] != 0:
			current += numberTens[w]
			seen = true
		case w == "hundred":
			if current == 0 {
				current = 1
			}
			current *= 100
			seen = true
		case numberScales[w] != 0:
			if current == 0 {
				current = 1
			}
			total += current * numberScales[w]
			current = 0
			seen = true
		default:
			return 0, false
		}
	}
	if !seen {
		return 0, false
	}
	return sign * (total + current), true
}

func numbersEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
