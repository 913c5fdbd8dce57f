package quickentry

import (
	"strconv"

	"golang.org/x/text/width"
)

// DigitRun is a maximal run of ASCII digits inside a text. Start and End are
// byte offsets, so text[Start:End] == Digits.
type DigitRun struct {
	Digits string
	Start  int
	End    int
}

// Len returns the number of digits in the run.
func (r DigitRun) Len() int { return len(r.Digits) }

// DigitRuns returns every maximal run of ASCII digits in text, in order.
func DigitRuns(text string) []DigitRun {
	var runs []DigitRun
	start := -1
	for i, c := range text {
		isDigit := c >= '0' && c <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			runs = append(runs, DigitRun{Digits: text[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, DigitRun{Digits: text[start:], Start: start, End: len(text)})
	}

	return runs
}

// longestRun returns the longest run with at least minDigits digits. Among
// runs of equal length the later one wins, since amounts trail the category.
func longestRun(runs []DigitRun, minDigits int) (DigitRun, bool) {
	var (
		best  DigitRun
		found bool
	)
	for _, r := range runs {
		if r.Len() < minDigits {
			continue
		}
		if !found || r.Len() >= best.Len() {
			best, found = r, true
		}
	}

	return best, found
}

// AmountExtractor pulls an integer amount out of free text.
type AmountExtractor struct {
	minDigits int
}

// NewAmountExtractor returns an extractor ignoring digit runs shorter than
// minDigits. Non-positive values fall back to DefaultMinAmountDigits.
func NewAmountExtractor(minDigits int) AmountExtractor {
	if minDigits <= 0 {
		minDigits = DefaultMinAmountDigits
	}

	return AmountExtractor{minDigits: minDigits}
}

// MinDigits returns the minimum run length the extractor accepts.
func (e AmountExtractor) MinDigits() int { return e.minDigits }

// SelectRun picks the amount among runs: the longest run meeting the minimum
// digit count, or the longest run of any length when none does. Ties go to the
// later run. ok is false only when runs is empty.
func (e AmountExtractor) SelectRun(runs []DigitRun) (run DigitRun, ok bool) {
	if run, ok = longestRun(runs, e.minDigits); ok {
		return run, true
	}

	return longestRun(runs, 1)
}

// ExtractAmount returns the value of the longest digit run of text that meets
// the minimum digit count. Full-width digits count as digits. matched is false
// when no run qualifies or the run does not fit in an int64; that is not an
// error, callers decide.
func (e AmountExtractor) ExtractAmount(text string) (amount int64, matched bool) {
	run, ok := longestRun(DigitRuns(width.Fold.String(text)), e.minDigits)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(run.Digits, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
