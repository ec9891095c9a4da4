package question

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// IsCorrect judges a submitted value against the correct one. Integral answers
// (and zero) must match exactly; non-integral answers get a 1% relative
// tolerance with an inclusive boundary, since the learner only sees a rounded
// decimal.
func IsCorrect(submitted, correct decimal.Decimal) bool {
	if correct.IsZero() {
		return submitted.IsZero()
	}
	if correct.Equal(correct.Truncate(0)) {
		return submitted.Equal(correct)
	}
	// 100*|submitted-correct| <= 1*|correct| avoids a lossy division.
	diff := submitted.Sub(correct).Abs()
	return diff.Mul(hundred).Cmp(correct.Abs()) <= 0
}

// FormatAnswer renders a correct answer for display: integral values without a
// decimal point, anything else with trailing zeros trimmed.
func FormatAnswer(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
