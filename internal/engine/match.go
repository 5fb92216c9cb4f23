package engine

import (
	"strings"

	"golang.org/x/text/cases"
)

// matcher compares catalog values against a user-supplied scope value with
// Unicode case folding. A matcher is not safe for concurrent use.
type matcher struct {
	caser  cases.Caser
	target string
}

func newMatcher(value string) *matcher {
	m := &matcher{caser: cases.Fold()}
	m.target = m.caser.String(strings.TrimSpace(value))
	return m
}

// Match reports whether any of the values equals the target.
func (m *matcher) Match(values ...string) bool {
	for _, v := range values {
		if m.caser.String(v) == m.target {
			return true
		}
	}
	return false
}

// roundDiv divides n by a positive d, rounding half away from zero.
func roundDiv(n, d int64) int64 {
	q, r := n/d, n%d
	if r < 0 {
		r = -r
	}
	if 2*r >= d {
		if n < 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

// percent returns part/total*100 rounded to two decimals, or 0 when total is 0.
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(roundDiv(part*10000, total)) / 100
}
