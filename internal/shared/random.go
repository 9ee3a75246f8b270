// Package shared provides small helpers used by more than one binary.
package shared

import (
	"math/rand/v2"
	"strings"
	"time"
)

const LowerLetters = "abcdefghijklmnopqrstuvwxyz"

// RandomString returns n characters drawn uniformly from alphabet. It is not
// suitable for secrets.
func RandomString(n int, alphabet string) string {
	if n <= 0 || alphabet == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

// Capitalize upper-cases the first ASCII letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// RandomDuration returns a duration in [lo, hi]. When hi <= lo it returns lo.
func RandomDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}
