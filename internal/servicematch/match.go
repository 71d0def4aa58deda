package servicematch

import (
	"strings"
	"unicode"
)

// maxDistanceRatio bounds the Levenshtein fallback: a fuzzy hit is accepted
// only when the edit distance is strictly below this fraction of the longer
// name's length.
const maxDistanceRatio = 0.30

// Matcher resolves free-text service names against candidate catalog names.
type Matcher struct {
	aliases AliasTable
}

// NewMatcher builds a matcher over the given alias table. A nil table
// disables alias expansion but leaves the tiered matching intact.
func NewMatcher(aliases AliasTable) *Matcher {
	return &Matcher{aliases: aliases}
}

// Normalize lowercases a name and strips everything that is not a letter or
// digit, so "Disney+ Hotstar" and "disney plus hotstar" collapse close
// together before comparison.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve matches name against candidates and returns the index of the best
// candidate. Precedence: exact normalized match, then containment, then the
// closest fuzzy candidate under the distance bound. Returns (-1, false) when
// nothing matches; callers treat that as "unmatched custom service", never as
// a failure.
func (m *Matcher) Resolve(name string, candidates []string) (int, bool) {
	targets := m.expand(name)

	for _, target := range targets {
		normalized := Normalize(target)
		if normalized == "" {
			continue
		}
		for i, candidate := range candidates {
			if Normalize(candidate) == normalized {
				return i, true
			}
		}
	}

	for _, target := range targets {
		normalized := Normalize(target)
		if normalized == "" {
			continue
		}
		for i, candidate := range candidates {
			cn := Normalize(candidate)
			if cn == "" {
				continue
			}
			if strings.Contains(cn, normalized) || strings.Contains(normalized, cn) {
				return i, true
			}
		}
	}

	bestIdx := -1
	bestDistance := -1
	for _, target := range targets {
		normalized := Normalize(target)
		if normalized == "" {
			continue
		}
		for i, candidate := range candidates {
			cn := Normalize(candidate)
			if cn == "" {
				continue
			}
			distance := levenshtein(normalized, cn)
			longer := len(normalized)
			if len(cn) > longer {
				longer = len(cn)
			}
			if float64(distance) >= maxDistanceRatio*float64(longer) {
				continue
			}
			if bestIdx == -1 || distance < bestDistance {
				bestIdx = i
				bestDistance = distance
			}
		}
	}
	if bestIdx >= 0 {
		return bestIdx, true
	}
	return -1, false
}

// NamesOverlap reports whether a subscription's service name matches any of a
// bundle's published included-service names.
func (m *Matcher) NamesOverlap(bundleServiceNames []string, subscriptionName string) bool {
	_, ok := m.Resolve(subscriptionName, bundleServiceNames)
	return ok
}

func (m *Matcher) expand(name string) []string {
	if m.aliases == nil {
		return []string{name}
	}
	return m.aliases.Expand(name)
}

// levenshtein computes edit distance with the usual O(n·m) two-row DP.
// Service names are short, so no banding or early exit is needed.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
