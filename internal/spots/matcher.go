package spots

import "strings"

// KeywordMatcher maps a location's habitat text against a species'
// keyword set, returning a multiplier in [floor, ceil]. The matcher is
// injectable so the matching strategy (substring, token, fuzzy) can be
// swapped without touching the scoring formula.
type KeywordMatcher interface {
	Multiplier(text string, keywords []string) float64
}

// SubstringMatcher is the default matcher: case-insensitive substring
// matching, with the multiplier interpolated linearly by distinct keyword
// hit count and saturating at MaxHits. No hit yields Floor, MaxHits or
// more yield Ceil.
type SubstringMatcher struct {
	Floor   float64
	Ceil    float64
	MaxHits int
}

// NewSubstringMatcher returns the reference matcher with the [0.5, 1.5]
// multiplier range.
func NewSubstringMatcher(maxHits int) SubstringMatcher {
	if maxHits < 1 {
		maxHits = 1
	}
	return SubstringMatcher{
		Floor:   0.5,
		Ceil:    1.5,
		MaxHits: maxHits,
	}
}

// Multiplier implements KeywordMatcher.
func (m SubstringMatcher) Multiplier(text string, keywords []string) float64 {
	lower := strings.ToLower(text)

	seen := make(map[string]struct{}, len(keywords))
	hits := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		// Keywords are distinct after normalization, duplicates count once.
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		if strings.Contains(lower, kw) {
			hits++
			if hits >= m.MaxHits {
				break
			}
		}
	}

	if hits >= m.MaxHits {
		return m.Ceil
	}
	return m.Floor + (m.Ceil-m.Floor)*float64(hits)/float64(m.MaxHits)
}
