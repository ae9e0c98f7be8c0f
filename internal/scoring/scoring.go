// Package scoring implements the heuristic relevance score between a
// listing's tags and the user's skill set. The score carries a deliberate
// random component; the randomness source is injectable so tests can pin it.
package scoring

import (
	"math"
	"math/rand"
	"strings"
	"sync"
)

// Score bounds. Tagged listings land in [60,99], untagged in [70,89].
const (
	TaggedMin   = 60
	TaggedMax   = 99
	UntaggedMin = 70
)

// Scorer computes match scores. The zero value is not usable; construct
// with New or NewWithRand.
type Scorer struct {
	mu   sync.Mutex
	rand func() float64
}

// New returns a Scorer backed by math/rand's default source.
func New() *Scorer {
	return NewWithRand(rand.Float64)
}

// NewWithRand returns a Scorer using the given uniform [0,1) source.
func NewWithRand(r func() float64) *Scorer {
	return &Scorer{rand: r}
}

// Score returns a heuristic match score in [0,100]. With no tags it is
// 70 + floor(rand*20); otherwise clamp(round(ratio*40 + rand*25 + 35), 60, 99)
// where ratio is the fraction of tags containing any user skill.
// Exactly one draw is consumed per call.
func (s *Scorer) Score(tags, userSkills []string) int {
	s.mu.Lock()
	r := s.rand()
	s.mu.Unlock()

	if len(tags) == 0 {
		return UntaggedMin + int(r*20)
	}
	matched := Matched(tags, userSkills)
	ratio := float64(len(matched)) / float64(len(tags))
	raw := int(math.Round(ratio*40 + r*25 + 35))
	return clamp(raw, TaggedMin, TaggedMax)
}

// Matched returns the subset of tags containing any user skill as a
// case-insensitive substring, preserving tag order.
func Matched(tags, userSkills []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		lt := strings.ToLower(t)
		for _, s := range userSkills {
			if s != "" && strings.Contains(lt, strings.ToLower(s)) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
