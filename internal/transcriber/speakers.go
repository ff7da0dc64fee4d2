package transcriber

import "fmt"

type speakerMode int

const (
	modeUnconstrained speakerMode = iota
	modeExact
	modeRange
)

// SpeakerCount is the diarization hint sent with a request: either no
// constraint, an exact number of speakers, or a min/max range. Use the
// constructors; the zero value is Unconstrained.
type SpeakerCount struct {
	mode  speakerMode
	exact int
	min   int
	max   int
}

// Unconstrained lets the service decide how many speakers there are.
func Unconstrained() SpeakerCount {
	return SpeakerCount{}
}

// ExactSpeakers pins the speaker count. n <= 0 means Unconstrained.
func ExactSpeakers(n int) SpeakerCount {
	if n <= 0 {
		return Unconstrained()
	}
	return SpeakerCount{mode: modeExact, exact: n}
}

// SpeakerRange bounds the speaker count. A zero bound is open; both zero is Unconstrained.
func SpeakerRange(min, max int) SpeakerCount {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if min == 0 && max == 0 {
		return Unconstrained()
	}
	return SpeakerCount{mode: modeRange, min: min, max: max}
}

// SpeakersFromHints builds a SpeakerCount from independent hints; expected wins over min/max.
func SpeakersFromHints(expected, min, max int) SpeakerCount {
	if expected > 0 {
		return ExactSpeakers(expected)
	}
	return SpeakerRange(min, max)
}

// Exact reports the pinned speaker count.
func (s SpeakerCount) Exact() (int, bool) {
	return s.exact, s.mode == modeExact
}

// Range reports the bounds; 0 means open.
func (s SpeakerCount) Range() (min, max int, ok bool) {
	return s.min, s.max, s.mode == modeRange
}

func (s SpeakerCount) String() string {
	switch s.mode {
	case modeExact:
		return fmt.Sprintf("exactly %d", s.exact)
	case modeRange:
		low, high := "any", "any"
		if s.min > 0 {
			low = fmt.Sprint(s.min)
		}
		if s.max > 0 {
			high = fmt.Sprint(s.max)
		}
		return fmt.Sprintf("between %s and %s", low, high)
	default:
		return "unconstrained"
	}
}
