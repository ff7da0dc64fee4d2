package transcriber

import (
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/stretchr/testify/require"
)

func TestSpeakersFromHints(t *testing.T) {
	tests := []struct {
		name               string
		expected, min, max int
		wantExact          int
		wantMin, wantMax   int
		isExact, isRange   bool
		wantString         string
	}{
		{name: "none", wantString: "unconstrained"},
		{name: "exact", expected: 3, wantExact: 3, isExact: true, wantString: "exactly 3"},
		{name: "exact wins over range", expected: 2, min: 1, max: 5, wantExact: 2, isExact: true, wantString: "exactly 2"},
		{name: "range", min: 2, max: 4, wantMin: 2, wantMax: 4, isRange: true, wantString: "between 2 and 4"},
		{name: "min only", min: 2, wantMin: 2, isRange: true, wantString: "between 2 and any"},
		{name: "max only", max: 6, wantMax: 6, isRange: true, wantString: "between any and 6"},
		{name: "negative values ignored", expected: -1, min: -3, wantString: "unconstrained"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SpeakersFromHints(tt.expected, tt.min, tt.max)

			n, ok := s.Exact()
			require.Equal(t, tt.isExact, ok)
			if ok {
				require.Equal(t, tt.wantExact, n)
			}

			min, max, ok := s.Range()
			require.Equal(t, tt.isRange, ok)
			if ok {
				require.Equal(t, tt.wantMin, min)
				require.Equal(t, tt.wantMax, max)
			}

			require.Equal(t, tt.wantString, s.String())
		})
	}
}

func TestZeroValueIsUnconstrained(t *testing.T) {
	var s SpeakerCount
	require.Equal(t, Unconstrained(), s)
	require.Equal(t, Unconstrained(), ExactSpeakers(0))
	require.Equal(t, Unconstrained(), SpeakerRange(0, 0))
}

func TestBuildParams(t *testing.T) {
	params := buildParams(Options{Speakers: ExactSpeakers(2)})
	require.True(t, aai.ToBool(params.SpeakerLabels))
	require.Equal(t, int64(2), aai.ToInt64(params.SpeakersExpected))
	require.Nil(t, params.SpeakerOptions)

	params = buildParams(Options{Speakers: SpeakerRange(1, 3)})
	require.Nil(t, params.SpeakersExpected)
	require.NotNil(t, params.SpeakerOptions)
	require.Equal(t, int64(1), aai.ToInt64(params.SpeakerOptions.MinSpeakersExpected))
	require.Equal(t, int64(3), aai.ToInt64(params.SpeakerOptions.MaxSpeakersExpected))

	params = buildParams(Options{Speakers: SpeakerRange(2, 0)})
	require.Nil(t, params.SpeakerOptions.MaxSpeakersExpected)

	params = buildParams(Options{})
	require.True(t, aai.ToBool(params.SpeakerLabels))
	require.Nil(t, params.SpeakersExpected)
	require.Nil(t, params.SpeakerOptions)
}
