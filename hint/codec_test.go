package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKnownValues(t *testing.T) {
	testCases := []struct {
		p    Pattern
		want Hint
	}{
		{Pattern{E, E, E, E, E}, 0},
		{Pattern{A, A, A, A, A}, 242},
		{Pattern{E, E, E, E, P}, 1},
		{Pattern{P, E, E, E, E}, 81},
		{Pattern{P, A, P, P, A}, 149},
		{Pattern{P, P, P, E, A}, 119},
		{Pattern{A}, 2},
	}
	for _, tc := range testCases {
		got, err := Encode(tc.p)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.p.String())
	}
}

func TestRoundTripAllCodes(t *testing.T) {
	for length := 1; length <= 6; length++ {
		for c := 0; c < Count(length); c++ {
			p, err := Decode(Hint(c), length)
			require.NoError(t, err)
			require.Len(t, p, length)

			back, err := Encode(p)
			require.NoError(t, err)
			require.Equal(t, Hint(c), back)
		}
	}
}

func TestRoundTripAllPatterns(t *testing.T) {
	const length = 5
	p := make(Pattern, length)
	seen := make(map[Hint]bool)

	var walk func(i int)
	walk = func(i int) {
		if i == length {
			h, err := Encode(p)
			require.NoError(t, err)
			require.Less(t, int(h), 243)
			require.False(t, seen[h], "duplicate code %d", h)
			seen[h] = true

			back, err := Decode(h, length)
			require.NoError(t, err)
			require.Equal(t, p, back)
			return
		}
		for _, c := range []Class{Exact, Present, Absent} {
			p[i] = c
			walk(i + 1)
		}
	}
	walk(0)
	assert.Len(t, seen, 243)
}

func TestDecodePadsLeadingExact(t *testing.T) {
	p, err := Decode(2, 5)
	require.NoError(t, err)
	assert.Equal(t, Pattern{E, E, E, E, A}, p)
}

func TestCodecErrors(t *testing.T) {
	_, err := Decode(243, 5)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Decode(0, 0)
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = Encode(Pattern{E, Class(3)})
	assert.ErrorIs(t, err, ErrInvalidClass)
	_, err = Encode(nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.Panics(t, func() { Hint(243).Pattern(5) })
}

func TestCount(t *testing.T) {
	assert.Equal(t, 1, Count(0))
	assert.Equal(t, 243, Count(5))
	assert.Equal(t, 59049, Count(MaxLength))
}

func TestColored(t *testing.T) {
	h, err := Compute("speed", "erase")
	require.NoError(t, err)
	out := h.Colored("speed")
	assert.Contains(t, out, "\033[43m\033[30ms")
	assert.Contains(t, out, "\033[48;5;236m\033[38;5;255mp")
	// Out-of-range hints leave the word untouched.
	assert.Equal(t, "ab", Hint(100).Colored("ab"))
}
