package pug

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillAndReset(t *testing.T, ps *PugStatus, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, ps.PlayerJoin(player(i), NoPreference))
	}
	ps.Reset()
}

func TestScrambleEmptyRoster(t *testing.T) {
	ps := newTestStatus(t, 4, 1)
	_, err := ps.Scramble("alice")
	assert.ErrorIs(t, err, ErrNoPreviousRoster)
}

func TestScrambleKeepsRosterMultiset(t *testing.T) {
	ps := newTestStatus(t, 8, 1)
	fillAndReset(t, ps, 8)

	msg, err := ps.Scramble("alice")
	require.NoError(t, err)
	assert.Contains(t, msg, "alice suggests scrambled teams:")
	assert.Contains(t, msg, "random shuffle id:")
	for i := 1; i <= 8; i++ {
		assert.Contains(t, msg, player(i).Name)
	}

	// The stored roster keeps the same players, only reordered.
	ids := []string{}
	for _, p := range ps.PreviousRoster() {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids)

	// Live rosters stay untouched (they were already cleared).
	assert.Equal(t, 0, ps.NumQueued())
}

func TestScrambleSplitSizes(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8} {
		ps := newTestStatus(t, 10, int64(n))
		fillAndReset(t, ps, n)
		msg, err := ps.Scramble("bob")
		require.NoError(t, err)

		// Count the names on each listing line.
		lines := strings.Split(msg, "\n")
		var sizes []int
		for i, line := range lines {
			if strings.Contains(line, "players:_") && i+1 < len(lines) {
				names := strings.Split(lines[i+1], ", ")
				if len(names) == 1 && names[0] == "" {
					names = nil
				}
				sizes = append(sizes, len(names))
			}
		}
		require.Len(t, sizes, 2, "n=%d msg=%q", n, msg)
		assert.Equal(t, (n+1)/2, sizes[0], "n=%d", n)
		assert.Equal(t, n/2, sizes[1], "n=%d", n)
	}
}

func TestScrambleRepeatableWithFreshPairings(t *testing.T) {
	ps := newTestStatus(t, 8, 99)
	fillAndReset(t, ps, 8)

	// Statistical guarantee: across enough scrambles of 8 players, the
	// roster order must not stay fixed.
	first, err := ps.Scramble("carol")
	require.NoError(t, err)
	changed := false
	for i := 0; i < 20 && !changed; i++ {
		next, err := ps.Scramble("carol")
		require.NoError(t, err)
		// Strip the random shuffle id before comparing orders.
		changed = stripPhrase(next) != stripPhrase(first)
	}
	assert.True(t, changed, "20 scrambles never changed the pairing")
}

func stripPhrase(msg string) string {
	lines := strings.Split(msg, "\n")
	out := lines[:0]
	for _, l := range lines {
		if !strings.Contains(l, "random shuffle id:") {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func TestRandomPhraseShape(t *testing.T) {
	ps := newTestStatus(t, 4, 5)
	for i := 0; i < 50; i++ {
		phrase := randomPhrase(ps.opts.Rand)
		words := strings.Fields(phrase)
		require.Len(t, words, 2, "phrase %q", phrase)
		assert.Equal(t, strings.ToLower(phrase), phrase)
	}
}
