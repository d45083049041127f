// Package pug - scramble.go
package pug

import (
	"fmt"
	"strings"
)

// Scramble uniformly reshuffles the previous roster in place and
// renders a suggested team split (first half / second half). The live
// rosters are untouched; calling again yields a new suggestion for the
// same set of players. Each result is labeled with a random two-word
// phrase so players can refer to a specific permutation over voice chat.
func (ps *PugStatus) Scramble(requester string) (string, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	n := len(ps.prevPuggers)
	if n == 0 {
		return "", ErrNoPreviousRoster
	}

	ps.opts.Rand.Shuffle(n, func(i, j int) {
		ps.prevPuggers[i], ps.prevPuggers[j] = ps.prevPuggers[j], ps.prevPuggers[i]
	})
	// First listing takes the extra player on odd rosters.
	mid := (n + 1) / 2

	var b strings.Builder
	fmt.Fprintf(&b, "%s suggests scrambled teams:\n", requester)
	fmt.Fprintf(&b, "_(random shuffle id: %s)_\n", randomPhrase(ps.opts.Rand))
	fmt.Fprintf(&b, "\n_%s players:_\n%s", ps.opts.FirstTeamName, nameList(ps.prevPuggers[:mid]))
	fmt.Fprintf(&b, "\n_%s players:_\n%s", ps.opts.SecondTeamName, nameList(ps.prevPuggers[mid:]))
	b.WriteString("\n\nTeams still unbalanced? Use `/scramble` to suggest new random teams.")
	return b.String(), nil
}
