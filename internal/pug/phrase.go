// Package pug - phrase.go
// Human readable mnemonic labels for scramble results.
package pug

import (
	_ "embed"
	"math/rand"
	"strings"
)

//go:embed phrase_gen/adjectives.txt
var rawAdjectives string

//go:embed phrase_gen/nouns.txt
var rawNouns string

var (
	adjectives = splitWords(rawAdjectives)
	nouns      = splitWords(rawNouns)
)

func splitWords(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		if w := strings.TrimSpace(line); w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

// randomPhrase draws one adjective and one noun uniformly from the
// embedded wordlists.
func randomPhrase(rng *rand.Rand) string {
	return adjectives[rng.Intn(len(adjectives))] + " " + nouns[rng.Intn(len(nouns))]
}
