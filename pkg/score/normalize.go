package score

import "strings"

// Tokenize splits an utterance into whitespace-separated tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Normalize lowercases a token and strips trailing sentence punctuation.
// It is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(token string) string {
	return strings.TrimRight(strings.ToLower(token), ".,!?")
}
