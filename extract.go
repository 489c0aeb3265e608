package tailgen

import (
	"bytes"
	"regexp"
	"sort"
)

// candidatePattern matches maximal runs of class characters. A bracketed
// segment without whitespace, quotes or nested brackets counts as part of the
// run, so "w-[calc(100%_-_2rem)]" is one candidate.
var candidatePattern = regexp.MustCompile("(?:[A-Za-z0-9_\\-:/.!]|\\[[^\\s\\[\\]\"'`]+\\])+")

// Candidate is a token with its position in the source text
type Candidate struct {
	Token  string
	Line   int // 1-based
	Column int // 1-based byte column
}

// ExtractCandidates returns the unique candidate tokens in text, sorted.
func ExtractCandidates(text []byte) []string {
	matches := candidatePattern.FindAll(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if !plausible(m) {
			continue
		}
		if _, ok := seen[string(m)]; ok {
			continue
		}
		seen[string(m)] = struct{}{}
		tokens = append(tokens, string(m))
	}
	sort.Strings(tokens)
	return tokens
}

// ExtractPositions returns every candidate occurrence in text with its
// line and column, in document order.
func ExtractPositions(text []byte) []Candidate {
	var out []Candidate
	line := 1
	for len(text) > 0 {
		end := bytes.IndexByte(text, '\n')
		current := text
		if end >= 0 {
			current = text[:end]
		}

		for _, loc := range candidatePattern.FindAllIndex(current, -1) {
			m := current[loc[0]:loc[1]]
			if !plausible(m) {
				continue
			}
			out = append(out, Candidate{Token: string(m), Line: line, Column: loc[0] + 1})
		}

		if end < 0 {
			break
		}
		text = text[end+1:]
		line++
	}
	return out
}

// plausible drops runs that cannot name a utility: no letter at all, as in
// "//", "1.5" or "---".
func plausible(token []byte) bool {
	for _, c := range token {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
