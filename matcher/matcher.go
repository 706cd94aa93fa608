// Package matcher ranks candidate display names against a user-typed
// fragment. Every autocomplete path (guild and channel arguments of the
// relay commands) goes through Rank; the scoring logic lives nowhere else.
package matcher

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"relaybot/core"
)

// MaxResults mirrors the platform's interactive suggestion limit of 25
// autocomplete choices per response.
const MaxResults = 25

// missPenalty ranks candidates the fuzzy scorer rejected after every real
// match. Misses stay in the result so an empty query still yields a
// deterministic full list.
const missPenalty = 1 << 30

// Rank orders candidates by closeness to query, best match first, capped at
// MaxResults. The fuzzy scorer's native scores (higher = closer) are
// inverted so lower is better internally; ties break on the candidate value
// itself so the ordering is stable across calls. Returns ErrNoCandidates
// when the candidate list is empty; callers treat that as "show nothing".
func Rank(query string, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, core.ErrNoCandidates
	}

	scores := make(map[int]int, len(candidates))
	for _, match := range fuzzy.Find(query, candidates) {
		scores[match.Index] = -match.Score
	}

	type ranked struct {
		score int
		value string
	}
	results := make([]ranked, 0, len(candidates))
	for i, candidate := range candidates {
		score, ok := scores[i]
		if !ok {
			score = missPenalty
		}
		results = append(results, ranked{score: score, value: candidate})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score < results[j].score
		}
		return results[i].value < results[j].value
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.value
	}

	return out, nil
}
