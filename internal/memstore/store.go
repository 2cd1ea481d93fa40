package memstore

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitriimaksimovdevelop/pentagram/internal/pentagram"
)

// Store is the default Memory Store capability: it persists experiences to
// BoltDB and retrieves related ones by keyword overlap, regardless of the
// requested retrieval method (vector/agentic retrieval is out of scope for
// this core; hybrid/keyword both resolve to the same overlap scorer here).
type Store struct {
	db *DB
}

// NewStore wraps an opened DB as a Memory Store capability.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Store persists the experience synchronously and returns any write error.
func (s *Store) Store(_ context.Context, experience pentagram.Experience) error {
	return s.db.PutExperience(experience)
}

// Retrieve returns up to topK prior experiences of userID ranked by query
// relevance, expressed as MemoryGroups. groupID is not used.
func (s *Store) Retrieve(_ context.Context, query, userID, _ string, topK int, _ pentagram.RetrieveMethod) ([]pentagram.MemoryGroup, error) {
	experiences, err := s.db.ListExperiences(userID)
	if err != nil {
		return nil, err
	}

	queryTokens := tokenize(query)
	type scored struct {
		exp   pentagram.Experience
		score float64
	}
	var candidates []scored
	for _, exp := range experiences {
		score := overlapScore(queryTokens, tokenize(exp.Message))
		if score > 0 {
			candidates = append(candidates, scored{exp: exp, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if topK <= 0 {
		topK = 5
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	groups := make([]pentagram.MemoryGroup, 0, len(candidates))
	for i, c := range candidates {
		groups = append(groups, pentagram.MemoryGroup{
			ID:      idFor(i, c.exp),
			Summary: c.exp.Message,
			Score:   c.score,
		})
	}
	return groups, nil
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		tokens[word] = true
	}
	return tokens
}

func overlapScore(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var shared int
	for token := range a {
		if b[token] {
			shared++
		}
	}
	return float64(shared) / float64(len(a))
}

func idFor(i int, exp pentagram.Experience) string {
	if exp.UserID != "" {
		return exp.UserID + "-" + strconv.Itoa(i)
	}
	return "memory-" + strconv.Itoa(i)
}
