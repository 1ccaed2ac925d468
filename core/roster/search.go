// Package roster implements the back-office roster tooling: ranked name
// search, the filter/sort/paginate pipeline and the admin view-model.
package roster

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/academykit/kiosk/core/student"
)

// Match is a search hit with its relevance score.
type Match struct {
	Student student.Student `json:"student"`
	Score   int             `json:"score"`
}

// Per-term scores against a name field.
const (
	scoreExact     = 3
	scorePrefix    = 2
	scoreSubstring = 1
)

// Search ranks students against a free-text name query.
// The query is split on whitespace; every term must match the first or
// the last name (best field wins per term), scores are summed, and the
// result is ordered by descending score with (lastName, firstName)
// collation breaking ties. An empty query matches nothing.
func Search(students []student.Student, query string) []Match {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(students))
	for _, s := range students {
		first := strings.ToLower(strings.TrimSpace(s.FirstName))
		last := strings.ToLower(strings.TrimSpace(s.LastName))

		total := 0
		matched := true
		for _, term := range terms {
			score := termScore(first, term)
			if lastScore := termScore(last, term); lastScore > score {
				score = lastScore
			}
			if score == 0 {
				matched = false
				break
			}
			total += score
		}
		if matched {
			matches = append(matches, Match{Student: s, Score: total})
		}
	}

	c := newCollator()
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if r := c.CompareString(matches[i].Student.LastName, matches[j].Student.LastName); r != 0 {
			return r < 0
		}
		return c.CompareString(matches[i].Student.FirstName, matches[j].Student.FirstName) < 0
	})
	return matches
}

func termScore(name, term string) int {
	switch {
	case name == term:
		return scoreExact
	case strings.HasPrefix(name, term):
		return scorePrefix
	case strings.Contains(name, term):
		return scoreSubstring
	}
	return 0
}

// newCollator returns a fresh collator; collate.Collator is not safe
// for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}
