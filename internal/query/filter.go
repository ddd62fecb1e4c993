// Package query filters and orders job records in memory.
package query

import (
	"sort"
	"strings"

	"github.com/mcanavci/lawjobs/internal/model"
)

// Filter holds the optional listing predicates. Empty fields match
// everything; provided fields combine with logical AND.
type Filter struct {
	Type     string // exact match against the job type enum
	Location string // case-insensitive substring of the location field
	Q        string // case-insensitive substring of title, description or company
}

// Apply returns the records satisfying every provided predicate, sorted
// descending by CreatedAt regardless of input order. The input slice is not
// modified.
func Apply(jobs []model.JobRecord, f Filter) []model.JobRecord {
	out := make([]model.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if f.Type != "" && string(j.Type) != f.Type {
			continue
		}
		if f.Location != "" && !containsFold(j.Location, f.Location) {
			continue
		}
		if f.Q != "" &&
			!containsFold(j.Title, f.Q) &&
			!containsFold(j.Description, f.Q) &&
			!containsFold(j.Company, f.Q) {
			continue
		}
		out = append(out, j)
	}

	sort.SliceStable(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
