// Package universe defines the fixed symbol universe and slices it into
// batches for the ingestion job.
package universe

import (
	"fmt"
	"strings"
)

// MaxSymbols caps the size of the target universe.
const MaxSymbols = 330

// Plan is the slice of the universe owned by one batch invocation.
type Plan struct {
	BatchNumber  int
	TotalBatches int
	StartIndex   int
	EndIndex     int
	Symbols      []string
	UniverseSize int
}

// Empty reports whether the plan has no symbols to process.
func (p Plan) Empty() bool { return len(p.Symbols) == 0 }

// HasMore reports whether another batch follows this one.
func (p Plan) HasMore() bool {
	return p.BatchNumber < p.TotalBatches && p.EndIndex < p.UniverseSize
}

// Universe is an ordered, deduplicated list of ticker symbols together with
// the index lists each symbol was drawn from.
type Universe struct {
	symbols    []string
	membership map[string][]string
}

// Default builds the production universe from the S&P 500, NASDAQ-100 and
// Dow Jones lists.
func Default() *Universe {
	return New(MaxSymbols,
		NamedList{Name: IndexSP500, Symbols: sp500},
		NamedList{Name: IndexNasdaq100, Symbols: nasdaq100},
		NamedList{Name: IndexDowJones, Symbols: dowJones},
	)
}

// NamedList is a source index list.
type NamedList struct {
	Name    string
	Symbols []string
}

// New merges lists in order, dropping duplicates (first occurrence wins) and
// truncating to limit symbols. Symbols are upper-cased and trimmed.
func New(limit int, lists ...NamedList) *Universe {
	u := &Universe{membership: make(map[string][]string)}
	seen := make(map[string]struct{})

	for _, list := range lists {
		for _, raw := range list.Symbols {
			sym := strings.ToUpper(strings.TrimSpace(raw))
			if sym == "" {
				continue
			}
			u.membership[sym] = appendUnique(u.membership[sym], list.Name)
			if _, ok := seen[sym]; ok {
				continue
			}
			seen[sym] = struct{}{}
			u.symbols = append(u.symbols, sym)
		}
	}

	if limit > 0 && len(u.symbols) > limit {
		u.symbols = u.symbols[:limit]
	}
	return u
}

// Symbols returns a copy of the ordered universe.
func (u *Universe) Symbols() []string {
	out := make([]string, len(u.symbols))
	copy(out, u.symbols)
	return out
}

// Len returns the number of symbols in the universe.
func (u *Universe) Len() int { return len(u.symbols) }

// MembershipTags returns the index names the symbol appears in, in list order.
func (u *Universe) MembershipTags(symbol string) []string {
	tags := u.membership[strings.ToUpper(symbol)]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// BatchSizeFor spreads the universe evenly across totalBatches.
func (u *Universe) BatchSizeFor(totalBatches int) int {
	if totalBatches < 1 {
		return 0
	}
	return (len(u.symbols) + totalBatches - 1) / totalBatches
}

// PlanBatch computes the symbols owned by the 1-based batchNumber. A batch
// past the end of the universe yields an empty plan rather than an error.
func (u *Universe) PlanBatch(batchNumber, totalBatches, batchSize int) (Plan, error) {
	if batchNumber < 1 {
		return Plan{}, fmt.Errorf("batch number must be at least 1, got %d", batchNumber)
	}
	if totalBatches < 1 {
		return Plan{}, fmt.Errorf("total batches must be at least 1, got %d", totalBatches)
	}
	if batchSize < 1 {
		return Plan{}, fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}

	total := len(u.symbols)
	start := min((batchNumber-1)*batchSize, total)
	end := min(start+batchSize, total)

	symbols := make([]string, end-start)
	copy(symbols, u.symbols[start:end])

	return Plan{
		BatchNumber:  batchNumber,
		TotalBatches: totalBatches,
		StartIndex:   start,
		EndIndex:     end,
		Symbols:      symbols,
		UniverseSize: total,
	}, nil
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
