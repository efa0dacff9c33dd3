package builtin

import (
	"sort"
	"strings"

	"github.com/lef237/ctj/internal/records"
)

// DeDup is the policy-driven de-duplication transformer for the pipeline.
// It collapses duplicate records by a configured key and chooses a winner
// according to a configurable policy:
//
//   - "keep-first"   : keep the earliest occurrence in the batch
//   - "keep-last"    : keep the latest occurrence in the batch (default)
//   - "most-complete": keep the record that has the most non-empty fields;
//     ties break by "keep-last"
//
// This runs in-memory on a single batch (slice) of records. It is intended
// to remove intra-batch duplicates *before* hitting the database, reducing
// write amplification. The database should still maintain UNIQUE/PK
// constraints as a backstop.
//
// Keys: a record's key is the concatenation of the configured fields in
// their classified JSON form, so the integer 1 and the text "1" never
// collide. Records missing any key field pass through un-deduplicated.
type DeDup struct {
	// Keys are the field names that form the business key, e.g. ["id","date_from"].
	Keys []string

	// Policy selects the winner among duplicates: "keep-first", "keep-last",
	// or "most-complete" (default is "keep-last").
	Policy string

	// PreferFields optionally lists fields that should weigh more heavily in
	// "most-complete" selection; present/non-empty values in these fields add
	// an extra weight. This is a soft signal; ties still break by keep-last.
	PreferFields []string
}

// Apply executes the de-duplication and returns a new slice containing only
// the winning records for each key, in ascending input position, followed by
// any pass-through records that could not be keyed.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-last"
	}

	type slot struct {
		rec   records.Record
		index int // original position in input (0-based)
		score int // completeness score (for most-complete)
	}

	winners := make(map[string]slot, len(in))

	prefer := make(map[string]struct{}, len(d.PreferFields))
	for _, f := range d.PreferFields {
		prefer[f] = struct{}{}
	}

	keyOf := func(r records.Record) (string, bool) {
		var b strings.Builder
		for _, k := range d.Keys {
			v, ok := r.Get(k)
			if !ok {
				// Missing key field -> cannot key this record; drop from de-dup domain.
				return "", false
			}
			if b.Len() > 0 {
				b.WriteByte('\x1f') // unlikely separator
			}
			b.WriteString(valueKey(v))
		}
		return b.String(), true
	}

	scoreOf := func(r records.Record) int {
		// Count non-empty values; "" doesn't count.
		score := 0
		// PreferFields add an extra weight if present and non-empty.
		bonus := 0
		for _, f := range r.Fields {
			if isEmpty(f.Value) {
				continue
			}
			score++
			if _, ok := prefer[f.Key]; ok {
				bonus++
			}
		}
		return score*10 + bonus // simple linear combo; 10x amplifies base signal
	}

	// Select winners according to the policy.
	for i, r := range in {
		key, ok := keyOf(r)
		if !ok {
			// Non-keyed records are appended after the winners below.
			continue
		}
		switch policy {
		case "keep-first":
			if _, exists := winners[key]; !exists {
				winners[key] = slot{rec: r, index: i}
			}
		case "most-complete":
			s := slot{rec: r, index: i, score: scoreOf(r)}
			if prev, exists := winners[key]; !exists {
				winners[key] = s
			} else if s.score > prev.score || (s.score == prev.score && s.index > prev.index) {
				// Tie-break: prefer later record for determinism.
				winners[key] = s
			}
		default: // "keep-last"
			winners[key] = slot{rec: r, index: i}
		}
	}

	// Winners in ascending index order, then pass-through records in
	// original order.
	slots := make([]slot, 0, len(winners))
	for _, s := range winners {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })

	out := make([]records.Record, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.rec)
	}
	for _, r := range in {
		if _, ok := keyOf(r); !ok {
			out = append(out, r)
		}
	}
	return out
}
