// Package finalize turns a classified record stream into the dataset that
// gets persisted: duplicates removed, low-confidence records dropped, output
// ordered by confidence for export.
package finalize

import "sort"

// DefaultThreshold is the study-wide minimum classification confidence.
const DefaultThreshold = 0.70

// Finalize de-duplicates records by identity (first occurrence wins, so the
// earliest container/search-term hit is kept regardless of its confidence),
// then retains records with confidence >= threshold (inclusive), then sorts
// the kept set by confidence descending. Dedup runs before the threshold on
// purpose: thresholding first could let a later duplicate survive while its
// first-seen instance was dropped, silently changing which instance
// represents the item. Returns the kept records and the duplicate count.
func Finalize[T any](records []T, id func(T) string, confidence func(T) float64, threshold float64) ([]T, int) {
	seen := make(map[string]struct{}, len(records))
	deduped := make([]T, 0, len(records))
	dupes := 0
	for _, rec := range records {
		key := id(rec)
		if _, ok := seen[key]; ok {
			dupes++
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, rec)
	}

	kept := deduped[:0:0]
	for _, rec := range deduped {
		if confidence(rec) >= threshold {
			kept = append(kept, rec)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return confidence(kept[i]) > confidence(kept[j])
	})

	return kept, dupes
}
