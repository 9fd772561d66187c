// Package dedupe removes duplicate play records. Export downloads routinely
// re-issue overlapping time windows, so the same play shows up in several
// files.
package dedupe

import "github.com/jmreyes/spotify-history-tools/internal/model"

// Deduplicate returns the input with exactly one record per identity tuple.
// Policy: the first occurrence in input order wins; later records with the
// same identity are dropped even when non-key fields such as platform
// differ. The resulting identity set does not depend on input order.
func Deduplicate(records []model.PlayRecord) (unique []model.PlayRecord, removed int) {
	seen := make(map[model.Identity]struct{}, len(records))
	for _, r := range records {
		key := r.Identity()
		if _, ok := seen[key]; ok {
			removed++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}
	return unique, removed
}
