package pricing

import "github.com/google/uuid"

// LineKey identifies a line item within one order. The same item may appear
// once per item group, never twice under the same group.
type LineKey struct {
	ItemID      uuid.UUID
	ItemGroupID uuid.UUID
}

// DuplicateResult reports the first repeated line key in a submission.
// Indices are 1-based row numbers for user-facing error messages.
type DuplicateResult struct {
	Duplicate    bool
	ItemID       uuid.UUID
	ItemGroupID  uuid.UUID
	CurrentIndex int
	PrevIndex    int
}

// DetectDuplicateLines scans the submitted lines in order and returns on the
// first repeated (item, group) pair. It does not collect further duplicates.
func DetectDuplicateLines(lines []LineKey) DuplicateResult {
	seen := make(map[LineKey]int, len(lines))
	for i, key := range lines {
		if prev, ok := seen[key]; ok {
			return DuplicateResult{
				Duplicate:    true,
				ItemID:       key.ItemID,
				ItemGroupID:  key.ItemGroupID,
				CurrentIndex: i + 1,
				PrevIndex:    prev,
			}
		}
		seen[key] = i + 1
	}
	return DuplicateResult{}
}

// StaleKeys returns the persisted keys that no longer appear in the submitted
// set. Reconciliation deletes exactly these rows so the persisted line set
// ends in bijection with the submission.
func StaleKeys(persisted, submitted []LineKey) []LineKey {
	keep := make(map[LineKey]struct{}, len(submitted))
	for _, key := range submitted {
		keep[key] = struct{}{}
	}
	var stale []LineKey
	for _, key := range persisted {
		if _, ok := keep[key]; !ok {
			stale = append(stale, key)
		}
	}
	return stale
}
