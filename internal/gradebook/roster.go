package gradebook

// ApplyDelta returns the roster that results from adding addIDs and removing
// removeIDs from current. Only ids present in valid take part in either
// direction; an id listed in both deltas is removed. The result keeps the
// surviving members of current in order, followed by new members in the order
// they were requested, without duplicates. Inputs are never modified.
func ApplyDelta(current, addIDs, removeIDs, valid []string) []string {
	validSet := toSet(valid)

	remove := make(map[string]struct{}, len(removeIDs))
	for _, id := range removeIDs {
		if _, ok := validSet[id]; ok {
			remove[id] = struct{}{}
		}
	}

	result := make([]string, 0, len(current)+len(addIDs))
	seen := make(map[string]struct{}, len(current)+len(addIDs))
	keep := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		if _, gone := remove[id]; gone {
			return
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	for _, id := range current {
		keep(id)
	}
	for _, id := range addIDs {
		if _, ok := validSet[id]; ok {
			keep(id)
		}
	}
	return result
}

// Diff reports which ids of next are missing from prev (added) and which ids
// of prev are missing from next (removed).
func Diff(prev, next []string) (added, removed []string) {
	prevSet := toSet(prev)
	nextSet := toSet(next)
	for _, id := range next {
		if _, ok := prevSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if _, ok := nextSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
