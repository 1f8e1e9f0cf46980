package utils

// UniqueStrings returns items without duplicates, keeping first-seen order.
// Empty strings are dropped when skipEmpty is set.
func UniqueStrings(items []string, skipEmpty bool) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if skipEmpty && item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Window returns items[skip:skip+limit], clamped to the slice bounds. limit <= 0 means no limit.
func Window(items []string, skip, limit int) []string {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []string{}
	}
	end := len(items)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}
