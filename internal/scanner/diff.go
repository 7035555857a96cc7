package scanner

// Diff returns copies of the post records whose identity triple is absent
// from pre, restamped with the added_after_consent stage. Relative order of
// post is preserved; pre and post themselves are never mutated. Two cookies
// with the same triple but different values or flags count as unchanged.
func Diff(pre, post []CookieRecord) []CookieRecord {
	seen := make(map[string]struct{}, len(pre))
	for _, c := range pre {
		seen[c.Key()] = struct{}{}
	}

	added := make([]CookieRecord, 0)
	for _, c := range post {
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		c.Stage = StageAddedAfter
		added = append(added, c)
	}
	return added
}
