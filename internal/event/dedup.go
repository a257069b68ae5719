package event

// DedupKey identifies distinct events. Comparison is exact: whitespace and
// case must already be normalized.
type DedupKey struct {
	Title string
	Time  string
}

// KeySet is the set of keys already emitted.
type KeySet map[DedupKey]struct{}

// Key returns the record's deduplication key.
func (r Record) Key() DedupKey {
	return DedupKey{Title: r.Title, Time: r.Time}
}

// Dedupe removes records whose key was seen earlier in the slice. The first
// occurrence wins and order is otherwise preserved.
func Dedupe(records []Record) []Record {
	unique, _ := DedupeWith(records, nil)
	return unique
}

// DedupeWith is Dedupe against an existing seen set, which may be nil. It
// returns the unique records and the updated set.
func DedupeWith(records []Record, seen KeySet) ([]Record, KeySet) {
	if seen == nil {
		seen = make(KeySet, len(records))
	}
	unique := make([]Record, 0, len(records))
	for _, r := range records {
		key := r.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}
	return unique, seen
}
