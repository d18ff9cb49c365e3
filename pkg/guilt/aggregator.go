package guilt

// Reduce merges a since and an until tally into one delta per author
// appearing in either. Authors missing from a side count as zero there.
// The result is sorted with CompareDeltas, so reducing the same tallies
// twice yields identical lists.
func Reduce(since, until map[string]int, kind Kind) []Delta {
	deltas := make([]Delta, 0, len(since)+len(until))

	for author, n := range since {
		deltas = append(deltas, Delta{
			Author: author,
			Since:  n,
			Until:  until[author],
			Kind:   kind,
		})
	}

	for author, n := range until {
		if _, seen := since[author]; seen {
			continue
		}

		deltas = append(deltas, Delta{
			Author: author,
			Until:  n,
			Kind:   kind,
		})
	}

	SortDeltas(deltas)

	return deltas
}

// ReduceBuckets reduces a pair of buckets.
func ReduceBuckets(since, until *Bucket, kind Kind) []Delta {
	return Reduce(since.Snapshot(), until.Snapshot(), kind)
}
