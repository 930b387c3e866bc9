package timing

import "sort"

// markerIndex is every marker of every tracked line, kept sorted by
// position. The slice is re-sorted in place after drags rather than kept in
// an ordered container, because positions mutate underneath any key-ordered
// structure.
type markerIndex []*Marker

// lowerBound returns the first index whose marker position is >= ms.
func (idx markerIndex) lowerBound(ms int) int {
	return sort.Search(len(idx), func(i int) bool {
		return idx[i].position >= ms
	})
}

// upperBound returns the first index whose marker position is > ms,
// searching only from the given start index.
func (idx markerIndex) upperBound(from, ms int) int {
	return from + sort.Search(len(idx)-from, func(i int) bool {
		return idx[from+i].position > ms
	})
}

// rangeBounds returns the half-open index range of markers within [t0, t1].
func (idx markerIndex) rangeBounds(t0, t1 int) (int, int) {
	begin := idx.lowerBound(t0)
	return begin, idx.upperBound(begin, t1)
}

// sortRange re-sorts the slice [begin, end). Stable so that markers
// appended later (the active line's) stay after inactive ones on ties.
func (idx markerIndex) sortRange(begin, end int) {
	sort.SliceStable(idx[begin:end], func(i, j int) bool {
		return idx[begin+i].position < idx[begin+j].position
	})
}

func (idx markerIndex) sortAll() {
	idx.sortRange(0, len(idx))
}
