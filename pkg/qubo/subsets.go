package qubo

// getSubsets enumerates every subset of elems whose size lies in
// [min, max] via recursive descent that, at each position, tries "skip"
// before "take" (spec.md §4.3's required enumeration order). elems must
// already be sorted; each subset is delivered to cb in the same relative
// order as elems.
//
// This exact traversal order is observable: scenario S3/S4 in spec.md §8
// pin it down, and it's what makes order reduction's gadget tie-break
// (§4.4 step 4) reproducible across runs.
func getSubsets[T any](elems []T, min, max int, cb func(subset []T)) {
	n := len(elems)
	if max > n {
		max = n
	}
	if max < 0 {
		max = n
	}
	inner := make([]T, 0, max)
	var rec func(loc int)
	rec = func(loc int) {
		if loc == n {
			cb(inner)
			return
		}
		if n-loc-1+len(inner) >= min {
			rec(loc + 1)
		}
		if len(inner) < max {
			inner = append(inner, elems[loc])
			rec(loc + 1)
			inner = inner[:len(inner)-1]
		}
	}
	rec(0)
}
