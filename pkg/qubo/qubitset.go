package qubo

import (
	"sort"
	"strings"
)

// QubitSet is a set of Qubit values, always kept sorted ascending by
// Qubit.Less and free of duplicates. It plays the role of spec.md §3's
// Set<Qubit> term keys, and of the "small sorted vector" of qubit ids
// suggested for transient higher-order terms in the Design Notes (§9).
type QubitSet[Tq Label[Tq]] []Qubit[Tq]

// NewQubitSet builds a canonical (sorted, deduplicated) QubitSet from the
// given qubits.
func NewQubitSet[Tq Label[Tq]](qubits ...Qubit[Tq]) QubitSet[Tq] {
	cp := append(QubitSet[Tq](nil), qubits...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Less(cp[j]) })
	out := cp[:0]
	for i, q := range cp {
		if i == 0 || q != out[len(out)-1] {
			out = append(out, q)
		}
	}
	return out
}

// Union returns a new QubitSet containing every qubit in s or o.
func (s QubitSet[Tq]) Union(o QubitSet[Tq]) QubitSet[Tq] {
	merged := make(QubitSet[Tq], 0, len(s)+len(o))
	merged = append(merged, s...)
	merged = append(merged, o...)
	return NewQubitSet(merged...)
}

// IsSupersetOf reports whether s contains every qubit in o.
func (s QubitSet[Tq]) IsSupersetOf(o QubitSet[Tq]) bool {
	i := 0
	for _, want := range o {
		for i < len(s) && s[i].Less(want) {
			i++
		}
		if i >= len(s) || s[i] != want {
			return false
		}
	}
	return true
}

// Remove returns a new QubitSet with every qubit present in o removed.
func (s QubitSet[Tq]) Remove(o QubitSet[Tq]) QubitSet[Tq] {
	if len(o) == 0 {
		return append(QubitSet[Tq](nil), s...)
	}
	skip := make(map[Qubit[Tq]]struct{}, len(o))
	for _, q := range o {
		skip[q] = struct{}{}
	}
	out := make(QubitSet[Tq], 0, len(s))
	for _, q := range s {
		if _, ok := skip[q]; !ok {
			out = append(out, q)
		}
	}
	return out
}

// Key returns a canonical string encoding of s, suitable for use as a map
// key (Go maps cannot key on slices directly). Distinct QubitSets always
// produce distinct keys because Qubit.String distinguishes ancillas from
// labeled qubits and qubits are emitted in canonical sorted order.
func (s QubitSet[Tq]) Key() string {
	var b strings.Builder
	for i, q := range s {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(q.String())
	}
	return b.String()
}

// Clone returns a copy of s.
func (s QubitSet[Tq]) Clone() QubitSet[Tq] {
	return append(QubitSet[Tq](nil), s...)
}
