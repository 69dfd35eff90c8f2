package domain

// SkipReason names why a unit of input (payload element, row, column) was
// dropped instead of producing a record.
type SkipReason string

// Tally counts skipped units by reason.
type Tally map[SkipReason]int

func (t Tally) Add(reason SkipReason) {
	t[reason]++
}

func (t Tally) Merge(other Tally) {
	for reason, n := range other {
		t[reason] += n
	}
}

func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}
