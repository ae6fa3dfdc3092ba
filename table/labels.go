package table

// Missing marks a label cell with no mapped class.
const Missing = -1

// Labels is a named integer series aligned with the rows of a Frame.
type Labels struct {
	Name   string
	Values []int
}

// Take returns the labels at the given rows, in order.
func (l Labels) Take(rows []int) Labels {
	out := Labels{Name: l.Name, Values: make([]int, len(rows))}
	for k, i := range rows {
		out.Values[k] = l.Values[i]
	}
	return out
}

// Counts returns how many rows carry each label value.
func (l Labels) Counts() map[int]int {
	counts := make(map[int]int)
	for _, v := range l.Values {
		counts[v]++
	}
	return counts
}
