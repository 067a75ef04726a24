package attendance

import "sort"

// Status tokens counted by Tally. Matching is exact and case-sensitive.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Count is one student's presence and absence totals.
type Count struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// Counts maps student name to totals.
type Counts map[string]Count

// StudentCount is a Count labelled with its student.
type StudentCount struct {
	Name string `json:"name"`
	Count
}

// Tally counts "present" and "absent" tokens per student. Any other token
// is ignored. Every student in statuses appears in the result, even with
// zero counts.
func Tally(statuses map[string][]string) Counts {
	counts := make(Counts, len(statuses))
	for name, tokens := range statuses {
		var c Count
		for _, tok := range tokens {
			switch tok {
			case StatusPresent:
				c.Present++
			case StatusAbsent:
				c.Absent++
			}
		}
		counts[name] = c
	}
	return counts
}

// Sorted returns the counts ordered by student name.
func (c Counts) Sorted() []StudentCount {
	out := make([]StudentCount, 0, len(c))
	for name, count := range c {
		out = append(out, StudentCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
