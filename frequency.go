package dlt

import "sort"

// FrequencyTable counts how often each number appeared. Numbers that never
// appeared have no key.
type FrequencyTable map[int]int

// Bucket is one bar of a dense histogram
type Bucket struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// Dense returns one bucket per number in [min, max], defaulting missing
// counts to zero
func (ft FrequencyTable) Dense(min, max int) []Bucket {
	if min > max {
		return nil
	}
	buckets := make([]Bucket, 0, max-min+1)
	for n := min; n <= max; n++ {
		buckets = append(buckets, Bucket{Number: n, Count: ft[n]})
	}
	return buckets
}

// Total is the sum of all counts
func (ft FrequencyTable) Total() int {
	total := 0
	for _, c := range ft {
		total += c
	}
	return total
}

// Top returns up to k numbers ordered by count descending, ties by number ascending
func (ft FrequencyTable) Top(k int) []Bucket {
	buckets := make([]Bucket, 0, len(ft))
	for n, c := range ft {
		buckets = append(buckets, Bucket{Number: n, Count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Number < buckets[j].Number
	})
	if k >= 0 && k < len(buckets) {
		buckets = buckets[:k]
	}
	return buckets
}

// Aggregate counts front and back values across sets. The result does not
// depend on the order of sets. Values outside a zone's domain are not counted;
// SplitResult already reports them as warnings.
func Aggregate(sets []NumberSet) (front, back FrequencyTable) {
	front = make(FrequencyTable, FrontMax)
	back = make(FrequencyTable, BackMax)
	for _, s := range sets {
		front.add(s.Front, FrontMin, FrontMax)
		back.add(s.Back, BackMin, BackMax)
	}
	return front, back
}

func (ft FrequencyTable) add(nums []int, min, max int) {
	for _, n := range nums {
		if n >= min && n <= max {
			ft[n]++
		}
	}
}
