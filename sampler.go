package dlt

import "slices"

// Sampler suggests number sets by uniform sampling without replacement.
// There is no weighting by history.
type Sampler struct {
	generator RandomGenerator
}

// NewSampler creates a sampler backed by OS entropy
func NewSampler() *Sampler {
	return &Sampler{generator: NewSecureRandomGenerator()}
}

// NewSamplerWithGenerator creates a sampler backed by the given generator
func NewSamplerWithGenerator(g RandomGenerator) *Sampler {
	if g == nil {
		g = NewSecureRandomGenerator()
	}
	return &Sampler{generator: g}
}

// Recommend draws 5 distinct front numbers from [1,35] and, independently,
// 2 distinct back numbers from [1,12], each returned ascending
func (s *Sampler) Recommend() (NumberSet, error) {
	front, err := s.SampleDistinct(FrontMin, FrontMax, FrontCount)
	if err != nil {
		return NumberSet{}, err
	}
	back, err := s.SampleDistinct(BackMin, BackMax, BackCount)
	if err != nil {
		return NumberSet{}, err
	}
	return NumberSet{Front: front, Back: back}, nil
}

// SampleDistinct returns count distinct integers from [min, max] in ascending
// order using a partial Fisher-Yates shuffle
func (s *Sampler) SampleDistinct(min, max, count int) ([]int, error) {
	if err := ValidateRange(min, max); err != nil {
		return nil, err
	}
	if err := ValidateCount(count, min, max); err != nil {
		return nil, err
	}

	pool := make([]int, max-min+1)
	for i := range pool {
		pool[i] = min + i
	}

	for i := 0; i < count; i++ {
		j, err := s.generator.GenerateInRange(i, len(pool)-1)
		if err != nil {
			return nil, err
		}
		pool[i], pool[j] = pool[j], pool[i]
	}

	picked := slices.Clone(pool[:count])
	slices.Sort(picked)
	return picked, nil
}
