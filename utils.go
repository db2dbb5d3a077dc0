package dlt

// ValidateRange validates sampling range parameters
func ValidateRange(min, max int) error {
	if min > max {
		return ErrInvalidRange
	}
	return nil
}

// ValidateCount validates that count distinct values can be drawn from [min, max]
func ValidateCount(count, min, max int) error {
	if count <= 0 || count > max-min+1 {
		return ErrInvalidCount
	}
	return nil
}
