package dlt

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SplitResult parses a composite result string such as "03 11 19 27 35 02 09"
// into front and back numbers.
//
// The string must hold exactly seven integer tokens; otherwise a
// RecordFormatError is returned with a nil set. Values outside their zone or
// repeated within a zone are accepted and reported as warnings.
func SplitResult(result string) (*NumberSet, []string, error) {
	tokens := strings.Fields(result)
	if len(tokens) != ResultTokenCount {
		return nil, nil, NewRecordFormatError(result,
			fmt.Sprintf("expected %d tokens, got %d", ResultTokenCount, len(tokens)))
	}

	nums := make([]int, ResultTokenCount)
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, nil, NewRecordFormatError(result,
				fmt.Sprintf("token %d (%q) is not an integer", i+1, tok)).WithCause(err)
		}
		nums[i] = n
	}

	set := &NumberSet{
		Front: slices.Clone(nums[:FrontCount]),
		Back:  slices.Clone(nums[FrontCount:]),
	}

	var warnings []string
	warnings = append(warnings, zoneWarnings("front", set.Front, FrontMin, FrontMax)...)
	warnings = append(warnings, zoneWarnings("back", set.Back, BackMin, BackMax)...)

	slices.Sort(set.Front)
	slices.Sort(set.Back)
	return set, warnings, nil
}

func zoneWarnings(zone string, nums []int, min, max int) []string {
	var warnings []string
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if n < min || n > max {
			warnings = append(warnings, fmt.Sprintf("%s number %d outside [%d,%d]", zone, n, min, max))
		}
		if seen[n] {
			warnings = append(warnings, fmt.Sprintf("%s number %d repeated", zone, n))
		}
		seen[n] = true
	}
	return warnings
}

// SplitRecords splits every record. Malformed records keep their place with
// a nil Numbers and the error attached.
func SplitRecords(records []DrawRecord) []ParsedDraw {
	draws := make([]ParsedDraw, 0, len(records))
	for _, rec := range records {
		set, warnings, err := SplitResult(rec.Result)
		draws = append(draws, ParsedDraw{
			Record:   rec,
			Numbers:  set,
			Warnings: warnings,
			Err:      err,
		})
	}
	return draws
}

// ValidSets returns the number sets of draws that split cleanly
func ValidSets(draws []ParsedDraw) []NumberSet {
	sets := make([]NumberSet, 0, len(draws))
	for _, d := range draws {
		if d.Numbers != nil {
			sets = append(sets, *d.Numbers)
		}
	}
	return sets
}
