//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package notation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

func addRange(str string, start int, end int) string {
	if str == "" {
		return fmt.Sprintf("%d-%d", start, end)
	}
	return fmt.Sprintf("%s,%d-%d", str, start, end)
}

func addSingleton(str string, n int) string {

	if str == "" {
		return fmt.Sprintf("%d", n)
	}

	return fmt.Sprintf("%s,%d", str, n)
}

// CompressIntArray returns the compressed notation of a sorted list of snapshot numbers,
// e.g., "0-6,8-10,42"
func CompressIntArray(array []int) string {
	compressedRep := ""
	for i := 0; i < len(array); i++ {
		start := i
		for i+1 < len(array) && array[i]+1 == array[i+1] {
			i++
		}
		if i != start {
			// We found a range
			compressedRep = addRange(compressedRep, array[start], array[i])
		} else {
			// We found a singleton
			compressedRep = addSingleton(compressedRep, array[i])
		}
	}
	return compressedRep
}

// ConvertCompressedListToIntSlice expands a compressed list such as "0-3, 7" into a sorted
// slice without duplicates
func ConvertCompressedListToIntSlice(str string) ([]int, error) {
	seen := make(map[int]bool)
	var values []int

	for _, t := range strings.Split(str, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		tokens := strings.Split(t, "-")
		switch len(tokens) {
		case 1:
			n, err := strconv.Atoi(tokens[0])
			if err != nil {
				return nil, fmt.Errorf("unable to parse %s: %w", str, err)
			}
			if !seen[n] {
				seen[n] = true
				values = append(values, n)
			}
		case 2:
			val1, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
			if err != nil {
				return nil, fmt.Errorf("unable to parse %s: %w", str, err)
			}
			val2, err := strconv.Atoi(strings.TrimSpace(tokens[1]))
			if err != nil {
				return nil, fmt.Errorf("unable to parse %s: %w", str, err)
			}
			if val2 < val1 {
				return nil, fmt.Errorf("invalid range %s", t)
			}
			for i := val1; i <= val2; i++ {
				if !seen[i] {
					seen[i] = true
					values = append(values, i)
				}
			}
		default:
			return nil, fmt.Errorf("unable to parse %s", str)
		}
	}

	sort.Ints(values)
	return values, nil
}
