// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ordering

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingFloatPattern  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	storageVolumePattern = regexp.MustCompile(`(\d+) x (\d+)`)
)

// ParseLeadingFloat parses the longest prefix of s that is a decimal number, ignoring leading
// white space, so that "16 GiB" yields 16. It returns NaN if s does not start with a number.
func ParseLeadingFloat(s string) float64 {
	m := leadingFloatPattern.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ParseMemory returns the numeric memory size of an instance type, e.g. 1952 for "1,952 GiB".
// The unit is ignored. It returns NaN for values that are not numeric.
func ParseMemory(memory string) float64 {
	return ParseLeadingFloat(strings.ReplaceAll(memory, ",", ""))
}

// ParseStorage returns the total instance storage size, e.g. 1800 for "2 x 900 NVMe SSD" and
// 0 for "EBS only".
func ParseStorage(storage string) float64 {
	storage = strings.ReplaceAll(storage, ",", "")
	if m := storageVolumePattern.FindStringSubmatch(storage); m != nil {
		count, _ := strconv.ParseFloat(m[1], 64)
		size, _ := strconv.ParseFloat(m[2], 64)
		return count * size
	}
	if f := ParseLeadingFloat(storage); !math.IsNaN(f) && f != 0 {
		return f
	}
	return 0
}
