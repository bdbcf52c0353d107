// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package ordering provides the comparators that give instance types and reservation plans a
// human-meaningful order, together with the parsers and price comparator the comparison table
// relies on to sort catalog artifacts numerically.
package ordering

import (
	"cmp"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// sizeRanks is the order of instance sizes that are not multiples of xlarge.
var sizeRanks = []string{"nano", "micro", "small", "medium", "large", "xlarge"}

// InstanceTypeCompare orders instance types of the form "<family>.<size>" by family and then by
// size. Sizes ranked in sizeRanks come first. Other sizes such as "2xlarge" follow, ordered by
// length and then lexically, so that "2xlarge" sorts before "12xlarge".
func InstanceTypeCompare(a, b string) int {
	if a == b {
		return 0
	}
	af, as := splitInstanceType(a)
	bf, bs := splitInstanceType(b)
	if c := strings.Compare(af, bf); c != 0 {
		return c
	}
	if c := cmp.Compare(sizeRank(as), sizeRank(bs)); c != 0 {
		return c
	}
	if c := cmp.Compare(len(as), len(bs)); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}

// splitInstanceType returns the text before the first dot and the text between the first and
// the second dot.
func splitInstanceType(t string) (family, size string) {
	family, rest, _ := strings.Cut(t, ".")
	size, _, _ = strings.Cut(rest, ".")
	return
}

func sizeRank(size string) int {
	if i := slices.Index(sizeRanks, size); i >= 0 {
		return i
	}
	return len(sizeRanks)
}

// ReservationCompare orders reservation plan names of the form "<length> - <class> - <purchase option>".
// Plans are grouped by offering class in descending order, then ordered by lease length and by
// purchase option, both lexically. Purchase options therefore sort as All, No, Partial Upfront.
func ReservationCompare(a, b string) int {
	if a == b {
		return 0
	}
	ay, ac, au := splitPlanName(a)
	by, bc, bu := splitPlanName(b)
	if c := strings.Compare(bc, ac); c != 0 {
		return c
	}
	if c := strings.Compare(ay, by); c != 0 {
		return c
	}
	return strings.Compare(au, bu)
}

func splitPlanName(name string) (length, class, option string) {
	parts := strings.SplitN(name, " - ", 3)
	parts = append(parts, "", "", "")
	return parts[0], parts[1], parts[2]
}

// SortedNames returns the members of names in lexical order.
func SortedNames(names sets.Set[string]) []string {
	return sets.List(names)
}

// SortedReservations returns the members of plans ordered by ReservationCompare.
func SortedReservations(plans sets.Set[string]) []string {
	list := plans.UnsortedList()
	slices.SortFunc(list, ReservationCompare)
	return list
}

// SortInstanceTypes sorts instance type names in place by InstanceTypeCompare.
func SortInstanceTypes(types []string) {
	slices.SortStableFunc(types, InstanceTypeCompare)
}
