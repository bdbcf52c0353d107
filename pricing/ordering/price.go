// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ordering

import (
	"math"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
)

// RateFunc selects a dollar rate from a price entry. It returns nil if the entry is absent or
// has no such rate.
type RateFunc func(entry *pricingapi.PriceEntry) *float64

// OnDemandRate selects the on-demand rate of a price entry.
func OnDemandRate(entry *pricingapi.PriceEntry) *float64 {
	if entry == nil {
		return nil
	}
	return entry.OnDemand
}

// ReservedRate returns a RateFunc selecting the blended rate of the named reservation plan.
func ReservedRate(plan string) RateFunc {
	return func(entry *pricingapi.PriceEntry) *float64 {
		if entry == nil {
			return nil
		}
		for i := range entry.Reserved {
			if entry.Reserved[i].Name == plan {
				return &entry.Reserved[i].Blended
			}
		}
		return nil
	}
}

// FindPriceEntry returns the entry named priceName, or nil if there is none.
func FindPriceEntry(entries []pricingapi.PriceEntry, priceName string) *pricingapi.PriceEntry {
	for i := range entries {
		if entries[i].Name == priceName {
			return &entries[i]
		}
	}
	return nil
}

// PriceCompare returns a comparator of instance types by the rate selected with rate from their
// priceName entry in prices. Instance types without such a rate sort last in both directions.
func PriceCompare(prices map[string][]pricingapi.PriceEntry, priceName string, rate RateFunc, descending bool) func(a, b string) int {
	value := func(instanceType string) float64 {
		v := rate(FindPriceEntry(prices[instanceType], priceName))
		if v == nil {
			return math.NaN()
		}
		return *v
	}
	return func(a, b string) int {
		av, bv := value(a), value(b)
		aok := !math.IsNaN(av) && !math.IsInf(av, 0)
		bok := !math.IsNaN(bv) && !math.IsInf(bv, 0)
		switch {
		case aok && bok:
			if descending {
				av, bv = bv, av
			}
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	}
}
