// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package merge folds the catalogs of several regions into one MergedOptions document.
package merge

import (
	"maps"

	"k8s.io/apimachinery/pkg/util/sets"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/pricing/ordering"
)

// Options configures a Merger.
type Options struct {
	// OmitTypes leaves the union of instance types out of the merged document.
	OmitTypes bool
	// ExcludedNames are price names dropped from the merged options.
	ExcludedNames []string
}

// Merger accumulates region catalogs. Catalogs must be added in a fixed order since instance
// types of a later catalog replace those of an earlier one.
type Merger struct {
	opts         Options
	types        map[string]pricingapi.InstanceTypeInfo
	names        sets.Set[string]
	reservations sets.Set[string]
	dates        sets.Set[string]
}

// NewMerger returns an empty Merger.
func NewMerger(opts Options) *Merger {
	return &Merger{
		opts:         opts,
		types:        make(map[string]pricingapi.InstanceTypeInfo),
		names:        sets.New[string](),
		reservations: sets.New[string](),
		dates:        sets.New[string](),
	}
}

// Add folds c into the merged result.
func (m *Merger) Add(c pricingapi.RegionCatalog) {
	maps.Copy(m.types, c.Types)
	m.names.Insert(c.Options.Names...)
	m.reservations.Insert(c.Options.Reservations...)
	if c.Date != "" {
		m.dates.Insert(c.Date)
	}
}

// Result returns the merged document. Price names and dates are sorted lexically and
// reservation plans by ordering.ReservationCompare.
func (m *Merger) Result() pricingapi.MergedOptions {
	var types map[string]pricingapi.InstanceTypeInfo
	if !m.opts.OmitTypes {
		types = maps.Clone(m.types)
	}
	return pricingapi.MergedOptions{
		Types: types,
		Options: pricingapi.PurchaseOptions{
			Names:        ordering.SortedNames(m.names.Clone().Delete(m.opts.ExcludedNames...)),
			Reservations: ordering.SortedReservations(m.reservations),
		},
		Dates: sets.List(m.dates),
	}
}

// Merge folds catalogs in order and returns the merged document.
func Merge(catalogs []pricingapi.RegionCatalog, opts Options) pricingapi.MergedOptions {
	m := NewMerger(opts)
	for _, c := range catalogs {
		m.Add(c)
	}
	return m.Result()
}
