// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
)

func typeInfo(name, memory string) pricingapi.InstanceTypeInfo {
	return pricingapi.InstanceTypeInfo{InstanceType: name, Info: pricingapi.TypeSpecs{Memory: memory}}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		catalogs []pricingapi.RegionCatalog
		opts     Options
		want     pricingapi.MergedOptions
	}{
		{
			name: "later types win",
			catalogs: []pricingapi.RegionCatalog{
				{Types: map[string]pricingapi.InstanceTypeInfo{"A": typeInfo("A", "1 GiB")}},
				{Types: map[string]pricingapi.InstanceTypeInfo{"A": typeInfo("A", "2 GiB")}},
			},
			want: pricingapi.MergedOptions{
				Types:   map[string]pricingapi.InstanceTypeInfo{"A": typeInfo("A", "2 GiB")},
				Options: pricingapi.PurchaseOptions{Names: []string{}, Reservations: []string{}},
				Dates:   []string{},
			},
		},
		{
			name: "names are a set union",
			catalogs: []pricingapi.RegionCatalog{
				{Options: pricingapi.PurchaseOptions{Names: []string{"x"}}},
				{Options: pricingapi.PurchaseOptions{Names: []string{"x", "y"}}},
			},
			want: pricingapi.MergedOptions{
				Types:   map[string]pricingapi.InstanceTypeInfo{},
				Options: pricingapi.PurchaseOptions{Names: []string{"x", "y"}, Reservations: []string{}},
				Dates:   []string{},
			},
		},
		{
			name: "partial coverage across regions",
			catalogs: []pricingapi.RegionCatalog{
				{
					Date:  "2024-03-15T00:00:00Z",
					Types: map[string]pricingapi.InstanceTypeInfo{"m5.large": typeInfo("m5.large", "8 GiB")},
					Options: pricingapi.PurchaseOptions{
						Names:        []string{"Linux", "Windows"},
						Reservations: []string{"3yr - convertible - No Upfront", "1yr - standard - No Upfront"},
					},
				},
				{
					Date:  "2024-03-14T00:00:00Z",
					Types: map[string]pricingapi.InstanceTypeInfo{"t3.micro": typeInfo("t3.micro", "1 GiB")},
					Options: pricingapi.PurchaseOptions{
						Names:        []string{"Linux", "Windows - Bring your own license"},
						Reservations: []string{"1yr - standard - All Upfront"},
					},
				},
				{
					Date: "2024-03-15T00:00:00Z",
				},
			},
			opts: Options{ExcludedNames: []string{"Windows - Bring your own license"}},
			want: pricingapi.MergedOptions{
				Types: map[string]pricingapi.InstanceTypeInfo{
					"m5.large": typeInfo("m5.large", "8 GiB"),
					"t3.micro": typeInfo("t3.micro", "1 GiB"),
				},
				Options: pricingapi.PurchaseOptions{
					Names: []string{"Linux", "Windows"},
					Reservations: []string{
						"1yr - standard - All Upfront",
						"1yr - standard - No Upfront",
						"3yr - convertible - No Upfront",
					},
				},
				Dates: []string{"2024-03-14T00:00:00Z", "2024-03-15T00:00:00Z"},
			},
		},
		{
			name: "omit types",
			catalogs: []pricingapi.RegionCatalog{
				{Date: "d", Types: map[string]pricingapi.InstanceTypeInfo{"A": typeInfo("A", "1 GiB")}},
			},
			opts: Options{OmitTypes: true},
			want: pricingapi.MergedOptions{
				Options: pricingapi.PurchaseOptions{Names: []string{}, Reservations: []string{}},
				Dates:   []string{"d"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.catalogs, tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergerResultDoesNotAlias(t *testing.T) {
	m := NewMerger(Options{ExcludedNames: []string{"y"}})
	m.Add(pricingapi.RegionCatalog{
		Types:   map[string]pricingapi.InstanceTypeInfo{"A": typeInfo("A", "1 GiB")},
		Options: pricingapi.PurchaseOptions{Names: []string{"x", "y"}},
	})
	first := m.Result()
	first.Types["B"] = typeInfo("B", "2 GiB")
	m.Add(pricingapi.RegionCatalog{Options: pricingapi.PurchaseOptions{Names: []string{"y", "z"}}})
	second := m.Result()
	if _, ok := second.Types["B"]; ok {
		t.Errorf("Result() shares its types map with the merger")
	}
	if diff := cmp.Diff([]string{"x", "z"}, second.Options.Names); diff != "" {
		t.Errorf("Result() names mismatch (-want +got):\n%s", diff)
	}
}
