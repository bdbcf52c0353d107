// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package regions maps AWS region codes to the human labels used as location in price lists.
package regions

import (
	"slices"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
)

var builtin = []pricingapi.RegionInfo{
	{ID: "us-gov-east-1", Label: "AWS GovCloud (US-East)"},
	{ID: "us-gov-west-1", Label: "AWS GovCloud (US)"},
	{ID: "ap-east-1", Label: "Asia Pacific (Hong Kong)"},
	{ID: "ap-south-1", Label: "Asia Pacific (Mumbai)"},
	{ID: "ap-northeast-1", Label: "Asia Pacific (Tokyo)"},
	{ID: "ap-northeast-3", Label: "Asia Pacific (Osaka-Local)"},
	{ID: "ap-northeast-2", Label: "Asia Pacific (Seoul)"},
	{ID: "ap-southeast-1", Label: "Asia Pacific (Singapore)"},
	{ID: "ap-southeast-2", Label: "Asia Pacific (Sydney)"},
	{ID: "ca-central-1", Label: "Canada (Central)"},
	{ID: "eu-central-1", Label: "EU (Frankfurt)"},
	{ID: "eu-north-1", Label: "EU (Stockholm)"},
	{ID: "eu-west-1", Label: "EU (Ireland)"},
	{ID: "eu-west-2", Label: "EU (London)"},
	{ID: "eu-west-3", Label: "EU (Paris)"},
	{ID: "me-south-1", Label: "Middle East (Bahrain)"},
	{ID: "sa-east-1", Label: "South America (Sao Paulo)"},
	{ID: "us-east-1", Label: "US East (N. Virginia)"},
	{ID: "us-east-2", Label: "US East (Ohio)"},
	{ID: "us-west-1", Label: "US West (N. California)"},
	{ID: "us-west-2", Label: "US West (Oregon)"},
}

// Table is an ordered set of regions. The zero value is an empty table.
type Table struct {
	regions []pricingapi.RegionInfo
}

// Default returns the built-in table extended with overrides. An override with the ID of a
// built-in region relabels it, any other override is appended.
func Default(overrides ...pricingapi.RegionInfo) *Table {
	t := &Table{regions: slices.Clone(builtin)}
	for _, r := range overrides {
		t.Set(r)
	}
	return t
}

// Set relabels the region with the ID of r or appends r.
func (t *Table) Set(r pricingapi.RegionInfo) {
	if i := slices.IndexFunc(t.regions, func(x pricingapi.RegionInfo) bool { return x.ID == r.ID }); i >= 0 {
		t.regions[i].Label = r.Label
		return
	}
	t.regions = append(t.regions, r)
}

// Label returns the label of the region with the given ID.
func (t *Table) Label(id string) (string, bool) {
	for _, r := range t.regions {
		if r.ID == id {
			return r.Label, true
		}
	}
	return "", false
}

// ID returns the ID of the region with the given label.
func (t *Table) ID(label string) (string, bool) {
	for _, r := range t.regions {
		if r.Label == label {
			return r.ID, true
		}
	}
	return "", false
}

// All returns the regions in table order.
func (t *Table) All() []pricingapi.RegionInfo {
	return slices.Clone(t.regions)
}
