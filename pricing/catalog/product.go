// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"strings"

	"github.com/gardener/instance-pricing/client/pricing/awsprice"
)

const (
	productFamilyComputeInstance = "Compute Instance"
	operationRunInstancesPrefix  = "RunInstances"
	tenancyShared                = "Shared"
	capacityStatusUsed           = "Used"
	osWindows                    = "Windows"
	cpuTypePerCPU                = "perCPU"
	memoryTypePerGB              = "perGB"
)

// placeholderPriceNameParts are attribute values that carry no information for a price name.
var placeholderPriceNameParts = map[string]bool{
	"No License required": true,
	"NA":                  true,
}

// IsCatalogProduct reports whether p is an EC2 compute instance that is billed per instance on
// shared tenancy. Dedicated hosts, capacity reservations and allocated capacity are excluded.
// Products without a capacity status predate that attribute and are accepted.
func IsCatalogProduct(p awsprice.Product) bool {
	if p.ProductFamily != productFamilyComputeInstance {
		return false
	}
	if !strings.HasPrefix(p.Attr(awsprice.AttrOperation), operationRunInstancesPrefix) {
		return false
	}
	if p.Attr(awsprice.AttrTenancy) != tenancyShared {
		return false
	}
	status, ok := p.Attributes[awsprice.AttrCapacityStatus]
	return !ok || status == capacityStatusUsed
}

// PriceName joins the operating system, pre-installed software and license model of p with
// " - ", leaving out placeholder values. For example "Windows - SQL Std" or "Linux".
func PriceName(p awsprice.Product) string {
	parts := make([]string, 0, 3)
	for _, attr := range []string{awsprice.AttrOperatingSystem, awsprice.AttrPreInstalledSw, awsprice.AttrLicenseModel} {
		v := p.Attr(attr)
		if placeholderPriceNameParts[v] {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " - ")
}

// isFargateRateProduct reports whether p is a per-vCPU or per-GB Fargate rate on shared
// tenancy for a non-Windows task.
func isFargateRateProduct(p awsprice.Product) bool {
	if p.Attr(awsprice.AttrTenancy) != tenancyShared || p.Attr(awsprice.AttrOperatingSystem) == osWindows {
		return false
	}
	_, hasCPUType := p.Attributes[awsprice.AttrCPUType]
	_, hasMemoryType := p.Attributes[awsprice.AttrMemoryType]
	return hasCPUType || hasMemoryType
}
