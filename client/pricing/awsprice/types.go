// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package awsprice holds the raw AWS Price List schema for EC2 and ECS offers together with
// decoders for the two shapes it is published in: the bulk offer file and product lines.
//
// Only the fields required to build catalog artifacts are modelled. JSON objects whose
// iteration order is observable in the output are decoded into an OrderedMap.
package awsprice

import (
	"strings"
)

// Attribute names of AWS products referenced by the catalog builder.
const (
	AttrInstanceType       = "instanceType"
	AttrLocation           = "location"
	AttrRegionCode         = "regionCode"
	AttrOperation          = "operation"
	AttrTenancy            = "tenancy"
	AttrCapacityStatus     = "capacitystatus"
	AttrOperatingSystem    = "operatingSystem"
	AttrPreInstalledSw     = "preInstalledSw"
	AttrLicenseModel       = "licenseModel"
	AttrMemory             = "memory"
	AttrECU                = "ecu"
	AttrVCPU               = "vcpu"
	AttrPhysicalProcessor  = "physicalProcessor"
	AttrClockSpeed         = "clockSpeed"
	AttrStorage            = "storage"
	AttrNetworkPerformance = "networkPerformance"
	AttrCPUArchitecture    = "cpuArchitecture"
	AttrCPUType            = "cputype"
	AttrMemoryType         = "memorytype"
)

// OfferFile represents the root of an AWS bulk offer file. Terms are keyed by SKU.
type OfferFile struct {
	FormatVersion   string              `json:"formatVersion"`
	OfferCode       string              `json:"offerCode"`
	Version         string              `json:"version"`
	PublicationDate string              `json:"publicationDate"`
	Products        OrderedMap[Product] `json:"products"`
	Terms           OfferFileTerms      `json:"terms"`
}

// OfferFileTerms holds the terms of all products of an offer file keyed by SKU and then by
// offer term code.
type OfferFileTerms struct {
	OnDemand map[string]*OrderedMap[OfferTerm] `json:"OnDemand"`
	Reserved map[string]*OrderedMap[OfferTerm] `json:"Reserved"`
}

// ProductOffer is a single product together with its own terms. It is also the shape of one
// line of a product lines document, as returned by the Price List Query API.
type ProductOffer struct {
	Product         Product `json:"product"`
	Terms           Terms   `json:"terms"`
	PublicationDate string  `json:"publicationDate"`
}

// Product holds metadata for a single product SKU (e.g. an EC2 instance type under a specific
// OS, tenancy and license model).
type Product struct {
	SKU           string            `json:"sku"`
	ProductFamily string            `json:"productFamily"`
	Attributes    map[string]string `json:"attributes"`
}

// Attr returns the named attribute of the product, or the empty string if it is absent.
func (p Product) Attr(name string) string {
	return p.Attributes[name]
}

// Terms holds the offers of a single product keyed by offer term code.
// A nil OnDemand or Reserved means the product has no such terms.
type Terms struct {
	OnDemand *OrderedMap[OfferTerm] `json:"OnDemand,omitempty"`
	Reserved *OrderedMap[OfferTerm] `json:"Reserved,omitempty"`
}

// OfferTerm groups one or more price dimensions for a given product offer.
type OfferTerm struct {
	OfferTermCode   string                     `json:"offerTermCode"`
	SKU             string                     `json:"sku"`
	EffectiveDate   string                     `json:"effectiveDate"`
	PriceDimensions OrderedMap[PriceDimension] `json:"priceDimensions"`
	TermAttributes  TermAttributes             `json:"termAttributes"`
}

// TermAttributes describes a reservation plan. On-demand offers carry no term attributes.
type TermAttributes struct {
	LeaseContractLength string `json:"LeaseContractLength,omitempty"`
	OfferingClass       string `json:"OfferingClass,omitempty"`
	PurchaseOption      string `json:"PurchaseOption,omitempty"`
}

// PlanName joins the present term attributes in the order AWS publishes them,
// e.g. "1yr - standard - No Upfront".
func (a TermAttributes) PlanName() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{a.LeaseContractLength, a.OfferingClass, a.PurchaseOption} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " - ")
}

// PriceDimension describes the actual unit price for a product offer.
// Example: unit = "Hrs", beginRange = "0", endRange = "Inf", pricePerUnit["USD"] = "0.0928".
type PriceDimension struct {
	RateCode     string            `json:"rateCode"`
	Description  string            `json:"description"`
	BeginRange   string            `json:"beginRange"`
	EndRange     string            `json:"endRange"`
	Unit         string            `json:"unit"`
	PricePerUnit map[string]string `json:"pricePerUnit"`
	AppliesTo    []string          `json:"appliesTo"`
}
