// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package extract turns the raw terms of one product into a normalized on-demand cost and a
// list of reserved offers.
//
// Every cardinality assumption about the AWS schema is checked explicitly and a violation is
// reported with one of the sentinel errors of the api/pricing package.
package extract

import (
	"fmt"
	"regexp"
	"strconv"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/client/pricing/awsprice"
	"github.com/gardener/instance-pricing/pricing/cost"
)

const (
	unitHours        = "Hours"
	unitHrs          = "Hrs"
	unitQuantity     = "Quantity"
	upfrontFeeDesc   = "Upfront Fee"
	rangeBeginZero   = "0"
	rangeEndInfinite = "Inf"
)

var leaseLengthPattern = regexp.MustCompile(`^(\d+)yr$`)

// ReservedOffer is a normalized reservation plan of one product.
type ReservedOffer struct {
	// Name is the plan name derived from the term attributes, e.g. "3yr - convertible - All Upfront".
	Name string
	// Upfront is the one-time fee, nil if the plan has none.
	Upfront *cost.Cost
	// Hourly is the recurring hourly fee, nil if the plan has none.
	Hourly *cost.Cost
	// Blended is the hourly fee plus the upfront fee amortized over the lease.
	Blended cost.Cost
}

// IsHourlyCost reports whether dim is an unbounded per-hour rate that applies to the product itself.
func IsHourlyCost(dim awsprice.PriceDimension) bool {
	return dim.BeginRange == rangeBeginZero &&
		dim.EndRange == rangeEndInfinite &&
		(dim.Unit == unitHours || dim.Unit == unitHrs) &&
		len(dim.AppliesTo) == 0
}

// IsUpfrontCost reports whether dim is the one-time fee of a reservation.
func IsUpfrontCost(dim awsprice.PriceDimension) bool {
	return dim.Unit == unitQuantity && dim.Description == upfrontFeeDesc && len(dim.AppliesTo) == 0
}

// ExtractOnDemand returns the hourly on-demand cost of a product. A product without on-demand
// terms has no on-demand cost and yields nil without error.
func ExtractOnDemand(terms awsprice.Terms) (*cost.Cost, error) {
	if terms.OnDemand == nil {
		return nil, nil
	}
	if n := terms.OnDemand.Len(); n != 1 {
		return nil, fmt.Errorf("%w: on-demand terms hold %d offers %v", pricingapi.ErrExpectedSingleOffer, n, terms.OnDemand.Keys())
	}
	code, offer := terms.OnDemand.At(0)
	if n := offer.PriceDimensions.Len(); n != 1 {
		return nil, fmt.Errorf("%w: on-demand offer %s has %d price dimensions", pricingapi.ErrExpectedSingleDimension, describeOffer(code, offer), n)
	}
	_, dim := offer.PriceDimensions.At(0)
	if !IsHourlyCost(dim) {
		return nil, fmt.Errorf("%w: on-demand offer %s dimension %q has unit %q range [%s, %s]",
			pricingapi.ErrExpectedHourlyCost, describeOffer(code, offer), dim.RateCode, dim.Unit, dim.BeginRange, dim.EndRange)
	}
	c, err := cost.FromDimension(dim)
	if err != nil {
		return nil, fmt.Errorf("on-demand offer %s: %w", describeOffer(code, offer), err)
	}
	return &c, nil
}

// ExtractReserved returns the reserved offers of a product in the order they were published.
// A product without reserved terms yields nil without error.
func ExtractReserved(terms awsprice.Terms) ([]ReservedOffer, error) {
	if terms.Reserved == nil {
		return nil, nil
	}
	offers := make([]ReservedOffer, 0, terms.Reserved.Len())
	for code, offer := range terms.Reserved.All() {
		ro, err := reservedOffer(offer)
		if err != nil {
			return nil, fmt.Errorf("reserved offer %s: %w", describeOffer(code, offer), err)
		}
		offers = append(offers, ro)
	}
	return offers, nil
}

func reservedOffer(offer awsprice.OfferTerm) (ro ReservedOffer, err error) {
	var hourly, upfront []cost.Cost
	for _, dim := range offer.PriceDimensions.All() {
		var c cost.Cost
		switch {
		case IsHourlyCost(dim):
			if c, err = cost.FromDimension(dim); err != nil {
				return
			}
			hourly = append(hourly, c)
		case IsUpfrontCost(dim):
			if c, err = cost.FromDimension(dim); err != nil {
				return
			}
			upfront = append(upfront, c)
		}
	}
	n := offer.PriceDimensions.Len()
	if len(hourly) > 1 || len(upfront) > 1 || n != len(hourly)+len(upfront) {
		err = fmt.Errorf("%w: %d dimensions of which %d hourly and %d upfront", pricingapi.ErrUnexpectedCostShape, n, len(hourly), len(upfront))
		return
	}
	if n == 0 {
		err = fmt.Errorf("%w: no price dimensions", pricingapi.ErrUnexpectedCostShape)
		return
	}

	ro.Name = offer.TermAttributes.PlanName()
	hours, err := LeaseHours(offer.TermAttributes.LeaseContractLength)
	if err != nil {
		return
	}
	var blended *cost.Cost
	if len(hourly) == 1 {
		ro.Hourly = &hourly[0]
		blended = &hourly[0]
	}
	if len(upfront) == 1 {
		ro.Upfront = &upfront[0]
		amortized := cost.Amortize(upfront[0], hours)
		if blended == nil {
			blended = &amortized
		} else {
			var sum cost.Cost
			if sum, err = cost.Add(*blended, amortized); err != nil {
				return
			}
			blended = &sum
		}
	}
	ro.Blended = *blended
	return
}

// LeaseHours converts a lease contract length such as "3yr" into the number of hours the
// upfront fee is amortized over.
func LeaseHours(leaseContractLength string) (float64, error) {
	m := leaseLengthPattern.FindStringSubmatch(leaseContractLength)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", pricingapi.ErrMalformedLeaseLength, leaseContractLength)
	}
	years, err := strconv.Atoi(m[1])
	if err != nil || years == 0 {
		return 0, fmt.Errorf("%w: %q", pricingapi.ErrMalformedLeaseLength, leaseContractLength)
	}
	return float64(years) * pricingapi.HoursPerLeaseYear, nil
}

func describeOffer(code string, offer awsprice.OfferTerm) string {
	if offer.OfferTermCode != "" {
		code = offer.OfferTermCode
	}
	if offer.SKU == "" {
		return strconv.Quote(code)
	}
	return strconv.Quote(offer.SKU + "." + code)
}
