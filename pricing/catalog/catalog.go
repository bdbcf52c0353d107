// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package catalog builds the RegionCatalog of one region from its EC2 products and its Fargate
// rate products.
package catalog

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/sets"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/client/pricing/awsprice"
	"github.com/gardener/instance-pricing/pricing/cost"
	"github.com/gardener/instance-pricing/pricing/extract"
	"github.com/gardener/instance-pricing/pricing/ordering"
)

// Stats counts what a Builder has seen.
type Stats struct {
	// Products is the number of EC2 products offered to the builder.
	Products int
	// SkippedProducts is the number of EC2 products rejected by IsCatalogProduct.
	SkippedProducts int
	// PriceEntries is the number of price entries added, including synthesized Fargate entries.
	PriceEntries int
	// FargateArchitectures is the number of CPU architectures Fargate task sizes were synthesized for.
	FargateArchitectures int
}

// Builder accumulates the catalog of one region. The zero value is not usable, use NewBuilder.
// A Builder is not safe for concurrent use.
type Builder struct {
	label        string
	location     string
	date         string
	types        map[string]pricingapi.InstanceTypeInfo
	prices       map[string][]pricingapi.PriceEntry
	names        sets.Set[string]
	reservations sets.Set[string]
	stats        Stats
}

// NewBuilder returns an empty Builder. The label names the region in the built catalog; if it
// is empty the location attribute of the products is used instead.
func NewBuilder(label string) *Builder {
	return &Builder{
		label:        label,
		types:        make(map[string]pricingapi.InstanceTypeInfo),
		prices:       make(map[string][]pricingapi.PriceEntry),
		names:        sets.New[string](),
		reservations: sets.New[string](),
	}
}

// Build returns the catalog of the given EC2 and ECS products. Any extraction error aborts the build.
func Build(ctx context.Context, label string, ec2 []awsprice.ProductOffer, ecs []awsprice.ProductOffer) (pricingapi.RegionCatalog, Stats, error) {
	b := NewBuilder(label)
	if err := b.AddEC2(ctx, ec2); err != nil {
		return pricingapi.RegionCatalog{}, b.stats, err
	}
	if len(ecs) > 0 {
		if err := b.AddFargate(ctx, ecs); err != nil {
			return pricingapi.RegionCatalog{}, b.stats, err
		}
	}
	return b.Catalog(), b.stats, nil
}

// AddEC2 adds one price entry per catalog product in offers. The specs of an instance type are
// taken from the first product seen for it.
func (b *Builder) AddEC2(ctx context.Context, offers []awsprice.ProductOffer) error {
	log := logr.FromContextOrDiscard(ctx)
	for _, po := range offers {
		b.stats.Products++
		p := po.Product
		if !IsCatalogProduct(p) {
			b.stats.SkippedProducts++
			log.V(4).Info("skipping product", "sku", p.SKU, "productFamily", p.ProductFamily,
				"operation", p.Attr(awsprice.AttrOperation), "tenancy", p.Attr(awsprice.AttrTenancy))
			continue
		}
		instanceType := p.Attr(awsprice.AttrInstanceType)
		entry, err := b.priceEntry(po)
		if err != nil {
			return fmt.Errorf("product %q (%s): %w", p.SKU, instanceType, err)
		}
		b.observe(po)
		if _, ok := b.types[instanceType]; !ok {
			b.types[instanceType] = pricingapi.InstanceTypeInfo{
				InstanceType: instanceType,
				Info:         typeSpecs(p),
			}
		}
		b.addPriceEntry(instanceType, entry)
	}
	return nil
}

func (b *Builder) priceEntry(po awsprice.ProductOffer) (entry pricingapi.PriceEntry, err error) {
	entry.Name = PriceName(po.Product)
	onDemand, err := extract.ExtractOnDemand(po.Terms)
	if err != nil {
		return
	}
	if entry.OnDemand, err = cost.JustDollars(onDemand); err != nil {
		return
	}
	reserved, err := extract.ExtractReserved(po.Terms)
	if err != nil {
		return
	}
	if reserved == nil {
		return
	}
	entry.Reserved = make([]pricingapi.ReservedPrice, 0, len(reserved))
	for _, ro := range reserved {
		var rp pricingapi.ReservedPrice
		if rp, err = reservedPrice(ro); err != nil {
			return
		}
		entry.Reserved = append(entry.Reserved, rp)
	}
	return
}

func reservedPrice(ro extract.ReservedOffer) (rp pricingapi.ReservedPrice, err error) {
	rp.Name = ro.Name
	if rp.Upfront, err = cost.JustDollars(ro.Upfront); err != nil {
		return
	}
	if rp.Hourly, err = cost.JustDollars(ro.Hourly); err != nil {
		return
	}
	blended, err := cost.JustDollars(&ro.Blended)
	if err != nil {
		return
	}
	rp.Blended = *blended
	return
}

func (b *Builder) addPriceEntry(instanceType string, entry pricingapi.PriceEntry) {
	b.prices[instanceType] = append(b.prices[instanceType], entry)
	b.names.Insert(entry.Name)
	for _, rp := range entry.Reserved {
		b.reservations.Insert(rp.Name)
	}
	b.stats.PriceEntries++
}

// observe records the region location and publication date. The last product seen wins.
func (b *Builder) observe(po awsprice.ProductOffer) {
	if loc := po.Product.Attr(awsprice.AttrLocation); loc != "" {
		b.location = loc
	}
	if po.PublicationDate != "" {
		b.date = po.PublicationDate
	}
}

func typeSpecs(p awsprice.Product) pricingapi.TypeSpecs {
	return pricingapi.TypeSpecs{
		Memory:             p.Attr(awsprice.AttrMemory),
		ECU:                p.Attr(awsprice.AttrECU),
		VCPU:               p.Attr(awsprice.AttrVCPU),
		PhysicalProcessor:  p.Attr(awsprice.AttrPhysicalProcessor),
		ClockSpeed:         p.Attr(awsprice.AttrClockSpeed),
		Storage:            p.Attr(awsprice.AttrStorage),
		NetworkPerformance: p.Attr(awsprice.AttrNetworkPerformance),
	}
}

// Catalog returns the catalog accumulated so far. Option lists are ordered: price names
// lexically and reservation plans by ordering.ReservationCompare.
func (b *Builder) Catalog() pricingapi.RegionCatalog {
	name := b.label
	if name == "" {
		name = b.location
	}
	return pricingapi.RegionCatalog{
		Name:  name,
		Date:  b.date,
		Types: b.types,
		Options: pricingapi.PurchaseOptions{
			Names:        ordering.SortedNames(b.names),
			Reservations: ordering.SortedReservations(b.reservations),
		},
		Prices: b.prices,
	}
}

// Stats returns the counters accumulated so far.
func (b *Builder) Stats() Stats {
	return b.stats
}
