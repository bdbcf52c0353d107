// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/go-logr/logr"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/client/pricing/awsprice"
	"github.com/gardener/instance-pricing/pricing/cost"
	"github.com/gardener/instance-pricing/pricing/extract"
)

const cpuUnitsPerVCPU = 1024

// TaskSize is a valid combination of task CPU and memory.
type TaskSize struct {
	// CPUUnits is the task CPU in CPU units, 1024 units being one vCPU.
	CPUUnits int
	// MemoryGB is the task memory in GB.
	MemoryGB float64
}

// VCPU returns the task CPU in vCPUs.
func (s TaskSize) VCPU() float64 {
	return float64(s.CPUUnits) / cpuUnitsPerVCPU
}

// FargateTaskSizes lists the supported task sizes as documented at
// https://docs.aws.amazon.com/AmazonECS/latest/developerguide/fargate-tasks-services.html#fargate-tasks-size
var FargateTaskSizes = slices.Concat(
	taskSizes(256, 0.5, 1, 2),
	taskSizes(512, memoryRange(1, 4, 1)...),
	taskSizes(1024, memoryRange(2, 8, 1)...),
	taskSizes(2048, memoryRange(4, 16, 1)...),
	taskSizes(4096, memoryRange(8, 30, 1)...),
	taskSizes(8192, memoryRange(16, 60, 4)...),
	taskSizes(16384, memoryRange(32, 120, 8)...),
)

func taskSizes(cpuUnits int, memoryGB ...float64) []TaskSize {
	sizes := make([]TaskSize, 0, len(memoryGB))
	for _, m := range memoryGB {
		sizes = append(sizes, TaskSize{CPUUnits: cpuUnits, MemoryGB: m})
	}
	return sizes
}

func memoryRange(start, stop, step float64) []float64 {
	var r []float64
	for v := start; v <= stop; v += step {
		r = append(r, v)
	}
	return r
}

// FargateTypeName returns the pseudo instance type name of a task size on the given CPU
// architecture, e.g. "Fargate 0.25/0.5 ARM". The architecture is omitted if it is empty.
func FargateTypeName(size TaskSize, arch string) string {
	name := "Fargate " + formatQuantity(size.VCPU()) + "/" + formatQuantity(size.MemoryGB)
	if arch != "" {
		name += " " + arch
	}
	return name
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fargateRates holds the hourly per-vCPU and per-GB rates of one CPU architecture.
type fargateRates struct {
	arch     string
	perVCPU  cost.Cost
	perGB    cost.Cost
	products []awsprice.ProductOffer
}

// AddFargate synthesizes one pseudo instance type per task size and CPU architecture from the
// per-vCPU and per-GB rate products in offers. Each architecture must have exactly one product
// of each kind.
func (b *Builder) AddFargate(ctx context.Context, offers []awsprice.ProductOffer) error {
	log := logr.FromContextOrDiscard(ctx)
	byArch, err := fargateRatesByArch(offers)
	if err != nil {
		return err
	}
	for _, rates := range byArch {
		log.V(2).Info("synthesizing fargate task sizes", "architecture", rates.arch, "perVCPU", rates.perVCPU.String(), "perGB", rates.perGB.String())
		for _, size := range FargateTaskSizes {
			name := FargateTypeName(size, rates.arch)
			hourly, err := cost.Add(cost.Scale(rates.perVCPU, size.VCPU()), cost.Scale(rates.perGB, size.MemoryGB))
			if err != nil {
				return fmt.Errorf("fargate %s: %w", name, err)
			}
			onDemand, err := cost.JustDollars(&hourly)
			if err != nil {
				return fmt.Errorf("fargate %s: %w", name, err)
			}
			b.types[name] = pricingapi.InstanceTypeInfo{
				InstanceType: name,
				Info: pricingapi.TypeSpecs{
					Memory:             formatQuantity(size.MemoryGB) + " GB",
					ECU:                "NA",
					VCPU:               formatQuantity(size.VCPU()),
					PhysicalProcessor:  rates.arch,
					ClockSpeed:         "",
					Storage:            "Ephemeral",
					NetworkPerformance: "",
				},
			}
			delete(b.prices, name)
			b.addPriceEntry(name, pricingapi.PriceEntry{Name: pricingapi.FargatePriceName, OnDemand: onDemand})
		}
		b.stats.FargateArchitectures++
	}
	return nil
}

func fargateRatesByArch(offers []awsprice.ProductOffer) ([]*fargateRates, error) {
	var byArch []*fargateRates
	for _, po := range offers {
		if !isFargateRateProduct(po.Product) {
			continue
		}
		arch := po.Product.Attr(awsprice.AttrCPUArchitecture)
		i := slices.IndexFunc(byArch, func(r *fargateRates) bool { return r.arch == arch })
		if i < 0 {
			byArch = append(byArch, &fargateRates{arch: arch})
			i = len(byArch) - 1
		}
		byArch[i].products = append(byArch[i].products, po)
	}
	for _, rates := range byArch {
		if err := rates.resolve(); err != nil {
			return nil, err
		}
	}
	return byArch, nil
}

func (r *fargateRates) resolve() error {
	perCPU := slices.IndexFunc(r.products, func(po awsprice.ProductOffer) bool {
		return po.Product.Attr(awsprice.AttrCPUType) == cpuTypePerCPU
	})
	perGB := slices.IndexFunc(r.products, func(po awsprice.ProductOffer) bool {
		return po.Product.Attr(awsprice.AttrMemoryType) == memoryTypePerGB
	})
	if len(r.products) != 2 || perCPU < 0 || perGB < 0 || perCPU == perGB {
		return fmt.Errorf("%w: architecture %q has %d rate products, want one %s and one %s",
			pricingapi.ErrUnexpectedFargateProductCount, r.arch, len(r.products), cpuTypePerCPU, memoryTypePerGB)
	}
	var err error
	if r.perVCPU, err = hourlyRate(r.products[perCPU]); err != nil {
		return err
	}
	r.perGB, err = hourlyRate(r.products[perGB])
	return err
}

func hourlyRate(po awsprice.ProductOffer) (cost.Cost, error) {
	c, err := extract.ExtractOnDemand(po.Terms)
	if err != nil {
		return cost.Cost{}, fmt.Errorf("fargate product %q: %w", po.Product.SKU, err)
	}
	if c == nil {
		return cost.Cost{}, fmt.Errorf("%w: fargate product %q has no on-demand terms", pricingapi.ErrExpectedSingleOffer, po.Product.SKU)
	}
	return *c, nil
}
