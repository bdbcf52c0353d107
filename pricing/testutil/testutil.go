// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"embed"
	"fmt"

	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/client/pricing/awsprice"
)

//go:embed data/*
var dataFS embed.FS

const (
	// EC2OfferFileName is the name of the embedded us-east-1 EC2 offer file.
	EC2OfferFileName = "data/ec2-us-east-1.json"
	// ECSProductLinesName is the name of the embedded us-east-1 ECS product lines.
	ECSProductLinesName = "data/ecs-us-east-1.ndjson"
)

// DataFS returns the embedded fixture files.
func DataFS() embed.FS {
	return dataFS
}

// LoadEC2Offers decodes the embedded us-east-1 EC2 offer file. It holds two catalog instance
// types, m5.large and t3.micro, next to products the catalog builder must skip.
// Errors are wrapped with pricingapi.ErrDecodeOffer sentinel error.
func LoadEC2Offers() ([]awsprice.ProductOffer, error) {
	return load(EC2OfferFileName)
}

// LoadECSOffers decodes the embedded us-east-1 ECS product lines. They hold per-vCPU and per-GB
// Fargate rates for the default and the ARM architecture together with products the catalog
// builder must skip.
// Errors are wrapped with pricingapi.ErrDecodeOffer sentinel error.
func LoadECSOffers() ([]awsprice.ProductOffer, error) {
	return load(ECSProductLinesName)
}

func load(name string) (offers []awsprice.ProductOffer, err error) {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pricingapi.ErrDecodeOffer, err)
	}
	offers, err = awsprice.Decode(bytes.NewReader(data))
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return
}
