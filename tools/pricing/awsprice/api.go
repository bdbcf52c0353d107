// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package awsprice

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/go-logr/logr"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
)

// NewPricingClient returns a Price List Query API client for the endpoint in apiRegion using the
// default AWS credential chain.
func NewPricingClient(ctx context.Context, apiRegion string) (*pricing.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(apiRegion))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot load AWS config: %w", commonerrors.ErrFetch, err)
	}
	return pricing.NewFromConfig(cfg), nil
}

// ProductFilters returns the server side filters selecting the products of offerCode in region
// that the catalog builder can use.
func ProductFilters(offerCode, region string) map[string]string {
	filters := map[string]string{
		"regionCode": region,
		"tenancy":    "Shared",
	}
	if offerCode == OfferCodeEC2 {
		filters["productFamily"] = "Compute Instance"
	}
	return filters
}

// FetchProductLines pages through the products of serviceCode matching filters and writes each
// of them as one line of JSON to w. It returns the number of products written.
func FetchProductLines(ctx context.Context, client pricing.GetProductsAPIClient, serviceCode string, filters map[string]string, w io.Writer) (n int, err error) {
	log := logr.FromContextOrDiscard(ctx)
	input := &pricing.GetProductsInput{
		ServiceCode:   aws.String(serviceCode),
		FormatVersion: aws.String("aws_v1"),
	}
	for _, field := range slices.Sorted(maps.Keys(filters)) {
		input.Filters = append(input.Filters, pricingtypes.Filter{
			Type:  pricingtypes.FilterTypeTermMatch,
			Field: aws.String(field),
			Value: aws.String(filters[field]),
		})
	}
	paginator := pricing.NewGetProductsPaginator(client, input)
	for page := 1; paginator.HasMorePages(); page++ {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return n, fmt.Errorf("%w: page %d of %s products: %w", commonerrors.ErrFetch, page, serviceCode, err)
		}
		for _, line := range out.PriceList {
			if _, err = io.WriteString(w, line+"\n"); err != nil {
				return n, fmt.Errorf("%w: %w", commonerrors.ErrFetch, err)
			}
			n++
		}
		log.V(4).Info("fetched price list page", "serviceCode", serviceCode, "page", page, "products", len(out.PriceList))
	}
	return n, nil
}
