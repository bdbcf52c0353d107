// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package awsprice

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/google/go-cmp/cmp"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
	"github.com/gardener/instance-pricing/common/testutil"
)

type fakePricingClient struct {
	pages  [][]string
	err    error
	inputs []pricing.GetProductsInput
}

func (c *fakePricingClient) GetProducts(_ context.Context, in *pricing.GetProductsInput, _ ...func(*pricing.Options)) (*pricing.GetProductsOutput, error) {
	c.inputs = append(c.inputs, *in)
	page := len(c.inputs) - 1
	if c.err != nil && page == len(c.pages) {
		return nil, c.err
	}
	out := &pricing.GetProductsOutput{PriceList: c.pages[page]}
	if page+1 < len(c.pages) || c.err != nil {
		out.NextToken = aws.String("token")
	}
	return out, nil
}

func TestFetchProductLines(t *testing.T) {
	client := &fakePricingClient{pages: [][]string{{`{"product":{"sku":"A"}}`, `{"product":{"sku":"B"}}`}, {`{"product":{"sku":"C"}}`}}}
	var buf bytes.Buffer
	n, err := FetchProductLines(testutil.LoggerContext(context.Background()), client, OfferCodeEC2, ProductFilters(OfferCodeEC2, "eu-west-1"), &buf)
	if err != nil {
		t.Fatalf("FetchProductLines() unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("FetchProductLines() = %d, want 3", n)
	}
	want := "{\"product\":{\"sku\":\"A\"}}\n{\"product\":{\"sku\":\"B\"}}\n{\"product\":{\"sku\":\"C\"}}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("FetchProductLines() output mismatch (-want +got):\n%s", diff)
	}

	if len(client.inputs) != 2 {
		t.Fatalf("GetProducts() called %d times, want 2", len(client.inputs))
	}
	var filters []string
	for _, f := range client.inputs[0].Filters {
		if f.Type != pricingtypes.FilterTypeTermMatch {
			t.Errorf("filter %s has type %s", aws.ToString(f.Field), f.Type)
		}
		filters = append(filters, aws.ToString(f.Field)+"="+aws.ToString(f.Value))
	}
	wantFilters := []string{"productFamily=Compute Instance", "regionCode=eu-west-1", "tenancy=Shared"}
	if diff := cmp.Diff(wantFilters, filters); diff != "" {
		t.Errorf("GetProducts() filters mismatch (-want +got):\n%s", diff)
	}
	if got := aws.ToString(client.inputs[1].NextToken); got != "token" {
		t.Errorf("second GetProducts() call used token %q", got)
	}
}

func TestFetchProductLinesError(t *testing.T) {
	apiErr := errors.New("throttled")
	client := &fakePricingClient{pages: [][]string{{`{}`}}, err: apiErr}
	var buf bytes.Buffer
	n, err := FetchProductLines(context.Background(), client, OfferCodeECS, ProductFilters(OfferCodeECS, "eu-west-1"), &buf)
	testutil.AssertError(t, err, commonerrors.ErrFetch)
	if !errors.Is(err, apiErr) {
		t.Errorf("FetchProductLines() error %v does not wrap %v", err, apiErr)
	}
	if n != 1 {
		t.Errorf("FetchProductLines() = %d, want 1", n)
	}
}
