// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package awsprice downloads AWS pricing data to local files. It is the only part of the
// preprocessor that talks to the network.
package awsprice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
)

const (
	// OfferCodeEC2 is the offer code of the EC2 price list.
	OfferCodeEC2 = "AmazonEC2"
	// OfferCodeECS is the offer code of the ECS price list that holds the Fargate rates.
	OfferCodeECS = "AmazonECS"
)

// RegionIndex is the region index of an offer, listing the current offer file of every region.
type RegionIndex struct {
	FormatVersion   string                      `json:"formatVersion"`
	PublicationDate string                      `json:"publicationDate"`
	Regions         map[string]RegionIndexEntry `json:"regions"`
}

// RegionIndexEntry locates the current offer file of one region.
type RegionIndexEntry struct {
	RegionCode        string `json:"regionCode"`
	CurrentVersionURL string `json:"currentVersionUrl"`
}

// OfferFetcher downloads bulk offer files.
type OfferFetcher struct {
	// BaseURL is the base URL of the bulk price list, e.g. https://pricing.us-east-1.amazonaws.com.
	BaseURL string
	// Client is the HTTP client used for downloads. http.DefaultClient is used if it is nil.
	Client *http.Client
}

// FetchRegionIndex downloads the region index of the given offer.
func (f *OfferFetcher) FetchRegionIndex(ctx context.Context, offerCode string) (index RegionIndex, err error) {
	body, err := f.get(ctx, "/offers/v1.0/aws/"+offerCode+"/current/region_index.json")
	if err != nil {
		return
	}
	defer func() {
		_ = body.Close()
	}()
	if err = json.NewDecoder(body).Decode(&index); err != nil {
		err = fmt.Errorf("%w: cannot decode region index of %s: %w", commonerrors.ErrFetch, offerCode, err)
	}
	return
}

// FetchOfferFile downloads the current offer file of the given offer and region and copies it to w.
// The file is located through the region index so that regions unknown to the offer are reported
// before any download starts.
func (f *OfferFetcher) FetchOfferFile(ctx context.Context, offerCode, region string, w io.Writer) (n int64, err error) {
	index, err := f.FetchRegionIndex(ctx, offerCode)
	if err != nil {
		return
	}
	entry, ok := index.Regions[region]
	if !ok {
		err = fmt.Errorf("%w: region %q is not listed in the region index of %s", commonerrors.ErrFetch, region, offerCode)
		return
	}
	path := entry.CurrentVersionURL
	if path == "" {
		path = "/offers/v1.0/aws/" + offerCode + "/current/" + region + "/index.json"
	}
	body, err := f.get(ctx, path)
	if err != nil {
		return
	}
	defer func() {
		_ = body.Close()
	}()
	if n, err = io.Copy(w, body); err != nil {
		err = fmt.Errorf("%w: cannot read offer file of %s in %s: %w", commonerrors.ErrFetch, offerCode, region, err)
	}
	return
}

func (f *OfferFetcher) get(ctx context.Context, path string) (io.ReadCloser, error) {
	u, err := url.JoinPath(strings.TrimSuffix(f.BaseURL, "/"), path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", commonerrors.ErrFetch, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", commonerrors.ErrFetch, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req) // #nosec G107 -- URL is trusted. The variable parts are the offer code and region name.
	if err != nil {
		return nil, fmt.Errorf("%w: http get failed: %w", commonerrors.ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: http status %d from %s", commonerrors.ErrFetch, resp.StatusCode, u)
	}
	return resp.Body, nil
}
