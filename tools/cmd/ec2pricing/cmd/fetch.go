// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
	"github.com/gardener/instance-pricing/common/ioutil"
	"github.com/gardener/instance-pricing/pricing/regions"
	"github.com/gardener/instance-pricing/tools/pricing/awsprice"
)

// FetchOpts is a struct that encapsulates target fields for the fetch command options.
type FetchOpts struct {
	// RegionIDs are the region codes to fetch.
	RegionIDs []string
	// Locations are region labels to fetch, resolved to region codes through the region table.
	Locations []string
	// OutputDir is the directory the pricing data is written to.
	OutputDir string
	// API selects the Price List Query API instead of the bulk offer files.
	API bool
}

// OfferCodes are the offers fetched for every region.
var OfferCodes = []string{awsprice.OfferCodeEC2, awsprice.OfferCodeECS}

// RawPricingFileName returns the file name the pricing data of offerCode in region is fetched to.
// Offer files get the extension ".json", product lines fetched through the API ".ndjson".
func RawPricingFileName(offerCode, regionID string, api bool) string {
	ext := ".json"
	if api {
		ext = ".ndjson"
	}
	return strings.ToLower(offerCode) + "-" + regionID + ext
}

// ResolveRegionIDs returns the region codes of ids and locations without duplicates, in argument order.
func ResolveRegionIDs(ids, locations []string, table *regions.Table) ([]string, error) {
	var (
		resolved []string
		errs     []error
		seen     = sets.New[string]()
	)
	add := func(id string) {
		if !seen.Has(id) {
			seen.Insert(id)
			resolved = append(resolved, id)
		}
	}
	for _, id := range ids {
		if _, ok := table.Label(id); !ok {
			errs = append(errs, fmt.Errorf("%w: unknown region %q", commonerrors.ErrInvalidOptVal, id))
			continue
		}
		add(id)
	}
	for _, label := range locations {
		id, ok := table.ID(label)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown location %q", commonerrors.ErrInvalidOptVal, label))
			continue
		}
		add(id)
	}
	if len(resolved) == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("%w: --region or --location is required", commonerrors.ErrMissingOpt))
	}
	return resolved, errors.Join(errs...)
}

func (a *app) newFetchCommand() *cobra.Command {
	var opts FetchOpts
	cmd := &cobra.Command{
		Use:   "fetch --region <region-id>... [--api] --output-dir <dir>",
		Short: "Download the EC2 and ECS pricing data of regions",
		Long: `fetch downloads the current EC2 and ECS pricing data of every given region into the output directory.
By default the bulk offer files are downloaded. With --api the products are read from the Price List Query API
using the default AWS credential chain and written as product lines.`,
		Args: parseArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := ResolveRegionIDs(opts.RegionIDs, opts.Locations, a.regions)
			if err != nil {
				return err
			}
			if opts.OutputDir == "" {
				opts.OutputDir = a.config.OutputDir
			}
			return a.runFetch(cmd.Context(), ids, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.RegionIDs, "region", "r", nil, "region code to fetch, may be repeated")
	cmd.Flags().StringSliceVar(&opts.Locations, "location", nil, "region label to fetch, e.g. \"EU (Ireland)\", may be repeated")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "directory the pricing data is written to (default outputDir of the config)")
	cmd.Flags().BoolVar(&opts.API, "api", false, "read products from the Price List Query API instead of the offer files")
	return cmd
}

// download writes the pricing data of one offer in one region to w.
type download func(ctx context.Context, offerCode, regionID string, w io.Writer) error

func (a *app) runFetch(ctx context.Context, ids []string, opts FetchOpts) error {
	var fetch download
	if opts.API {
		client, err := awsprice.NewPricingClient(ctx, a.config.Fetch.APIRegion)
		if err != nil {
			return err
		}
		fetch = apiDownload(client)
	} else {
		fetcher := &awsprice.OfferFetcher{BaseURL: a.config.Fetch.OfferBaseURL}
		fetch = func(ctx context.Context, offerCode, regionID string, w io.Writer) error {
			_, err := fetcher.FetchOfferFile(ctx, offerCode, regionID, w)
			return err
		}
	}

	log := logr.FromContextOrDiscard(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*a.config.MaxConcurrentRegions)
	for _, id := range ids {
		for _, offerCode := range OfferCodes {
			g.Go(func() error {
				dctx, cancel := context.WithTimeout(gctx, a.config.Fetch.Timeout.Duration)
				defer cancel()
				path := filepath.Join(opts.OutputDir, RawPricingFileName(offerCode, id, opts.API))
				err := ioutil.WriteFileAtomic(path, func(w io.Writer) error {
					return fetch(dctx, offerCode, id, w)
				})
				if err != nil {
					return fmt.Errorf(commonerrors.FmtWriteFailed+": %w", path, err)
				}
				log.V(2).Info("fetched pricing data", "region", id, "offerCode", offerCode, "path", path)
				return nil
			})
		}
	}
	return g.Wait()
}

func apiDownload(client awspricing.GetProductsAPIClient) download {
	return func(ctx context.Context, offerCode, regionID string, w io.Writer) error {
		_, err := awsprice.FetchProductLines(ctx, client, offerCode, awsprice.ProductFilters(offerCode, regionID), w)
		return err
	}
}
