// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/common/ioutil"
	"github.com/gardener/instance-pricing/pricing"
	"github.com/gardener/instance-pricing/pricing/merge"
)

// MergeOpts is a struct that encapsulates target fields for the merge command options.
type MergeOpts struct {
	// Output is the path of the merged options document. "-" writes it to standard output.
	Output string
	// ExcludedNames are price names dropped from the document in addition to those of the configuration.
	ExcludedNames []string
	// OmitTypes leaves the instance types out of the document.
	OmitTypes bool
}

func (a *app) newMergeCommand() *cobra.Command {
	var opts MergeOpts
	cmd := &cobra.Command{
		Use:   "merge <region-catalog>...",
		Short: "Merge region catalogs into one options document",
		Long: `merge combines the purchase options, observed dates and instance types of the given region catalogs.
Instance types of later catalogs replace those of earlier ones.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: at least one region catalog is required", commonerrors.ErrMissingOpt)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := opts.Output
			if output == "" {
				output = filepath.Join(a.config.OutputDir, pricing.MergedOptionsFileName)
			}
			mopts := merge.Options{
				OmitTypes:     opts.OmitTypes,
				ExcludedNames: slices.Concat(a.config.ExcludedPriceNames, opts.ExcludedNames),
			}
			return a.runMerge(cmd, args, output, mopts)
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "path of the merged options document, - for standard output (default <outputDir>/options.json)")
	cmd.Flags().StringSliceVar(&opts.ExcludedNames, "exclude-name", nil, "price name to leave out of the merged options, may be repeated")
	cmd.Flags().BoolVar(&opts.OmitTypes, "omit-types", false, "leave the instance types out of the merged options")
	return cmd
}

func (a *app) runMerge(cmd *cobra.Command, paths []string, output string, opts merge.Options) error {
	ctx := cmd.Context()
	log := logr.FromContextOrDiscard(ctx)
	catalogs, err := LoadCatalogs(ctx, paths, *a.config.MaxConcurrentRegions)
	if err != nil {
		return err
	}
	merged := merge.Merge(catalogs, opts)
	log.V(2).Info("merged region catalogs", "catalogs", len(catalogs), "priceNames", len(merged.Options.Names),
		"reservations", len(merged.Options.Reservations), "dates", len(merged.Dates))
	if output == "-" {
		return ioutil.WriteJSON(cmd.OutOrStdout(), merged)
	}
	if err = pricing.WriteMergedOptions(output, merged); err != nil {
		return fmt.Errorf(commonerrors.FmtWriteFailed+": %w", output, err)
	}
	return nil
}

// LoadCatalogs loads the region catalogs at paths with at most limit files read at the same time.
// The catalogs are returned in path order.
func LoadCatalogs(ctx context.Context, paths []string, limit int) ([]pricingapi.RegionCatalog, error) {
	catalogs := make([]pricingapi.RegionCatalog, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() (err error) {
			if err = gctx.Err(); err != nil {
				return
			}
			catalogs[i], err = pricing.LoadRegionCatalog(path)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return catalogs, nil
}
