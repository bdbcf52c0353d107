// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/client/pricing/awsprice"
	"github.com/gardener/instance-pricing/common/ioutil"
	"github.com/gardener/instance-pricing/pricing"
	"github.com/gardener/instance-pricing/pricing/catalog"
	"github.com/gardener/instance-pricing/pricing/metrics"
	"github.com/gardener/instance-pricing/pricing/regions"
)

// BuildOpts is a struct that encapsulates target fields for the build command options.
type BuildOpts struct {
	// OutputDir overrides the outputDir of the configuration.
	OutputDir string
	// MetricsFile overrides the metricsFile of the configuration.
	MetricsFile string
	// Stdout writes the catalogs to standard output, one line per region, instead of to OutputDir.
	Stdout bool
}

// BuildJob is the pricing data of one region given on the command line.
type BuildJob struct {
	// RegionID is the region code, e.g. eu-west-1.
	RegionID string
	// Label is the location of the region as named in the price list.
	Label string
	// EC2Path is the EC2 offer file or product lines of the region.
	EC2Path string
	// ECSPath is the optional ECS offer file or product lines holding the Fargate rates of the region.
	ECSPath string
}

// ParseBuildJobs parses arguments of the form <region-id>=<ec2-file>[,<ecs-file>] resolving
// region labels through table. All malformed arguments are reported together.
func ParseBuildJobs(args []string, table *regions.Table) ([]BuildJob, error) {
	var (
		jobs []BuildJob
		errs []error
		seen = sets.New[string]()
	)
	for _, arg := range args {
		id, files, ok := strings.Cut(arg, "=")
		if !ok || id == "" || files == "" {
			errs = append(errs, fmt.Errorf("%w: %q is not of the form <region-id>=<ec2-file>[,<ecs-file>]", commonerrors.ErrInvalidOptVal, arg))
			continue
		}
		ec2Path, ecsPath, _ := strings.Cut(files, ",")
		if ec2Path == "" || strings.Contains(ecsPath, ",") {
			errs = append(errs, fmt.Errorf("%w: %q must name one EC2 file and at most one ECS file", commonerrors.ErrInvalidOptVal, arg))
			continue
		}
		label, ok := table.Label(id)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown region %q, add it to the regions of the configuration", commonerrors.ErrInvalidOptVal, id))
			continue
		}
		if seen.Has(id) {
			errs = append(errs, fmt.Errorf("%w: region %q given more than once", commonerrors.ErrInvalidOptVal, id))
			continue
		}
		seen.Insert(id)
		jobs = append(jobs, BuildJob{RegionID: id, Label: label, EC2Path: ec2Path, ECSPath: ecsPath})
	}
	if len(jobs) == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one <region-id>=<ec2-file> argument is required", commonerrors.ErrMissingOpt))
	}
	return jobs, errors.Join(errs...)
}

func (a *app) newBuildCommand() *cobra.Command {
	var opts BuildOpts
	cmd := &cobra.Command{
		Use:   "build <region-id>=<ec2-file>[,<ecs-file>]...",
		Short: "Build the catalog of every given region",
		Long: `build reads the EC2 pricing data and the optional ECS pricing data of every given region and writes one
catalog per region. Regions are built concurrently. No catalog is written unless all regions succeed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := ParseBuildJobs(args, a.regions)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output-dir") {
				a.config.OutputDir = opts.OutputDir
			}
			if cmd.Flags().Changed("metrics-file") {
				a.config.MetricsFile = opts.MetricsFile
			}
			return a.runBuild(cmd, jobs, opts.Stdout)
		},
	}
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "directory the region catalogs are written to, overrides outputDir of the config")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in the Prometheus text format to this file")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "write the catalogs to standard output instead of the output directory")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, jobs []BuildJob, toStdout bool) (err error) {
	ctx := cmd.Context()
	log := logr.FromContextOrDiscard(ctx)
	recorder := metrics.NewRecorder()
	defer func() {
		if a.config.MetricsFile == "" {
			return
		}
		if merr := recorder.WriteTextfile(a.config.MetricsFile); merr != nil {
			err = errors.Join(err, fmt.Errorf(commonerrors.FmtWriteFailed+": %w", a.config.MetricsFile, merr))
		}
	}()

	catalogs, err := BuildCatalogs(ctx, jobs, *a.config.MaxConcurrentRegions, recorder)
	if err != nil {
		return
	}
	if toStdout {
		for _, c := range catalogs {
			if err = ioutil.WriteJSON(cmd.OutOrStdout(), c); err != nil {
				return
			}
		}
	} else {
		for i, c := range catalogs {
			path := filepath.Join(a.config.OutputDir, pricing.RegionCatalogFileName(jobs[i].RegionID))
			if err = pricing.WriteRegionCatalog(path, c); err != nil {
				return fmt.Errorf(commonerrors.FmtWriteFailed+": %w", path, err)
			}
			log.V(2).Info("wrote region catalog", "region", jobs[i].RegionID, "path", path)
		}
	}
	recorder.MarkSuccess(time.Now())
	log.Info("build finished", "regions", len(jobs), "stdout", toStdout)
	return
}

// BuildCatalogs builds the catalog of every job with at most limit jobs running at the same time.
// The catalogs are returned in job order. The first failure cancels the remaining jobs.
func BuildCatalogs(ctx context.Context, jobs []BuildJob, limit int, recorder *metrics.Recorder) ([]pricingapi.RegionCatalog, error) {
	catalogs := make([]pricingapi.RegionCatalog, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			c, err := buildRegion(gctx, job, recorder)
			if err != nil {
				recorder.ObserveFailure(job.RegionID)
				return fmt.Errorf(commonerrors.FmtBuildFailed+": %w", job.RegionID, err)
			}
			catalogs[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return catalogs, nil
}

func buildRegion(ctx context.Context, job BuildJob, recorder *metrics.Recorder) (c pricingapi.RegionCatalog, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("region", job.RegionID)
	ctx = logr.NewContext(ctx, log)
	start := time.Now()

	ec2, err := awsprice.DecodeFile(job.EC2Path)
	if err != nil {
		return
	}
	var ecs []awsprice.ProductOffer
	if job.ECSPath != "" {
		if ecs, err = awsprice.DecodeFile(job.ECSPath); err != nil {
			return
		}
	}
	c, stats, err := catalog.Build(ctx, job.Label, ec2, ecs)
	if err != nil {
		return
	}
	elapsed := time.Since(start)
	recorder.ObserveRegion(job.RegionID, stats, len(c.Types), elapsed)
	log.V(2).Info("built region catalog", "products", stats.Products, "skipped", stats.SkippedProducts,
		"priceEntries", stats.PriceEntries, "instanceTypes", len(c.Types), "duration", elapsed)
	return
}
