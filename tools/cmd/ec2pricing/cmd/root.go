// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package cmd holds the commands of the ec2pricing preprocessor, which turns AWS price lists into
// the region catalogs and the merged options document read by the instance comparison web app.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	configv1alpha1 "github.com/gardener/instance-pricing/api/config/v1alpha1"
	pricingapi "github.com/gardener/instance-pricing/api/pricing"
	"github.com/gardener/instance-pricing/common/cliutil"
	"github.com/gardener/instance-pricing/common/ioutil"
	"github.com/gardener/instance-pricing/common/logutil"
	"github.com/gardener/instance-pricing/pricing/regions"
)

// Execute runs the command selected by the program arguments and exits the process.
func Execute() {
	ctx, cancel := cliutil.NewAppContext(context.Background(), pricingapi.ProgramName)
	err := Run(ctx, os.Args[1:], os.Stdout)
	cancel()
	cliutil.HandleErrorAndExit(err)
}

// Run runs the command selected by args writing command output to out.
func Run(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	defer a.close()
	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

// RootOpts is a struct that encapsulates target fields for the persistent flags of all commands.
type RootOpts struct {
	// ConfigFile is the path of an optional PreprocessorConfig YAML file.
	ConfigFile string
	// LogFile is the path of a file the log is copied to.
	LogFile string
}

// app is the state shared by the commands of one invocation.
type app struct {
	opts      RootOpts
	config    *configv1alpha1.PreprocessorConfig
	regions   *regions.Table
	logCloser io.Closer
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   pricingapi.ProgramName,
		Short: "Preprocess AWS EC2 and Fargate price lists into region catalogs",
		Long: `ec2pricing turns AWS price lists into compact per-region catalogs and a merged options document.

	ec2pricing fetch --region eu-west-1 --output-dir raw
	ec2pricing build eu-west-1=raw/amazonec2-eu-west-1.json,raw/amazonecs-eu-west-1.json --output-dir data
	ec2pricing merge data/ec2-*.json --output data/options.json
`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.ConfigFile, "config", "", "path to a PreprocessorConfig YAML file")
	flags.StringVar(&a.opts.LogFile, "log-file", "", "copy the log into this file")
	cliutil.MapLogFlags(flags)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", cliutil.ErrParseArgs, err)
	})

	root.AddCommand(
		a.newBuildCommand(),
		a.newMergeCommand(),
		a.newFetchCommand(),
		a.newRegionsCommand(),
		newVersionCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) (err error) {
	a.config, err = LoadConfig(a.opts.ConfigFile)
	if err != nil {
		return
	}
	a.regions = regions.Default(a.config.Regions...)
	if a.opts.LogFile == "" {
		return
	}
	ctx, closer, err := logutil.WrapContextWithFileLogger(cmd.Context(), pricingapi.ProgramName+" ", a.opts.LogFile)
	if err != nil {
		return
	}
	a.logCloser = closer
	cmd.SetContext(ctx)
	return
}

func (a *app) close() {
	if a.logCloser != nil {
		ioutil.CloseQuietly(a.logCloser)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of " + pricingapi.ProgramName,
		Args:  parseArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			cliutil.PrintVersion(cmd.OutOrStdout(), pricingapi.ProgramName)
		},
	}
}

// parseArgs marks errors of the positional argument validator as argument parse errors.
func parseArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", cliutil.ErrParseArgs, err)
		}
		return nil
	}
}
