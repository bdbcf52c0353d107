// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	commonerrors "github.com/gardener/instance-pricing/api/common/errors"
)

const (
	// ExitSuccess is the exit code indicating that the CLI has exited with no error.
	ExitSuccess = iota
	// ExitErrParseOpts is the exit code indicating that the CLI has exited due to error parsing options.
	ExitErrParseOpts
	// ExitErrStart is the exit code indicating that there was an error starting the application.
	ExitErrStart
	// ExitErrRun is the exit code indicating that the run failed and no artifacts were written.
	ExitErrRun
)

// ErrParseArgs is a sentinel error indicating that there was an error parsing command line args.
var ErrParseArgs = errors.New("cannot parse cli args")

// MapLogFlags merges the klog flags (-v, --logtostderr, ...) into the passed FlagSet.
func MapLogFlags(flagSet *pflag.FlagSet) {
	klogFlagSet := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlagSet)
	// Merge klog flags into pflag
	flagSet.AddGoFlagSet(klogFlagSet)
}

// PrintVersion prints the version from build information for the program.
func PrintVersion(w io.Writer, programName string) {
	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" {
		_, _ = fmt.Fprintf(w, "%s version: %s\n", programName, info.Main.Version)
	} else {
		_, _ = fmt.Fprintf(w, "%s: binary build info not embedded\n", programName)
	}
}

// ExitCode returns the exit code for an error returned by a command.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
		return ExitSuccess
	case errors.Is(err, ErrParseArgs), errors.Is(err, commonerrors.ErrMissingOpt), errors.Is(err, commonerrors.ErrInvalidOptVal), errors.Is(err, commonerrors.ErrLoadConfig):
		return ExitErrParseOpts
	default:
		return ExitErrRun
	}
}

// HandleErrorAndExit gracefully handles errors before exiting the program.
func HandleErrorAndExit(err error) {
	code := ExitCode(err)
	if code != ExitSuccess {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}

// NewAppContext wraps the given context with a logger and signal-cancelling support and returns the same along with
// a cancellation function for the returned context.
// NOTE: Should be invoked only AFTER parsing program flags, so that the logger instance is initialized with logger flags.
func NewAppContext(ctx context.Context, programName string) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Set up logr with klog backend using NewKlogr
	log := klog.NewKlogr().WithValues("program", programName)
	ctx = logr.NewContext(ctx, log)
	return ctx, stop
}
