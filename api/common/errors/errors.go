// Package errors holds common sentinel errors and error message formats
package errors

import (
	"errors"
)

var (
	// ErrMissingOpt is a sentinel error indicating that one or more required command line options are missing.
	ErrMissingOpt = errors.New("missing option")

	// ErrInvalidOptVal is a sentinel error indicating that a specific option has an invalid value
	ErrInvalidOptVal = errors.New("invalid option value")

	// ErrLoadConfig is a sentinel error indicating that the configuration file could not be loaded.
	ErrLoadConfig = errors.New("cannot load config")

	// ErrFetch is a sentinel error indicating that pricing data could not be downloaded.
	ErrFetch = errors.New("cannot fetch pricing data")
)

var (
	// FmtBuildFailed is a error format indicating that the catalog of the quoted region could not be built.
	FmtBuildFailed = "building catalog of region %q failed"
	// FmtWriteFailed is a error format indicating that the quoted artifact could not be written.
	FmtWriteFailed = "writing %q failed"
)
