// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"
	sigyaml "sigs.k8s.io/yaml"
)

// AssertError compares the received error with the wanted one and
// checks for equality first by comparing them otherwise by checking
// if the received error is a substring of the wanted error.
func AssertError(t *testing.T, got error, want error) {
	t.Helper()
	if isNil(got) && isNil(want) {
		return
	}
	if (isNil(got) && !isNil(want)) || (!isNil(got) && isNil(want)) {
		t.Errorf("Unexpected error, got: %v, want: %v", got, want)
		return
	}
	if errors.Is(got, want) || strings.Contains(got.Error(), want.Error()) {
		t.Logf("Expected error: %v", got)
	} else {
		t.Errorf("Unexpected error, got: %v, want: %v", got, want)
	}
}

// isNil checks if v is nil. (source: https://antonz.org/do-not-testify/)
func isNil(v any) bool {
	if v == nil {
		return true
	}
	// A non-nil interface can still hold a nil value, so we must check the underlying value.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice,
		reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

// ReadTestData reads the named file from fsys and fails the test if it cannot be read.
func ReadTestData(t *testing.T, fsys fs.FS, name string) []byte {
	t.Helper()
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		t.Fatalf("failed to read test data %q: %v", name, err)
	}
	return data
}

// LoadTestObject unmarshals the named YAML or JSON file from fsys into a new T.
func LoadTestObject[T any](t *testing.T, fsys fs.FS, name string) T {
	t.Helper()
	var obj T
	if err := sigyaml.Unmarshal(ReadTestData(t, fsys, name), &obj); err != nil {
		t.Fatalf("failed to unmarshal test data %q into %T: %v", name, obj, err)
	}
	return obj
}

// WriteTempFile writes data to a file with the given name inside a fresh temporary directory and returns its path.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write temp file %q: %v", path, err)
	}
	return path
}

// LoggerContext wraps the given context with a logr logger based on the klog backend.
func LoggerContext(ctx context.Context) context.Context {
	log := klog.NewKlogr()
	return logr.NewContext(ctx, log)
}
