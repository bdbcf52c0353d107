// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ioutil

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// CloserFunc is a function type that implements io.Closer.
type CloserFunc func() error

// Close releases resources associated with the CloserFunc implementation by invoking the function it wraps.
func (f CloserFunc) Close() error {
	return f()
}

// CloseQuietly safely closes an io.Closer, ignoring and suppressing any error during the close operation.
func CloseQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// WriteFileAtomic writes the content produced by write to a temporary file next to path and
// renames it to path once write succeeded. Readers of path never observe a partial file.
// Missing parent directories are created.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o750); err != nil {
		return
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			CloseQuietly(f)
			_ = os.Remove(f.Name())
		}
	}()
	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		return
	}
	if err = bw.Flush(); err != nil {
		return
	}
	if err = f.Chmod(0o644); err != nil {
		return
	}
	if err = f.Close(); err != nil {
		return
	}
	return os.Rename(f.Name(), path)
}

// WriteJSONFile atomically writes v encoded as a single line of JSON to path.
func WriteJSONFile(path string, v any) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteJSON(w, v)
	})
}

// WriteJSON writes v encoded as a single line of JSON to w. HTML characters are not escaped.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
