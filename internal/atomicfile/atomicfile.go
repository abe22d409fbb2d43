// Package atomicfile replaces file contents without exposing torn writes.
package atomicfile

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile writes data to a temp file beside path and renames it over path.
//
// If perm is 0 the existing file's mode is kept, falling back to 0644.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode().Perm()
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}

	// Windows refuses to rename over an existing file.
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return errors.Wrap(err, "rename temp file")
		}
	}

	committed = true
	return nil
}

// Update reads path, passes its contents through fn and atomically writes
// the result back with the original mode. The file is not touched when fn
// returns the contents unchanged. It reports whether a write happened.
func Update(path string, fn func([]byte) ([]byte, error)) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", path)
	}
	if st.IsDir() {
		return false, errors.Errorf("%s is a directory", path)
	}

	before, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "read %s", path)
	}

	after, err := fn(before)
	if err != nil {
		return false, err
	}
	if bytes.Equal(before, after) {
		return false, nil
	}

	if err := WriteFile(path, after, st.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, "write %s", path)
	}
	return true, nil
}
