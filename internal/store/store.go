// Package store handles everything mtd keeps on disk: the JSON config, the
// persisted replica document, and the server's sync history database.
package store

import (
	"errors"
	"os"
	"path/filepath"

	"mtd-cli/internal/tdlist"
)

// LoadList reads the replica document at path. A missing file yields a fresh
// empty replica with the requested role, so first runs need no special
// casing.
func LoadList(path string, server bool) (*tdlist.TdList, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if server {
				return tdlist.NewServerList(), nil
			}
			return tdlist.NewClientList(), nil
		}
		return nil, err
	}
	return tdlist.FromJSON(b)
}

// SaveList writes the replica document atomically so a crash mid-write never
// corrupts tracked state.
func SaveList(path string, l *tdlist.TdList) error {
	b, err := l.ToJSON()
	if err != nil {
		return err
	}
	return atomicWriteFile(path, append(b, '\n'), 0o600)
}

// atomicWriteFile writes b to a temp file in path's directory and renames it
// into place, creating the directory when missing.
func atomicWriteFile(path string, b []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
