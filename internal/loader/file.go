// Package loader provides the file-reading capabilities injected into the
// workflow orchestrator.
package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// OS reads files from the local filesystem.
type OS struct{}

// ReadFile loads the file at path, honoring context cancellation.
func (OS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

// CheckDir verifies the directory exists and accepts writes by creating and
// removing a probe file.
func (OS) CheckDir(ctx context.Context, dir string) error {
	if dir == "" {
		return errors.New("loader: directory path is required")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("loader: not a directory: " + dir)
	}
	probe, err := os.CreateTemp(dir, ".docmerge-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
