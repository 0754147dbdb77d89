package loader

import (
	"context"
	"errors"
	"io/fs"
)

// FS reads files from an fs.FS, letting tests and embedded assets stand in
// for the filesystem.
type FS struct {
	Files fs.FS
}

// ReadFile loads name from the wrapped fs.FS, honoring context
// cancellation.
func (l FS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	if l.Files == nil {
		return nil, errors.New("loader: fs is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return fs.ReadFile(l.Files, name)
}
