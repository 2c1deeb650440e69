package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalSource reads artifacts from a directory on disk
type LocalSource struct {
	dir     string
	maxSize int64
}

// NewLocalSource creates a source rooted at dir
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir, maxSize: DefaultMaxArtifactSize}
}

// Describe names the directory for log lines
func (s *LocalSource) Describe() string {
	return "local:" + s.dir
}

// Fetch reads name from the source directory
func (s *LocalSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrArtifactNotFound, path)
	}
	if info.Size() > s.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrArtifactTooLarge, path, info.Size(), s.maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// checkName accepts bare file names only
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidArtifactName, name)
	}
	return nil
}
