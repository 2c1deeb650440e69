package storage

import (
	"context"
	"errors"
)

// DefaultMaxArtifactSize caps a single artifact download
const DefaultMaxArtifactSize int64 = 32 << 20

var (
	// ErrArtifactNotFound indicates the named artifact does not exist at the source
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrArtifactTooLarge indicates the artifact exceeds the configured size limit
	ErrArtifactTooLarge = errors.New("artifact too large")

	// ErrInvalidArtifactName indicates a name that would escape the source root
	ErrInvalidArtifactName = errors.New("invalid artifact name")
)

// ArtifactSource fetches raw model artifacts by file name
type ArtifactSource interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Describe() string
}
