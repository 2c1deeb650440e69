package factory

import (
	"fmt"

	"go-color-mood/internal/config"
	"go-color-mood/internal/storage"
)

// SourceType represents the backends model artifacts can be loaded from
type SourceType string

const (
	// LocalSource reads artifacts from a directory
	LocalSource SourceType = config.AssetSourceLocal
	// HTTPSource downloads artifacts relative to a base URL
	HTTPSource SourceType = config.AssetSourceHTTP
	// AzureSource reads artifacts from a blob container
	AzureSource SourceType = config.AssetSourceAzure
)

// SourceFactory creates artifact sources
type SourceFactory interface {
	CreateSource(sourceType SourceType) (storage.ArtifactSource, error)
}

// sourceFactory implements SourceFactory from the loaded configuration
type sourceFactory struct {
	cfg *config.Config
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config) SourceFactory {
	return &sourceFactory{cfg: cfg}
}

// CreateSource creates a source based on the specified type
func (f *sourceFactory) CreateSource(sourceType SourceType) (storage.ArtifactSource, error) {
	switch sourceType {
	case LocalSource:
		return storage.NewLocalSource(f.cfg.AssetDir), nil
	case HTTPSource:
		return storage.NewHTTPSource(f.cfg.AssetBaseURL, f.cfg.AssetFetchTimeout), nil
	case AzureSource:
		return storage.NewAzureSource(f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.AzureContainer)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// ConfiguredSource creates the source named by ASSET_SOURCE
func ConfiguredSource(cfg *config.Config) (storage.ArtifactSource, error) {
	return NewSourceFactory(cfg).CreateSource(SourceType(cfg.AssetSource))
}
