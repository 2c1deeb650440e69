package repository

import (
	"context"

	"go-color-mood/internal/mood"
)

// Artifact file names besides the per-model ones from mood.ModelID.ArtifactName
const (
	ScalerArtifact = "scaler.json"
	LabelsArtifact = "labencode.json"
)

// AssetRepository defines the interface for loading the fitted model bundle
type AssetRepository interface {
	// LoadBundle fetches and decodes every artifact. It fails unless all of
	// them are present and valid.
	LoadBundle(ctx context.Context) (*mood.Bundle, error)

	// Describe names the backing source for logs and health output
	Describe() string
}

// ArtifactNames lists every file a complete bundle needs, models first
func ArtifactNames() []string {
	names := make([]string, 0, len(mood.AllModels())+2)
	for _, id := range mood.AllModels() {
		names = append(names, id.ArtifactName())
	}
	return append(names, ScalerArtifact, LabelsArtifact)
}
