package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-color-mood/internal/mlmodel"
	"go-color-mood/internal/mood"
	"go-color-mood/internal/storage"
)

// SourceAssetRepository implements AssetRepository on top of an artifact source
type SourceAssetRepository struct {
	source  storage.ArtifactSource
	timeout time.Duration
	workers int
}

// NewSourceAssetRepository creates a repository reading from source. A
// positive timeout bounds the whole load.
func NewSourceAssetRepository(source storage.ArtifactSource, timeout time.Duration) *SourceAssetRepository {
	return &SourceAssetRepository{
		source:  source,
		timeout: timeout,
		workers: 3,
	}
}

// Describe names the backing source
func (r *SourceAssetRepository) Describe() string {
	return r.source.Describe()
}

// LoadBundle fetches all artifacts concurrently and decodes them. Every
// failure is reported, not only the first.
func (r *SourceAssetRepository) LoadBundle(ctx context.Context) (*mood.Bundle, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, errs := r.fetchAll(ctx, ArtifactNames())

	bundle := &mood.Bundle{Models: make(map[mood.ModelID]mood.Classifier, len(mood.AllModels()))}
	for _, id := range mood.AllModels() {
		data, ok := raw[id.ArtifactName()]
		if !ok {
			continue
		}
		classifier, err := mlmodel.DecodeClassifier(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id.ArtifactName(), err))
			continue
		}
		bundle.Models[id] = classifier
	}

	if data, ok := raw[ScalerArtifact]; ok {
		scaler, err := mlmodel.DecodeScaler(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ScalerArtifact, err))
		} else {
			bundle.Scaler = scaler
		}
	}

	if data, ok := raw[LabelsArtifact]; ok {
		labels, err := mlmodel.DecodeLabelEncoder(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", LabelsArtifact, err))
		} else {
			bundle.Labels = labels
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrAssetsMissing, errors.Join(errs...))
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetsMissing, err)
	}
	return bundle, nil
}

// fetchAll downloads names on the worker pool. Errors come back in the
// order of names.
func (r *SourceAssetRepository) fetchAll(ctx context.Context, names []string) (map[string][]byte, []error) {
	pool := NewWorkerPool(r.workers)
	pool.Start()
	defer pool.Close()

	var mu sync.Mutex
	raw := make(map[string][]byte, len(names))
	failures := make([]error, len(names))

	for i, name := range names {
		i, name := i, name
		pool.Submit(func() {
			data, err := r.source.Fetch(ctx, name)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", name, err)
				return
			}
			mu.Lock()
			raw[name] = data
			mu.Unlock()
		})
	}
	pool.Wait()

	var errs []error
	for _, err := range failures {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return raw, errs
}
