package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go-color-mood/internal/colorstate"
	"go-color-mood/internal/mlmodel"
	"go-color-mood/internal/mood"
	"go-color-mood/internal/storage"
)

// copyTestdata copies the sample bundle into a scratch directory, skipping
// any names in omit.
func copyTestdata(t *testing.T, omit ...string) string {
	t.Helper()
	dir := t.TempDir()
	skip := make(map[string]bool, len(omit))
	for _, name := range omit {
		skip[name] = true
	}
	for _, name := range ArtifactNames() {
		if skip[name] {
			continue
		}
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("read testdata: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestArtifactNames(t *testing.T) {
	want := []string{"lrmodel.json", "rfmodel.json", "xgmodel.json", "dtreemodel.json", "scaler.json", "labencode.json"}
	got := ArtifactNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ArtifactNames() = %v, want %v", got, want)
	}
}

func TestLoadBundle_Complete(t *testing.T) {
	repo := NewSourceAssetRepository(storage.NewLocalSource("testdata"), 0)

	bundle, err := repo.LoadBundle(context.Background())
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	if err := bundle.Validate(); err != nil {
		t.Fatalf("bundle incomplete: %v", err)
	}

	predictor, err := mood.NewPredictor(bundle)
	if err != nil {
		t.Fatal(err)
	}
	red := colorstate.ColorState{R: 255, G: 0, B: 0, H: 0, S: 100, L: 50}

	want := map[mood.ModelID]string{
		mood.LogisticRegression: "Energetic",
		mood.RandomForest:       "Energetic",
		mood.XGBoost:            "Energetic",
		mood.DecisionTree:       "Calm",
	}
	for id, label := range want {
		got, err := predictor.Predict(red, id)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if got != label {
			t.Errorf("%s: expected %q, got %q", id, label, got)
		}
	}
}

func TestLoadBundle_MissingArtifacts(t *testing.T) {
	dir := copyTestdata(t, "xgmodel.json", "labencode.json")
	repo := NewSourceAssetRepository(storage.NewLocalSource(dir), 0)

	bundle, err := repo.LoadBundle(context.Background())
	if bundle != nil {
		t.Error("Expected no bundle when artifacts are missing")
	}
	if !errors.Is(err, ErrAssetsMissing) {
		t.Fatalf("Expected ErrAssetsMissing, got %v", err)
	}
	if !errors.Is(err, storage.ErrArtifactNotFound) {
		t.Errorf("Expected ErrArtifactNotFound in chain, got %v", err)
	}
	for _, name := range []string{"xgmodel.json", "labencode.json"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Expected error to mention %s: %v", name, err)
		}
	}
}

func TestLoadBundle_CorruptArtifact(t *testing.T) {
	dir := copyTestdata(t)
	if err := os.WriteFile(filepath.Join(dir, "scaler.json"), []byte(`{"kind":"label_encoder","classes":["x"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewSourceAssetRepository(storage.NewLocalSource(dir), 0).LoadBundle(context.Background())
	if !errors.Is(err, ErrAssetsMissing) || !errors.Is(err, mlmodel.ErrUnsupportedKind) {
		t.Errorf("Expected ErrAssetsMissing wrapping ErrUnsupportedKind, got %v", err)
	}
}

// countingSource records fetches and fails for one name.
type countingSource struct {
	mu      sync.Mutex
	fetched []string
	failOn  string
}

func (s *countingSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, name)
	s.mu.Unlock()
	if name == s.failOn {
		return nil, fmt.Errorf("%w: %s", storage.ErrArtifactNotFound, name)
	}
	return os.ReadFile(filepath.Join("testdata", name))
}

func (s *countingSource) Describe() string { return "counting" }

func TestLoadBundle_FetchesEveryArtifact(t *testing.T) {
	source := &countingSource{failOn: "rfmodel.json"}
	repo := NewSourceAssetRepository(source, 0)

	if _, err := repo.LoadBundle(context.Background()); !errors.Is(err, ErrAssetsMissing) {
		t.Fatalf("Expected ErrAssetsMissing, got %v", err)
	}
	if len(source.fetched) != len(ArtifactNames()) {
		t.Errorf("Expected %d fetches, got %d", len(ArtifactNames()), len(source.fetched))
	}
	if repo.Describe() != "counting" {
		t.Errorf("Unexpected description %q", repo.Describe())
	}
}

func TestLoadBundle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSourceAssetRepository(storage.NewLocalSource("testdata"), 0).LoadBundle(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
