package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "go-color-mood/internal/errors"
	"go-color-mood/internal/mood"
	"go-color-mood/internal/observer"
	"go-color-mood/internal/session"
)

// thresholdClassifier returns class 1 when the red feature is above 127.
type thresholdClassifier struct {
	mu    sync.Mutex
	calls [][]float64
}

func (c *thresholdClassifier) Predict(features []float64) (int, error) {
	c.mu.Lock()
	c.calls = append(c.calls, append([]float64(nil), features...))
	c.mu.Unlock()
	if features[0] > 127 {
		return 1, nil
	}
	return 0, nil
}

type failingClassifier struct{}

func (failingClassifier) Predict([]float64) (int, error) { return 0, errors.New("corrupt tree") }

type identityScaler struct{}

func (identityScaler) Transform(x []float64) ([]float64, error) { return x, nil }

type labels []string

func (l labels) InverseTransform(code int) (string, error) { return l[code], nil }

type recordingObserver struct {
	mu     sync.Mutex
	events []observer.EventType
}

func (o *recordingObserver) OnEvent(ctx context.Context, e observer.MoodEvent) {
	o.mu.Lock()
	o.events = append(o.events, e.EventType)
	o.mu.Unlock()
}

func (o *recordingObserver) GetObserverName() string { return "recording" }

type fixture struct {
	svc        MoodService
	classifier *thresholdClassifier
	events     *recordingObserver
	publisher  *observer.EventPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	classifier := &thresholdClassifier{}
	bundle := &mood.Bundle{
		Models: map[mood.ModelID]mood.Classifier{
			mood.LogisticRegression: classifier,
			mood.RandomForest:       classifier,
			mood.XGBoost:            classifier,
			mood.DecisionTree:       failingClassifier{},
		},
		Scaler: identityScaler{},
		Labels: labels{"Calm", "Energetic"},
	}
	predictor, err := mood.NewPredictor(bundle)
	if err != nil {
		t.Fatal(err)
	}

	events := &recordingObserver{}
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(events)

	return &fixture{
		svc:        NewMoodService(session.NewStore(time.Hour), predictor, publisher, "local:testdata"),
		classifier: classifier,
		events:     events,
		publisher:  publisher,
	}
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if view.ID == "" {
		t.Error("Expected a session ID")
	}
	if view.Color.Hex != "#808080" || view.Color.L != 50 {
		t.Errorf("Unexpected default color %+v", view.Color)
	}
	if view.Controls.Mode != "rgb" || view.Controls.Label != "RGB" {
		t.Errorf("Unexpected controls %+v", view.Controls)
	}
	if len(view.Controls.Sliders) != 3 || view.Controls.Sliders[0].Label != "Red" || view.Controls.Sliders[0].Value != 128 {
		t.Errorf("Unexpected sliders %+v", view.Controls.Sliders)
	}
	if view.Controls.Derived != "Current HSL: 0°, 0%, 50%" {
		t.Errorf("Unexpected derived text %q", view.Controls.Derived)
	}
	if view.Model != "LogisticRegression" || !view.PredictionAvailable || view.Mood != "" {
		t.Errorf("Unexpected prediction fields %+v", view)
	}

	f.publisher.Wait()
	if len(f.events.events) != 1 || f.events.events[0] != observer.SessionStarted {
		t.Errorf("Expected session_started event, got %v", f.events.events)
	}
}

func TestEditColor_RGB(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.svc.StartSession(ctx)

	view, err := f.svc.EditColor(ctx, view.ID, map[string]int{"r": 255, "g": 0, "b": 0})
	if err != nil {
		t.Fatalf("EditColor failed: %v", err)
	}
	c := view.Color
	if c.R != 255 || c.G != 0 || c.B != 0 || c.H != 0 || c.S != 100 || c.L != 50 || c.Hex != "#ff0000" {
		t.Errorf("Unexpected color %+v", c)
	}
	if view.Controls.Derived != "Current HSL: 0°, 100%, 50%" {
		t.Errorf("Unexpected derived text %q", view.Controls.Derived)
	}
}

func TestEditColor_HSLAfterModeSwitch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.svc.StartSession(ctx)

	view, err := f.svc.SetMode(ctx, view.ID, "HSL")
	if err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if view.Controls.Mode != "hsl" || view.Controls.Sliders[0].Label != "Hue" {
		t.Errorf("Unexpected controls after switch %+v", view.Controls)
	}
	if view.Color.Hex != "#808080" {
		t.Errorf("Mode switch must not change the color, got %s", view.Color.Hex)
	}

	view, err = f.svc.EditColor(ctx, view.ID, map[string]int{"h": 120, "s": 100})
	if err != nil {
		t.Fatalf("EditColor failed: %v", err)
	}
	if view.Color.Hex != "#00ff00" {
		t.Errorf("Expected #00ff00, got %s", view.Color.Hex)
	}
	if view.Controls.Derived != "Current RGB: 0, 255, 0" {
		t.Errorf("Unexpected derived text %q", view.Controls.Derived)
	}
}

func TestEditColor_RejectsInactiveChannel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.svc.StartSession(ctx)

	_, err := f.svc.EditColor(ctx, view.ID, map[string]int{"h": 200})
	if apperrors.GetStatusCode(err) != 400 {
		t.Fatalf("Expected 400, got %v", err)
	}

	after, _ := f.svc.View(ctx, view.ID)
	if after.Color != view.Color {
		t.Errorf("Expected color unchanged, got %+v", after.Color)
	}
}

func TestPredict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.svc.StartSession(ctx)
	if _, err := f.svc.EditColor(ctx, view.ID, map[string]int{"r": 200}); err != nil {
		t.Fatal(err)
	}

	result, err := f.svc.Predict(ctx, view.ID, "random forest")
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if result.Mood != "Energetic" || result.MoodText != "The Color feels: Energetic" {
		t.Errorf("Unexpected prediction %+v", result)
	}
	if result.Model != "RandomForest" || result.ModelName != "Random Forest" {
		t.Errorf("Unexpected model fields %+v", result)
	}

	// Features follow R, G, B, H, S, L
	last := f.classifier.calls[len(f.classifier.calls)-1]
	c := result.Color
	want := []float64{float64(c.R), float64(c.G), float64(c.B), float64(c.H), float64(c.S), float64(c.L)}
	for i := range want {
		if last[i] != want[i] {
			t.Errorf("feature %d = %v, want %v", i, last[i], want[i])
		}
	}

	view, _ = f.svc.View(ctx, view.ID)
	if view.Mood != "Energetic" || view.Model != "RandomForest" {
		t.Errorf("Expected session to remember the prediction, got %+v", view)
	}

	// An empty model name reuses the selection
	result, err = f.svc.Predict(ctx, view.ID, "")
	if err != nil || result.Model != "RandomForest" {
		t.Errorf("Expected reuse of RandomForest, got %+v, %v", result, err)
	}

	// Editing clears the shown mood but keeps the model
	view, _ = f.svc.EditColor(ctx, view.ID, map[string]int{"r": 10})
	if view.Mood != "" || view.MoodText != "" || view.Model != "RandomForest" {
		t.Errorf("Expected mood cleared after edit, got %+v", view)
	}
}

func TestPredict_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view, _ := f.svc.StartSession(ctx)

	_, err := f.svc.Predict(ctx, view.ID, "Decision Tre")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode != 400 || appErr.Details != `did you mean "Decision Tree"?` {
		t.Errorf("Expected suggestion for misspelled model, got %v", err)
	}

	_, err = f.svc.Predict(ctx, view.ID, "DecisionTree")
	if !apperrors.IsType(err, apperrors.ErrorTypeProcessing) {
		t.Errorf("Expected processing error from failing classifier, got %v", err)
	}

	_, err = f.svc.Predict(ctx, "no-such-session", "XGBoost")
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	f.publisher.Wait()
	failures := 0
	for _, e := range f.events.events {
		if e == observer.PredictionFailed {
			failures++
		}
	}
	if failures != 3 {
		t.Errorf("Expected 3 prediction_failed events, got %d", failures)
	}
}

func TestPredict_Unavailable(t *testing.T) {
	loadErr := errors.New("models missing: xgmodel.json: artifact not found")
	svc := NewMoodService(session.NewStore(time.Hour), mood.Unavailable(loadErr), nil, "local:.")
	ctx := context.Background()
	view, _ := svc.StartSession(ctx)

	if view.PredictionAvailable {
		t.Error("Expected prediction to be unavailable")
	}

	_, err := svc.Predict(ctx, view.ID, "XGBoost")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %v", err)
	}
	if appErr.StatusCode != 503 || appErr.Message != loadErr.Error() {
		t.Errorf("Unexpected unavailable error %+v", appErr)
	}
	if !errors.Is(err, mood.ErrUnavailable) {
		t.Error("Expected ErrUnavailable in the chain")
	}

	a := svc.Availability()
	if a.Available || a.Error != loadErr.Error() || a.Source != "local:." {
		t.Errorf("Unexpected availability %+v", a)
	}
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.View(ctx, "missing"); apperrors.GetStatusCode(err) != 404 {
		t.Errorf("View: expected 404, got %v", err)
	}
	if _, err := f.svc.SetMode(ctx, "missing", "hsl"); apperrors.GetStatusCode(err) != 404 {
		t.Errorf("SetMode: expected 404, got %v", err)
	}
	if _, err := f.svc.EditColor(ctx, "missing", map[string]int{"r": 1}); apperrors.GetStatusCode(err) != 404 {
		t.Errorf("EditColor: expected 404, got %v", err)
	}
	if _, err := f.svc.SetMode(ctx, "missing", "cmyk"); apperrors.GetStatusCode(err) != 400 {
		t.Errorf("SetMode: expected 400 for bad mode, got %v", err)
	}
}

func TestModels(t *testing.T) {
	infos := newFixture(t).svc.Models()
	if len(infos) != 4 {
		t.Fatalf("Expected 4 models, got %d", len(infos))
	}
	wantNames := []string{"Logistic Regression", "Random Forest", "XGBoost", "Decision Tree"}
	for i, info := range infos {
		if info.Name != wantNames[i] {
			t.Errorf("model %d = %q, want %q", i, info.Name, wantNames[i])
		}
		if info.RequiresScaling != (i == 0) {
			t.Errorf("%s: unexpected RequiresScaling %v", info.ID, info.RequiresScaling)
		}
	}
}
