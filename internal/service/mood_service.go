package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-color-mood/internal/colorstate"
	apperrors "go-color-mood/internal/errors"
	"go-color-mood/internal/mood"
	"go-color-mood/internal/observer"
	"go-color-mood/internal/session"
	"go-color-mood/internal/strategy"
	"go-color-mood/pkg/models"
	"go-color-mood/pkg/validation"
)

// MoodService defines the operations behind the color editor
type MoodService interface {
	// Session lifecycle and editing
	StartSession(ctx context.Context) (*models.SessionView, error)
	View(ctx context.Context, sessionID string) (*models.SessionView, error)
	SetMode(ctx context.Context, sessionID string, mode string) (*models.SessionView, error)
	EditColor(ctx context.Context, sessionID string, values map[string]int) (*models.SessionView, error)

	// Prediction
	Predict(ctx context.Context, sessionID string, model string) (*models.PredictionView, error)
	Models() []models.ModelInfo
	Availability() models.Availability
}

// moodService implements MoodService over the session store and predictor
type moodService struct {
	store     *session.Store
	predictor *mood.Predictor
	resolver  *validation.ModelResolver
	events    observer.Subject
	source    string
}

// NewMoodService creates a new mood service. source names where the model
// bundle came from and is only reported.
func NewMoodService(
	store *session.Store,
	predictor *mood.Predictor,
	events observer.Subject,
	source string,
) MoodService {
	return &moodService{
		store:     store,
		predictor: predictor,
		resolver:  validation.NewModelResolver(),
		events:    events,
		source:    source,
	}
}

// StartSession creates a session with the default color in RGB mode
func (s *moodService) StartSession(ctx context.Context) (*models.SessionView, error) {
	sess := s.store.Create()
	s.publish(ctx, observer.MoodEvent{
		EventType: observer.SessionStarted,
		SessionID: sess.ID,
		Mode:      string(sess.Mode),
		Hex:       sess.Color.Hex(),
		Success:   true,
	})
	return s.view(sess)
}

// View returns the current state of a session
func (s *moodService) View(ctx context.Context, sessionID string) (*models.SessionView, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, s.sessionError(sessionID, err)
	}
	return s.view(sess)
}

// SetMode switches the writable slider set. The color itself is unchanged.
func (s *moodService) SetMode(ctx context.Context, sessionID string, mode string) (*models.SessionView, error) {
	parsed, err := strategy.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.Update(sessionID, func(sess *session.Session) error {
		if sess.Mode != parsed {
			sess.Mode = parsed
			sess.LastMood = ""
		}
		return nil
	})
	if err != nil {
		return nil, s.sessionError(sessionID, err)
	}

	s.publish(ctx, observer.MoodEvent{
		EventType: observer.ModeChanged,
		SessionID: sess.ID,
		Mode:      string(sess.Mode),
		Success:   true,
	})
	return s.view(sess)
}

// EditColor writes slider values for the active control set and syncs the
// other axis. Values for the inactive set are rejected.
func (s *moodService) EditColor(ctx context.Context, sessionID string, values map[string]int) (*models.SessionView, error) {
	sess, err := s.store.Update(sessionID, func(sess *session.Session) error {
		controls, err := strategy.ForMode(sess.Mode)
		if err != nil {
			return err
		}
		next, err := controls.Apply(sess.Color, values)
		if err != nil {
			return err
		}
		sess.Color = next
		sess.LastMood = ""
		return nil
	})
	if err != nil {
		return nil, s.sessionError(sessionID, err)
	}

	s.publish(ctx, observer.MoodEvent{
		EventType: observer.ColorEdited,
		SessionID: sess.ID,
		Mode:      string(sess.Mode),
		Hex:       sess.Color.Hex(),
		Success:   true,
	})
	return s.view(sess)
}

// Predict runs the chosen model on the session's current color. An empty
// model name reuses the session's selection.
func (s *moodService) Predict(ctx context.Context, sessionID string, model string) (*models.PredictionView, error) {
	startTime := time.Now()

	if !s.predictor.Available() {
		err := s.unavailableError()
		s.publish(ctx, observer.MoodEvent{
			EventType:    observer.PredictionFailed,
			SessionID:    sessionID,
			Model:        model,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	var (
		id    mood.ModelID
		label string
		color colorstate.ColorState
	)
	sess, err := s.store.Update(sessionID, func(sess *session.Session) error {
		id = sess.LastModel
		if model != "" {
			resolved, err := s.resolver.Resolve(model)
			if err != nil {
				return err
			}
			id = resolved
		}

		color = sess.Color
		predicted, err := s.predictor.Predict(color, id)
		if err != nil {
			return err
		}
		label = predicted
		sess.LastModel = id
		sess.LastMood = predicted
		return nil
	})
	if err != nil {
		err = s.predictionError(sessionID, err)
		s.publish(ctx, observer.MoodEvent{
			EventType:    observer.PredictionFailed,
			SessionID:    sessionID,
			Model:        model,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	duration := time.Since(startTime)
	s.publish(ctx, observer.MoodEvent{
		EventType:      observer.PredictionCompleted,
		SessionID:      sess.ID,
		Model:          id.String(),
		Mode:           string(sess.Mode),
		Hex:            color.Hex(),
		Mood:           label,
		ProcessingTime: duration,
		Success:        true,
	})

	return &models.PredictionView{
		SessionID:        sess.ID,
		Model:            id.String(),
		ModelName:        id.DisplayName(),
		Mood:             label,
		MoodText:         MoodText(label),
		Color:            colorView(color),
		Timestamp:        startTime.UTC().Format(time.RFC3339),
		ProcessingTimeMs: float64(duration) / float64(time.Millisecond),
	}, nil
}

// Models lists the selectable models in menu order
func (s *moodService) Models() []models.ModelInfo {
	ids := mood.AllModels()
	infos := make([]models.ModelInfo, 0, len(ids))
	for _, id := range ids {
		infos = append(infos, models.ModelInfo{
			ID:              id.String(),
			Name:            id.DisplayName(),
			Artifact:        id.ArtifactName(),
			RequiresScaling: id.RequiresScaling(),
		})
	}
	return infos
}

// Availability reports whether the model bundle loaded
func (s *moodService) Availability() models.Availability {
	a := models.Availability{
		Available: s.predictor.Available(),
		Source:    s.source,
	}
	if !a.Available {
		a.Error = loadMessage(s.predictor.LoadError())
	}
	return a
}

// MoodText is the sentence shown under the swatch after a prediction
func MoodText(label string) string {
	return fmt.Sprintf("The Color feels: %s", label)
}

func (s *moodService) view(sess session.Session) (*models.SessionView, error) {
	controls, err := strategy.ForMode(sess.Mode)
	if err != nil {
		return nil, apperrors.NewInternalError("session has an invalid mode", err)
	}

	values := controls.Read(sess.Color)
	ranges := controls.Sliders()
	sliders := make([]models.SliderView, 0, len(ranges))
	for _, r := range ranges {
		sliders = append(sliders, models.SliderView{
			Key:   r.Key,
			Label: r.Label,
			Min:   r.Min,
			Max:   r.Max,
			Value: values[r.Key],
		})
	}

	view := &models.SessionView{
		ID:    sess.ID,
		Color: colorView(sess.Color),
		Controls: models.ControlSetView{
			Mode:    string(controls.Mode()),
			Label:   controls.Mode().Label(),
			Sliders: sliders,
			Derived: controls.Derived(sess.Color),
		},
		Model:               sess.LastModel.String(),
		Mood:                sess.LastMood,
		PredictionAvailable: s.predictor.Available(),
	}
	if sess.LastMood != "" {
		view.MoodText = MoodText(sess.LastMood)
	}
	return view, nil
}

func colorView(c colorstate.ColorState) models.ColorView {
	return models.ColorView{R: c.R, G: c.G, B: c.B, H: c.H, S: c.S, L: c.L, Hex: c.Hex()}
}

func (s *moodService) publish(ctx context.Context, event observer.MoodEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

func (s *moodService) unavailableError() *apperrors.AppError {
	return apperrors.NewUnavailableError(loadMessage(s.predictor.LoadError()), mood.ErrUnavailable).
		WithDetails("prediction is disabled until the model artifacts can be loaded")
}

// sessionError maps store failures; AppErrors raised inside an update pass
// through untouched
func (s *moodService) sessionError(sessionID string, err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, session.ErrSessionNotFound):
		return apperrors.NewNotFoundError(fmt.Sprintf("session %q not found", sessionID), err)
	default:
		return apperrors.NewInternalError("session update failed", err)
	}
}

func (s *moodService) predictionError(sessionID string, err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, mood.ErrUnavailable):
		return s.unavailableError()
	case errors.Is(err, mood.ErrUnknownModel):
		return apperrors.NewValidationError("unknown model", err)
	case errors.Is(err, session.ErrSessionNotFound):
		return s.sessionError(sessionID, err)
	default:
		return apperrors.NewProcessingError("model inference failed", err)
	}
}

func loadMessage(err error) string {
	if err == nil {
		return "models missing"
	}
	return err.Error()
}
