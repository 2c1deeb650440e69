package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MoodEvent represents something that happened to a session or the model bundle
type MoodEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	SessionID      string                 `json:"session_id,omitempty"`
	Model          string                 `json:"model,omitempty"`
	Mode           string                 `json:"mode,omitempty"`
	Hex            string                 `json:"hex,omitempty"`
	Mood           string                 `json:"mood,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of mood event
type EventType string

const (
	// SessionStarted when a new editor session is created
	SessionStarted EventType = "session_started"
	// ModeChanged when the active control set switches
	ModeChanged EventType = "mode_changed"
	// ColorEdited when slider values are applied
	ColorEdited EventType = "color_edited"
	// PredictionCompleted when a model returns a mood
	PredictionCompleted EventType = "prediction_completed"
	// PredictionFailed when prediction is unavailable or inference fails
	PredictionFailed EventType = "prediction_failed"
	// AssetsLoaded when the model bundle is ready
	AssetsLoaded EventType = "assets_loaded"
	// AssetsLoadFailed when the model bundle could not be loaded
	AssetsLoadFailed EventType = "assets_load_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event MoodEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event MoodEvent)
}

// LoggingObserver logs mood events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles mood events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event MoodEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"success":    event.Success,
	}
	if event.SessionID != "" {
		fields["session_id"] = event.SessionID
	}
	if event.Model != "" {
		fields["model"] = event.Model
	}
	if event.Mode != "" {
		fields["mode"] = event.Mode
	}
	if event.Hex != "" {
		fields["hex"] = event.Hex
	}
	if event.Mood != "" {
		fields["mood"] = event.Mood
	}
	if event.ProcessingTime > 0 {
		fields["processing_time_ms"] = event.ProcessingTime.Milliseconds()
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case SessionStarted:
		entry.Info("Session started")
	case ModeChanged:
		entry.Debug("Control set changed")
	case ColorEdited:
		entry.Debug("Color edited")
	case PredictionCompleted:
		entry.Info("Mood prediction completed")
	case PredictionFailed:
		entry.Error("Mood prediction failed")
	case AssetsLoaded:
		entry.Info("Model assets loaded")
	case AssetsLoadFailed:
		entry.Error("Model assets failed to load")
	default:
		entry.Info("Mood event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// Metrics is a snapshot of MetricsObserver counters
type Metrics struct {
	SessionsStarted       int64            `json:"sessions_started"`
	ModeChanges           int64            `json:"mode_changes"`
	ColorEdits            int64            `json:"color_edits"`
	Predictions           int64            `json:"predictions"`
	FailedPredictions     int64            `json:"failed_predictions"`
	PredictionsByModel    map[string]int64 `json:"predictions_by_model"`
	MoodCounts            map[string]int64 `json:"mood_counts"`
	AvgPredictionTimeMs   float64          `json:"avg_prediction_time_ms"`
	TotalPredictionTimeMs float64          `json:"total_prediction_time_ms"`
}

// MetricsObserver collects counters from mood events
type MetricsObserver struct {
	mu                  sync.RWMutex
	sessionsStarted     int64
	modeChanges         int64
	colorEdits          int64
	predictions         int64
	failedPredictions   int64
	byModel             map[string]int64
	byMood              map[string]int64
	totalPredictionTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		byModel: make(map[string]int64),
		byMood:  make(map[string]int64),
	}
}

// OnEvent handles mood events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event MoodEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case SessionStarted:
		o.sessionsStarted++
	case ModeChanged:
		o.modeChanges++
	case ColorEdited:
		o.colorEdits++
	case PredictionCompleted:
		o.predictions++
		o.byModel[event.Model]++
		o.byMood[event.Mood]++
		o.totalPredictionTime += event.ProcessingTime
	case PredictionFailed:
		o.failedPredictions++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	m := Metrics{
		SessionsStarted:       o.sessionsStarted,
		ModeChanges:           o.modeChanges,
		ColorEdits:            o.colorEdits,
		Predictions:           o.predictions,
		FailedPredictions:     o.failedPredictions,
		PredictionsByModel:    make(map[string]int64, len(o.byModel)),
		MoodCounts:            make(map[string]int64, len(o.byMood)),
		TotalPredictionTimeMs: float64(o.totalPredictionTime) / float64(time.Millisecond),
	}
	for k, v := range o.byModel {
		m.PredictionsByModel[k] = v
	}
	for k, v := range o.byMood {
		m.MoodCounts[k] = v
	}
	if o.predictions > 0 {
		m.AvgPredictionTimeMs = m.TotalPredictionTimeMs / float64(o.predictions)
	}
	return m
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	wg        sync.WaitGroup
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event MoodEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Notify observers concurrently
	for _, observer := range observers {
		p.wg.Add(1)
		go func(obs Observer) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Wait blocks until every notification sent so far has been handled
func (p *EventPublisher) Wait() {
	p.wg.Wait()
}
