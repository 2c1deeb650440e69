package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-color-mood/internal/config"
	"go-color-mood/internal/factory"
	"go-color-mood/internal/logger"
	"go-color-mood/internal/mood"
	"go-color-mood/internal/observer"
	"go-color-mood/internal/repository"
	"go-color-mood/internal/service"
	"go-color-mood/internal/session"
	"go-color-mood/internal/transport"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	config      *config.Config
	repository  repository.AssetRepository
	predictor   *mood.Predictor
	sessions    *session.Store
	publisher   *observer.EventPublisher
	metrics     *observer.MetricsObserver
	moodService service.MoodService
	handler     http.Handler
}

// NewContainer builds the dependency graph. A model bundle that fails to
// load leaves prediction disabled; only a misconfigured source is fatal.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	source, err := factory.ConfiguredSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset source: %w", err)
	}
	repo := repository.NewSourceAssetRepository(source, cfg.AssetFetchTimeout)
	return newContainer(ctx, cfg, repo), nil
}

func newContainer(ctx context.Context, cfg *config.Config, repo repository.AssetRepository) *Container {
	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	predictor := loadPredictor(ctx, repo, publisher)
	sessions := session.NewStore(cfg.SessionTTL)
	moodService := service.NewMoodService(sessions, predictor, publisher, repo.Describe())
	handler := transport.NewHandler(moodService, metrics, sessions, cfg)

	return &Container{
		config:      cfg,
		repository:  repo,
		predictor:   predictor,
		sessions:    sessions,
		publisher:   publisher,
		metrics:     metrics,
		moodService: moodService,
		handler:     handler,
	}
}

func loadPredictor(ctx context.Context, repo repository.AssetRepository, events observer.Subject) *mood.Predictor {
	startTime := time.Now()

	bundle, err := repo.LoadBundle(ctx)
	if err == nil {
		var predictor *mood.Predictor
		if predictor, err = mood.NewPredictor(bundle); err == nil {
			events.NotifyObservers(ctx, observer.MoodEvent{
				EventType:      observer.AssetsLoaded,
				ProcessingTime: time.Since(startTime),
				Success:        true,
				Metadata:       map[string]interface{}{"source": repo.Describe()},
			})
			return predictor
		}
	}

	events.NotifyObservers(ctx, observer.MoodEvent{
		EventType:      observer.AssetsLoadFailed,
		ProcessingTime: time.Since(startTime),
		ErrorMessage:   err.Error(),
		Metadata:       map[string]interface{}{"source": repo.Describe()},
	})
	return mood.Unavailable(err)
}

// StartSweeper removes idle sessions until ctx is cancelled
func (c *Container) StartSweeper(ctx context.Context) {
	go c.sessions.Run(ctx, c.config.SessionSweepInterval, func(removed int) {
		logger.WithFields(logrus.Fields{
			"removed":   removed,
			"remaining": c.sessions.Len(),
		}).Debug("Expired sessions swept")
	})
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// PredictionAvailable reports whether the model bundle loaded
func (c *Container) PredictionAvailable() bool {
	return c.predictor.Available()
}

// Metrics returns the event counters
func (c *Container) Metrics() observer.Metrics {
	c.publisher.Wait()
	return c.metrics.GetMetrics()
}
