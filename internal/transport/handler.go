package transport

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"go-color-mood/internal/config"
	apperrors "go-color-mood/internal/errors"
	"go-color-mood/internal/logger"
	"go-color-mood/internal/observer"
	"go-color-mood/internal/service"
	"go-color-mood/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	version           = "1.0.0"
	sessionCookieName = "mood_session"
)

//go:embed templates/index.html
var templateFS embed.FS

// StatsSource supplies the counters behind /api/stats and /health
type StatsSource interface {
	GetMetrics() observer.Metrics
}

// SessionCounter reports how many sessions are held
type SessionCounter interface {
	Len() int
}

type handler struct {
	svc      service.MoodService
	stats    StatsSource
	sessions SessionCounter
	cfg      *config.Config
}

// NewHandler builds the gin router for the demo page and JSON API
func NewHandler(svc service.MoodService, stats StatsSource, sessions SessionCounter, cfg *config.Config) http.Handler {
	h := &handler{svc: svc, stats: stats, sessions: sessions, cfg: cfg}

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/index.html")))

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestTimeout(cfg.RequestTimeout),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/", h.index)
	r.GET("/health", h.healthCheck)

	api := r.Group("/api")
	api.GET("/models", h.listModels)
	api.GET("/stats", h.getStats)
	api.POST("/sessions", h.createSession)
	api.GET("/sessions/:id", h.getSession)
	api.PUT("/sessions/:id/mode", h.setMode)
	api.PATCH("/sessions/:id/color", h.editColor)
	api.POST("/sessions/:id/predict", h.predict)

	return r
}

type indexPage struct {
	Session      *models.SessionView
	Models       []models.ModelInfo
	Availability models.Availability
}

// index renders the editor, resuming the session named by the cookie when
// it is still live
func (h *handler) index(c *gin.Context) {
	ctx := c.Request.Context()

	var view *models.SessionView
	if id, err := c.Cookie(sessionCookieName); err == nil && id != "" {
		view, _ = h.svc.View(ctx, id)
	}
	if view == nil {
		started, err := h.svc.StartSession(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		view = started
		h.setSessionCookie(c, view.ID)
	}

	c.HTML(http.StatusOK, "index.html", indexPage{
		Session:      view,
		Models:       h.svc.Models(),
		Availability: h.svc.Availability(),
	})
}

func (h *handler) healthCheck(c *gin.Context) {
	availability := h.svc.Availability()
	status := "available"
	if !availability.Available {
		status = "degraded"
	}
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:         status,
		Version:        version,
		Time:           time.Now().UTC().Format(time.RFC3339),
		Prediction:     availability,
		ActiveSessions: h.sessions.Len(),
	})
}

func (h *handler) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":     h.svc.Models(),
		"prediction": h.svc.Availability(),
	})
}

func (h *handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":         h.stats.GetMetrics(),
		"active_sessions": h.sessions.Len(),
	})
}

func (h *handler) createSession(c *gin.Context) {
	view, err := h.svc.StartSession(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, view.ID)
	c.JSON(http.StatusCreated, view)
}

func (h *handler) getSession(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) setMode(c *gin.Context) {
	var req models.ModeRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.svc.SetMode(c.Request.Context(), c.Param("id"), req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) editColor(c *gin.Context) {
	var req models.ColorEditRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.svc.EditColor(c.Request.Context(), c.Param("id"), req.Values)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) predict(c *gin.Context) {
	startTime := time.Now()

	var req models.PredictRequest
	// The body is optional; without one the session's model is used
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Predict(c.Request.Context(), c.Param("id"), req.Model)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.WithSession(result.SessionID).WithFields(logrus.Fields{
		"model":              result.Model,
		"mood":               result.Mood,
		"hex":                result.Color.Hex,
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Prediction request completed")

	c.JSON(http.StatusOK, result)
}

func (h *handler) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, id, int(h.cfg.SessionTTL.Seconds()), "/", "", false, true)
}

// bindJSON decodes the body or writes a 400/413 and returns false
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, &apperrors.AppError{
				Type:       apperrors.ErrorTypeValidation,
				Message:    "request body too large",
				StatusCode: http.StatusRequestEntityTooLarge,
				Cause:      err,
			})
			return false
		}
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return false
	}
	return true
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			"ip":                 c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Debug("Request handled")
	}
}

func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	response := models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: "request processing failed",
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		response.Message = appErr.Message
		response.Details = appErr.Details
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     response.Message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, response)
}
