package models

// ColorView is a color on both axes plus its swatch hex
type ColorView struct {
	R   int    `json:"r"`
	G   int    `json:"g"`
	B   int    `json:"b"`
	H   int    `json:"h"`
	S   int    `json:"s"`
	L   int    `json:"l"`
	Hex string `json:"hex"`
}

// SliderView is one writable slider with its current value
type SliderView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Value int    `json:"value"`
}

// ControlSetView is the active slider set and the caption for the other axis
type ControlSetView struct {
	Mode    string       `json:"mode"`
	Label   string       `json:"label"`
	Sliders []SliderView `json:"sliders"`
	Derived string       `json:"derived"`
}

// SessionView is everything the editor page renders for a session
type SessionView struct {
	ID                  string         `json:"id"`
	Color               ColorView      `json:"color"`
	Controls            ControlSetView `json:"controls"`
	Model               string         `json:"model"`
	Mood                string         `json:"mood,omitempty"`
	MoodText            string         `json:"mood_text,omitempty"`
	PredictionAvailable bool           `json:"prediction_available"`
}

// PredictionView is the result of one predict action
type PredictionView struct {
	SessionID        string    `json:"session_id"`
	Model            string    `json:"model"`
	ModelName        string    `json:"model_name"`
	Mood             string    `json:"mood"`
	MoodText         string    `json:"mood_text"`
	Color            ColorView `json:"color"`
	Timestamp        string    `json:"timestamp"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
}

// ModelInfo describes one selectable model
type ModelInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Artifact        string `json:"artifact"`
	RequiresScaling bool   `json:"requires_scaling"`
}

// Availability reports whether prediction is enabled and why not
type Availability struct {
	Available bool   `json:"available"`
	Source    string `json:"source,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ModeRequest switches the active control set
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// ColorEditRequest carries new values for some or all active sliders
type ColorEditRequest struct {
	Values map[string]int `json:"values" binding:"required"`
}

// PredictRequest selects the model; empty keeps the session's current choice
type PredictRequest struct {
	Model string `json:"model,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status         string       `json:"status"`
	Version        string       `json:"version"`
	Time           string       `json:"time"`
	Prediction     Availability `json:"prediction"`
	ActiveSessions int          `json:"active_sessions"`
}
