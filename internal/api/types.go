package api

import (
	"time"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/usecase"
)

// TokenRequest represents the request payload for publisher authentication
type TokenRequest struct {
	ClientID  string `json:"client_id" validate:"required"`
	SecretKey string `json:"secret_key" validate:"required"`
}

// TokenResponse represents the response payload for publisher authentication
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ClientID  string    `json:"client_id"`
}

// EpisodeRequest represents the request payload for episode creation.
// Exactly one of the input fields must be set; overrides are optional.
type EpisodeRequest struct {
	domain.RawInput
	Overrides *usecase.Overrides `json:"overrides,omitempty"`
}

// EpisodeResponse represents a finished episode
type EpisodeResponse struct {
	ID              string    `json:"id"`
	Script          string    `json:"script"`
	AudioPath       string    `json:"audio_path"`
	DurationSeconds float64   `json:"duration_seconds"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
