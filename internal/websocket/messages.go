package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/usecase"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeCreateEpisode MessageType = "create_episode"
	MessageTypeStage         MessageType = "stage"
	MessageTypeEpisode       MessageType = "episode"
	MessageTypeError         MessageType = "error"
	MessageTypePing          MessageType = "ping"
	MessageTypePong          MessageType = "pong"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type" validate:"required"`
	Timestamp string      `json:"timestamp"`
}

// CreateEpisodeMessage asks the server to run the pipeline for one input
type CreateEpisodeMessage struct {
	BaseMessage
	domain.RawInput
	Overrides *usecase.Overrides `json:"overrides,omitempty"`
}

// StageMessage announces a pipeline stage transition
type StageMessage struct {
	BaseMessage
	Stage string `json:"stage"`
}

// EpisodeMessage carries the finished episode
type EpisodeMessage struct {
	BaseMessage
	ID              string  `json:"id"`
	Script          string  `json:"script"`
	AudioPath       string  `json:"audio_path"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateMessage validates an incoming message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeCreateEpisode:
		var msg CreateEpisodeMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid create episode message: %w", err)
		}
		if err := msg.RawInput.Validate(); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// CreateStageMessage creates a stage transition message
func CreateStageMessage(stage usecase.Stage) *StageMessage {
	return &StageMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeStage,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Stage: string(stage),
	}
}

// CreateEpisodeResultMessage creates the terminal success message
func CreateEpisodeResultMessage(episode *domain.Episode) *EpisodeMessage {
	return &EpisodeMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeEpisode,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		ID:              episode.ID,
		Script:          episode.Script,
		AudioPath:       episode.AudioPath,
		DurationSeconds: episode.Duration.Seconds(),
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Code:    code,
		Message: message,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePong,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Data: data,
	}
}
