package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://api.murf.ai/v1"
	defaultVoiceID    = "en-US-julia"
	defaultModel      = "GEN2"
	defaultFormat     = "MP3"
	defaultSampleRate = 44100
	defaultTimeout    = 30 * time.Second
)

// encodedAudioKeys and audioURLKeys list the field names the provider has
// been observed to use for the two response shapes, across SDK versions and
// serialization styles (camelCase vs snake_case).
var (
	encodedAudioKeys = []string{"encodedAudio", "encoded_audio", "encodedAudioBase64", "encodedAudio64"}
	audioURLKeys     = []string{"audioFile", "audio_file", "url", "audio_url", "signedUrl"}
)

// MurfConfig holds configuration for the MurfTTS adapter.
// Required fields:
// - APIKey: Your Murf API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Murf API (default: "https://api.murf.ai/v1")
// - VoiceID: The voice ID to use (default: "en-US-julia")
// - Model: The model version (default: "GEN2")
// - Format: The audio output format (default: "MP3")
// - SampleRate: Output sample rate in Hz (default: 44100)
// - Timeout: HTTP timeout for the synthesis call (default: 30s)
type MurfConfig struct {
	APIKey     string
	APIBaseURL string
	VoiceID    string
	Model      string
	Format     string
	SampleRate int
	Timeout    time.Duration
}

// ValidateMurfConfig validates the MurfConfig
func ValidateMurfConfig(config MurfConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("%w: murf API key is required", domain.ErrConfiguration)
	}

	if config.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", domain.ErrConfiguration, config.SampleRate)
	}

	if config.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", domain.ErrConfiguration, config.Timeout)
	}

	return nil
}

// MurfTTS implements the SpeechSynthesizer interface using the Murf API
type MurfTTS struct {
	apiKey     string
	apiBaseURL string
	voiceID    string
	model      string
	format     string
	sampleRate int
	client     *http.Client
	logger     *zap.Logger
}

// Ensure MurfTTS implements the SpeechSynthesizer interface
var _ repositories.SpeechSynthesizer = (*MurfTTS)(nil)

// NewMurfTTS creates a new Murf TTS instance
func NewMurfTTS(config MurfConfig, logger *zap.Logger) (*MurfTTS, error) {
	if err := ValidateMurfConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	voiceID := config.VoiceID
	if voiceID == "" {
		voiceID = defaultVoiceID
		logger.Info("Using default voice ID", zap.String("voiceID", voiceID))
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	format := config.Format
	if format == "" {
		format = defaultFormat
		logger.Info("Using default format", zap.String("format", format))
	}

	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
		logger.Info("Using default sample rate", zap.Int("sampleRate", sampleRate))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default timeout", zap.Duration("timeout", timeout))
	}

	return &MurfTTS{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		voiceID:    voiceID,
		model:      model,
		format:     format,
		sampleRate: sampleRate,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// murfRequest represents the request payload for the Murf generate endpoint
type murfRequest struct {
	Text           string `json:"text"`
	VoiceID        string `json:"voice_id"`
	Format         string `json:"format"`
	SampleRate     int    `json:"sample_rate"`
	ModelVersion   string `json:"model_version"`
	EncodeAsBase64 bool   `json:"encode_as_base_64"`
}

// Synthesize converts the script to speech and normalizes the provider's
// response into the inline/linked tagged union. The provider may answer with
// base64 audio under one of several field names, or with a signed URL; both
// shapes are resolved here, once.
func (m *MurfTTS) Synthesize(ctx context.Context, script string) (repositories.SpeechResult, error) {
	if script == "" {
		return repositories.SpeechResult{}, fmt.Errorf("script cannot be empty")
	}

	m.logger.Info("Synthesizing speech",
		zap.String("voiceID", m.voiceID),
		zap.String("model", m.model),
		zap.Int("scriptLength", len(script)))

	request := murfRequest{
		Text:           script,
		VoiceID:        m.voiceID,
		Format:         m.format,
		SampleRate:     m.sampleRate,
		ModelVersion:   m.model,
		EncodeAsBase64: true,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return repositories.SpeechResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/speech/generate", m.apiBaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return repositories.SpeechResult{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", m.apiKey)

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return repositories.SpeechResult{}, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		m.logger.Error("Murf API returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return repositories.SpeechResult{}, fmt.Errorf("murf API returned status %d: %s", resp.StatusCode, string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return repositories.SpeechResult{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return normalizeResponse(body, m.logger)
}

// normalizeResponse resolves the provider response into the tagged union.
func normalizeResponse(body []byte, logger *zap.Logger) (repositories.SpeechResult, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return repositories.SpeechResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	for _, key := range encodedAudioKeys {
		encoded, ok := fields[key].(string)
		if !ok || encoded == "" {
			continue
		}
		audio, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return repositories.SpeechResult{}, fmt.Errorf("failed to decode base64 audio from field %q: %w", key, err)
		}
		logger.Debug("Found encoded audio", zap.String("field", key), zap.Int("bytes", len(audio)))
		return repositories.SpeechResult{Kind: repositories.InlineAudio, Audio: audio}, nil
	}

	for _, key := range audioURLKeys {
		url, ok := fields[key].(string)
		if !ok || url == "" {
			continue
		}
		logger.Info("Provider returned linked audio", zap.String("field", key))
		return repositories.SpeechResult{Kind: repositories.LinkedAudio, URL: url}, nil
	}

	return repositories.SpeechResult{}, fmt.Errorf("response carries no audio payload (checked %d known fields)", len(encodedAudioKeys)+len(audioURLKeys))
}

// NewMurfConfigFromEnv creates a new MurfConfig from environment variables
// This is a helper function to simplify the creation of a properly configured MurfConfig
func NewMurfConfigFromEnv() MurfConfig {
	config := MurfConfig{
		APIKey:     os.Getenv("MURF_API_KEY"),
		APIBaseURL: os.Getenv("MURF_API_BASE_URL"),
		VoiceID:    os.Getenv("MURF_VOICE_ID"),
		Model:      os.Getenv("MURF_MODEL"),
		Format:     os.Getenv("MURF_FORMAT"),
	}

	if sampleRateStr := os.Getenv("MURF_SAMPLE_RATE"); sampleRateStr != "" {
		if sampleRate, err := strconv.Atoi(sampleRateStr); err == nil && sampleRate > 0 {
			config.SampleRate = sampleRate
		}
	}

	if timeoutStr := os.Getenv("MURF_TIMEOUT_SECONDS"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			config.Timeout = time.Duration(timeout) * time.Second
		}
	}

	return config
}
