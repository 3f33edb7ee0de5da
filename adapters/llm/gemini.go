package llm

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/domain/repositories"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTemperature    = 0.7
	defaultMaxTokens      = 3000
	defaultTimeoutSeconds = 60
)

// GeminiConfig holds configuration for the GeminiWriter adapter.
// Required fields:
// - APIKey: Your Google AI API key
// Optional fields with defaults:
// - Model: The model identifier (default: "gemini-2.0-flash")
// - Temperature: Sampling temperature between 0 and 1 (default: 0.7)
// - MaxOutputTokens: Output token budget per request (default: 3000)
// - TimeoutSeconds: Per-request timeout (default: 60)
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	TimeoutSeconds  int
}

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("%w: Google AI API key is required", domain.ErrConfiguration)
	}

	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("%w: temperature must be between 0 and 1, got %f", domain.ErrConfiguration, config.Temperature)
	}

	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("%w: maxOutputTokens must be positive, got %d", domain.ErrConfiguration, config.MaxOutputTokens)
	}

	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout must be positive, got %d", domain.ErrConfiguration, config.TimeoutSeconds)
	}

	return nil
}

// GeminiWriter implements the ScriptWriter interface using Google's Gemini API
type GeminiWriter struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int32
	timeoutSeconds  int
}

// Ensure GeminiWriter implements the ScriptWriter interface
var _ repositories.ScriptWriter = (*GeminiWriter)(nil)

// NewGeminiWriter creates a new Gemini script writer instance
func NewGeminiWriter(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiWriter, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = float32(defaultTemperature)
		logger.Info("Using default temperature", zap.Float32("temperature", temperature))
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxTokens
		logger.Info("Using default maxOutputTokens", zap.Int32("maxOutputTokens", maxOutputTokens))
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
		logger.Info("Using default timeoutSeconds", zap.Int("timeoutSeconds", timeoutSeconds))
	}

	return &GeminiWriter{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
		timeoutSeconds:  timeoutSeconds,
	}, nil
}

// GenerateScript sends the composed prompt and returns the model's text verbatim
func (g *GeminiWriter) GenerateScript(ctx context.Context, prompt string, opts repositories.GenerateOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = g.model
	}

	maxOutputTokens := opts.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = g.maxOutputTokens
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: maxOutputTokens,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	g.logger.Info("Generating script",
		zap.String("model", model),
		zap.Int32("maxOutputTokens", maxOutputTokens),
		zap.Int("promptLength", len(prompt)))

	response, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		g.logger.Error("Failed to generate content", zap.Error(err))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil || len(response.Candidates[0].Content.Parts) == 0 {
		g.logger.Warn("No content generated")
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText += part.Text
		}
	}

	g.logger.Info("Script generated", zap.Int("scriptLength", len(responseText)))

	return responseText, nil
}

// NewGeminiConfigFromEnv creates a new GeminiConfig from environment variables
// This is a helper function to simplify the creation of a properly configured GeminiConfig
func NewGeminiConfigFromEnv() GeminiConfig {
	config := GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}

	if temperatureStr := os.Getenv("GEMINI_TEMPERATURE"); temperatureStr != "" {
		if temperature, err := strconv.ParseFloat(temperatureStr, 32); err == nil && temperature >= 0 && temperature <= 1 {
			config.Temperature = float32(temperature)
		}
	}

	if maxTokensStr := os.Getenv("GEMINI_MAX_OUTPUT_TOKENS"); maxTokensStr != "" {
		if maxTokens, err := strconv.Atoi(maxTokensStr); err == nil && maxTokens > 0 {
			config.MaxOutputTokens = int32(maxTokens)
		}
	}

	if timeoutStr := os.Getenv("GEMINI_TIMEOUT_SECONDS"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			config.TimeoutSeconds = timeout
		}
	}

	return config
}
