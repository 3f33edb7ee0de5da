package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/internal/auth"
	"github.com/blogcast/blogcast/internal/websocket"
	"github.com/blogcast/blogcast/usecase"
)

// Deps bundles what the HTTP layer needs from the rest of the service.
type Deps struct {
	Pipeline     *usecase.Pipeline
	Hub          *websocket.Hub
	Issuer       *auth.Issuer
	ClientSecret string
	// OutputDir is served statically so finished episodes are downloadable.
	OutputDir string
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, deps Deps, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "blogcast-server",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/tokens", func(c echo.Context) error {
		return issueToken(c, deps, logger)
	})

	v1.POST("/episodes", func(c echo.Context) error {
		return createEpisode(c, deps, logger)
	})

	// WebSocket endpoint with JWT validation, streaming stage transitions
	// while the episode is produced.
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(deps, c, logger)
	})

	// Finished artifacts
	e.Static("/episodes", deps.OutputDir)
}

// issueToken authenticates a publisher client and returns a JWT.
func issueToken(c echo.Context, deps Deps, logger *zap.Logger) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind token request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.ClientID == "" || req.SecretKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Client ID and secret key are required",
		})
	}

	if deps.ClientSecret == "" || req.SecretKey != deps.ClientSecret {
		logger.Warn("Publisher authentication failed", zap.String("client_id", req.ClientID))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid client credentials",
		})
	}

	token, err := deps.Issuer.GeneratePublisherToken(req.ClientID)
	if err != nil {
		logger.Error("Failed to generate publisher token",
			zap.String("client_id", req.ClientID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	logger.Info("Publisher authenticated", zap.String("client_id", req.ClientID))

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		ClientID:  req.ClientID,
	})
}

// createEpisode runs the full pipeline for one request.
func createEpisode(c echo.Context, deps Deps, logger *zap.Logger) error {
	if ok, err := requireToken(c, deps.Issuer, logger); !ok {
		return err
	}

	var req EpisodeRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind episode request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	episode, err := deps.Pipeline.Run(c.Request().Context(), req.RawInput, req.Overrides, nil)
	if err != nil {
		code := domain.ErrorCode(err)
		status := statusForCode(code)
		logger.Error("Episode creation failed",
			zap.String("code", code),
			zap.Error(err))
		return c.JSON(status, ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, EpisodeResponse{
		ID:              episode.ID,
		Script:          episode.Script,
		AudioPath:       episode.AudioPath,
		DurationSeconds: episode.Duration.Seconds(),
		GeneratedAt:     episode.GeneratedAt,
	})
}

// requireToken enforces a valid publisher token on an endpoint. When the
// request must stop it writes the error response itself and returns false.
func requireToken(c echo.Context, issuer *auth.Issuer, logger *zap.Logger) (bool, error) {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}

	if token == "" {
		logger.Warn("Request rejected: missing token")
		return false, c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required in Authorization header",
		})
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		logger.Warn("Request rejected: invalid token", zap.Error(err))
		return false, c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	if claims.Role != "publisher" {
		logger.Warn("Request rejected: invalid role", zap.String("role", claims.Role))
		return false, c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only publisher tokens may create episodes",
		})
	}

	return true, nil
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(deps Deps, c echo.Context, logger *zap.Logger) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required in Authorization header",
		})
	}

	claims, err := deps.Issuer.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	if claims.Role != "publisher" {
		logger.Warn("WebSocket connection rejected: invalid role",
			zap.String("role", claims.Role))
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only publisher tokens are allowed for WebSocket connections",
		})
	}

	logger.Info("WebSocket connection authenticated",
		zap.String("client_id", claims.ClientID))

	return websocket.HandleWebSocketWithAuth(deps.Hub, c, claims.ClientID, logger)
}

// statusForCode maps a pipeline error code to an HTTP status. Caller
// mistakes are 4xx, upstream provider failures are 502, everything on our
// side is 500.
func statusForCode(code string) int {
	switch code {
	case "invalid_input", "file_read_failed":
		return http.StatusBadRequest
	case "fetch_failed", "script_generation_failed", "synthesis_failed", "download_failed":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
