package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/interfaces"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
)

// -----------------------------------------------------------------------------
// Token providers for the monitoring stream. The stream client never reads
// the environment or the network itself; it asks one of these.
// -----------------------------------------------------------------------------

// NewTokenProvider picks the provider for the given config: the HTTP auth
// endpoint when configured, the environment variable otherwise.
func NewTokenProvider(cfg *models.MConfig, log *logger.Logger) interfaces.ITokenProvider {
	if cfg.Monitor.AuthURL != "" {
		return NewHTTPTokenProvider(cfg, log)
	}
	return NewEnvTokenProvider(cfg.Monitor.AuthTokenEnv, log)
}

// -----------------------------------------------------------------------------
// EnvTokenProvider reads the credential from an environment variable
// (godotenv loads .env into the environment at config time).
// -----------------------------------------------------------------------------

type EnvTokenProvider struct {
	EnvVar string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewEnvTokenProvider(envVar string, log *logger.Logger) *EnvTokenProvider {
	return &EnvTokenProvider{EnvVar: envVar, Logger: log}
}

// -----------------------------------------------------------------------------

func (p *EnvTokenProvider) Token(ctx context.Context) (string, error) {
	token := os.Getenv(p.EnvVar)
	if token == "" {
		return "", helpers.NewAuthError(fmt.Sprintf("environment variable %s is empty", p.EnvVar), nil)
	}
	return token, nil
}

// -----------------------------------------------------------------------------
// HTTPTokenProvider fetches a session token from the auth endpoint with
// bounded retries.
// -----------------------------------------------------------------------------

const (
	tokenMaxRetries = 3
	tokenRetryDelay = 500 * time.Millisecond
	tokenTimeout    = 10 * time.Second
)

type HTTPTokenProvider struct {
	Config *models.MConfig
	Logger *logger.Logger
	Client *http.Client
}

// -----------------------------------------------------------------------------

func NewHTTPTokenProvider(cfg *models.MConfig, log *logger.Logger) *HTTPTokenProvider {
	return &HTTPTokenProvider{
		Config: cfg,
		Logger: log,
		Client: &http.Client{Timeout: tokenTimeout},
	}
}

// -----------------------------------------------------------------------------

func (p *HTTPTokenProvider) Token(ctx context.Context) (string, error) {
	var lastErr error

	for i := 0; i <= tokenMaxRetries; i++ {
		if i > 0 {
			delay := tokenRetryDelay * (1 << (i - 1))
			p.Logger.Info("Token request failed (attempt %d/%d): %v. Retrying in %v", i, tokenMaxRetries+1, lastErr, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", helpers.NewAuthError("token fetch cancelled", ctx.Err())
			}
		}

		token, err := p.fetchToken(ctx)
		if err == nil {
			return token, nil
		}
		lastErr = err
	}

	return "", helpers.NewAuthError("token fetch exhausted retries", lastErr)
}

// -----------------------------------------------------------------------------

func (p *HTTPTokenProvider) fetchToken(ctx context.Context) (string, error) {
	payload, _ := json.Marshal(map[string]string{"client": p.Config.Name})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Config.Monitor.AuthURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("malformed token response: %w", err)
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("auth endpoint returned an empty token")
	}

	return parsed.Token, nil
}
