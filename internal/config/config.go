package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every runtime setting of the bot process.
type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	AI       AIConfig
	Session  SessionConfig
}

// Load reads configuration from environment variables. Missing required
// secrets are an error: the process must not start partially configured.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	telegram, err := loadTelegramConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Telegram: telegram, AI: ai, Session: session}, nil
}

// ServerConfig describes the operational HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// TelegramConfig holds the chat transport credentials.
type TelegramConfig struct {
	BotToken string
	// PollTimeout is the long-poll wait passed to getUpdates, in seconds.
	PollTimeout int
}

func loadTelegramConfig() (TelegramConfig, error) {
	token := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if token == "" {
		return TelegramConfig{}, fmt.Errorf("BOT_TOKEN is required")
	}

	pollTimeout := 30
	if override, err := parseOptionalIntEnv("TELEGRAM_POLL_TIMEOUT"); err != nil {
		return TelegramConfig{}, err
	} else if override != nil && *override > 0 {
		pollTimeout = *override
	}

	return TelegramConfig{BotToken: token, PollTimeout: pollTimeout}, nil
}

// AIConfig describes the completion service connection.
type AIConfig struct {
	APIKey         string
	AccessKey      string
	SecretKey      string
	Model          string
	BaseURL        string
	Region         string
	Temperature    float64
	MaxTokens      int
	RequestTimeout time.Duration
}

func loadAIConfig() (AIConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("ARK_API_KEY"))
	accessKey := strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY"))
	secretKey := strings.TrimSpace(os.Getenv("ARK_SECRET_KEY"))
	if apiKey == "" && (accessKey == "" || secretKey == "") {
		return AIConfig{}, fmt.Errorf("completion credentials are required: set ARK_API_KEY or the ARK_ACCESS_KEY/ARK_SECRET_KEY pair")
	}

	modelID := strings.TrimSpace(os.Getenv("ARK_MODEL"))
	if modelID == "" {
		return AIConfig{}, fmt.Errorf("ARK_MODEL is required")
	}

	temperature := 0.7
	if override, err := parseOptionalFloatEnv("ARK_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := 400
	if override, err := parseOptionalIntEnv("ARK_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		maxTokens = *override
	}

	timeout := 60 * time.Second
	if override, err := parseOptionalIntEnv("AI_REQUEST_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		timeout = time.Duration(*override) * time.Second
	}

	return AIConfig{
		APIKey:         apiKey,
		AccessKey:      accessKey,
		SecretKey:      secretKey,
		Model:          modelID,
		BaseURL:        getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:         getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		RequestTimeout: timeout,
	}, nil
}

// NewChatModel builds the completion model with the fixed generation
// parameters applied.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	temperature := float32(c.Temperature)
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

// SessionConfig bounds in-memory transcript growth.
type SessionConfig struct {
	HistoryLimit int
}

func loadSessionConfig() (SessionConfig, error) {
	limit := 30
	if override, err := parseOptionalIntEnv("SESSION_HISTORY_LIMIT"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override <= 2 {
			return SessionConfig{}, fmt.Errorf("SESSION_HISTORY_LIMIT must be greater than 2, got %d", *override)
		}
		limit = *override
	}

	return SessionConfig{HistoryLimit: limit}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
