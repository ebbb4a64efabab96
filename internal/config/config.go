package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every service setting, loaded from the environment.
type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Groq     GroqConfig
	Gemini   GeminiConfig
	Ark      ArkConfig
}

// Load reads and validates the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	telegram, err := loadTelegramConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Telegram: telegram,
		Groq: GroqConfig{
			APIKey:  strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
			BaseURL: strings.TrimSpace(os.Getenv("GROQ_BASE_URL")),
		},
		Gemini: GeminiConfig{
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		},
		Ark: ArkConfig{
			APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
			Models:    splitList(os.Getenv("ARK_MODELS")),
		},
	}, nil
}

// ServerConfig describes the HTTP listener.
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

// TelegramConfig describes the bot transport.
type TelegramConfig struct {
	Token       string
	AdminChatID int64
	PollTimeout int
	KeepAlive   time.Duration
	baseURL     string
}

// Enabled reports whether the bot token is present.
func (c TelegramConfig) Enabled() bool {
	return c.Token != ""
}

// APIBase returns the Bot API base URL including the token.
func (c TelegramConfig) APIBase() string {
	return c.baseURL + "/bot" + c.Token
}

func loadTelegramConfig() (TelegramConfig, error) {
	var adminChatID int64
	if raw := strings.TrimSpace(os.Getenv("ADMIN_CHAT_ID")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return TelegramConfig{}, fmt.Errorf("invalid ADMIN_CHAT_ID value %q: %w", raw, err)
		}
		adminChatID = parsed
	}

	pollTimeout := 30
	if override, err := parseOptionalIntEnv("TELEGRAM_POLL_TIMEOUT"); err != nil {
		return TelegramConfig{}, err
	} else if override != nil {
		pollTimeout = *override
	}

	keepAliveSeconds := 30
	if override, err := parseOptionalIntEnv("KEEPALIVE_INTERVAL"); err != nil {
		return TelegramConfig{}, err
	} else if override != nil {
		keepAliveSeconds = *override
	}

	return TelegramConfig{
		Token:       strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		AdminChatID: adminChatID,
		PollTimeout: pollTimeout,
		KeepAlive:   time.Duration(keepAliveSeconds) * time.Second,
		baseURL:     getEnvOrDefault("TELEGRAM_API_BASE", "https://api.telegram.org"),
	}, nil
}

// GroqConfig describes the Groq completion backend.
type GroqConfig struct {
	APIKey  string
	BaseURL string
}

// Enabled reports whether the API key is present.
func (c GroqConfig) Enabled() bool { return c.APIKey != "" }

// GeminiConfig describes the Gemini completion backend.
type GeminiConfig struct {
	APIKey string
}

// Enabled reports whether the API key is present.
func (c GeminiConfig) Enabled() bool { return c.APIKey != "" }

// ArkConfig describes the Volcengine Ark completion backend.
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	BaseURL   string
	Region    string
	Models    []string
}

// Enabled reports whether credentials and at least one model are configured.
func (c ArkConfig) Enabled() bool {
	return len(c.Models) > 0 && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
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

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
