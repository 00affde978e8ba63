package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Model   Model   `yaml:"model"`
	Weather Weather `yaml:"weather"`
	Cleanup Cleanup `yaml:"cleanup"`
}

type Server struct {
	// Address to listen on
	Addr string `yaml:"addr" example:":8090"`
	// Admin password required by every endpoint, falls back to ADMIN_PASSWORD
	Password string `yaml:"password" validate:"required"`
}

type Store struct {
	// Path to the JSON data file
	Path string `yaml:"path" example:"data/assistant.json"`
}

type Model struct {
	// LLM provider
	Provider string `yaml:"provider" example:"googleai" validate:"required,oneof=googleai openai anthropic"`
	// API key, falls back to GEMINI_API_KEY
	APIKey string `yaml:"api_key" validate:"required"`
	// Base url for openai-compatible providers
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1"`
	// Model name
	Name string `yaml:"name" example:"gemini-1.5-flash-latest"`
	// Completion token limit
	MaxTokens int `yaml:"max_tokens" example:"1000"`
	// Sampling temperature
	Temperature float64 `yaml:"temperature" example:"0.7"`
	// Per-call timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds" example:"30"`
}

type Weather struct {
	// OpenWeatherMap API key, falls back to OPENWEATHER_API_KEY
	APIKey string `yaml:"api_key"`
	// Default measurement units
	Units string `yaml:"units" example:"metric"`
}

type Cleanup struct {
	// Directory holding transient synthesized audio
	AudioDir string `yaml:"audio_dir" example:"static/audio"`
	// Age in minutes after which transient files are deleted
	MaxAgeMinutes int `yaml:"max_age_minutes" example:"5"`
}

type Log struct {
	// Debug lowers the console level and adds source locations
	Debug bool `yaml:"debug"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8090"
	}
	if result.Server.Password == "" {
		result.Server.Password = os.Getenv("ADMIN_PASSWORD")
	}
	if result.Store.Path == "" {
		result.Store.Path = "data/assistant.json"
	}
	if result.Model.Provider == "" {
		result.Model.Provider = "googleai"
	}
	if result.Model.APIKey == "" {
		result.Model.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if result.Model.Name == "" {
		result.Model.Name = "gemini-1.5-flash-latest"
	}
	if result.Model.MaxTokens == 0 {
		result.Model.MaxTokens = 1000
	}
	if result.Model.TimeoutSeconds == 0 {
		result.Model.TimeoutSeconds = 30
	}
	if result.Weather.APIKey == "" {
		result.Weather.APIKey = os.Getenv("OPENWEATHER_API_KEY")
	}
	if result.Weather.Units == "" {
		result.Weather.Units = "metric"
	}
	if result.Cleanup.AudioDir == "" {
		result.Cleanup.AudioDir = "static/audio"
	}
	if result.Cleanup.MaxAgeMinutes == 0 {
		result.Cleanup.MaxAgeMinutes = 5
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
