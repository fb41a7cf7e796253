package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Interview InterviewConfig
}

// Load reads configuration from environment variables. A missing Gemini
// API key is a fatal condition: the whole product is a call-through to
// the generative backend.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	gemini, err := loadGeminiConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Gemini:    gemini,
		Interview: loadInterviewConfig(),
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
		// Allow ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// GeminiConfig holds the generative backend credentials and model names.
type GeminiConfig struct {
	APIKey         string
	TextModel      string
	PortraitModels []string
	LogoModel      string
}

func loadGeminiConfig() (GeminiConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return GeminiConfig{}, errors.New("GEMINI_API_KEY is not set")
	}

	return GeminiConfig{
		APIKey:         apiKey,
		TextModel:      getEnvOrDefault("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		PortraitModels: splitList(getEnvOrDefault("GEMINI_PORTRAIT_MODELS", "imagen-4.0-fast-generate-preview-06-06,imagen-3.0-fast-generate-001")),
		LogoModel:      getEnvOrDefault("GEMINI_LOGO_MODEL", "imagen-4.0-generate-001"),
	}, nil
}

// InterviewConfig describes the few filesystem touchpoints: the optional
// seed file for the startup description, the directory transcripts are
// saved to on session end, and the best-effort usage log.
type InterviewConfig struct {
	StartupFile   string
	TranscriptDir string
	UsageLog      string
}

func loadInterviewConfig() InterviewConfig {
	return InterviewConfig{
		StartupFile:   getEnvOrDefault("STARTUP_FILE", "startup.txt"),
		TranscriptDir: getEnvOrDefault("TRANSCRIPT_DIR", "transcripts"),
		UsageLog:      getEnvOrDefault("USAGE_LOG", "requests.txt"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
