package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	OCRProviderNone   = "none"
	OCRProviderGemini = "gemini"
	OCRProviderOpenAI = "openai"
)

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min" json:"min" validate:"ltefield=Max"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Thresholds holds every tunable guardrail and engine limit.
type Thresholds struct {
	// MinConfidence is the parse confidence below which a profile is rejected.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence" validate:"gte=0,lte=1"`

	// MaxMissingPercentage is the highest tolerated share of missing core fields.
	MaxMissingPercentage float64 `yaml:"max_missing_percentage" json:"max_missing_percentage" validate:"gte=0,lte=1"`

	// WarnConfidence is the parse confidence below which a warning is attached.
	WarnConfidence float64 `yaml:"warn_confidence" json:"warn_confidence" validate:"gte=0,lte=1"`

	AgeRange   Range `yaml:"age_range" json:"age_range"`
	UnusualAge Range `yaml:"unusual_age" json:"unusual_age"`
	BMIRange   Range `yaml:"bmi_range" json:"bmi_range"`
	UnusualBMI Range `yaml:"unusual_bmi" json:"unusual_bmi"`
	SleepRange Range `yaml:"sleep_range" json:"sleep_range"`

	MinOCRTextLength   int `yaml:"min_ocr_text_length" json:"min_ocr_text_length" validate:"gte=1"`
	MaxRecommendations int `yaml:"max_recommendations" json:"max_recommendations" validate:"gte=1"`
}

// DefaultThresholds returns the built-in guardrail limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinConfidence:        0.3,
		MaxMissingPercentage: 0.5,
		WarnConfidence:       0.8,
		AgeRange:             Range{Min: 0, Max: 150},
		UnusualAge:           Range{Min: 18, Max: 100},
		BMIRange:             Range{Min: 10, Max: 100},
		UnusualBMI:           Range{Min: 15, Max: 50},
		SleepRange:           Range{Min: 0, Max: 24},
		MinOCRTextLength:     10,
		MaxRecommendations:   5,
	}
}

type OCRConfig struct {
	Provider string
	APIKey   string `json:"-"`
	Model    string
}

// Enabled is true when a provider with credentials is configured.
func (c OCRConfig) Enabled() bool {
	return c.Provider != OCRProviderNone && c.Provider != "" && c.APIKey != ""
}

type AppConfig struct {
	Port           string
	Environment    string
	AllowedOrigins string
	Thresholds     Thresholds
	OCR            OCRConfig
}

// IsProduction controls whether internal error messages are hidden.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads .env (if any), the environment and the optional thresholds file.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &AppConfig{
		Port:           getEnvWithDefault("PORT", "8080"),
		Environment:    strings.ToLower(getEnvWithDefault("APP_ENV", EnvDevelopment)),
		AllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Thresholds:     DefaultThresholds(),
		OCR:            loadOCRConfig(),
	}

	if path := os.Getenv("GUARDRAILS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read guardrails config: %w", err)
		}
		th, err := ParseThresholds(data, cfg.Thresholds)
		if err != nil {
			return nil, err
		}
		cfg.Thresholds = th
	}

	return cfg, nil
}

// ParseThresholds overlays YAML data onto base and validates the result.
func ParseThresholds(data []byte, base Thresholds) (Thresholds, error) {
	th := base
	if err := yaml.Unmarshal(data, &th); err != nil {
		return base, fmt.Errorf("parse guardrails config: %w", err)
	}
	if err := ValidateThresholds(th); err != nil {
		return base, err
	}
	return th, nil
}

// ValidateThresholds checks struct constraints on every threshold.
func ValidateThresholds(th Thresholds) error {
	if err := validator.New().Struct(th); err != nil {
		return fmt.Errorf("invalid guardrails config: %w", err)
	}
	return nil
}

func loadOCRConfig() OCRConfig {
	provider := strings.ToLower(getEnvWithDefault("OCR_PROVIDER", OCRProviderNone))

	var apiKey, model string
	switch provider {
	case OCRProviderOpenAI:
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
	case OCRProviderGemini:
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	default:
		provider = OCRProviderNone
	}

	return OCRConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
