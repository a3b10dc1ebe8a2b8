package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// Config holds runtime settings. Compliance thresholds live in pkg/profile and are not configurable.
type Config struct {
	FetchTimeout     time.Duration
	ExportTimeout    time.Duration
	MaxInputBytes    int64
	FaceCascadePath  string
	PupilCascadePath string
	TessdataPrefix   string
	OCRLanguage      string
	DefaultQuality   int
	LogLevel         string
}

// fileConfig mirrors Config for YAML overlays; zero values leave the env setting untouched
type fileConfig struct {
	FetchTimeout     string `yaml:"fetch_timeout"`
	ExportTimeout    string `yaml:"export_timeout"`
	MaxInputBytes    int64  `yaml:"max_input_bytes"`
	FaceCascadePath  string `yaml:"face_cascade_path"`
	PupilCascadePath string `yaml:"pupil_cascade_path"`
	TessdataPrefix   string `yaml:"tessdata_prefix"`
	OCRLanguage      string `yaml:"ocr_language"`
	DefaultQuality   *int   `yaml:"default_quality"`
	LogLevel         string `yaml:"log_level"`
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		FetchTimeout:     parseDurationOrDefault("FETCH_TIMEOUT", 15*time.Second),
		ExportTimeout:    parseDurationOrDefault("EXPORT_TIMEOUT", 30*time.Second),
		MaxInputBytes:    parseIntOrDefault("MAX_INPUT_BYTES", profile.MaxInputBytes),
		FaceCascadePath:  getEnvOrDefault("FACE_CASCADE_PATH", ""),
		PupilCascadePath: getEnvOrDefault("PUPIL_CASCADE_PATH", ""),
		TessdataPrefix:   getEnvOrDefault("TESSDATA_PREFIX", ""),
		OCRLanguage:      getEnvOrDefault("OCR_LANGUAGE", "eng"),
		DefaultQuality:   int(parseIntOrDefault("DEFAULT_QUALITY", 92)),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads env defaults and overlays the YAML file at path
func LoadFile(path string) (*Config, error) {
	cfg, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := cfg.overlay(data); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlay(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}
	if fc.FetchTimeout != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.FetchTimeout))
		if err != nil {
			return fmt.Errorf("fetch_timeout: %w", err)
		}
		c.FetchTimeout = d
	}
	if fc.ExportTimeout != "" {
		d, err := time.ParseDuration(strings.TrimSpace(fc.ExportTimeout))
		if err != nil {
			return fmt.Errorf("export_timeout: %w", err)
		}
		c.ExportTimeout = d
	}
	if fc.MaxInputBytes != 0 {
		c.MaxInputBytes = fc.MaxInputBytes
	}
	if fc.FaceCascadePath != "" {
		c.FaceCascadePath = fc.FaceCascadePath
	}
	if fc.PupilCascadePath != "" {
		c.PupilCascadePath = fc.PupilCascadePath
	}
	if fc.TessdataPrefix != "" {
		c.TessdataPrefix = fc.TessdataPrefix
	}
	if fc.OCRLanguage != "" {
		c.OCRLanguage = fc.OCRLanguage
	}
	if fc.DefaultQuality != nil {
		c.DefaultQuality = *fc.DefaultQuality
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

// Validate rejects settings the tool cannot run with
func (c *Config) Validate() error {
	if c.MaxInputBytes <= 0 || c.MaxInputBytes > profile.MaxInputBytes {
		return fmt.Errorf("MAX_INPUT_BYTES must be in (0, %d] (got %d)", profile.MaxInputBytes, c.MaxInputBytes)
	}
	if c.FetchTimeout <= 0 || c.ExportTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got fetch=%s, export=%s)", c.FetchTimeout, c.ExportTimeout)
	}
	if c.DefaultQuality < 0 || c.DefaultQuality > 100 {
		return fmt.Errorf("DEFAULT_QUALITY must be in [0, 100] (got %d)", c.DefaultQuality)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
