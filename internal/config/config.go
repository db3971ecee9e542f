/*
 * This file is part of AI-VoiceEntry (https://github.com/sandysh3090/AI-VoiceEntry).
 * Copyright (C) 2025 AI-VoiceEntry contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the voice entry service
type Config struct {
	Server    ServerConfig
	STT       STTConfig
	Extractor ExtractorConfig
	Store     StoreConfig
	Database  DatabaseConfig
	NATS      NATSConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxAudioSize int64 // maximum accepted audio upload in bytes
}

// STTConfig holds Speech-to-Text service configuration
type STTConfig struct {
	URL      string // REST API URL for OpenAI-compatible STT service
	Language string // empty means auto-detect
	Timeout  time.Duration
}

// ExtractorConfig holds the language-understanding service configuration
type ExtractorConfig struct {
	URL         string  // Ollama-compatible generate API URL
	Model       string  // model to request
	Temperature float64 // sampling temperature, near-deterministic
	Timeout     time.Duration
}

// StoreConfig holds the record store configuration
type StoreConfig struct {
	Path string // JSON document holding all records
}

// DatabaseConfig holds the ingestion audit database configuration
type DatabaseConfig struct {
	Path string
}

// NATSConfig holds NATS messaging configuration
type NATSConfig struct {
	Enabled       bool
	URL           string
	Subject       string
	MaxReconnect  int
	ReconnectWait time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnvString("VOICEENTRY_HOST", "0.0.0.0"),
			Port:         getEnvInt("VOICEENTRY_PORT", 3000),
			ReadTimeout:  getEnvDuration("VOICEENTRY_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("VOICEENTRY_WRITE_TIMEOUT", 60*time.Second),
			MaxAudioSize: getEnvInt64("VOICEENTRY_MAX_AUDIO_SIZE", 20<<20),
		},
		STT: STTConfig{
			URL:      getEnvString("STT_URL", "http://localhost:8000"),
			Language: getEnvString("STT_LANGUAGE", ""),
			Timeout:  getEnvDuration("STT_TIMEOUT", 30*time.Second),
		},
		Extractor: ExtractorConfig{
			URL:         getEnvString("EXTRACTOR_URL", "http://localhost:11434"),
			Model:       getEnvString("EXTRACTOR_MODEL", "llama3.2:3b"),
			Temperature: getEnvFloat64("EXTRACTOR_TEMPERATURE", 0.1),
			Timeout:     getEnvDuration("EXTRACTOR_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Path: getEnvString("STORE_PATH", "./data/entries.json"),
		},
		Database: DatabaseConfig{
			Path: getEnvString("DB_PATH", "./data/voiceentry.db"),
		},
		NATS: NATSConfig{
			Enabled:       getEnvBool("NATS_ENABLED", false),
			URL:           getEnvString("NATS_URL", "nats://localhost:4222"),
			Subject:       getEnvString("NATS_SUBJECT", "voiceentry.records.ingested"),
			MaxReconnect:  getEnvInt("NATS_MAX_RECONNECT", 10),
			ReconnectWait: getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "console"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.MaxAudioSize <= 0 {
		return fmt.Errorf("max audio size must be positive: %d", c.Server.MaxAudioSize)
	}

	if c.STT.URL == "" {
		return fmt.Errorf("STT URL must be provided")
	}

	if c.Extractor.URL == "" {
		return fmt.Errorf("extractor URL must be provided")
	}

	if c.Extractor.Model == "" {
		return fmt.Errorf("extractor model must be provided")
	}

	if c.Extractor.Temperature < 0 || c.Extractor.Temperature > 1 {
		return fmt.Errorf("extractor temperature must be between 0 and 1: %f", c.Extractor.Temperature)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path must be provided")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path must be provided")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
