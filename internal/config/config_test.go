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
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxAudioSize != 20<<20 {
		t.Errorf("expected default max audio size 20MiB, got %d", cfg.Server.MaxAudioSize)
	}
	if cfg.STT.URL != "http://localhost:8000" {
		t.Errorf("unexpected default STT URL: %s", cfg.STT.URL)
	}
	if cfg.Extractor.URL != "http://localhost:11434" {
		t.Errorf("unexpected default extractor URL: %s", cfg.Extractor.URL)
	}
	if cfg.Extractor.Model != "llama3.2:3b" {
		t.Errorf("unexpected default extractor model: %s", cfg.Extractor.Model)
	}
	if cfg.Store.Path != "./data/entries.json" {
		t.Errorf("unexpected default store path: %s", cfg.Store.Path)
	}
	if cfg.NATS.Enabled {
		t.Error("expected NATS disabled by default")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("VOICEENTRY_PORT", "8080")
	t.Setenv("VOICEENTRY_MAX_AUDIO_SIZE", "1048576")
	t.Setenv("STT_URL", "http://stt.internal:9000")
	t.Setenv("STT_LANGUAGE", "hi")
	t.Setenv("EXTRACTOR_MODEL", "mistral:7b")
	t.Setenv("EXTRACTOR_TEMPERATURE", "0.5")
	t.Setenv("EXTRACTOR_TIMEOUT", "45s")
	t.Setenv("STORE_PATH", "/tmp/entries.json")
	t.Setenv("NATS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxAudioSize != 1048576 {
		t.Errorf("expected max audio size 1048576, got %d", cfg.Server.MaxAudioSize)
	}
	if cfg.STT.URL != "http://stt.internal:9000" {
		t.Errorf("unexpected STT URL: %s", cfg.STT.URL)
	}
	if cfg.STT.Language != "hi" {
		t.Errorf("unexpected STT language: %s", cfg.STT.Language)
	}
	if cfg.Extractor.Model != "mistral:7b" {
		t.Errorf("unexpected extractor model: %s", cfg.Extractor.Model)
	}
	if cfg.Extractor.Temperature != 0.5 {
		t.Errorf("unexpected extractor temperature: %f", cfg.Extractor.Temperature)
	}
	if cfg.Extractor.Timeout != 45*time.Second {
		t.Errorf("unexpected extractor timeout: %v", cfg.Extractor.Timeout)
	}
	if cfg.Store.Path != "/tmp/entries.json" {
		t.Errorf("unexpected store path: %s", cfg.Store.Path)
	}
	if !cfg.NATS.Enabled {
		t.Error("expected NATS enabled")
	}
}

func TestLoadMalformedValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("VOICEENTRY_PORT", "not-a-number")
	t.Setenv("EXTRACTOR_TEMPERATURE", "hot")
	t.Setenv("NATS_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port for malformed value, got %d", cfg.Server.Port)
	}
	if cfg.Extractor.Temperature != 0.1 {
		t.Errorf("expected default temperature for malformed value, got %f", cfg.Extractor.Temperature)
	}
	if cfg.NATS.Enabled {
		t.Error("expected default NATS enabled=false for malformed value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port too large", "VOICEENTRY_PORT", "70000"},
		{"negative audio size", "VOICEENTRY_MAX_AUDIO_SIZE", "-1"},
		{"temperature out of range", "EXTRACTOR_TEMPERATURE", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected Load to reject %s=%s", tt.key, tt.value)
			}
		})
	}
}
