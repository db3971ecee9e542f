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

package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTranscribe(t *testing.T) {
	audio := []byte("fake-webm-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected a file part: %v", err)
		}
		defer file.Close()

		if header.Filename != "clip.webm" {
			t.Errorf("expected filename clip.webm, got %q", header.Filename)
		}

		uploaded, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("failed to read uploaded audio: %v", err)
		}
		if string(uploaded) != string(audio) {
			t.Error("uploaded audio does not match the payload")
		}

		if got := r.FormValue("language"); got != "hi" {
			t.Errorf("expected language hi, got %q", got)
		}
		if got := r.FormValue("response_format"); got != "json" {
			t.Errorf("expected response_format json, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"text": "sandeep came here for checkout our flats"}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "hi", 5*time.Second)

	text, err := client.Transcribe(context.Background(), audio, "clip.webm")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "sandeep came here for checkout our flats" {
		t.Errorf("unexpected transcript: %q", text)
	}
}

func TestTranscribeEmptyTranscriptIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": ""}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)

	text, err := client.Transcribe(context.Background(), []byte("silence"), "clip.webm")
	if err != nil {
		t.Fatalf("expected silence to transcribe to an empty string, got error: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty transcript, got %q", text)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	client := NewClient("http://localhost:8000", "", 5*time.Second)

	if _, err := client.Transcribe(context.Background(), nil, "clip.webm"); err == nil {
		t.Fatal("expected an error for an empty audio payload")
	}
}

func TestTranscribeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)

	if _, err := client.Transcribe(context.Background(), []byte("audio"), "clip.webm"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestTranscribeDefaultFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected a file part: %v", err)
		}
		if header.Filename != "audio.webm" {
			t.Errorf("expected default filename audio.webm, got %q", header.Filename)
		}
		_, _ = w.Write([]byte(`{"text": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)

	if _, err := client.Transcribe(context.Background(), []byte("audio"), ""); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}

	unreachable := NewClient("http://127.0.0.1:1", "", 500*time.Millisecond)
	if err := unreachable.HealthCheck(context.Background()); err == nil {
		t.Error("expected an error for an unreachable service")
	}
}
