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

package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sandysh3090/AI-VoiceEntry/internal/ingest"
	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
)

// handleRoot identifies the service
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"service": "voiceentry",
		"status":  "running",
	})
}

// handleHealth is the liveness endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVoice accepts one recorded clip and runs it through the pipeline.
// The response always carries a "message" field; on success it also carries
// the persisted record under "entry".
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(s.cfg.Server.MaxAudioSize); err != nil {
		logging.LogWarn("Failed to parse multipart form", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "No audio file uploaded")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No audio file uploaded")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		logging.LogError(err, "Failed to read uploaded audio")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	result, err := s.orchestrator.Ingest(r.Context(), audio, header.Filename)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleHistory returns today's records partitioned by kind
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	history, err := s.recordStore.ReadToday(time.Now())
	if err != nil {
		logging.LogError(err, "Failed to read today's history")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// writeIngestError maps pipeline errors to HTTP responses. Only a missing
// audio payload is the client's fault; everything else is a 500.
func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	if errors.Is(err, ingest.ErrMissingAudio) {
		writeMessage(w, http.StatusBadRequest, "No audio file uploaded")
		return
	}

	var upstream *ingest.UpstreamError
	if errors.As(err, &upstream) {
		logging.LogError(err, "Upstream service failure", zap.String("service", upstream.Service))
		writeMessage(w, http.StatusInternalServerError, upstream.Error())
		return
	}

	logging.LogError(err, "Ingestion failed")
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}
