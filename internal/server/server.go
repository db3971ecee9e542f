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
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sandysh3090/AI-VoiceEntry/internal/api"
	"github.com/sandysh3090/AI-VoiceEntry/internal/config"
	"github.com/sandysh3090/AI-VoiceEntry/internal/ingest"
	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/store"
)

// Server is the HTTP front of the voice entry service
type Server struct {
	cfg    *config.Config
	mux    *http.ServeMux
	server *http.Server

	orchestrator *ingest.Orchestrator
	recordStore  *store.RecordStore
	ingestions   *api.IngestionsHandler

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server over the ingestion pipeline. The ingestions
// handler is optional; the route is omitted when it is nil.
func New(cfg *config.Config, orchestrator *ingest.Orchestrator, recordStore *store.RecordStore, ingestions *api.IngestionsHandler) *Server {
	mux := http.NewServeMux()

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:          cfg,
		mux:          mux,
		orchestrator: orchestrator,
		recordStore:  recordStore,
		ingestions:   ingestions,
		ctx:          ctx,
		cancel:       cancel,
	}

	s.server = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      withCORS(withRequestLog(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.routes()

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logging.Sugar.Infow("🚀 Voice entry server starting",
		"addr", s.server.Addr,
		"store_path", s.cfg.Store.Path,
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	logging.Sugar.Infow("🛑 Shutting down voice entry server")

	s.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logging.Sugar.Infow("✅ Voice entry server shut down successfully")
	return nil
}

// routes sets up HTTP routing
func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/voice", s.handleVoice)
	s.mux.HandleFunc("/history", s.handleHistory)

	if s.ingestions != nil {
		s.mux.HandleFunc("/api/ingestions", s.ingestions.HandleIngestions)
	}

	logging.Sugar.Infow("🌐 HTTP routes configured",
		"voice_endpoint", "/voice",
		"history_endpoint", "/history",
	)
}

// Middleware

// withCORS allows the capture front ends (page and extension) to call the API
// from any origin, matching the original deployment
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestLog logs every request method and path
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		if logging.Sugar != nil {
			logging.Sugar.Infow("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.LogError(err, "Failed to write JSON response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
