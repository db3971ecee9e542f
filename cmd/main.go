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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandysh3090/AI-VoiceEntry/internal/api"
	"github.com/sandysh3090/AI-VoiceEntry/internal/config"
	"github.com/sandysh3090/AI-VoiceEntry/internal/extract"
	"github.com/sandysh3090/AI-VoiceEntry/internal/ingest"
	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/messaging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/server"
	"github.com/sandysh3090/AI-VoiceEntry/internal/storage"
	"github.com/sandysh3090/AI-VoiceEntry/internal/store"
	"github.com/sandysh3090/AI-VoiceEntry/internal/transcribe"
)

func main() {
	// Initialize structured logging
	if err := logging.Initialize(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		logging.LogError(err, "Invalid configuration")
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Record store is the source of truth for entries
	recordStore, err := store.NewRecordStore(cfg.Store.Path)
	if err != nil {
		logging.LogError(err, "Failed to open record store")
		log.Fatalf("Failed to open record store: %v", err)
	}

	// SQLite audit log for ingestion attempts
	db, err := storage.NewDatabase(storage.DatabaseConfig{Path: cfg.Database.Path})
	if err != nil {
		logging.LogError(err, "Failed to open database")
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	auditLog := storage.NewIngestionLog(db)

	transcriber := transcribe.NewClient(cfg.STT.URL, cfg.STT.Language, cfg.STT.Timeout)

	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 5*time.Second)
	if err := transcriber.HealthCheck(healthCtx); err != nil {
		logging.Sugar.Warnw("⚠️  STT service not reachable, transcription will fail until it comes up",
			"url", cfg.STT.URL,
			"error", err,
		)
	}
	cancelHealth()

	extractor := extract.NewEngine(cfg.Extractor.URL, cfg.Extractor.Model, cfg.Extractor.Temperature, cfg.Extractor.Timeout)

	orchestrator := ingest.NewOrchestrator(transcriber, extractor, recordStore)
	orchestrator.SetAuditLog(auditLog)

	var publisher *messaging.RecordPublisher
	if cfg.NATS.Enabled {
		publisher = messaging.NewRecordPublisher(cfg.NATS.URL, cfg.NATS.Subject, cfg.NATS.MaxReconnect, cfg.NATS.ReconnectWait)
		if err := publisher.Connect(); err != nil {
			logging.Sugar.Warnw("⚠️  NATS unavailable, continuing without event publishing", "error", err)
			publisher = nil
		} else {
			orchestrator.SetPublisher(publisher)
			defer publisher.Close()
		}
	}

	ingestionsHandler := api.NewIngestionsHandler(auditLog)

	srv := server.New(cfg, orchestrator, recordStore, ingestionsHandler)

	logging.Sugar.Infow("🚀 voiceentry starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"store_path", cfg.Store.Path,
		"db_path", cfg.Database.Path,
	)

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Sugar.Infow("Received shutdown signal", "signal", sig.String())
		if err := srv.Stop(); err != nil {
			logging.LogError(err, "Server shutdown failed")
		}
	case err := <-done:
		if err != nil {
			logging.LogError(err, "Failed to start server")
			log.Fatalf("Failed to start server: %v", err)
		}
	}
}
