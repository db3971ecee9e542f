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

package ingest

import (
	"context"
	"time"

	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/records"
	"github.com/sandysh3090/AI-VoiceEntry/internal/storage"
	"github.com/sandysh3090/AI-VoiceEntry/internal/store"

	"go.uber.org/zap"
)

// Transcriber turns a captured audio payload into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Extractor turns a transcript into a classified, normalized record
type Extractor interface {
	Extract(ctx context.Context, transcript string) (*records.Record, error)
}

// Publisher announces an ingested record to downstream consumers
type Publisher interface {
	PublishRecordIngested(rec *records.Record) error
}

// AuditLog records ingestion attempts for observability
type AuditLog interface {
	Insert(event *storage.IngestionEvent) error
}

// Result is what a successful ingestion returns to the caller
type Result struct {
	Message string          `json:"message"`
	Record  *records.Record `json:"entry"`
}

// Orchestrator coordinates the voice-to-record pipeline: transcribe, extract,
// finalize, persist, announce. One call handles one audio payload; nothing is
// retried and nothing is idempotent: the same audio submitted twice yields
// two records.
type Orchestrator struct {
	transcriber Transcriber
	extractor   Extractor
	store       *store.RecordStore

	// optional collaborators
	audit     AuditLog
	publisher Publisher
}

// NewOrchestrator creates an orchestrator over the required collaborators
func NewOrchestrator(transcriber Transcriber, extractor Extractor, recordStore *store.RecordStore) *Orchestrator {
	return &Orchestrator{
		transcriber: transcriber,
		extractor:   extractor,
		store:       recordStore,
	}
}

// SetAuditLog attaches the ingestion audit log. Audit writes are best-effort
// and never fail the request.
func (o *Orchestrator) SetAuditLog(audit AuditLog) {
	o.audit = audit
}

// SetPublisher attaches an event publisher. Publish failures are logged and
// never fail the request.
func (o *Orchestrator) SetPublisher(publisher Publisher) {
	o.publisher = publisher
}

// Ingest runs the full pipeline for one audio payload
func (o *Orchestrator) Ingest(ctx context.Context, audio []byte, filename string) (*Result, error) {
	event := storage.NewIngestionEvent()

	if len(audio) == 0 {
		event.SetError(ErrMissingAudio)
		o.recordAudit(event)
		return nil, ErrMissingAudio
	}

	transcript, err := o.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		event.SetError(err)
		o.recordAudit(event)
		return nil, &UpstreamError{Service: ServiceTranscription, Err: err}
	}
	event.Transcript = transcript

	rec, err := o.extractor.Extract(ctx, transcript)
	if err != nil {
		event.SetError(err)
		o.recordAudit(event)
		return nil, &UpstreamError{Service: ServiceExtraction, Err: err}
	}

	rec.Finalize(time.Now())

	if err := o.store.Append(rec); err != nil {
		event.SetError(err)
		o.recordAudit(event)
		return nil, err
	}

	event.SetResult(string(rec.Type), rec.ID)
	o.recordAudit(event)

	if o.publisher != nil {
		if err := o.publisher.PublishRecordIngested(rec); err != nil {
			logging.LogWarn("Failed to publish ingested record",
				zap.String("record_id", rec.ID),
				zap.Error(err),
			)
		}
	}

	logging.LogIngestion("completed",
		zap.String("record_id", rec.ID),
		zap.String("type", string(rec.Type)),
		zap.Int("transcript_length", len(transcript)),
		zap.Int64("processing_ms", event.ProcessingMs),
	)

	return &Result{
		Message: rec.Type.SuccessMessage(),
		Record:  rec,
	}, nil
}

func (o *Orchestrator) recordAudit(event *storage.IngestionEvent) {
	if o.audit == nil {
		return
	}

	if err := o.audit.Insert(event); err != nil {
		logging.LogWarn("Failed to record ingestion event",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}
