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

package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IngestionEvent is one audited ingestion attempt
type IngestionEvent struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Transcript   string    `json:"transcript"`
	Kind         string    `json:"kind"`
	RecordID     string    `json:"record_id,omitempty"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	ProcessingMs int64     `json:"processing_ms"`
}

// NewIngestionEvent creates an event with generated ID and current timestamp
func NewIngestionEvent() *IngestionEvent {
	return &IngestionEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// SetError marks the event as failed
func (e *IngestionEvent) SetError(err error) {
	e.Success = false
	e.ErrorMessage = err.Error()
	e.ProcessingMs = time.Since(e.Timestamp).Milliseconds()
}

// SetResult records the outcome of a successful ingestion
func (e *IngestionEvent) SetResult(kind, recordID string) {
	e.Kind = kind
	e.RecordID = recordID
	e.ProcessingMs = time.Since(e.Timestamp).Milliseconds()
}

// IngestionLog handles database operations for ingestion events
type IngestionLog struct {
	db *Database
}

// NewIngestionLog creates a new ingestion log store
func NewIngestionLog(db *Database) *IngestionLog {
	return &IngestionLog{db: db}
}

// Insert stores a new ingestion event
func (l *IngestionLog) Insert(event *IngestionEvent) error {
	if event.ID == "" {
		return fmt.Errorf("invalid ingestion event: id is required")
	}

	query := `
		INSERT INTO ingestion_events (
			id, timestamp, transcript, kind,
			record_id, success, error_message, processing_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := l.db.DB().Exec(query,
		event.ID, event.Timestamp, event.Transcript, event.Kind,
		event.RecordID, event.Success, event.ErrorMessage, event.ProcessingMs,
	)

	if err != nil {
		return fmt.Errorf("failed to insert ingestion event: %w", err)
	}

	return nil
}

// ListOptions defines filtering and pagination options
type ListOptions struct {
	// Filtering
	Kind      string
	Success   *bool // nil = all, true = success only, false = errors only
	StartTime *time.Time
	EndTime   *time.Time

	// Pagination
	Limit  int
	Offset int
}

// List retrieves ingestion events, newest first
func (l *IngestionLog) List(options ListOptions) ([]*IngestionEvent, error) {
	query, args := buildListQuery(options)

	rows, err := l.db.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion events: %w", err)
	}
	defer rows.Close()

	var eventsList []*IngestionEvent
	for rows.Next() {
		event, err := scanIngestionEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingestion event: %w", err)
		}
		eventsList = append(eventsList, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingestion events: %w", err)
	}

	return eventsList, nil
}

// Count returns the total number of events matching the filter
func (l *IngestionLog) Count(options ListOptions) (int64, error) {
	options.Limit = 0
	options.Offset = 0
	query, args := buildListQuery(options)

	countQuery := "SELECT COUNT(*) FROM (" + query + ") as filtered"

	var count int64
	if err := l.db.DB().QueryRow(countQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ingestion events: %w", err)
	}

	return count, nil
}

// GetByID retrieves an ingestion event by its ID
func (l *IngestionLog) GetByID(id string) (*IngestionEvent, error) {
	query := `
		SELECT id, timestamp, transcript, kind,
			   record_id, success, error_message, processing_ms
		FROM ingestion_events
		WHERE id = ?`

	row := l.db.DB().QueryRow(query, id)
	return scanIngestionEvent(row)
}

// buildListQuery constructs the SQL query based on ListOptions
func buildListQuery(options ListOptions) (string, []interface{}) {
	query := `
		SELECT id, timestamp, transcript, kind,
			   record_id, success, error_message, processing_ms
		FROM ingestion_events WHERE 1=1`

	var args []interface{}

	if options.Kind != "" {
		query += " AND kind = ?"
		args = append(args, options.Kind)
	}

	if options.Success != nil {
		query += " AND success = ?"
		args = append(args, *options.Success)
	}

	if options.StartTime != nil {
		query += " AND timestamp >= ?"
		args = append(args, options.StartTime)
	}

	if options.EndTime != nil {
		query += " AND timestamp <= ?"
		args = append(args, options.EndTime)
	}

	query += " ORDER BY timestamp DESC"

	if options.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, options.Limit)

		if options.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, options.Offset)
		}
	}

	return query, args
}

// scanIngestionEvent scans a database row into an IngestionEvent
func scanIngestionEvent(scanner interface {
	Scan(dest ...interface{}) error
}) (*IngestionEvent, error) {
	var event IngestionEvent

	err := scanner.Scan(
		&event.ID, &event.Timestamp, &event.Transcript, &event.Kind,
		&event.RecordID, &event.Success, &event.ErrorMessage, &event.ProcessingMs,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ingestion event not found")
		}
		return nil, err
	}

	return &event, nil
}
