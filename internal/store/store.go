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

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/records"

	"go.uber.org/zap"
)

// RecordStore is the append-only log of voice entries, persisted as one JSON
// document holding the whole collection. Every append is a read-modify-write
// of the full document; a store-level mutex serializes writers so overlapping
// ingestions cannot lose updates.
type RecordStore struct {
	path string
	mu   sync.Mutex
}

// DayHistory is one calendar day of records partitioned by kind, each
// partition in append order. The slices are always non-nil so the JSON
// rendering is an array even when empty.
type DayHistory struct {
	Visitors []records.Record `json:"visitors"`
	General  []records.Record `json:"general"`
	Expenses []records.Record `json:"expenses"`
}

// CorruptError reports a backing document that cannot be parsed. The store
// performs no automatic repair.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("record store document %s is corrupted: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// NewRecordStore opens the store at path, creating an empty collection on
// first run
func NewRecordStore(path string) (*RecordStore, error) {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			return nil, fmt.Errorf("failed to initialize store document: %w", err)
		}
		logging.LogStoreOperation("initialize", zap.String("path", path))
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat store document: %w", err)
	}

	return &RecordStore{path: path}, nil
}

// Append adds one record to the end of the collection. Records are immutable
// once appended; there is no update or delete.
func (s *RecordStore) Append(rec *records.Record) error {
	if err := rec.IsValid(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}

	all = append(all, *rec)

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store document: %w", err)
	}

	logging.LogStoreOperation("append",
		zap.String("record_id", rec.ID),
		zap.String("type", string(rec.Type)),
		zap.Int("total_records", len(all)),
	)

	return nil
}

// ReadToday returns the records created on the current UTC calendar date,
// partitioned by kind in append order
func (s *RecordStore) ReadToday(now time.Time) (*DayHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	today := now.UTC().Format("2006-01-02")

	history := &DayHistory{
		Visitors: []records.Record{},
		General:  []records.Record{},
		Expenses: []records.Record{},
	}

	for _, rec := range all {
		if rec.CreatedDate() != today {
			continue
		}

		switch rec.Type {
		case records.KindVisitor:
			history.Visitors = append(history.Visitors, rec)
		case records.KindGeneral:
			history.General = append(history.General, rec)
		case records.KindExpense:
			history.Expenses = append(history.Expenses, rec)
		}
		// Records of any other kind were written by something else entirely;
		// they belong to no partition.
	}

	return history, nil
}

// Path returns the backing document path
func (s *RecordStore) Path() string {
	return s.path
}

// readAll loads the whole collection. Callers must hold the mutex.
func (s *RecordStore) readAll() ([]records.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// The document can disappear between startup and use; treat it as
			// the empty collection the next write will recreate.
			return []records.Record{}, nil
		}
		return nil, fmt.Errorf("failed to read store document: %w", err)
	}

	var all []records.Record
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}

	return all, nil
}

// ensureDir creates directory if it doesn't exist
func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0750)
}
