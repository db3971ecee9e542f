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

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sandysh3090/AI-VoiceEntry/internal/storage"
)

func newTestHandler(t *testing.T) *IngestionsHandler {
	t.Helper()

	db, err := storage.NewDatabase(storage.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	log := storage.NewIngestionLog(db)

	for i := 0; i < 3; i++ {
		event := storage.NewIngestionEvent()
		event.SetResult("visitor", "")
		if err := log.Insert(event); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	failed := storage.NewIngestionEvent()
	failed.SetError(errors.New("no audio file uploaded"))
	if err := log.Insert(failed); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	return NewIngestionsHandler(log)
}

func TestHandleIngestions(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ingestions", nil)
	recorder := httptest.NewRecorder()
	handler.HandleIngestions(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var response ListIngestionsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Total != 4 {
		t.Errorf("expected total 4, got %d", response.Total)
	}
	if len(response.Events) != 4 {
		t.Errorf("expected 4 events, got %d", len(response.Events))
	}
	if response.Page != 1 || response.PageSize != 20 {
		t.Errorf("unexpected pagination defaults: page=%d page_size=%d", response.Page, response.PageSize)
	}
}

func TestHandleIngestionsFiltered(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ingestions?success=false", nil)
	recorder := httptest.NewRecorder()
	handler.HandleIngestions(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var response ListIngestionsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Total != 1 {
		t.Errorf("expected 1 failed event, got %d", response.Total)
	}
	if len(response.Events) != 1 || response.Events[0].Success {
		t.Errorf("unexpected events: %+v", response.Events)
	}
}

func TestHandleIngestionsPagination(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ingestions?page=2&page_size=3", nil)
	recorder := httptest.NewRecorder()
	handler.HandleIngestions(recorder, req)

	var response ListIngestionsResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Total != 4 || response.TotalPages != 2 {
		t.Errorf("expected total 4 over 2 pages, got total=%d pages=%d", response.Total, response.TotalPages)
	}
	if len(response.Events) != 1 {
		t.Errorf("expected 1 event on the final page, got %d", len(response.Events))
	}
}

func TestHandleIngestionsMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ingestions", nil)
	recorder := httptest.NewRecorder()
	handler.HandleIngestions(recorder, req)

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", recorder.Code)
	}
}
