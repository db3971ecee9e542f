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
	"net/http"
	"strconv"
	"time"

	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/storage"
)

// IngestionsHandler serves the ingestion audit log over HTTP
type IngestionsHandler struct {
	log *storage.IngestionLog
}

// NewIngestionsHandler creates a new audit log handler
func NewIngestionsHandler(log *storage.IngestionLog) *IngestionsHandler {
	return &IngestionsHandler{log: log}
}

// ListIngestionsResponse is the envelope for listing ingestion events
type ListIngestionsResponse struct {
	Events     []*storage.IngestionEvent `json:"events"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	TotalPages int                       `json:"total_pages"`
}

// HandleIngestions handles GET /api/ingestions
func (h *IngestionsHandler) HandleIngestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	page := parseIntParam(query.Get("page"), 1)
	pageSize := parseIntParam(query.Get("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100 // Limit maximum page size
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	options := storage.ListOptions{
		Kind:   query.Get("kind"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	if successStr := query.Get("success"); successStr != "" {
		if success, err := strconv.ParseBool(successStr); err == nil {
			options.Success = &success
		}
	}

	if startTimeStr := query.Get("start_time"); startTimeStr != "" {
		if startTime, err := time.Parse(time.RFC3339, startTimeStr); err == nil {
			options.StartTime = &startTime
		}
	}
	if endTimeStr := query.Get("end_time"); endTimeStr != "" {
		if endTime, err := time.Parse(time.RFC3339, endTimeStr); err == nil {
			options.EndTime = &endTime
		}
	}

	total, err := h.log.Count(options)
	if err != nil {
		logging.LogError(err, "Failed to count ingestion events")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	events, err := h.log.List(options)
	if err != nil {
		logging.LogError(err, "Failed to list ingestion events")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []*storage.IngestionEvent{}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	response := ListIngestionsResponse{
		Events:     events,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(err, "Failed to write ingestions response")
	}
}

// parseIntParam parses integer parameter with default value
func parseIntParam(param string, defaultValue int) int {
	if param == "" {
		return defaultValue
	}

	if value, err := strconv.Atoi(param); err == nil {
		return value
	}

	return defaultValue
}
