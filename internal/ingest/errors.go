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
	"errors"
	"fmt"
)

// ErrMissingAudio reports a request that carried no audio payload. It is the
// only client-attributable ingestion failure.
var ErrMissingAudio = errors.New("no audio file uploaded")

// Upstream service names used in error reporting
const (
	ServiceTranscription = "transcription"
	ServiceExtraction    = "extraction"
)

// UpstreamError wraps a transport-level failure of one of the external
// services the pipeline depends on. Content-level malformation of service
// output never produces one of these; it is absorbed by the extraction
// fallback ladder.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service error: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
