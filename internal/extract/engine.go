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

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandysh3090/AI-VoiceEntry/internal/logging"
	"github.com/sandysh3090/AI-VoiceEntry/internal/records"
)

// Engine turns a transcript into a classified record using a
// language-understanding service. Content-level malformation of the service
// output is never an error: it is absorbed by the fallback ladder. Only the
// call itself failing is fatal.
type Engine struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

// Ollama-compatible generate API payloads
type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Format  string           `json:"format,omitempty"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewEngine creates a new extraction engine
func NewEngine(baseURL, model string, temperature float64, timeout time.Duration) *Engine {
	return &Engine{
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Extract classifies the transcript into one of the three record kinds and
// pulls out its typed fields. The returned record is normalized but not yet
// finalized (no id or createdAt).
func (e *Engine) Extract(ctx context.Context, transcript string) (*records.Record, error) {
	prompt := buildPrompt(transcript)

	raw, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	rec := ParseModelOutput(raw)
	if rec == nil || !knownKind(rec.Type) {
		// The model output did not establish a kind. Classify the original
		// transcript by vocabulary and re-extract that kind's fields from it.
		kind := ClassifyTranscript(transcript)
		rec = ExtractFromTranscript(transcript, kind)

		if logging.Sugar != nil {
			logging.Sugar.Infow("Extraction fell back to transcript heuristics",
				"kind", kind,
				"raw_length", len(raw),
			)
		}
	}

	rec.Normalize()
	return rec, nil
}

// buildPrompt creates the structured extraction prompt for one transcript
func buildPrompt(transcript string) string {
	return fmt.Sprintf(`You are a voice entry parser for a daily log. The input below is a transcript of one short spoken note. If the transcript is not in English, translate it to English first, and echo the original Hindi/Urdu wording in the matching *Hindi fields.

Transcript: "%s"

Classify the transcript as exactly one of three entry kinds:
- visitor: someone arrived or checked in. Example: "sandeep came here for checkout our flats" -> {"type": "visitor", "name": "sandeep", "purpose": "checkout our flats"}
- general: a reminder, meeting or note. Example: "need to connect with bhavna on app status at 4 PM" -> {"type": "general", "details": "need to connect with bhavna on app status", "datetime": "4 PM"}
- expense: money spent or an item bought. Example: "Buy 2 kg Milk in 50 Rs" -> {"type": "expense", "item": "2 kg Milk", "amount": "50"}

Respond with ONLY a JSON object in this exact schema; every field except "type" is optional:
{
  "type": "visitor | general | expense",
  "name": "", "nameHindi": "",
  "mobile": "",
  "purpose": "", "purposeHindi": "",
  "details": "", "detailsHindi": "",
  "item": "", "itemHindi": "",
  "amount": "",
  "datetime": "", "datetimeHindi": ""
}

Rules:
- All values must be strings.
- visitor entries use name, mobile and purpose; general entries use details and datetime; expense entries use item, amount and datetime.
- The *Hindi fields carry the original-language wording for their field when the speaker used Hindi or Urdu; leave them empty otherwise.
- Leave any field you cannot determine empty.
- Only respond with the JSON object, no other text.`, transcript)
}

// generate sends a single non-streaming request to the generate API
func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  e.model,
		Prompt: prompt,
		Stream: false,
		Format: "json",
		Options: &generateOptions{
			Temperature: e.temperature,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request to extractor: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.LogWarn("failed to close extractor response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extractor API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	return genResp.Response, nil
}

func knownKind(k records.Kind) bool {
	_, ok := records.KindFromString(string(k))
	return ok
}
