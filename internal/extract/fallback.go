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

// The fallback ladder recovers structure from unreliable model output in
// strictly cheaper, strictly less accurate steps: direct JSON decode, embedded
// JSON scrape, per-field regex scrape of the model text, and finally keyword
// classification plus kind-specific regex extraction against the original
// transcript. Each step only runs when the one before it failed.

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/sandysh3090/AI-VoiceEntry/internal/records"
)

// wireResult mirrors the schema the extractor is asked to emit. Amount is
// kept raw because models sometimes emit it as a bare number.
type wireResult struct {
	Type          string          `json:"type"`
	Name          string          `json:"name"`
	NameHindi     string          `json:"nameHindi"`
	Mobile        string          `json:"mobile"`
	Purpose       string          `json:"purpose"`
	PurposeHindi  string          `json:"purposeHindi"`
	Details       string          `json:"details"`
	DetailsHindi  string          `json:"detailsHindi"`
	Item          string          `json:"item"`
	ItemHindi     string          `json:"itemHindi"`
	Amount        json.RawMessage `json:"amount"`
	Datetime      string          `json:"datetime"`
	DatetimeHindi string          `json:"datetimeHindi"`
}

// scrapable fields, in schema order, for the per-field regex pass
var scrapeFieldNames = []string{
	"type", "name", "nameHindi", "mobile", "purpose", "purposeHindi",
	"details", "detailsHindi", "item", "itemHindi", "amount",
	"datetime", "datetimeHindi",
}

var scrapeFieldPatterns = buildScrapePatterns()

var bareAmountPattern = regexp.MustCompile(`"amount"\s*:\s*([0-9]+(?:\.[0-9]+)?)`)

// transcript extraction patterns, one small set per kind
var (
	visitorNamePattern = regexp.MustCompile(`(?i)^\s*(?:mr\.?\s+|mrs\.?\s+|ms\.?\s+)?([a-z]+)\s+(?:came|come|has\s+come|is\s+here|visited|arrived|aya|aaya)`)
	mobilePattern      = regexp.MustCompile(`(\+?\d[\d\s-]{8,}\d)`)
	purposePattern     = regexp.MustCompile(`(?i)\bfor\s+(.+?)\s*$`)

	itemPattern     = regexp.MustCompile(`(?i)(?:buy|bought|purchased?|kharida|kharidi)\s+(.+?)(?:\s+(?:in|for|at|of)\s+(?:rs\.?|₹)?\s*\d.*)?$`)
	amountSuffixed  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:rs\.?|rupees?|rupaye|inr|₹)`)
	amountPrefixed  = regexp.MustCompile(`(?i)(?:rs\.?|rupees?|inr|₹)\s*(\d+(?:\.\d+)?)`)
	datetimePattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:[:.]\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)|today|tomorrow|yesterday|tonight|morning|afternoon|evening|\d{1,2}\s*baje)\b`)
)

// vocabulary for kind classification of the raw transcript. English plus
// romanized and Devanagari Hindi/Urdu tokens.
var expenseVocabulary = tokenSet(
	"buy", "bought", "purchase", "purchased", "spent", "spend", "paid", "pay",
	"price", "cost", "rs", "rupees", "rupee", "inr",
	"kharida", "kharidi", "kharcha", "kharch", "paisa", "paise", "rupaye", "rupya",
	"खरीदा", "खरीदी", "खर्च", "खर्चा", "रुपये", "रुपया", "पैसे", "पैसा",
)

var generalVocabulary = tokenSet(
	"meet", "meeting", "call", "connect", "discuss", "discussion",
	"remind", "reminder", "appointment", "schedule", "message", "followup",
	"baat", "milna", "milne", "yaad", "baithak",
	"बात", "मिलना", "मिलने", "याद", "बैठक", "फोन",
)

// ParseModelOutput attempts to recover a record from raw model output. It
// returns nil when no step of the model-text ladder yields anything; the
// returned record may still carry an empty or unrecognized Type, which the
// caller resolves against the original transcript.
func ParseModelOutput(raw string) *records.Record {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if rec := decodeWire(raw); rec != nil {
		return rec
	}

	// Models sometimes wrap the object in prose or markdown fences
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end != -1 && start < end {
		if rec := decodeWire(raw[start : end+1]); rec != nil {
			return rec
		}
	}

	return scrapeFields(raw)
}

// decodeWire parses a candidate JSON object into a record
func decodeWire(candidate string) *records.Record {
	var wire wireResult
	if err := json.Unmarshal([]byte(candidate), &wire); err != nil {
		return nil
	}

	rec := &records.Record{
		Type:          records.Kind(strings.ToLower(strings.TrimSpace(wire.Type))),
		Name:          wire.Name,
		NameHindi:     wire.NameHindi,
		Mobile:        wire.Mobile,
		Purpose:       wire.Purpose,
		PurposeHindi:  wire.PurposeHindi,
		Details:       wire.Details,
		DetailsHindi:  wire.DetailsHindi,
		Item:          wire.Item,
		ItemHindi:     wire.ItemHindi,
		Amount:        rawAmountString(wire.Amount),
		Datetime:      wire.Datetime,
		DatetimeHindi: wire.DatetimeHindi,
	}

	if rec.Type == "" && isEmpty(rec) {
		return nil
	}
	return rec
}

// scrapeFields pulls individual `"field": "value"` fragments out of text that
// would not parse as JSON at all
func scrapeFields(raw string) *records.Record {
	values := make(map[string]string, len(scrapeFieldNames))
	for _, name := range scrapeFieldNames {
		if m := scrapeFieldPatterns[name].FindStringSubmatch(raw); m != nil {
			values[name] = m[1]
		}
	}

	if values["amount"] == "" {
		if m := bareAmountPattern.FindStringSubmatch(raw); m != nil {
			values["amount"] = m[1]
		}
	}

	if len(values) == 0 {
		return nil
	}

	return &records.Record{
		Type:          records.Kind(strings.ToLower(values["type"])),
		Name:          values["name"],
		NameHindi:     values["nameHindi"],
		Mobile:        values["mobile"],
		Purpose:       values["purpose"],
		PurposeHindi:  values["purposeHindi"],
		Details:       values["details"],
		DetailsHindi:  values["detailsHindi"],
		Item:          values["item"],
		ItemHindi:     values["itemHindi"],
		Amount:        values["amount"],
		Datetime:      values["datetime"],
		DatetimeHindi: values["datetimeHindi"],
	}
}

// ClassifyTranscript resolves a record kind from the original transcript by
// vocabulary. Purchase/currency words select expense, meeting/communication
// words select general, anything else defaults to visitor, the historically
// most common entry kind.
func ClassifyTranscript(transcript string) records.Kind {
	if strings.Contains(transcript, "₹") {
		return records.KindExpense
	}

	for _, token := range tokenize(transcript) {
		if _, ok := expenseVocabulary[token]; ok {
			return records.KindExpense
		}
	}

	for _, token := range tokenize(transcript) {
		if _, ok := generalVocabulary[token]; ok {
			return records.KindGeneral
		}
	}

	return records.KindVisitor
}

// ExtractFromTranscript populates the primary fields of the given kind by
// pattern matching against the original transcript
func ExtractFromTranscript(transcript string, kind records.Kind) *records.Record {
	rec := &records.Record{Type: kind}
	t := strings.TrimSpace(transcript)

	switch kind {
	case records.KindVisitor:
		if m := visitorNamePattern.FindStringSubmatch(t); m != nil {
			rec.Name = m[1]
		}
		if m := mobilePattern.FindStringSubmatch(t); m != nil {
			rec.Mobile = strings.TrimSpace(m[1])
		}
		if m := purposePattern.FindStringSubmatch(t); m != nil {
			rec.Purpose = strings.Trim(m[1], " .!?,")
		}
	case records.KindGeneral:
		rec.Details = t
		if m := datetimePattern.FindStringSubmatch(t); m != nil {
			rec.Datetime = m[1]
		}
	case records.KindExpense:
		if m := itemPattern.FindStringSubmatch(t); m != nil {
			rec.Item = strings.Trim(m[1], " .!?,")
		}
		if m := amountSuffixed.FindStringSubmatch(t); m != nil {
			rec.Amount = m[1]
		} else if m := amountPrefixed.FindStringSubmatch(t); m != nil {
			rec.Amount = m[1]
		}
		if m := datetimePattern.FindStringSubmatch(t); m != nil {
			rec.Datetime = m[1]
		}
	}

	return rec
}

func buildScrapePatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(scrapeFieldNames))
	for _, name := range scrapeFieldNames {
		patterns[name] = regexp.MustCompile(`"` + name + `"\s*:\s*"([^"]*)"`)
	}
	return patterns
}

func rawAmountString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}

func isEmpty(rec *records.Record) bool {
	return rec.Name == "" && rec.Mobile == "" && rec.Purpose == "" &&
		rec.Details == "" && rec.Item == "" && rec.Amount == "" && rec.Datetime == ""
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
