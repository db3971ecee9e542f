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

package records

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the three record shapes
type Kind string

const (
	KindVisitor Kind = "visitor"
	KindGeneral Kind = "general"
	KindExpense Kind = "expense"
)

// Unknown is the placeholder for any primary field extraction could not determine
const Unknown = "Unknown"

// Record is one persisted voice entry. The type tag selects which of the
// kind-specific fields are populated; the wire format keeps them flat so the
// front end and the JSON document read the same shape.
type Record struct {
	ID        string `json:"id"`
	Type      Kind   `json:"type"`
	CreatedAt string `json:"createdAt"`

	// visitor fields
	Name         string `json:"name,omitempty"`
	NameHindi    string `json:"nameHindi,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	PurposeHindi string `json:"purposeHindi,omitempty"`

	// general fields
	Details      string `json:"details,omitempty"`
	DetailsHindi string `json:"detailsHindi,omitempty"`

	// expense fields
	Item      string `json:"item,omitempty"`
	ItemHindi string `json:"itemHindi,omitempty"`
	Amount    string `json:"amount,omitempty"`

	// shared by general and expense
	Datetime      string `json:"datetime,omitempty"`
	DatetimeHindi string `json:"datetimeHindi,omitempty"`
}

// KindFromString maps a raw type tag to a known kind
func KindFromString(s string) (Kind, bool) {
	switch Kind(s) {
	case KindVisitor, KindGeneral, KindExpense:
		return Kind(s), true
	}
	return "", false
}

// SuccessMessage returns the human-readable confirmation shown after logging
func (k Kind) SuccessMessage() string {
	switch k {
	case KindGeneral:
		return "General entry logged successfully."
	case KindExpense:
		return "Expense entry logged successfully."
	default:
		return "Visitor entry logged successfully."
	}
}

// Finalize promotes an extraction result to a persistable record by assigning
// its identity and ingestion timestamp
func (r *Record) Finalize(now time.Time) {
	r.ID = uuid.NewString()
	r.CreatedAt = now.UTC().Format(time.RFC3339)
}

// CreatedDate returns the UTC calendar date prefix of CreatedAt, used as the
// partition key for the daily history view
func (r *Record) CreatedDate() string {
	if len(r.CreatedAt) < len("2006-01-02") {
		return r.CreatedAt
	}
	return r.CreatedAt[:len("2006-01-02")]
}

// Normalize enforces the record invariants: an unrecognized kind becomes
// visitor, every primary field of the resolved kind is floored to "Unknown",
// every bilingual shadow field defaults to its primary value, and fields
// belonging to other kinds are cleared.
func (r *Record) Normalize() {
	if _, ok := KindFromString(string(r.Type)); !ok {
		r.Type = KindVisitor
	}

	switch r.Type {
	case KindVisitor:
		floor(&r.Name)
		floor(&r.Mobile)
		floor(&r.Purpose)
		shadow(&r.NameHindi, r.Name)
		shadow(&r.PurposeHindi, r.Purpose)
		r.Details, r.DetailsHindi = "", ""
		r.Item, r.ItemHindi, r.Amount = "", "", ""
		r.Datetime, r.DatetimeHindi = "", ""
	case KindGeneral:
		floor(&r.Details)
		floor(&r.Datetime)
		shadow(&r.DetailsHindi, r.Details)
		shadow(&r.DatetimeHindi, r.Datetime)
		r.Name, r.NameHindi, r.Mobile, r.Purpose, r.PurposeHindi = "", "", "", "", ""
		r.Item, r.ItemHindi, r.Amount = "", "", ""
	case KindExpense:
		floor(&r.Item)
		floor(&r.Amount)
		floor(&r.Datetime)
		shadow(&r.ItemHindi, r.Item)
		shadow(&r.DatetimeHindi, r.Datetime)
		r.Name, r.NameHindi, r.Mobile, r.Purpose, r.PurposeHindi = "", "", "", "", ""
		r.Details, r.DetailsHindi = "", ""
	}
}

// IsValid performs basic validation on a finalized record
func (r *Record) IsValid() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}

	if _, ok := KindFromString(string(r.Type)); !ok {
		return fmt.Errorf("unknown record type: %q", r.Type)
	}

	if r.CreatedAt == "" {
		return fmt.Errorf("createdAt is required")
	}

	if _, err := time.Parse(time.RFC3339, r.CreatedAt); err != nil {
		return fmt.Errorf("createdAt is not RFC 3339: %w", err)
	}

	return nil
}

// String returns a human-readable representation of the record
func (r *Record) String() string {
	return fmt.Sprintf("Record{ID: %s, Type: %s, CreatedAt: %s}", r.ID, r.Type, r.CreatedAt)
}

func floor(field *string) {
	if *field == "" {
		*field = Unknown
	}
}

func shadow(field *string, primary string) {
	if *field == "" {
		*field = primary
	}
}
