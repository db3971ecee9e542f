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
	"testing"
	"time"
)

func TestKindFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
		known    bool
	}{
		{"visitor", KindVisitor, true},
		{"general", KindGeneral, true},
		{"expense", KindExpense, true},
		{"Visitor", "", false},
		{"note", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, ok := KindFromString(tt.input)
			if ok != tt.known {
				t.Errorf("KindFromString(%q) known = %v, expected %v", tt.input, ok, tt.known)
			}
			if kind != tt.expected {
				t.Errorf("KindFromString(%q) = %q, expected %q", tt.input, kind, tt.expected)
			}
		})
	}
}

func TestSuccessMessage(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindVisitor, "Visitor entry logged successfully."},
		{KindGeneral, "General entry logged successfully."},
		{KindExpense, "Expense entry logged successfully."},
		{Kind("bogus"), "Visitor entry logged successfully."},
	}

	for _, tt := range tests {
		if got := tt.kind.SuccessMessage(); got != tt.expected {
			t.Errorf("SuccessMessage(%q) = %q, expected %q", tt.kind, got, tt.expected)
		}
	}
}

func TestNormalizeFloorsVisitorFields(t *testing.T) {
	rec := &Record{Type: KindVisitor}
	rec.Normalize()

	if rec.Name != Unknown || rec.Mobile != Unknown || rec.Purpose != Unknown {
		t.Errorf("expected all primary visitor fields floored to %q, got %+v", Unknown, rec)
	}
	if rec.NameHindi != Unknown || rec.PurposeHindi != Unknown {
		t.Errorf("expected shadow fields to default to floored primaries, got %+v", rec)
	}
}

func TestNormalizeShadowDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Record
		want Record
	}{
		{
			name: "visitor shadows follow primaries",
			in:   Record{Type: KindVisitor, Name: "sandeep", Purpose: "checkout our flats"},
			want: Record{Type: KindVisitor, Name: "sandeep", NameHindi: "sandeep", Mobile: Unknown, Purpose: "checkout our flats", PurposeHindi: "checkout our flats"},
		},
		{
			name: "explicit hindi wording is preserved",
			in:   Record{Type: KindVisitor, Name: "sandeep", NameHindi: "संदीप", Purpose: "meeting"},
			want: Record{Type: KindVisitor, Name: "sandeep", NameHindi: "संदीप", Mobile: Unknown, Purpose: "meeting", PurposeHindi: "meeting"},
		},
		{
			name: "general shadows follow primaries",
			in:   Record{Type: KindGeneral, Details: "call bhavna", Datetime: "4 PM"},
			want: Record{Type: KindGeneral, Details: "call bhavna", DetailsHindi: "call bhavna", Datetime: "4 PM", DatetimeHindi: "4 PM"},
		},
		{
			name: "expense shadows follow primaries",
			in:   Record{Type: KindExpense, Item: "2 kg Milk", Amount: "50"},
			want: Record{Type: KindExpense, Item: "2 kg Milk", ItemHindi: "2 kg Milk", Amount: "50", Datetime: Unknown, DatetimeHindi: Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.in
			rec.Normalize()
			if rec != tt.want {
				t.Errorf("Normalize() = %+v, expected %+v", rec, tt.want)
			}
		})
	}
}

func TestNormalizeUnknownTypeBecomesVisitor(t *testing.T) {
	tests := []string{"", "note", "VISITOR", "reminder"}

	for _, raw := range tests {
		rec := &Record{Type: Kind(raw), Name: "sandeep"}
		rec.Normalize()

		if rec.Type != KindVisitor {
			t.Errorf("Normalize() with type %q: type = %q, expected visitor", raw, rec.Type)
		}
	}
}

func TestNormalizeClearsOtherKindFields(t *testing.T) {
	rec := &Record{
		Type:    KindExpense,
		Name:    "sandeep",
		Mobile:  "9876543210",
		Purpose: "visit",
		Details: "leftover details",
		Item:    "milk",
		Amount:  "50",
	}
	rec.Normalize()

	if rec.Name != "" || rec.Mobile != "" || rec.Purpose != "" || rec.Details != "" {
		t.Errorf("expected non-expense fields cleared, got %+v", rec)
	}
	if rec.Item != "milk" || rec.Amount != "50" {
		t.Errorf("expected expense fields preserved, got %+v", rec)
	}
}

func TestFinalize(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	rec := &Record{Type: KindVisitor, Name: "sandeep"}
	rec.Finalize(now)

	if rec.ID == "" {
		t.Error("expected Finalize to assign an id")
	}
	if rec.CreatedAt != "2025-06-15T05:00:00Z" {
		t.Errorf("expected UTC RFC 3339 createdAt, got %q", rec.CreatedAt)
	}
	if rec.CreatedDate() != "2025-06-15" {
		t.Errorf("CreatedDate() = %q, expected 2025-06-15", rec.CreatedDate())
	}

	other := &Record{Type: KindVisitor}
	other.Finalize(now)
	if other.ID == rec.ID {
		t.Error("expected distinct ids for distinct records")
	}
}

func TestIsValid(t *testing.T) {
	valid := &Record{Type: KindGeneral, Details: "note"}
	valid.Finalize(time.Now())
	if err := valid.IsValid(); err != nil {
		t.Errorf("expected finalized record to be valid, got %v", err)
	}

	tests := []struct {
		name string
		rec  Record
	}{
		{"missing id", Record{Type: KindVisitor, CreatedAt: "2025-06-15T05:00:00Z"}},
		{"unknown kind", Record{ID: "x", Type: "note", CreatedAt: "2025-06-15T05:00:00Z"}},
		{"missing createdAt", Record{ID: "x", Type: KindVisitor}},
		{"bad createdAt", Record{ID: "x", Type: KindVisitor, CreatedAt: "15/06/2025"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.rec.IsValid(); err == nil {
				t.Errorf("expected %s to be invalid", tt.name)
			}
		})
	}
}
