package models

import (
	"errors"
	"testing"
)

func TestDocumentType_Prefix(t *testing.T) {
	tests := []struct {
		typ  DocumentType
		want string
	}{
		{DocumentTypeQuote, "Q"},
		{DocumentTypeWorkOrder, "WO"},
		{DocumentTypeInvoice, "I"},
		{"Receipt", ""},
	}
	for _, tt := range tests {
		if got := tt.typ.Prefix(); got != tt.want {
			t.Errorf("%q.Prefix() = %q, want %q", tt.typ, got, tt.want)
		}
		if got := tt.typ.Valid(); got != (tt.want != "") {
			t.Errorf("%q.Valid() = %v", tt.typ, got)
		}
	}
}

func TestParseDocumentStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentStatus
		wantErr bool
	}{
		{"draft", DocumentStatusDraft, false},
		{"Draft", DocumentStatusDraft, false},
		{"concept", DocumentStatusDraft, false},
		{" Concept ", DocumentStatusDraft, false},
		{"sent", DocumentStatusSent, false},
		{"PAID", DocumentStatusPaid, false},
		{"archived", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDocumentStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDocumentStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDocumentStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDocument_Normalize(t *testing.T) {
	valid := func() *Document {
		return &Document{ID: "d1", ClientID: "c1", Number: "Q-202303-001", Type: DocumentTypeQuote, Status: DocumentStatusConcept}
	}

	d := valid()
	if err := d.Normalize(); err != nil {
		t.Fatalf("Normalize() = %v", err)
	}
	if d.Status != DocumentStatusDraft {
		t.Errorf("status = %q, want draft", d.Status)
	}
	if d.Lines == nil || len(d.Lines) != 0 {
		t.Errorf("lines = %v, want empty non-nil", d.Lines)
	}
	if !d.IsDraft() {
		t.Error("IsDraft() = false")
	}

	broken := map[string]func(*Document){
		"missing client": func(d *Document) { d.ClientID = "" },
		"unknown type":   func(d *Document) { d.Type = "Receipt" },
		"unknown status": func(d *Document) { d.Status = "archived" },
		"line without id": func(d *Document) {
			d.Lines = []DocumentLine{{Quantity: 1}}
		},
		"line with zero quantity": func(d *Document) {
			d.Lines = []DocumentLine{{ID: "l1", Quantity: 0}}
		},
	}
	for name, mutate := range broken {
		d := valid()
		mutate(d)
		if err := d.Normalize(); !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("%s: Normalize() = %v, want ErrMalformedRecord", name, err)
		}
	}
}

func TestDocument_FindLineAndClone(t *testing.T) {
	d := &Document{Lines: []DocumentLine{{ID: "a"}, {ID: "b"}}}
	if got := d.FindLine("b"); got != 1 {
		t.Errorf("FindLine(b) = %d, want 1", got)
	}
	if got := d.FindLine("z"); got != -1 {
		t.Errorf("FindLine(z) = %d, want -1", got)
	}
	c := d.Clone()
	c.Lines[0].ID = "changed"
	if d.Lines[0].ID != "a" {
		t.Error("Clone shares the line slice")
	}
}

func TestClientStatus_Valid(t *testing.T) {
	for _, s := range []ClientStatus{ClientStatusLead, ClientStatusActive, ClientStatusInactive} {
		if !s.Valid() {
			t.Errorf("%q.Valid() = false", s)
		}
	}
	if ClientStatus("Prospect").Valid() {
		t.Error("Prospect should not be valid")
	}
}
