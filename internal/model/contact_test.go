package model

import (
	"errors"
	"strings"
	"testing"
)

func TestContactInput_Validate_Email(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"a@b.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"a@b", false},
		{"a@.com", false},
		{"a@b.com.", false},
		{"Alice <a@b.com>", false},
		{"<a@b.com>", false},
		{"a b@c.com", false},
	}
	for _, tt := range tests {
		err := ContactInput{Email: tt.email}.Validate()
		if tt.ok && err != nil {
			t.Errorf("%q: unexpected error: %v", tt.email, err)
		}
		if !tt.ok {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("%q: expected *ValidationError, got %v", tt.email, err)
				continue
			}
			if verr.Fields["email"] == "" {
				t.Errorf("%q: expected email field error, got %v", tt.email, verr.Fields)
			}
		}
	}
}

func TestValidationError_ErrorIsSortedAndStable(t *testing.T) {
	verr := &ValidationError{}
	verr.Add("subject", "field required")
	verr.Add("email", "value is not a valid email address")
	verr.Add("email", "ignored second message")

	got := verr.Error()
	want := "invalid contact: email: value is not a valid email address; subject: field required"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
	if strings.Contains(got, "ignored") {
		t.Error("second message for a field should not replace the first")
	}
}

func TestNewContact_CopiesInput(t *testing.T) {
	phone := "555-0100"
	in := ContactInput{Name: "A", Email: "a@b.com", Subject: "S", Message: "M", Phone: &phone, IsDeleted: true}

	c := NewContact(in, 7, "2026-01-02T03:04:05Z")

	if c.ID != 7 || c.CreatedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("id/createdAt not applied: %+v", c)
	}
	if c.Name != "A" || c.Email != "a@b.com" || c.Subject != "S" || c.Message != "M" {
		t.Errorf("fields not copied: %+v", c)
	}
	if c.Phone == nil || *c.Phone != phone {
		t.Errorf("expected phone %q, got %v", phone, c.Phone)
	}
	if c.Company != nil {
		t.Errorf("expected nil company, got %v", *c.Company)
	}
	if !c.IsDeleted {
		t.Error("expected isDeleted to be carried over")
	}
}
