package model

import (
	"net/mail"
	"sort"
	"strings"
)

// Contact represents a message submitted via the contact form.
// ID and CreatedAt are assigned by the store, never by the caller.
type Contact struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Subject   string  `json:"subject"`
	Message   string  `json:"message"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	CreatedAt string  `json:"createdAt"`
	IsDeleted bool    `json:"isDeleted"`
}

// ContactInput carries the caller-supplied fields of a new Contact.
type ContactInput struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	Phone     *string
	Company   *string
	IsDeleted bool
}

// NewContact materializes a Contact from input with the store-assigned id and timestamp.
func NewContact(in ContactInput, id int64, createdAt string) Contact {
	return Contact{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Phone:     in.Phone,
		Company:   in.Company,
		CreatedAt: createdAt,
		IsDeleted: in.IsDeleted,
	}
}

// Validate checks field formats. Presence of required fields is checked
// while decoding the request body.
func (in ContactInput) Validate() error {
	verr := &ValidationError{}
	if msg := checkEmail(in.Email); msg != "" {
		verr.Add("email", msg)
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// checkEmail returns a non-empty reason when addr is not a bare
// local@domain address with a dotted domain.
func checkEmail(addr string) string {
	if addr == "" {
		return "value is not a valid email address: empty"
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Name != "" || parsed.Address != addr {
		return "value is not a valid email address"
	}
	at := strings.LastIndex(addr, "@")
	domain := addr[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "value is not a valid email address: domain must contain a dot"
	}
	return ""
}

// ClearResult reports what a clear-all removed.
type ClearResult struct {
	Message         string    `json:"message"`
	DeletedCount    int       `json:"deleted_count"`
	DeletedContacts []Contact `json:"deleted_contacts"`
}

// ValidationError lists per-field problems with a ContactInput.
type ValidationError struct {
	Fields map[string]string
}

// Add records a problem for field. The first problem per field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty reports whether no problems were recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid contact: " + strings.Join(parts, "; ")
}
