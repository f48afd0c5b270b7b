package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/contactform/backend/internal/model"
	"github.com/contactform/backend/internal/service"
)

const maxBodyBytes = 1 << 20

// ContactHandler handles contact creation, listing and clear-all.
// Routes are expected to sit behind auth.RequireBearer.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// createRequest is the expected JSON body for POST /api/contact.
// Pointers distinguish absent fields from empty ones.
type createRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Subject   *string `json:"subject"`
	Message   *string `json:"message"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	IsDeleted *bool   `json:"isDeleted"`
}

// toInput checks required fields and converts the request to a ContactInput.
func (req createRequest) toInput() (model.ContactInput, error) {
	verr := &model.ValidationError{}
	required := func(field string, v *string) string {
		if v == nil {
			verr.Add(field, "field required")
			return ""
		}
		return *v
	}
	in := model.ContactInput{
		Name:    required("name", req.Name),
		Email:   required("email", req.Email),
		Subject: required("subject", req.Subject),
		Message: required("message", req.Message),
		Phone:   req.Phone,
		Company: req.Company,
	}
	if req.IsDeleted != nil {
		in.IsDeleted = *req.IsDeleted
	}
	if !verr.Empty() {
		return in, verr
	}
	return in, nil
}

// errorResponse is the JSON body of every non-2xx contact response.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Create handles POST /api/contact.
// name, email, subject and message are required; phone, company and
// isDeleted are optional. Responds 422 on malformed input, 500 when the
// record cannot be persisted.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, decodeErrorResponse(err))
		return
	}

	in, err := req.toInput()
	if err == nil {
		var c *model.Contact
		c, err = h.contactService.Create(r.Context(), in)
		if err == nil {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}
	slog.Error("create contact failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("Error saving contact: %v", err)})
}

// decodeErrorResponse maps a JSON decoding failure to a 422 body.
func decodeErrorResponse(err error) errorResponse {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return errorResponse{
			Error:  "invalid contact: " + typeErr.Field + ": expected " + typeErr.Type.String(),
			Fields: map[string]string{typeErr.Field: "expected " + typeErr.Type.String()},
		}
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errorResponse{Error: "request body too large"}
	}
	return errorResponse{Error: "invalid JSON body: " + err.Error()}
}

// List handles GET /api/contacts. Every stored record is returned in
// insertion order; the isDeleted flag does not filter anything.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.List(r.Context())
	if err != nil {
		slog.Error("list contacts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("Error loading contacts: %v", err)})
		return
	}

	// Return [] not null for empty lists
	if contacts == nil {
		contacts = []model.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// ClearAll handles DELETE /api/contacts.
func (h *ContactHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.contactService.ClearAll(r.Context())
	if err != nil {
		slog.Error("clear contacts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("Error deleting contacts: %v", err)})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
