package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"contactdesk.org/internal/audit"
	"contactdesk.org/internal/auth"
	"contactdesk.org/internal/store"
)

const duplicateContactMessage = "Contact with this ID or Email already exists!"

type createContactRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

type deleteContactRequest struct {
	ID int64 `json:"id"`
}

type ageAboveRequest struct {
	Age int `json:"age"`
}

type ageBetweenRequest struct {
	MinAge int `json:"min_age"`
	MaxAge int `json:"max_age"`
}

type contactResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	OwnerID     int64  `json:"owner_id"`
}

func toContactResponse(c *store.Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		DateOfBirth: c.DateOfBirth.Format(time.DateOnly),
		OwnerID:     c.OwnerID,
	}
}

func toContactResponses(contacts []*store.Contact) []contactResponse {
	res := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		res = append(res, toContactResponse(c))
	}
	return res
}

func (a *API) handleContactsCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID <= 0 {
		writeError(w, r, http.StatusBadRequest, "id must be a positive integer")
		return
	}
	name := req.Name
	email := normalize(req.Email)
	if name == "" || email == "" {
		writeError(w, r, http.StatusBadRequest, "name and email are required")
		return
	}
	dob, err := time.ParseInLocation(time.DateOnly, req.DateOfBirth, time.UTC)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		return
	}

	var created *store.Contact
	err = a.inTx(r.Context(), func(tx *sql.Tx) error {
		contacts := store.NewContacts(tx)
		exists, err := contacts.Exists(r.Context(), req.ID, email)
		if err != nil {
			return err
		}
		if exists {
			return errDuplicate
		}
		created, err = contacts.Add(r.Context(), &store.Contact{
			ID:          req.ID,
			Name:        name,
			Email:       email,
			DateOfBirth: dob,
			OwnerID:     account.ID,
		})
		return err
	})
	switch {
	case errors.Is(err, errDuplicate):
		writeError(w, r, http.StatusBadRequest, duplicateContactMessage)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	_ = audit.LogEvent(r.Context(), "contact.created", map[string]any{
		"contact_id": created.ID,
	})

	writeJSON(w, http.StatusCreated, toContactResponse(created))
}

func (a *API) handleContactsDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req deleteContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var deleted bool
	err := a.inTx(r.Context(), func(tx *sql.Tx) error {
		var err error
		deleted, err = store.NewContacts(tx).DeleteOwned(r.Context(), req.ID, account.ID)
		return err
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]any{"deleted": false, "id": req.ID})
		return
	}
	_ = audit.LogEvent(r.Context(), "contact.deleted", map[string]any{
		"contact_id": req.ID,
	})
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": req.ID})
}

// handleContactsAll lists every contact. Reads are intentionally not
// ownership-scoped, unlike deletion.
func (a *API) handleContactsAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	contacts, err := store.NewContacts(a.db).List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toContactResponses(contacts))
}

func (a *API) handleFilterAgeAbove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req ageAboveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Age < 0 {
		writeError(w, r, http.StatusBadRequest, "age must be >= 0")
		return
	}
	contacts, err := store.NewContacts(a.db).ListAboveAge(r.Context(), req.Age)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toContactResponses(contacts))
}

func (a *API) handleFilterAgeBetween(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req ageBetweenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.MinAge < 0 || req.MaxAge < req.MinAge {
		writeError(w, r, http.StatusBadRequest, "expected 0 <= min_age <= max_age")
		return
	}
	contacts, err := store.NewContacts(a.db).ListBetweenAge(r.Context(), req.MinAge, req.MaxAge)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toContactResponses(contacts))
}
