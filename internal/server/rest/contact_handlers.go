package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (h *handlers) listContacts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseContactFilter(r)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	items, err := h.Contacts.List(r.Context(), UserFromContext(r.Context()).ID, filter)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) getContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contacts.Get(r.Context(), UserFromContext(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) createContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	c, err := h.Contacts.Create(r.Context(), UserFromContext(r.Context()).ID, req.contact())
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handlers) updateContact(w http.ResponseWriter, r *http.Request) {
	var req contactPatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	c, err := h.Contacts.Update(r.Context(), UserFromContext(r.Context()).ID, chi.URLParam(r, "id"), req.patch())
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) updateFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	c, err := h.Contacts.UpdateFavorite(r.Context(), UserFromContext(r.Context()).ID, chi.URLParam(r, "id"), *req.Favorite)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) deleteContact(w http.ResponseWriter, r *http.Request) {
	c, err := h.Contacts.Delete(r.Context(), UserFromContext(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// parseContactFilter reads ?favorite=, ?page= and ?limit=.
func parseContactFilter(r *http.Request) (models.ContactFilter, error) {
	var f models.ContactFilter
	q := r.URL.Query()

	if v := q.Get("favorite"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, badRequest("favorite must be a boolean")
		}
		f.Favorite = &b
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, badRequest("page must be a positive integer")
		}
		f.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, badRequest("limit must be a positive integer")
		}
		f.Limit = n
	}

	return f.Normalize(), nil
}
