package rest

import (
	"net/http"

	"github.com/dmitrijs2005/contactkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type userResponse struct {
	User models.UserView `json:"user"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  models.UserView `json:"user"`
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	user, err := h.Accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{User: user.View()})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	res, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, User: res.User.View()})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), UserFromContext(r.Context())); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserFromContext(r.Context()).View())
}

func (h *handlers) updateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	user, err := h.Accounts.UpdateSubscription(r.Context(), UserFromContext(r.Context()), models.SubscriptionTier(req.Subscription))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user.View())
}

func (h *handlers) requestAvatarUpload(w http.ResponseWriter, r *http.Request) {
	up, err := h.Avatars.RequestUpload(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (h *handlers) verifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.VerifyEmail(r.Context(), chi.URLParam(r, "verificationToken")); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Verification successful")
}

func (h *handlers) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	if err := h.Accounts.ResendVerification(r.Context(), req.Email); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Verification email sent")
}
