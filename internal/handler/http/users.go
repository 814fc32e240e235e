package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/models"
)

// getAllUsers returns the whole account collection. Desk agents poll this
// endpoint and reconcile their local replicas against the result.
func (h *Handler) getAllUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	users, err := h.services.UserService.GetAllUsers(r.Context())
	if err != nil {
		log.Err(err).Msg("listing users failed")
		utils.WriteJSONError(w, statusFromError(err), "listing users failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	user, err := h.services.UserService.GetUser(r.Context(), id)
	if err != nil {
		log.Err(err).Str("id", id).Msg("user lookup failed")
		utils.WriteJSONError(w, statusFromError(err), "user lookup failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	created, err := h.services.UserService.CreateUser(r.Context(), req)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("user creation failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	updated, err := h.services.UserService.UpdateUser(r.Context(), id, req)
	if err != nil {
		log.Err(err).Str("id", id).Msg("user update failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	if err := h.services.UserService.DeleteUser(r.Context(), id); err != nil {
		log.Err(err).Str("id", id).Msg("user deletion failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
