package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("login failed")
		utils.WriteJSONError(w, statusFromError(err), "invalid email/password")
		return
	}

	log.Debug().Str("id", foundUser.ID).Msg("user successfully logged in")

	h.writeTokenResponse(w, r, foundUser)
}

func (h *Handler) requestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.OTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	// Unknown emails get the same 202 as known ones so the endpoint cannot
	// be used to probe which addresses have accounts.
	if err := h.services.OTPService.Request(ctx, req.Email); err != nil {
		log.Err(err).Str("email", req.Email).Msg("otp request failed")
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.OTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	user, err := h.services.OTPService.Verify(ctx, req.Email, req.Code)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("otp verification failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	log.Debug().Str("id", user.ID).Msg("user logged in with one-time code")

	h.writeTokenResponse(w, r, user)
}

// writeTokenResponse issues a JWT for user and writes the login response.
// The token goes both into the body and the Authorization header so agents
// can pick whichever is convenient.
func (h *Handler) writeTokenResponse(w http.ResponseWriter, r *http.Request, user models.User) {
	log := logger.FromRequest(r)

	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		utils.WriteJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	utils.WriteJSON(w, http.StatusOK, models.LoginResponse{
		User:  user,
		Token: token.SignedString,
	})
}
