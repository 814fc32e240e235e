package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/models"
)

// getAllTickets lists tickets. Filters arrive as query parameters:
// status, priority, category, creator_id, assignee_id.
func (h *Handler) getAllTickets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	query := r.URL.Query()
	filter := models.TicketFilter{
		Status:     models.TicketStatus(query.Get("status")),
		Priority:   models.TicketPriority(query.Get("priority")),
		Category:   query.Get("category"),
		CreatorID:  query.Get("creator_id"),
		AssigneeID: query.Get("assignee_id"),
	}

	tickets, err := h.services.TicketService.GetAllTickets(r.Context(), filter)
	if err != nil {
		log.Err(err).Msg("listing tickets failed")
		utils.WriteJSONError(w, statusFromError(err), "listing tickets failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, tickets)
}

func (h *Handler) getTicket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	ticket, err := h.services.TicketService.GetTicket(r.Context(), id)
	if err != nil {
		log.Err(err).Str("id", id).Msg("ticket lookup failed")
		utils.WriteJSONError(w, statusFromError(err), "ticket lookup failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) createTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	creatorID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		utils.WriteJSONError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	var req models.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	created, err := h.services.TicketService.CreateTicket(ctx, creatorID, req)
	if err != nil {
		log.Err(err).Msg("ticket creation failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateTicket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	updated, err := h.services.TicketService.UpdateTicket(r.Context(), id, req)
	if err != nil {
		log.Err(err).Str("id", id).Msg("ticket update failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteTicket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	if err := h.services.TicketService.DeleteTicket(r.Context(), id); err != nil {
		log.Err(err).Str("id", id).Msg("ticket deletion failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	ticketID := chi.URLParam(r, "id")

	authorID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user ID in request context")
		utils.WriteJSONError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		return
	}

	var req models.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, http.StatusBadRequest, "Invalid JSON was passed")
		return
	}

	// only technicians and admins may file internal notes
	if req.Internal && !h.callerIsStaff(r) {
		utils.WriteJSONError(w, http.StatusForbidden, ErrInsufficientRole.Error())
		return
	}

	comment, err := h.services.TicketService.AddComment(ctx, ticketID, authorID, req)
	if err != nil {
		log.Err(err).Str("ticket", ticketID).Msg("adding comment failed")
		utils.WriteJSONError(w, statusFromError(err), err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, comment)
}

// getTicketComments returns the ticket's thread. Internal technician notes
// are only included for staff callers.
func (h *Handler) getTicketComments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ticketID := chi.URLParam(r, "id")

	comments, err := h.services.TicketService.GetTicketComments(r.Context(), ticketID, h.callerIsStaff(r))
	if err != nil {
		log.Err(err).Str("ticket", ticketID).Msg("listing comments failed")
		utils.WriteJSONError(w, statusFromError(err), "listing comments failed")
		return
	}

	utils.WriteJSON(w, http.StatusOK, comments)
}

// callerIsStaff reports whether the authenticated account holds a
// technician or admin role.
func (h *Handler) callerIsStaff(r *http.Request) bool {
	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return false
	}
	return role.Technician() || role == models.RoleAdmin
}
