package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ateliermistral/site-backend/database"
	"github.com/ateliermistral/site-backend/errs"
	"github.com/ateliermistral/site-backend/models"
	"github.com/ateliermistral/site-backend/services"
)

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contactRepo *database.ContactRepo
	notifier    *services.ContactNotifier
}

func newContactHandler(contactRepo *database.ContactRepo, notifier *services.ContactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contactRepo: contactRepo,
		notifier:    notifier,
	}
}

type contactSubmission struct {
	Nom     string `json:"nom"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactCollection represents a list of contact requests
type ContactCollection struct {
	Requests []models.ContactRequest `json:"requests"`
	Total    int                     `json:"total,omitempty"`
}

// submitContact records a visitor contact request
// @Summary Submit contact request
// @Description Records a contact form submission and notifies the studio by email
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body contactSubmission true "Contact form values"
// @Success 201 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid or incomplete submission"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error recording request"
// @Router /contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var submission contactSubmission
		if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("contact", err))
			return
		}

		submission.Nom = strings.TrimSpace(submission.Nom)
		submission.Email = strings.TrimSpace(submission.Email)
		submission.Message = strings.TrimSpace(submission.Message)

		if submission.Nom == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("nom"))
			return
		}
		if submission.Email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if _, err := mail.ParseAddress(submission.Email); err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("email", "not a valid email address"))
			return
		}
		if submission.Message == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("message"))
			return
		}

		request := models.ContactRequest{
			Nom:     submission.Nom,
			Email:   submission.Email,
			Message: submission.Message,
		}

		if err := h.contactRepo.Add(r.Context(), &request); err != nil {
			h.responder.WriteError(w, wrapStoreError("create contact request", "contact request", err))
			return
		}

		// Notification is best effort; the request is already recorded.
		if h.notifier != nil {
			if err := h.notifier.Notify(request); err != nil {
				h.logger.Warn().Err(err).Str("requestID", request.ID).Msg("Failed to send contact notification")
			}
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// getAllContactRequests lists contact requests, newest first
// @Summary List contact requests (admin)
// @Description Retrieves all contact form submissions, newest first
// @Tags Admin
// @Produce json
// @Success 200 {object} ContactCollection "List of contact requests"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid session"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching requests"
// @Router /admin/contact [get]
func (h contactHandler) getAllContactRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session checked by middleware

		requests, err := h.contactRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapStoreError("find contact requests", "contact requests", err))
			return
		}

		h.responder.WriteJSON(w, ContactCollection{
			Requests: requests,
			Total:    len(requests),
		})
	}
}

// deleteContactRequest deletes a contact request by ID
// @Summary Delete contact request (admin)
// @Description Deletes a contact form submission
// @Tags Admin
// @Produce json
// @Param requestID path string true "Contact request ID"
// @Success 200 {object} map[string]string "Success message"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid session"
// @Router /admin/contact/{requestID} [delete]
func (h contactHandler) deleteContactRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session checked by middleware

		requestID := chi.URLParam(r, "requestID")
		if requestID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing requestID"))
			return
		}

		if err := h.contactRepo.Delete(r.Context(), requestID); err != nil {
			h.responder.WriteError(w, wrapStoreError("delete contact request", "contact request", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "contact request deleted successfully",
		})
	}
}
