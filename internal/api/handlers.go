package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dira2050/dirabot/internal/models"
)

// verifyWebhook answers the Cloud API subscription handshake: echo the
// challenge when the mode and token match, 403 otherwise.
func (s *Server) verifyWebhook(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == s.verifyToken && s.verifyToken != "" {
		s.logger.Info("Server.verifyWebhook: webhook verified")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(challenge)); err != nil {
			s.logger.Error("Server.verifyWebhook: failed to write challenge", "error", err)
		}
		return
	}

	s.logger.Warn("Server.verifyWebhook: verification failed", "mode", mode)
	w.WriteHeader(http.StatusForbidden)
}

// receiveWebhook parses an inbound Cloud API payload and runs each message
// through the bot. The 200 acknowledges receipt; processing outcomes do not
// change the response, otherwise the Cloud API would retry messages whose
// failures are already handled with an apology.
func (s *Server) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	var payload models.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.logger.Error("Server.receiveWebhook: invalid payload", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.handler.HandlePayload(r.Context(), payload)
	w.WriteHeader(http.StatusOK)
}

// health reports liveness.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, successResponse(map[string]string{"service": "dirabot"}))
}

// statsResult is the body of the stats endpoint.
type statsResult struct {
	SessionsByState  map[models.State]int `json:"sessions_by_state"`
	CompletedQuizzes int                  `json:"completed_quizzes"`
}

// stats reports session counts per state and completed quiz count.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	byState, err := s.store.CountSessionsByState()
	if err != nil {
		s.logger.Error("Server.stats: state count failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse("failed to count sessions"))
		return
	}
	completed, err := s.store.CountCompletedQuizzes()
	if err != nil {
		s.logger.Error("Server.stats: quiz count failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse("failed to count quizzes"))
		return
	}
	writeJSONResponse(w, http.StatusOK, successResponse(statsResult{
		SessionsByState:  byState,
		CompletedQuizzes: completed,
	}))
}

// sessionLogs returns the conversation audit trail for one phone number.
func (s *Server) sessionLogs(w http.ResponseWriter, r *http.Request) {
	phone, err := s.svc.ValidateAndCanonicalizeRecipient(chi.URLParam(r, "phone"))
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, errorResponse("invalid phone number"))
		return
	}

	session, err := s.store.GetSession(phone)
	if err != nil {
		s.logger.Error("Server.sessionLogs: session lookup failed", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse("failed to load session"))
		return
	}
	if session == nil {
		writeJSONResponse(w, http.StatusNotFound, errorResponse("session not found"))
		return
	}

	logs, err := s.store.GetConversationLogs(phone)
	if err != nil {
		s.logger.Error("Server.sessionLogs: log lookup failed", "error", err, "phone", phone)
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse("failed to load logs"))
		return
	}
	writeJSONResponse(w, http.StatusOK, successResponse(map[string]interface{}{
		"session": session,
		"logs":    logs,
	}))
}

// sendRequest is the body of the send endpoint.
type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// send delivers an ad-hoc text message, for manual testing and announcements.
func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	to, err := s.svc.ValidateAndCanonicalizeRecipient(req.To)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, errorResponse("invalid recipient"))
		return
	}
	if req.Body == "" {
		writeJSONResponse(w, http.StatusBadRequest, errorResponse("body must not be empty"))
		return
	}

	if err := s.svc.SendMessage(r.Context(), to, req.Body); err != nil {
		s.logger.Error("Server.send: delivery failed", "error", err, "to", to)
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse("failed to send message"))
		return
	}
	writeJSONResponse(w, http.StatusOK, successResponse(map[string]string{"to": to}))
}
