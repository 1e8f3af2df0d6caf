package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tenere/fuellog/internal/domain"
)

// MessageRequest is the body of POST /messages: one chat message as handed
// over by the chat transport.
type MessageRequest struct {
	Text     string `json:"text"`
	ChatType string `json:"chat_type"`
	// ReceivedAt defaults to the server's clock when omitted.
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

// MessageResponse tells the transport what happened and what to reply.
// Reply is omitted when the bot should stay silent.
type MessageResponse struct {
	Outcome string          `json:"outcome"`
	Reply   string          `json:"reply,omitempty"`
	Fueling FuelingResponse `json:"fueling"`
}

// PostMessage handles POST /messages.
// Responds 201 when a fueling was stored and 200 for previews and ignored
// chatter.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, requestBody("request body too large"))
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body must be a JSON message"))
		return
	}

	msg := domain.Message{Text: body.Text, ChatType: body.ChatType}
	if body.ReceivedAt != nil {
		msg.ReceivedAt = *body.ReceivedAt
	}

	result, err := s.fuelings.Ingest(r.Context(), msg)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == domain.OutcomeSaved {
		status = http.StatusCreated
	}
	writeJSON(w, status, MessageResponse{
		Outcome: string(result.Outcome),
		Reply:   result.Reply,
		Fueling: NewFuelingResponse(result.Fueling),
	})
}
