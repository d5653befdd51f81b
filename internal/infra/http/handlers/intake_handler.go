package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/infra/http/middleware"
	"github.com/xavierca1/oxyllium-leads/internal/usecase"
)

const maxSubmissionBytes = 1 << 20

type SubmissionAcknowledger interface {
	Acknowledge(ctx context.Context, sub usecase.FormSubmission) usecase.IntakeReceipt
}

// IntakeHandler receives the form platform's submission-created event.
// It always answers 200 so the public form flow is never blocked.
type IntakeHandler struct {
	Intake SubmissionAcknowledger
	Log    zerolog.Logger
}

func NewIntakeHandler(intake SubmissionAcknowledger, log zerolog.Logger) *IntakeHandler {
	return &IntakeHandler{Intake: intake, Log: log}
}

type submissionEvent struct {
	Payload usecase.FormSubmission `json:"payload"`
}

func (h *IntakeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event submissionEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmissionBytes)).Decode(&event); err != nil {
		h.Log.Error().Err(err).Msg("submission-created: unreadable event")
		middleware.RecordIntake(string(usecase.IntakeDropped))
		h.respond(w, "Error logged")
		return
	}

	// The store write finishes even if the platform hangs up.
	receipt := h.Intake.Acknowledge(context.WithoutCancel(r.Context()), event.Payload)
	middleware.RecordIntake(string(receipt.Outcome))

	if receipt.Outcome == usecase.IntakeStored {
		h.respond(w, "OK")
		return
	}
	h.respond(w, "Error logged")
}

func (h *IntakeHandler) respond(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
