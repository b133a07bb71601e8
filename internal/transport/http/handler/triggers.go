package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wa-otp-auth/internal/application/challenge"
	"github.com/wa-otp-auth/internal/domain"
	"github.com/wa-otp-auth/internal/pkg/validate"
)

// TriggerHandler exposes the challenge triggers over HTTP. Each endpoint
// receives the full trigger event, populates only its response section, and
// returns the whole event, matching the trigger framework's contract.
type TriggerHandler struct {
	orchestrator *challenge.Orchestrator
	issuer       *challenge.Issuer
	verifier     *challenge.Verifier
}

func NewTriggerHandler(o *challenge.Orchestrator, i *challenge.Issuer, v *challenge.Verifier) *TriggerHandler {
	return &TriggerHandler{orchestrator: o, issuer: i, verifier: v}
}

// Define runs the orchestrator. A malformed envelope is the only 4xx path;
// once the event parses, the caller always gets a decision, worst case an
// explicit deny.
func (h *TriggerHandler) Define(w http.ResponseWriter, r *http.Request) {
	var event domain.DefineAuthChallengeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid trigger event")
		return
	}
	if err := validate.Struct(&event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event.Response = h.defineSafe(r, &event)
	writeJSON(w, http.StatusOK, event)
}

// defineSafe converts a panic anywhere below the orchestrator into a
// generic deny, never a 500 without a decision.
func (h *TriggerHandler) defineSafe(r *http.Request, event *domain.DefineAuthChallengeEvent) (resp domain.DefineAuthChallengeResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("define handler panic", "tag", "define_unexpected", "panic", rec)
			resp = domain.DefineAuthChallengeResponse{IssueTokens: false, FailAuthentication: true}
		}
	}()
	return h.orchestrator.Define(r.Context(), event)
}

func (h *TriggerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event domain.CreateAuthChallengeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid trigger event")
		return
	}
	if err := validate.Struct(&event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event.Response = h.createSafe(r, &event)
	writeJSON(w, http.StatusOK, event)
}

func (h *TriggerHandler) createSafe(r *http.Request, event *domain.CreateAuthChallengeEvent) (resp domain.CreateAuthChallengeResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("create handler panic", "tag", "create_unexpected", "panic", rec)
			resp = domain.CreateAuthChallengeResponse{
				PublicChallengeParameters:  map[string]string{"error": domain.PublicErrUnexpected, "message": "Unexpected error"},
				PrivateChallengeParameters: map[string]string{domain.ParamShouldFail: "true"},
			}
		}
	}()
	return h.issuer.Create(r.Context(), event)
}

func (h *TriggerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var event domain.VerifyAuthChallengeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid trigger event")
		return
	}
	if err := validate.Struct(&event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event.Response = h.verifier.Verify(&event)
	writeJSON(w, http.StatusOK, event)
}
