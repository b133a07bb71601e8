package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wa-otp-auth/internal/application/signup"
	"github.com/wa-otp-auth/internal/domain"
	"github.com/wa-otp-auth/internal/pkg/validate"
)

// LifecycleHandler exposes the identity-lifecycle triggers: the
// pre-registration gate and the post-confirmation hook.
type LifecycleHandler struct {
	svc *signup.Service
}

func NewLifecycleHandler(svc *signup.Service) *LifecycleHandler {
	return &LifecycleHandler{svc: svc}
}

// PreSignUp is the one trigger that may reject: a missing phone number
// fails identity creation with a 400.
func (h *LifecycleHandler) PreSignUp(w http.ResponseWriter, r *http.Request) {
	var event domain.PreSignUpEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid trigger event")
		return
	}
	if err := validate.Struct(&event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.PreSignUp(&event)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	event.Response = resp
	writeJSON(w, http.StatusOK, event)
}

func (h *LifecycleHandler) PostConfirmation(w http.ResponseWriter, r *http.Request) {
	var event domain.PostConfirmationEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid trigger event")
		return
	}
	if err := validate.Struct(&event); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event.Response = h.svc.PostConfirmation(r.Context(), &event)
	writeJSON(w, http.StatusOK, event)
}
