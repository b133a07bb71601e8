package challenge

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/wa-otp-auth/internal/domain"
)

// Verifier checks a submitted answer against the bound passcode. It is a
// pure function of the event and the clock: the signup attribute patch
// belongs to the orchestrator's finalization step, which sees this round's
// result in the session on its next invocation.
type Verifier struct {
	ttl time.Duration
	now func() time.Time
}

func NewVerifier(expiryMinutes int) *Verifier {
	return &Verifier{
		ttl: time.Duration(expiryMinutes) * time.Minute,
		now: time.Now,
	}
}

func (v *Verifier) Verify(event *domain.VerifyAuthChallengeEvent) domain.VerifyAuthChallengeResponse {
	params := event.Request.PrivateChallengeParameters

	// Issuance told us this round can never succeed.
	if params[domain.ParamShouldFail] == "true" {
		slog.Info("answer rejected", "tag", "verify_forced_fail", "username", event.UserName)
		return domain.VerifyAuthChallengeResponse{AnswerCorrect: false}
	}

	answer := strings.TrimSpace(event.Request.ChallengeAnswer)
	expected := params[domain.ParamAnswer]
	issuedAtMs, _ := strconv.ParseInt(params[domain.ParamIssuedAt], 10, 64)

	// Expiry is checked first: a stale code is rejected without ever
	// evaluating correctness, so replaying an old correct code gains nothing.
	if issuedAtMs == 0 || v.now().UnixMilli()-issuedAtMs > v.ttl.Milliseconds() {
		slog.Info("answer rejected", "tag", "verify_expired", "username", event.UserName)
		return domain.VerifyAuthChallengeResponse{AnswerCorrect: false}
	}

	if expected != "" && answer == expected {
		slog.Info("answer accepted", "tag", "verify_ok", "username", event.UserName)
		return domain.VerifyAuthChallengeResponse{AnswerCorrect: true}
	}

	slog.Info("answer rejected", "tag", "verify_wrong_code", "username", event.UserName)
	return domain.VerifyAuthChallengeResponse{AnswerCorrect: false}
}
