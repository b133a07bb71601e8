package challenge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wa-otp-auth/internal/config"
	"github.com/wa-otp-auth/internal/domain"
	"github.com/wa-otp-auth/internal/pkg/id"
)

// Decision tags recorded with every orchestrator outcome.
const (
	TagUserNotFound         = "define_user_not_found"
	TagMissingPool          = "define_missing_pool"
	TagUnknownClient        = "define_unknown_client_blocked"
	TagLookupFailed         = "define_lookup_failed"
	TagSignupNotConfirmed   = "define_signup_not_confirmed"
	TagSignupAlreadyDone    = "define_signup_already_verified"
	TagSignupSendOTP        = "define_signup_send_otp"
	TagLoginNotConfirmed    = "define_login_not_confirmed"
	TagLoginPhoneUnverified = "define_login_phone_not_verified"
	TagLoginWAUnverified    = "define_login_whatsapp_not_verified"
	TagLoginSendOTP         = "define_login_send_otp"
	TagFinalizeFailed       = "define_finalize_failed"
	TagSignupComplete       = "define_signup_complete_fail_auth"
	TagIssueTokens          = "define_issue_tokens"
	TagRetryChallenge       = "define_retry_custom_challenge"
	TagTooManyAttempts      = "define_too_many_attempts"
)

// Orchestrator decides, once per authentication round, whether to issue a
// challenge, retry, finalize, or deny. It is stateless between invocations:
// all round history arrives in the event's session and all identity state
// lives in the directory.
type Orchestrator struct {
	dir            Directory
	roles          *RoleResolver
	decisions      DecisionLog
	maxAttempts    int
	finalizePolicy string
	decisionTTL    time.Duration
}

func NewOrchestrator(dir Directory, roles *RoleResolver, decisions DecisionLog, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		dir:            dir,
		roles:          roles,
		decisions:      decisions,
		maxAttempts:    cfg.MaxLoginAttempts,
		finalizePolicy: cfg.SignupFinalizePolicy,
		decisionTTL:    time.Duration(cfg.DecisionTTLDays) * 24 * time.Hour,
	}
}

func deny() domain.DefineAuthChallengeResponse {
	return domain.DefineAuthChallengeResponse{IssueTokens: false, FailAuthentication: true}
}

func issueChallenge() domain.DefineAuthChallengeResponse {
	return domain.DefineAuthChallengeResponse{ChallengeName: domain.ChallengeNameCustom}
}

func issueTokens() domain.DefineAuthChallengeResponse {
	return domain.DefineAuthChallengeResponse{IssueTokens: true, FailAuthentication: false}
}

// Define evaluates the state machine for one round. It never returns an
// error: every failure mode collapses into a deny decision, because the
// trigger contract requires a well-formed response on each invocation.
func (o *Orchestrator) Define(ctx context.Context, event *domain.DefineAuthChallengeEvent) domain.DefineAuthChallengeResponse {
	resp, tag, role := o.decide(ctx, event)

	slog.Info("auth decision",
		"tag", tag,
		"username", event.UserName,
		"role", role,
		"session_len", len(event.Request.Session),
		"issue_tokens", resp.IssueTokens,
		"fail_authentication", resp.FailAuthentication,
		"challenge_name", resp.ChallengeName,
	)
	o.record(ctx, event, resp, tag, role)
	return resp
}

func (o *Orchestrator) decide(ctx context.Context, event *domain.DefineAuthChallengeEvent) (domain.DefineAuthChallengeResponse, string, domain.ClientRole) {
	if event.Request.UserNotFound {
		return deny(), TagUserNotFound, domain.RoleUnknown
	}
	if event.UserPoolID == "" {
		return deny(), TagMissingPool, domain.RoleUnknown
	}

	role := o.roles.Resolve(ctx, event.UserPoolID, event.CallerContext.ClientID)
	if role == domain.RoleUnknown {
		return deny(), TagUnknownClient, role
	}

	user, err := o.dir.GetUser(ctx, event.UserPoolID, event.UserName)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchUser) {
			return deny(), TagUserNotFound, role
		}
		slog.Error("user lookup failed", "username", event.UserName, "err", err)
		return deny(), TagLookupFailed, role
	}

	if len(event.Request.Session) == 0 {
		resp, tag := o.firstRound(user, role)
		return resp, tag, role
	}
	resp, tag := o.nextRound(ctx, event, user)
	return resp, tag, role
}

func (o *Orchestrator) firstRound(user *domain.UserRecord, role domain.ClientRole) (domain.DefineAuthChallengeResponse, string) {
	if role == domain.RoleSignup {
		// Under the issue-tokens policy the identity must already be
		// confirmed (out-of-band email code) before the signup round starts.
		// The deny policy lets unconfirmed identities through and confirms
		// them at finalization instead.
		if o.finalizePolicy == config.FinalizeIssueTokens && !user.Confirmed {
			return deny(), TagSignupNotConfirmed
		}
		if user.FullyVerified() {
			// Re-entry after a completed signup: nothing left to verify.
			if o.finalizePolicy == config.FinalizeIssueTokens {
				return issueTokens(), TagSignupAlreadyDone
			}
			return deny(), TagSignupAlreadyDone
		}
		return issueChallenge(), TagSignupSendOTP
	}

	// Login rounds only ever start for fully verified identities. Each
	// reason gets its own tag so the caller can point the user back to
	// signup, but the response itself is an undifferentiated deny.
	if !user.Confirmed {
		return deny(), TagLoginNotConfirmed
	}
	if !user.PhoneVerified {
		return deny(), TagLoginPhoneUnverified
	}
	if !user.WhatsAppVerified {
		return deny(), TagLoginWAUnverified
	}
	return issueChallenge(), TagLoginSendOTP
}

func (o *Orchestrator) nextRound(ctx context.Context, event *domain.DefineAuthChallengeEvent, user *domain.UserRecord) (domain.DefineAuthChallengeResponse, string) {
	session := event.Request.Session
	last := session[len(session)-1]

	if last.ChallengeName == domain.ChallengeNameCustom && last.ChallengeResult {
		if last.ChallengeMetadata == domain.MetadataOTPSignup {
			if err := o.finalizeSignup(ctx, event.UserPoolID, event.UserName, user); err != nil {
				slog.Error("signup finalization failed", "username", event.UserName, "err", err)
				return deny(), TagFinalizeFailed
			}
			if o.finalizePolicy == config.FinalizeDeny {
				// Verification is complete but this client must not receive a
				// session; the front-end treats this deny as signup success
				// and restarts on the login client.
				return deny(), TagSignupComplete
			}
		}
		return issueTokens(), TagIssueTokens
	}

	if len(session) < o.maxAttempts {
		return issueChallenge(), TagRetryChallenge
	}
	return deny(), TagTooManyAttempts
}

// finalizeSignup flips the verification flags exactly once. The directory is
// re-read immediately before writing so a concurrent round that already
// finalized turns this into a no-op instead of a duplicate patch.
func (o *Orchestrator) finalizeSignup(ctx context.Context, poolID, username string, stale *domain.UserRecord) error {
	fresh, err := o.dir.GetUser(ctx, poolID, username)
	if err != nil {
		fresh = stale
	}

	if !fresh.FullyVerified() || fresh.AuthPurpose != "" {
		err := o.dir.UpdateAttributes(ctx, poolID, username, map[string]string{
			domain.AttrPhoneNumberVerified: "true",
			domain.AttrWhatsAppVerified:    "true",
			domain.AttrAuthPurpose:         "",
		})
		if err != nil {
			return err
		}
	}

	if o.finalizePolicy == config.FinalizeDeny && !fresh.Confirmed {
		if err := o.dir.ConfirmSignUp(ctx, poolID, username); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) record(ctx context.Context, event *domain.DefineAuthChallengeEvent, resp domain.DefineAuthChallengeResponse, tag string, role domain.ClientRole) {
	if o.decisions == nil {
		return
	}
	now := time.Now().UTC()
	rec := &domain.DecisionRecord{
		DecisionID:         id.New(),
		PoolID:             event.UserPoolID,
		Username:           event.UserName,
		Tag:                tag,
		ClientRole:         string(role),
		SessionLen:         len(event.Request.Session),
		ChallengeName:      resp.ChallengeName,
		IssueTokens:        resp.IssueTokens,
		FailAuthentication: resp.FailAuthentication,
		CreatedAt:          now,
		ExpiresAt:          now.Add(o.decisionTTL).Unix(),
	}
	if err := o.decisions.Put(ctx, rec); err != nil {
		slog.Warn("decision audit write failed", "tag", tag, "err", err)
	}
}
