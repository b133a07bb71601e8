package challenge

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/wa-otp-auth/internal/domain"
	"github.com/wa-otp-auth/internal/infrastructure/messaging"
	"github.com/wa-otp-auth/internal/pkg/otp"
	"github.com/wa-otp-auth/internal/pkg/phone"
)

// Issuer generates a fresh passcode for every round, binds it to its issue
// time in the private challenge parameters, and hands it to the messaging
// gateway. A failure at any step returns a forced-fail response: the
// verifier sees the shouldFail sentinel and rejects the round before
// looking at any code.
type Issuer struct {
	sender messaging.Sender
	roles  *RoleResolver
	now    func() time.Time
}

func NewIssuer(sender messaging.Sender, roles *RoleResolver) *Issuer {
	return &Issuer{sender: sender, roles: roles, now: time.Now}
}

func forcedFail(code, message string) domain.CreateAuthChallengeResponse {
	return domain.CreateAuthChallengeResponse{
		PublicChallengeParameters: map[string]string{
			"error":   code,
			"message": message,
		},
		PrivateChallengeParameters: map[string]string{
			domain.ParamShouldFail: "true",
		},
	}
}

// Create issues one challenge round. Like Define, it never returns an
// error across the trigger boundary.
func (i *Issuer) Create(ctx context.Context, event *domain.CreateAuthChallengeEvent) domain.CreateAuthChallengeResponse {
	if event.Request.UserNotFound {
		slog.Info("challenge not issued", "tag", "create_user_not_found")
		return forcedFail(domain.PublicErrUserNotFound, "Account does not exist")
	}

	attrs := event.Request.UserAttributes
	number := domain.PhoneFromAttributes(attrs)
	if number == "" {
		slog.Info("challenge not issued", "tag", "create_no_phone", "username", event.UserName)
		return forcedFail(domain.PublicErrNoPhone, "Phone number is required")
	}
	if !phone.IsE164(number) {
		slog.Info("challenge not issued", "tag", "create_bad_phone_format", "username", event.UserName)
		return forcedFail(domain.PublicErrBadPhoneFormat, "Phone number format is invalid")
	}

	role := i.roles.Resolve(ctx, event.UserPoolID, event.CallerContext.ClientID)
	phoneVerified := domain.AttrBool(attrs[domain.AttrPhoneNumberVerified])
	waVerified := domain.AttrBool(attrs[domain.AttrWhatsAppVerified])
	fullyVerified := phoneVerified && waVerified
	isSignupRound := role == domain.RoleSignup && !fullyVerified

	// A login-flow client must never receive a code for an identity that has
	// not finished signup verification.
	if event.Request.ClientMetadata["flow"] == "login" && !fullyVerified {
		slog.Info("challenge not issued", "tag", "create_block_unverified_login", "username", event.UserName)
		return forcedFail(domain.PublicErrVerifyFirst, "Please complete WhatsApp verification from signup.")
	}

	code, err := otp.New()
	if err != nil {
		slog.Error("otp generation failed", "err", err)
		return forcedFail(domain.PublicErrUnexpected, "Unexpected error")
	}
	issuedAt := strconv.FormatInt(i.now().UnixMilli(), 10)

	metadata := domain.MetadataOTPLogin
	if isSignupRound {
		metadata = domain.MetadataOTPSignup
	}

	if err := i.sender.Send(ctx, number, code); err != nil {
		var sendErr *messaging.SendError
		if errors.As(err, &sendErr) {
			slog.Error("otp delivery failed",
				"tag", "create_send_failed",
				"username", event.UserName,
				"kind", sendErr.Kind,
				"statuscode", sendErr.StatusCode,
				"response", sendErr.Response,
			)
		} else {
			slog.Error("otp delivery failed", "tag", "create_send_failed", "username", event.UserName, "err", err)
		}
		return forcedFail(domain.PublicErrSendFailed, "Could not send code via WhatsApp")
	}

	slog.Info("otp sent", "tag", "create_ok", "username", event.UserName, "mode", metadata)
	return domain.CreateAuthChallengeResponse{
		PrivateChallengeParameters: map[string]string{
			domain.ParamAnswer:   code,
			domain.ParamIssuedAt: issuedAt,
		},
		PublicChallengeParameters: map[string]string{
			"mode": metadata,
		},
		ChallengeMetadata: metadata,
	}
}
