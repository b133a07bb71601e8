package signup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wa-otp-auth/internal/domain"
)

// Directory is the minimal identity-directory surface the signup triggers
// require.
type Directory interface {
	GetUser(ctx context.Context, poolID, username string) (*domain.UserRecord, error)
	UpdateAttributes(ctx context.Context, poolID, username string, attrs map[string]string) error
}

// Service implements the pre-registration gate and the post-confirmation
// hook.
type Service struct {
	dir Directory
}

func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

// PreSignUp validates that a usable phone number is present at creation
// time; identity creation is rejected otherwise. The identity stays
// unconfirmed and nothing is auto-verified: confirmation runs through the
// directory's own out-of-band mechanism.
func (s *Service) PreSignUp(event *domain.PreSignUpEvent) (domain.PreSignUpResponse, error) {
	if domain.PhoneFromAttributes(event.Request.UserAttributes) == "" {
		slog.Info("signup rejected", "tag", "presignup_no_phone", "username", event.UserName)
		return domain.PreSignUpResponse{}, fmt.Errorf("phone number is required for WhatsApp OTP: %w", domain.ErrPhoneMissing)
	}

	slog.Info("signup accepted", "tag", "presignup_ok", "username", event.UserName)
	return domain.PreSignUpResponse{
		AutoConfirmUser: false,
		AutoVerifyEmail: false,
		AutoVerifyPhone: false,
	}, nil
}

// PostConfirmation marks a freshly confirmed identity as awaiting WhatsApp
// verification by setting the auth-purpose signal. Best effort: a failure
// here must never block the confirmation that already happened.
func (s *Service) PostConfirmation(ctx context.Context, event *domain.PostConfirmationEvent) domain.PostConfirmationResponse {
	user, err := s.dir.GetUser(ctx, event.UserPoolID, event.UserName)
	if err != nil {
		slog.Error("post-confirmation lookup failed", "username", event.UserName, "err", err)
		return domain.PostConfirmationResponse{}
	}
	if !user.Confirmed {
		slog.Warn("post-confirmation fired for unconfirmed identity", "username", event.UserName)
		return domain.PostConfirmationResponse{}
	}

	err = s.dir.UpdateAttributes(ctx, event.UserPoolID, event.UserName, map[string]string{
		domain.AttrAuthPurpose: domain.AuthPurposeSignup,
	})
	if err != nil {
		slog.Error("failed to set auth purpose", "username", event.UserName, "err", err)
		return domain.PostConfirmationResponse{}
	}

	slog.Info("auth purpose set", "tag", "post_set_purpose", "username", event.UserName)
	return domain.PostConfirmationResponse{}
}
