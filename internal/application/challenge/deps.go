package challenge

import (
	"context"

	"github.com/wa-otp-auth/internal/domain"
)

// Directory is the minimal identity-directory surface the challenge flow
// requires. The production implementation is infrastructure/cognito.
type Directory interface {
	GetUser(ctx context.Context, poolID, username string) (*domain.UserRecord, error)
	UpdateAttributes(ctx context.Context, poolID, username string, attrs map[string]string) error
	ConfirmSignUp(ctx context.Context, poolID, username string) error
	DescribeClientName(ctx context.Context, poolID, clientID string) (string, error)
}

// DecisionLog records orchestrator decisions for observability. A nil log
// disables recording; a failing log never affects the decision.
type DecisionLog interface {
	Put(ctx context.Context, rec *domain.DecisionRecord) error
}
