package challenge

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wa-otp-auth/internal/domain"
)

// --- mocks ---

type mockDirectory struct{ mock.Mock }

func (m *mockDirectory) GetUser(ctx context.Context, poolID, username string) (*domain.UserRecord, error) {
	args := m.Called(ctx, poolID, username)
	if u, _ := args.Get(0).(*domain.UserRecord); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDirectory) UpdateAttributes(ctx context.Context, poolID, username string, attrs map[string]string) error {
	return m.Called(ctx, poolID, username, attrs).Error(0)
}

func (m *mockDirectory) ConfirmSignUp(ctx context.Context, poolID, username string) error {
	return m.Called(ctx, poolID, username).Error(0)
}

func (m *mockDirectory) DescribeClientName(ctx context.Context, poolID, clientID string) (string, error) {
	args := m.Called(ctx, poolID, clientID)
	return args.String(0), args.Error(1)
}

type mockDecisionLog struct{ mock.Mock }

func (m *mockDecisionLog) Put(ctx context.Context, rec *domain.DecisionRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, phoneNumber, code string) error {
	return m.Called(ctx, phoneNumber, code).Error(0)
}
