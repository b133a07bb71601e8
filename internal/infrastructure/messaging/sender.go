package messaging

import (
	"context"
	"fmt"

	"github.com/wa-otp-auth/internal/domain"
)

// Sender delivers a one-time passcode to a phone number. Implementations
// must return a *SendError for any delivery failure so the issuer can attach
// the gateway detail to its forced-fail response.
type Sender interface {
	Send(ctx context.Context, phoneNumber, code string) error
}

// ErrorKind classifies a delivery failure.
type ErrorKind string

const (
	KindNetwork     ErrorKind = "network"
	KindAPI         ErrorKind = "api"
	KindRateLimited ErrorKind = "rate_limited"
)

// SendError carries the gateway's status and detail for a failed delivery.
type SendError struct {
	Kind       ErrorKind
	StatusCode int
	Response   string
	Data       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send failed (%s): status=%d response=%s data=%s",
		e.Kind, e.StatusCode, e.Response, e.Data)
}

func (e *SendError) Unwrap() error { return domain.ErrSendFailed }
