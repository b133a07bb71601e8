package http

import (
	"github.com/wa-otp-auth/internal/application/challenge"
	"github.com/wa-otp-auth/internal/infrastructure/messaging"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Directory   challenge.Directory
	Sender      messaging.Sender
	DecisionLog challenge.DecisionLog // nil disables the audit trail
}
