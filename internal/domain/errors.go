package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so the orchestrator can map failures to denial
// reasons without leaking infrastructure details. None of them crosses the
// trigger boundary: every failure surfaces as a denial decision.
var (
	ErrNoSuchUser      = errors.New("no such user")
	ErrPhoneMissing    = errors.New("phone number missing")
	ErrSendFailed      = errors.New("message send failed")
	ErrDirectoryLookup = errors.New("directory lookup failed")
	ErrDirectoryWrite  = errors.New("directory write failed")
)
