package domain

// ClientRole classifies the calling application. It selects which policy
// branch of the orchestrator applies to the authentication attempt.
type ClientRole string

const (
	RoleSignup  ClientRole = "SIGNUP"
	RoleLogin   ClientRole = "LOGIN"
	RoleUnknown ClientRole = "UNKNOWN"
)

// ChallengeNameCustom is the only challenge type this service issues.
const ChallengeNameCustom = "CUSTOM_CHALLENGE"

// Round labels recorded as challenge metadata. The orchestrator reads the
// label of the previous round to decide how to finish the attempt.
const (
	MetadataOTPSignup = "OTP_SIGNUP"
	MetadataOTPLogin  = "OTP_LOGIN"
)

// Private challenge parameter keys. These are carried between the issuer and
// the verifier by the directory and are never exposed to the end user.
const (
	ParamAnswer     = "answer"
	ParamIssuedAt   = "issuedAt"
	ParamShouldFail = "shouldFail"
)

// ChallengeRound is one element of the ordered session history for the
// current authentication attempt. The session length is the attempt count.
type ChallengeRound struct {
	ChallengeName     string `json:"challengeName"`
	ChallengeResult   bool   `json:"challengeResult"`
	ChallengeMetadata string `json:"challengeMetadata,omitempty"`
}

// Public error codes attached to a forced-fail issuance so the front-end can
// tell the user what went wrong without ever seeing the code.
const (
	PublicErrUserNotFound   = "USER_NOT_FOUND"
	PublicErrNoPhone        = "NO_PHONE"
	PublicErrBadPhoneFormat = "BAD_PHONE_FORMAT"
	PublicErrVerifyFirst    = "VERIFY_WHATSAPP_FIRST"
	PublicErrSendFailed     = "WHATSAPP_SEND_FAILED"
	PublicErrUnexpected     = "UNEXPECTED"
)
