package domain

// Trigger event envelopes. The shapes mirror the identity directory's
// trigger payloads: each handler receives the full event and returns it with
// only its response section populated.

// CallerContext identifies the application client that started the attempt.
type CallerContext struct {
	AWSSDKVersion string `json:"awsSdkVersion,omitempty"`
	ClientID      string `json:"clientId"`
}

// TriggerHeader carries the fields common to every trigger event.
type TriggerHeader struct {
	Version       string        `json:"version,omitempty"`
	Region        string        `json:"region,omitempty"`
	UserPoolID    string        `json:"userPoolId"`
	TriggerSource string        `json:"triggerSource,omitempty"`
	UserName      string        `json:"userName" validate:"required"`
	CallerContext CallerContext `json:"callerContext"`
}

// DefineAuthChallengeEvent drives the orchestrator.
type DefineAuthChallengeEvent struct {
	TriggerHeader
	Request  DefineAuthChallengeRequest  `json:"request"`
	Response DefineAuthChallengeResponse `json:"response"`
}

type DefineAuthChallengeRequest struct {
	UserAttributes map[string]string `json:"userAttributes"`
	Session        []ChallengeRound  `json:"session"`
	ClientMetadata map[string]string `json:"clientMetadata,omitempty"`
	UserNotFound   bool              `json:"userNotFound"`
}

type DefineAuthChallengeResponse struct {
	ChallengeName      string `json:"challengeName,omitempty"`
	IssueTokens        bool   `json:"issueTokens"`
	FailAuthentication bool   `json:"failAuthentication"`
}

// CreateAuthChallengeEvent drives the issuer.
type CreateAuthChallengeEvent struct {
	TriggerHeader
	Request  CreateAuthChallengeRequest  `json:"request"`
	Response CreateAuthChallengeResponse `json:"response"`
}

type CreateAuthChallengeRequest struct {
	UserAttributes map[string]string `json:"userAttributes"`
	ChallengeName  string            `json:"challengeName,omitempty"`
	Session        []ChallengeRound  `json:"session"`
	ClientMetadata map[string]string `json:"clientMetadata,omitempty"`
	UserNotFound   bool              `json:"userNotFound"`
}

type CreateAuthChallengeResponse struct {
	PublicChallengeParameters  map[string]string `json:"publicChallengeParameters,omitempty"`
	PrivateChallengeParameters map[string]string `json:"privateChallengeParameters,omitempty"`
	ChallengeMetadata          string            `json:"challengeMetadata,omitempty"`
}

// VerifyAuthChallengeEvent drives the verifier.
type VerifyAuthChallengeEvent struct {
	TriggerHeader
	Request  VerifyAuthChallengeRequest  `json:"request"`
	Response VerifyAuthChallengeResponse `json:"response"`
}

type VerifyAuthChallengeRequest struct {
	UserAttributes             map[string]string `json:"userAttributes"`
	PrivateChallengeParameters map[string]string `json:"privateChallengeParameters"`
	ChallengeAnswer            string            `json:"challengeAnswer"`
	ClientMetadata             map[string]string `json:"clientMetadata,omitempty"`
	UserNotFound               bool              `json:"userNotFound"`
}

type VerifyAuthChallengeResponse struct {
	AnswerCorrect bool `json:"answerCorrect"`
}

// PreSignUpEvent drives the pre-registration gate.
type PreSignUpEvent struct {
	TriggerHeader
	Request  PreSignUpRequest  `json:"request"`
	Response PreSignUpResponse `json:"response"`
}

type PreSignUpRequest struct {
	UserAttributes map[string]string `json:"userAttributes"`
	ValidationData map[string]string `json:"validationData,omitempty"`
	ClientMetadata map[string]string `json:"clientMetadata,omitempty"`
}

type PreSignUpResponse struct {
	AutoConfirmUser bool `json:"autoConfirmUser"`
	AutoVerifyEmail bool `json:"autoVerifyEmail"`
	AutoVerifyPhone bool `json:"autoVerifyPhone"`
}

// PostConfirmationEvent fires after the directory confirms an identity.
type PostConfirmationEvent struct {
	TriggerHeader
	Request  PostConfirmationRequest  `json:"request"`
	Response PostConfirmationResponse `json:"response"`
}

type PostConfirmationRequest struct {
	UserAttributes map[string]string `json:"userAttributes"`
	ClientMetadata map[string]string `json:"clientMetadata,omitempty"`
}

type PostConfirmationResponse struct{}
