package domain

import "time"

// DecisionRecord is one orchestrator decision persisted to the audit log.
// Records carry no passcodes and no private challenge parameters.
// PK: decision_id. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type DecisionRecord struct {
	DecisionID         string    `json:"decision_id" dynamodbav:"decision_id"`
	PoolID             string    `json:"pool_id" dynamodbav:"pool_id"`
	Username           string    `json:"username" dynamodbav:"username"`
	Tag                string    `json:"tag" dynamodbav:"tag"`
	ClientRole         string    `json:"client_role,omitempty" dynamodbav:"client_role"`
	SessionLen         int       `json:"session_len" dynamodbav:"session_len"`
	ChallengeName      string    `json:"challenge_name,omitempty" dynamodbav:"challenge_name"`
	IssueTokens        bool      `json:"issue_tokens" dynamodbav:"issue_tokens"`
	FailAuthentication bool      `json:"fail_authentication" dynamodbav:"fail_authentication"`
	CreatedAt          time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt          int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
