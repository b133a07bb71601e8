package challenge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wa-otp-auth/internal/config"
	"github.com/wa-otp-auth/internal/domain"
)

const (
	testPool         = "pool-1"
	testUser         = "alice"
	testSignupClient = "signup-client-id"
	testLoginClient  = "login-client-id"
)

// newOrchestrator builds an orchestrator whose role resolver is pre-seeded,
// so tests control the role without registry lookups.
func newOrchestrator(dir *mockDirectory, decisions DecisionLog, policy string) *Orchestrator {
	cache := NewRoleCache()
	cache.Set(testSignupClient, domain.RoleSignup)
	cache.Set(testLoginClient, domain.RoleLogin)
	cfg := &config.Config{
		MaxLoginAttempts:     3,
		SignupFinalizePolicy: policy,
		DecisionTTLDays:      30,
	}
	return NewOrchestrator(dir, NewRoleResolver(dir, cache), decisions, cfg)
}

func defineEvent(clientID string, session ...domain.ChallengeRound) *domain.DefineAuthChallengeEvent {
	return &domain.DefineAuthChallengeEvent{
		TriggerHeader: domain.TriggerHeader{
			UserPoolID:    testPool,
			UserName:      testUser,
			CallerContext: domain.CallerContext{ClientID: clientID},
		},
		Request: domain.DefineAuthChallengeRequest{Session: session},
	}
}

func userWith(confirmed, phoneVerified, waVerified bool) *domain.UserRecord {
	return &domain.UserRecord{
		Username:         testUser,
		Confirmed:        confirmed,
		PhoneVerified:    phoneVerified,
		WhatsAppVerified: waVerified,
		Attributes:       map[string]string{domain.AttrPhoneNumber: "+14155550100"},
	}
}

func round(result bool, metadata string) domain.ChallengeRound {
	return domain.ChallengeRound{
		ChallengeName:     domain.ChallengeNameCustom,
		ChallengeResult:   result,
		ChallengeMetadata: metadata,
	}
}

func assertDeny(t *testing.T, resp domain.DefineAuthChallengeResponse) {
	t.Helper()
	assert.False(t, resp.IssueTokens)
	assert.True(t, resp.FailAuthentication)
	assert.Empty(t, resp.ChallengeName)
}

func assertChallenge(t *testing.T, resp domain.DefineAuthChallengeResponse) {
	t.Helper()
	assert.False(t, resp.IssueTokens)
	assert.False(t, resp.FailAuthentication)
	assert.Equal(t, domain.ChallengeNameCustom, resp.ChallengeName)
}

func assertTokens(t *testing.T, resp domain.DefineAuthChallengeResponse) {
	t.Helper()
	assert.True(t, resp.IssueTokens)
	assert.False(t, resp.FailAuthentication)
	assert.Empty(t, resp.ChallengeName)
}

// --- guard clauses ---

func TestDefine_UserNotFound_Denies(t *testing.T) {
	dir := &mockDirectory{}
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	event := defineEvent(testSignupClient)
	event.Request.UserNotFound = true

	assertDeny(t, o.Define(context.Background(), event))
	dir.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestDefine_MissingPool_Denies(t *testing.T) {
	dir := &mockDirectory{}
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	event := defineEvent(testSignupClient)
	event.UserPoolID = ""

	assertDeny(t, o.Define(context.Background(), event))
	dir.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestDefine_UnknownClientRole_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("DescribeClientName", mock.Anything, testPool, "mystery-client").Return("telemetry-app", nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertDeny(t, o.Define(context.Background(), defineEvent("mystery-client")))
	dir.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestDefine_DirectoryLookupFailure_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(nil, domain.ErrDirectoryLookup)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertDeny(t, o.Define(context.Background(), defineEvent(testSignupClient)))
}

// --- first round, signup role ---

func TestDefine_Signup_FirstRound_IssuesChallenge(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, false, false), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertChallenge(t, o.Define(context.Background(), defineEvent(testSignupClient)))
}

func TestDefine_Signup_NotConfirmed_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(false, false, false), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertDeny(t, o.Define(context.Background(), defineEvent(testSignupClient)))
}

func TestDefine_Signup_NotConfirmed_DenyPolicy_IssuesChallenge(t *testing.T) {
	// Under the deny finalization policy the signup round doubles as the
	// confirmation step, so unconfirmed identities are let through.
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(false, false, false), nil)
	o := newOrchestrator(dir, nil, config.FinalizeDeny)

	assertChallenge(t, o.Define(context.Background(), defineEvent(testSignupClient)))
}

func TestDefine_Signup_AlreadyVerified_IssuesTokensImmediately(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertTokens(t, o.Define(context.Background(), defineEvent(testSignupClient)))
}

func TestDefine_Signup_AlreadyVerified_DenyPolicy_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeDeny)

	assertDeny(t, o.Define(context.Background(), defineEvent(testSignupClient)))
}

// --- first round, login role ---

func TestDefine_Login_FullyVerified_IssuesChallenge(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertChallenge(t, o.Define(context.Background(), defineEvent(testLoginClient)))
}

func TestDefine_Login_WhatsAppNotVerified_Denies(t *testing.T) {
	// Everything else verified: the channel flag alone blocks login.
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, false), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertDeny(t, o.Define(context.Background(), defineEvent(testLoginClient)))
}

func TestDefine_Login_PhoneNotVerified_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, false, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertDeny(t, o.Define(context.Background(), defineEvent(testLoginClient)))
}

func TestDefine_Login_NotConfirmed_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(false, true, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	assertDeny(t, o.Define(context.Background(), defineEvent(testLoginClient)))
}

// --- subsequent rounds ---

func TestDefine_SignupCorrect_FinalizesAndIssuesTokens(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, false, false), nil)
	dir.On("UpdateAttributes", mock.Anything, testPool, testUser, map[string]string{
		domain.AttrPhoneNumberVerified: "true",
		domain.AttrWhatsAppVerified:    "true",
		domain.AttrAuthPurpose:         "",
	}).Return(nil).Once()
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	resp := o.Define(context.Background(), defineEvent(testSignupClient, round(true, domain.MetadataOTPSignup)))

	assertTokens(t, resp)
	dir.AssertExpectations(t)
}

func TestDefine_SignupCorrect_AlreadyPatched_SkipsWrite(t *testing.T) {
	// The fresh read shows another invocation already finalized: no second
	// patch is issued, but tokens still come out.
	user := userWith(true, true, true)
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(user, nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	resp := o.Define(context.Background(), defineEvent(testSignupClient, round(true, domain.MetadataOTPSignup)))

	assertTokens(t, resp)
	dir.AssertNotCalled(t, "UpdateAttributes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDefine_SignupCorrect_WriteFailure_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, false, false), nil)
	dir.On("UpdateAttributes", mock.Anything, testPool, testUser, mock.Anything).Return(domain.ErrDirectoryWrite)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	resp := o.Define(context.Background(), defineEvent(testSignupClient, round(true, domain.MetadataOTPSignup)))

	assertDeny(t, resp)
}

func TestDefine_SignupCorrect_DenyPolicy_ConfirmsThenDenies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(false, false, false), nil)
	dir.On("UpdateAttributes", mock.Anything, testPool, testUser, mock.Anything).Return(nil).Once()
	dir.On("ConfirmSignUp", mock.Anything, testPool, testUser).Return(nil).Once()
	o := newOrchestrator(dir, nil, config.FinalizeDeny)

	resp := o.Define(context.Background(), defineEvent(testSignupClient, round(true, domain.MetadataOTPSignup)))

	// Verification is complete; the deny is the signal to restart on the
	// login client.
	assertDeny(t, resp)
	dir.AssertExpectations(t)
}

func TestDefine_LoginCorrect_IssuesTokensWithoutWrites(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	resp := o.Define(context.Background(), defineEvent(testLoginClient, round(true, domain.MetadataOTPLogin)))

	assertTokens(t, resp)
	dir.AssertNotCalled(t, "UpdateAttributes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	dir.AssertNotCalled(t, "ConfirmSignUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestDefine_WrongAnswer_Retries(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	resp := o.Define(context.Background(), defineEvent(testLoginClient, round(false, domain.MetadataOTPLogin)))

	assertChallenge(t, resp)
}

func TestDefine_WrongAnswer_AtAttemptCeiling_Denies(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)
	o := newOrchestrator(dir, nil, config.FinalizeIssueTokens)

	session := []domain.ChallengeRound{
		round(false, domain.MetadataOTPLogin),
		round(false, domain.MetadataOTPLogin),
		round(false, domain.MetadataOTPLogin),
	}
	resp := o.Define(context.Background(), defineEvent(testLoginClient, session...))

	assertDeny(t, resp)
}

// --- decision audit ---

func TestDefine_RecordsDecision(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)

	log := &mockDecisionLog{}
	log.On("Put", mock.Anything, mock.MatchedBy(func(rec *domain.DecisionRecord) bool {
		return rec.Tag == TagLoginSendOTP &&
			rec.Username == testUser &&
			rec.SessionLen == 0 &&
			rec.ChallengeName == domain.ChallengeNameCustom &&
			rec.DecisionID != "" &&
			rec.ExpiresAt > rec.CreatedAt.Unix()
	})).Return(nil).Once()

	o := newOrchestrator(dir, log, config.FinalizeIssueTokens)
	assertChallenge(t, o.Define(context.Background(), defineEvent(testLoginClient)))

	log.AssertExpectations(t)
}

func TestDefine_AuditFailure_DoesNotChangeDecision(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetUser", mock.Anything, testPool, testUser).Return(userWith(true, true, true), nil)

	log := &mockDecisionLog{}
	log.On("Put", mock.Anything, mock.Anything).Return(assert.AnError)

	o := newOrchestrator(dir, log, config.FinalizeIssueTokens)
	assertChallenge(t, o.Define(context.Background(), defineEvent(testLoginClient)))
}
