package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Finalization policies for a correct signup-round answer. The two observed
// deployments disagree on whether signup verification should grant a session
// or force a fresh login attempt, so the choice is explicit configuration.
const (
	FinalizeIssueTokens = "issue-tokens"
	FinalizeDeny        = "deny"
)

// Delivery channels for the one-time passcode.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	OTPExpiryMinutes     int
	MaxLoginAttempts     int
	SignupFinalizePolicy string
	OTPChannel           string

	SendZenAPIURL        string
	SendZenAPIKey        string
	WhatsAppFrom         string
	WhatsAppTemplateName string
	WhatsAppLangCode     string

	SNSRegion string

	// DecisionTable enables the DynamoDB decision audit log when non-empty.
	DecisionTable   string
	DecisionTTLDays int

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		OTPExpiryMinutes:     getEnvInt("OTP_EXPIRY_MINUTES", 5),
		MaxLoginAttempts:     getEnvInt("MAX_LOGIN_ATTEMPTS", 3),
		SignupFinalizePolicy: getEnv("SIGNUP_FINALIZE_POLICY", FinalizeIssueTokens),
		OTPChannel:           getEnv("OTP_CHANNEL", ChannelWhatsApp),

		SendZenAPIURL:        getEnv("SENDZEN_API_URL", ""),
		SendZenAPIKey:        getEnv("SENDZEN_API_KEY", ""),
		WhatsAppFrom:         getEnv("WHATSAPP_FROM", ""),
		WhatsAppTemplateName: getEnv("WHATSAPP_TEMPLATE_NAME", ""),
		WhatsAppLangCode:     getEnv("WHATSAPP_LANG_CODE", "en"),

		SNSRegion: getEnv("SNS_REGION", getEnv("AWS_REGION", "eu-west-1")),

		DecisionTable:   getEnv("DYNAMO_TABLE_DECISIONS", ""),
		DecisionTTLDays: getEnvInt("DECISION_TTL_DAYS", 30),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Validate checks settings whose absence is a startup error, not a
// per-request error. The issuer cannot operate without a working delivery
// channel configuration.
func (c *Config) Validate() error {
	switch c.SignupFinalizePolicy {
	case FinalizeIssueTokens, FinalizeDeny:
	default:
		return fmt.Errorf("SIGNUP_FINALIZE_POLICY must be %q or %q, got %q",
			FinalizeIssueTokens, FinalizeDeny, c.SignupFinalizePolicy)
	}

	if c.OTPExpiryMinutes <= 0 {
		return fmt.Errorf("OTP_EXPIRY_MINUTES must be positive, got %d", c.OTPExpiryMinutes)
	}
	if c.MaxLoginAttempts <= 0 {
		return fmt.Errorf("MAX_LOGIN_ATTEMPTS must be positive, got %d", c.MaxLoginAttempts)
	}

	switch c.OTPChannel {
	case ChannelWhatsApp:
		missing := []string{}
		if c.SendZenAPIURL == "" {
			missing = append(missing, "SENDZEN_API_URL")
		}
		if c.SendZenAPIKey == "" {
			missing = append(missing, "SENDZEN_API_KEY")
		}
		if c.WhatsAppFrom == "" {
			missing = append(missing, "WHATSAPP_FROM")
		}
		if c.WhatsAppTemplateName == "" {
			missing = append(missing, "WHATSAPP_TEMPLATE_NAME")
		}
		if c.WhatsAppLangCode == "" {
			missing = append(missing, "WHATSAPP_LANG_CODE")
		}
		if len(missing) > 0 {
			return fmt.Errorf("whatsapp channel config incomplete: %s not set", strings.Join(missing, ", "))
		}
	case ChannelSMS:
		if c.SNSRegion == "" {
			return fmt.Errorf("sms channel requires SNS_REGION")
		}
	default:
		return fmt.Errorf("OTP_CHANNEL must be %q or %q, got %q", ChannelWhatsApp, ChannelSMS, c.OTPChannel)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
