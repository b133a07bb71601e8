package domain

import "strings"

// Attribute names used by the identity directory. The directory stores all
// attributes as strings, booleans included ("true"/"false"); UserRecord is
// the single normalization point for that bag.
const (
	AttrPhoneNumber         = "phone_number"
	AttrPhoneNumberVerified = "phone_number_verified"
	AttrWhatsAppVerified    = "custom:whatsapp_verified"
	AttrAuthPurpose         = "custom:auth_purpose"
)

// AuthPurposeSignup is the legacy round signal set on an identity after
// directory confirmation and cleared when signup verification finalizes.
const AuthPurposeSignup = "signup_whatsapp_verify"

// PhoneAttrAliases are the attribute keys, in priority order, that may carry
// the phone number depending on which client created the identity.
var PhoneAttrAliases = []string{
	AttrPhoneNumber,
	"phoneNumber",
	"phone",
	"custom:phone",
	"custom:phoneNumber",
}

// UserRecord is the normalized view of a directory identity.
type UserRecord struct {
	Username         string
	Confirmed        bool
	PhoneVerified    bool
	WhatsAppVerified bool
	AuthPurpose      string
	Attributes       map[string]string
}

// FullyVerified reports whether both delivery-channel flags are set.
func (u *UserRecord) FullyVerified() bool {
	return u.PhoneVerified && u.WhatsAppVerified
}

// PhoneNumber returns the first phone number found across the accepted
// attribute aliases, or "" when none is present.
func (u *UserRecord) PhoneNumber() string {
	return PhoneFromAttributes(u.Attributes)
}

// PhoneFromAttributes extracts a phone number from a raw attribute bag.
func PhoneFromAttributes(attrs map[string]string) string {
	for _, key := range PhoneAttrAliases {
		if v := attrs[key]; v != "" {
			return v
		}
	}
	return ""
}

// AttrBool interprets a directory bool-as-string attribute value.
func AttrBool(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
