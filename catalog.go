package accounts

// FallbackLocale is used when a locale or key has no catalog entry.
const FallbackLocale = "en"

// Message keys resolved through the MessageCatalog.
const (
	MsgAccountCreated         = "ACCOUNT_CREATED"
	MsgAccountUpdated         = "ACCOUNT_UPDATED"
	MsgAlreadyRegistered      = "ALREADY_REGISTERED"
	MsgOTPVerified            = "OTP_VERIFIED"
	MsgOTPSent                = "OTP_SENT"
	MsgPasswordReset          = "PASSWORD_RESET"
	MsgLoginSuccess           = "LOGIN_SUCCESS"
	MsgTokenReset             = "TOKEN_RESET"
	MsgRegistrationOTPSubject = "REGISTRATION_OTP_SUBJECT"
	MsgRegistrationOTPBody    = "REGISTRATION_OTP_BODY"
	MsgResendOTPSubject       = "RESEND_OTP_SUBJECT"
	MsgResendOTPBody          = "RESEND_OTP_BODY"
	MsgForgotOTPSubject       = "FORGOT_OTP_SUBJECT"
	MsgForgotOTPBody          = "FORGOT_OTP_BODY"
)

var defaultMessages = map[string]map[string]string{
	"en": {
		MsgAccountCreated:         "account created, verification code sent",
		MsgAccountUpdated:         "account updated, pending re-verification",
		MsgAlreadyRegistered:      "account already registered",
		MsgOTPVerified:            "otp verified",
		MsgOTPSent:                "otp sent",
		MsgPasswordReset:          "password reset",
		MsgLoginSuccess:           "login success",
		MsgTokenReset:             "token reset",
		MsgRegistrationOTPSubject: "Complete your registration",
		MsgRegistrationOTPBody:    "Registration done successfully. Here is your OTP for verification: %s",
		MsgResendOTPSubject:       "OTP Verification",
		MsgResendOTPBody:          "Your new verification code: %s",
		MsgForgotOTPSubject:       "Forgot Password OTP",
		MsgForgotOTPBody:          "Your new OTP code for update password: %s",
	},
}

type mapCatalog struct {
	fallback string
	messages map[string]map[string]string
}

// NewMessageCatalog builds a catalog from per-locale message tables layered
// over the builtin English set. Unknown keys resolve to themselves so a
// missing translation is visible rather than silent.
func NewMessageCatalog(fallback string, messages map[string]map[string]string) MessageCatalog {
	if fallback == "" {
		fallback = FallbackLocale
	}

	merged := map[string]map[string]string{}
	for locale, table := range defaultMessages {
		copied := make(map[string]string, len(table))
		for k, v := range table {
			copied[k] = v
		}
		merged[locale] = copied
	}
	for locale, table := range messages {
		if merged[locale] == nil {
			merged[locale] = map[string]string{}
		}
		for k, v := range table {
			merged[locale][k] = v
		}
	}

	return &mapCatalog{fallback: fallback, messages: merged}
}

// DefaultCatalog returns the builtin catalog with the standard fallback.
func DefaultCatalog() MessageCatalog {
	return NewMessageCatalog(FallbackLocale, nil)
}

func (c *mapCatalog) Resolve(locale, key string) string {
	if table, ok := c.messages[locale]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	if table, ok := c.messages[c.fallback]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	return key
}
