package accounts

const (
	// DefaultOTPLength is the number of digits in a generated OTP
	DefaultOTPLength = 6
	// DefaultTokenExpiration is the token TTL in hours
	DefaultTokenExpiration = 24
	// DefaultBcryptCost is the work factor applied to password hashes
	DefaultBcryptCost = 14
)

// Config holds lifecycle options. An explicit value is passed at
// construction; there is no process-global configuration.
type Config struct {
	// SigningKey is the shared HMAC secret for session tokens
	SigningKey string
	// TokenExpiration is the token TTL in hours
	TokenExpiration int
	Issuer          string
	Audience        []string
	// OTPLength is the number of digits in generated codes
	OTPLength int
	// BcryptCost is the bcrypt work factor; lower it in tests
	BcryptCost int
	// DefaultLocale is used when an operation carries no locale
	DefaultLocale string
	// CustomTemplates allows callers to supply their own OTP message body
	CustomTemplates bool
	// UseHashID derives the account UUID deterministically from the email
	UseHashID bool
}

// WithDefaults returns a copy with unset fields normalized.
func (c Config) WithDefaults() Config {
	if c.OTPLength <= 0 {
		c.OTPLength = DefaultOTPLength
	}
	if c.TokenExpiration == 0 {
		c.TokenExpiration = DefaultTokenExpiration
	}
	if c.BcryptCost <= 0 {
		c.BcryptCost = DefaultBcryptCost
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = FallbackLocale
	}
	return c
}
