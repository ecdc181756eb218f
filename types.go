package accounts

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Notifier delivers a message to a user-controlled address. Delivery is
// best-effort: the core never rolls back a mutation because a send failed.
type Notifier interface {
	Send(ctx context.Context, address, subject, body string) error
}

// MessageCatalog resolves localized user-facing strings. Implementations
// fall back to a fixed locale when the requested one has no entry; a
// caller-supplied locale is never evaluated as a load path.
type MessageCatalog interface {
	Resolve(locale, key string) string
}

// OTPGenerator produces a random numeric code of the given length.
type OTPGenerator interface {
	Generate(length int) (string, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService issues and validates signed, expiring session tokens.
// Validate returns the embedded claims, ErrTokenExpired, or
// ErrTokenMalformed; there is no server-side revocation list.
type TokenService interface {
	Issue(accountID, email string) (string, error)
	Validate(token string) (*SessionClaims, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, address, subject, body string) error {
	return nil
}
